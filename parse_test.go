package tgrapher

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/go-yaml/yaml"
	"github.com/stretchr/testify/assert"
)

func TestParseFlags(t *testing.T) {
	tt := []struct {
		Name     string
		Args     []string
		Expected []ConfigOption
		Error    bool
	}{
		{Name: "positional", Args: []string{"run.root", "data", "x", "y"}, Expected: []ConfigOption{Input("run.root"), Table("data"), XColumn("x"), YColumn("y")}},
		{Name: "interspersed positional", Args: []string{"run.root", "--batch", "data", "x", "y"}, Expected: []ConfigOption{Batch(), Input("run.root"), Table("data"), XColumn("x"), YColumn("y")}},
		{Name: "too many positional", Args: []string{"a.root", "t", "x", "y", "z"}, Error: true},
		{Name: "xerror", Args: []string{"--xerror", "ex"}, Expected: []ConfigOption{XError("ex")}},
		{Name: "yerror", Args: []string{"--yerror", "ey"}, Expected: []ConfigOption{YError("ey")}},
		{Name: "gate", Args: []string{"--gate", "energy:100:200"}, Expected: []ConfigOption{Gate("energy:100:200")}},
		{Name: "gate union", Args: []string{"--gate", "energy:100:200", "--gate", "energy:300:400"}, Expected: []ConfigOption{Gate("energy:100:200"), Gate("energy:300:400")}},
		{Name: "gate-mode", Args: []string{"--gate-mode", "all"}, Expected: []ConfigOption{GateMode("all")}},
		{Name: "opt", Args: []string{"--opt", "ALP"}, Expected: []ConfigOption{DrawOption("ALP")}},
		{Name: "cut", Args: []string{"--cut", "0,0 1,0 1,1"}, Expected: []ConfigOption{Cut("0,0 1,0 1,1")}},
		{Name: "batch", Args: []string{"--batch"}, Expected: []ConfigOption{Batch()}},
		{Name: "batch false", Args: []string{"--batch=false"}, Expected: []ConfigOption{}},
		{Name: "plot", Args: []string{"--plot", "out.png"}, Expected: []ConfigOption{Plot("out.png")}},
		{Name: "width", Args: []string{"--width", "10cm"}, Expected: []ConfigOption{Width("10cm")}},
		{Name: "height", Args: []string{"--height", "300pt"}, Expected: []ConfigOption{Height("300pt")}},
		{Name: "save", Args: []string{"--save", "out.root", "--name", "g1"}, Expected: []ConfigOption{Save("out.root"), GraphName("g1")}},
		{Name: "stats", Args: []string{"--stats"}, Expected: []ConfigOption{Stats()}},
		{Name: "list", Args: []string{"--list"}, Expected: []ConfigOption{List()}},
		{Name: "watch", Args: []string{"--watch"}, Expected: []ConfigOption{Watch()}},
		{Name: "delimiter", Args: []string{"--delimiter", ";"}, Expected: []ConfigOption{Delimiter(";")}},
		{Name: "log-level", Args: []string{"--log-level", "debug"}, Expected: []ConfigOption{LogLevel("debug")}},
		{Name: "log-format", Args: []string{"--log-format", "json"}, Expected: []ConfigOption{LogFormat("json")}},
		{Name: "rollbar-token", Args: []string{"--rollbar-token", "abc"}, Expected: []ConfigOption{RollbarToken("abc")}},
		{Name: "error on unknown flag", Args: []string{"--does-not-exist"}, Error: true},
		{Name: "error on missing flag argument", Args: []string{"--xerror"}, Error: true},
	}

	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			pf := createFlagSet()
			options, err := parse(tc.Args, pf)
			if tc.Error {
				assert.Error(t, err)
			} else {
				expected, received := createComparisonConfigs(tc.Expected, options)
				assert.Equal(t, expected, received)
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseYAML(t *testing.T) {
	tt := []struct {
		Name     string
		Yaml     map[string]interface{}
		Expected []ConfigOption
		Error    bool
	}{
		{Name: "positional keys", Yaml: map[string]interface{}{"input": "run.root", "table": "data", "x": "energy", "y": "tof"}, Expected: []ConfigOption{Input("run.root"), Table("data"), XColumn("energy"), YColumn("tof")}},
		{Name: "xerror", Yaml: map[string]interface{}{"xerror": "ex"}, Expected: []ConfigOption{XError("ex")}},
		{Name: "gate", Yaml: map[string]interface{}{"gate": "energy:1:2"}, Expected: []ConfigOption{Gate("energy:1:2")}},
		{Name: "multiple gates", Yaml: map[string]interface{}{"gate": []string{"energy:1:2", "tof:3:4"}}, Expected: []ConfigOption{Gate("energy:1:2"), Gate("tof:3:4")}},
		{Name: "gate-mode", Yaml: map[string]interface{}{"gate-mode": "all"}, Expected: []ConfigOption{GateMode("all")}},
		{Name: "cut", Yaml: map[string]interface{}{"cut": "0,0 1,0 1,1"}, Expected: []ConfigOption{Cut("0,0 1,0 1,1")}},
		{Name: "batch", Yaml: map[string]interface{}{"batch": true}, Expected: []ConfigOption{Batch()}},
		{Name: "batch false", Yaml: map[string]interface{}{"batch": false}, Expected: []ConfigOption{}},
		{Name: "width int", Yaml: map[string]interface{}{"width": 300}, Expected: []ConfigOption{Width("300")}},
		{Name: "save", Yaml: map[string]interface{}{"save": "out.json", "name": "g"}, Expected: []ConfigOption{Save("out.json"), GraphName("g")}},
		{Name: "stats", Yaml: map[string]interface{}{"stats": true}, Expected: []ConfigOption{Stats()}},
		{Name: "error on unknown key", Yaml: map[string]interface{}{"does-not-exist": "test"}, Error: true},
		{Name: "error on unknown list", Yaml: map[string]interface{}{"save": []string{"a", "b"}}, Error: true},
	}

	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			f, err := ioutil.TempFile("", "tgcfg")
			if err != nil {
				t.Fatalf("unexpected error creating temp config file: %s", err)
			}
			defer os.Remove(f.Name())

			y, err := yaml.Marshal(tc.Yaml)
			if err != nil {
				t.Fatalf("unexpected error marshaling YAML: %s", err)
			}
			if _, err := f.Write(y); err != nil {
				t.Fatalf("unexpected error writing to file: %s", err)
			}
			if err := f.Close(); err != nil {
				t.Fatalf("unexpected error closing file: %s", err)
			}

			pf := createFlagSet()
			options, err := parse([]string{"-c", f.Name()}, pf)
			if tc.Error {
				assert.Error(t, err)
			} else {
				expected, received := createComparisonConfigs(tc.Expected, options)
				assert.Equal(t, expected, received)
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseConfigAndFlags(t *testing.T) {
	f, err := ioutil.TempFile("", "tgcfg")
	if err != nil {
		t.Fatalf("unexpected error creating temp config file: %s", err)
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString("gate:\n  - energy:1:2\nopt: AL\n"); err != nil {
		t.Fatalf("unexpected error writing to file: %s", err)
	}
	f.Close()

	options, err := parse([]string{"run.csv", "-", "x", "y", "-c", f.Name(), "--gate", "energy:5:6"}, createFlagSet())
	assert.NoError(t, err)
	expected, received := createComparisonConfigs([]ConfigOption{
		Gate("energy:1:2"), DrawOption("AL"), Gate("energy:5:6"),
		Input("run.csv"), Table("-"), XColumn("x"), YColumn("y"),
	}, options)
	assert.Equal(t, expected, received)
}

func createComparisonConfigs(expected []ConfigOption, received []ConfigOption) (Config, Config) {
	expectedConfig := Config{}
	for _, eo := range expected {
		eo(&expectedConfig)
	}
	receivedConfig := Config{}
	for _, to := range received {
		to(&receivedConfig)
	}
	// positional options count how many arguments they consumed
	expectedConfig.positional, receivedConfig.positional = 0, 0
	return expectedConfig, receivedConfig
}
