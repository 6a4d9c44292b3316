package tgrapher

import (
	"fmt"
	"io/ioutil"
	"os"
	"strconv"

	"github.com/go-yaml/yaml"
	"github.com/spf13/pflag"
)

type options struct {
	options []ConfigOption
	err     error
}

// listFieldsYAML captures keys that may be given as a list in a config file
type listFieldsYAML struct {
	Gate []string `yaml:"gate"`
}

// ParseCommandLine configures the grapher from command line options or from
// a YAML configuration file passed with the -c flag.  Returns a slice of
// functional options that can be applied to the configuration.
func ParseCommandLine() ([]ConfigOption, error) {
	pf := createFlagSet()
	return parse(os.Args[1:], pf)
}

func parse(args []string, pf *pflag.FlagSet) ([]ConfigOption, error) {
	options := options{}
	if err := pf.ParseAll(args, parseFlag(&options)); err != nil {
		return options.options, err
	}
	if options.err != nil {
		return options.options, options.err
	}
	if pf.NArg() > 4 {
		return options.options, fmt.Errorf("expected 4 arguments, received %d", pf.NArg())
	}
	for _, arg := range pf.Args() {
		options.options = append(options.options, Positional(arg))
	}
	return options.options, nil
}

func createFlagSet() *pflag.FlagSet {
	pf := pflag.NewFlagSet("tgrapher", pflag.ContinueOnError)
	pf.Usage = func() {
		fmt.Printf("Usage of tgrapher:\ntgrapher <filename> <table> <x_column> <y_column> [options]\n")
		fmt.Printf("\nInput files may be ROOT (.root, table is the tree name), SQLite (.db, .sqlite) or delimited text (.csv, .tsv).\n")
		fmt.Printf("\n%s", pf.FlagUsagesWrapped(10))
	}

	pf.StringP("config", "c", "", "Use yaml configuration file")
	pf.String("xerror", "", "Name of the column containing the x-axis errors")
	pf.String("yerror", "", "Name of the column containing the y-axis errors")
	pf.StringArray("gate", nil, "Gate the graph on a column with the given lower/upper limits, as column:low:high.  Repeat to add ranges; ranges on one column are combined as a union.")
	pf.String("gate-mode", "any", "Combine gates on different columns with any (a row passes one gate) or all (a row passes every gate)")
	pf.String("opt", "AP", "Draw option.  A axes, P markers, * star markers, L or C line, X no error bars.")
	pf.String("cut", "", "Polygon as space separated x,y vertices.  Entries inside it are printed.  Example: \"0,0 10,0 10,10\"")
	pf.Bool("batch", false, "Run in batch mode, i.e. do not open a viewer for the plot")
	pf.String("plot", "", "Render the plot to an image file (png, svg, pdf, eps, jpg, tif)")
	pf.String("width", "6in", "Plot width, accepts in, cm, mm and pt units")
	pf.String("height", "4in", "Plot height, accepts in, cm, mm and pt units")
	pf.String("save", "", "Save the resulting graph to a file (root, csv, json, yaml or an image format)")
	pf.String("name", "", "Name of the saved graph object (default <y>_vs_<x>)")
	pf.Bool("stats", false, "Print summary statistics of the graph")
	pf.Bool("list", false, "List the columns of the table and exit")
	pf.Bool("watch", false, "Rebuild the graph whenever the input file changes")
	pf.String("delimiter", "", "Field delimiter for delimited text input (default , or \\t for .tsv)")
	pf.String("log-level", "info", "Logging level: debug, info, warn or error")
	pf.String("log-format", "console", "Log output format: console or json")
	pf.String("rollbar-token", "", "Report unexpected errors to Rollbar with this token (env "+RollbarTokenEnv+")")

	return pf
}

func parseFlag(o *options) func(*pflag.Flag, string) error {
	return func(flag *pflag.Flag, value string) error {
		switch flag.Name {
		case "config":
			opts, err := parseFromFile(value)
			if err != nil {
				o.err = err
				return err
			}
			o.options = append(o.options, opts...)
		default:
			option, err := handleOption(flag.Name, value)
			if err != nil {
				o.err = err
				return err
			}
			if option != nil {
				o.options = append(o.options, option)
			}
		}
		return nil
	}
}

// handleOption maps a flag or config key to its option.  Boolean options return a
// nil option when value is false.
func handleOption(name string, value string) (ConfigOption, error) {
	switch name {
	case "input":
		return Input(value), nil
	case "table":
		return Table(value), nil
	case "x":
		return XColumn(value), nil
	case "y":
		return YColumn(value), nil
	case "xerror":
		return XError(value), nil
	case "yerror":
		return YError(value), nil
	case "gate":
		return Gate(value), nil
	case "gate-mode":
		return GateMode(value), nil
	case "opt":
		return DrawOption(value), nil
	case "cut":
		return Cut(value), nil
	case "batch":
		return boolOption(name, value, Batch())
	case "plot":
		return Plot(value), nil
	case "width":
		return Width(value), nil
	case "height":
		return Height(value), nil
	case "save":
		return Save(value), nil
	case "name":
		return GraphName(value), nil
	case "stats":
		return boolOption(name, value, Stats())
	case "list":
		return boolOption(name, value, List())
	case "watch":
		return boolOption(name, value, Watch())
	case "delimiter":
		return Delimiter(value), nil
	case "log-level":
		return LogLevel(value), nil
	case "log-format":
		return LogFormat(value), nil
	case "rollbar-token":
		return RollbarToken(value), nil
	default:
		return nil, fmt.Errorf("Unknown option: %s", name)
	}
}

func boolOption(name, value string, opt ConfigOption) (ConfigOption, error) {
	if value == "" {
		return opt, nil
	}
	on, err := strconv.ParseBool(value)
	if err != nil {
		return nil, fmt.Errorf("invalid value %q for %s", value, name)
	}
	if !on {
		return nil, nil
	}
	return opt, nil
}

func parseFromFile(fpath string) ([]ConfigOption, error) {
	var options []ConfigOption
	data, err := ioutil.ReadFile(fpath)
	if err != nil {
		return options, err
	}

	cfg := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return options, err
	}
	for k, v := range cfg {
		var value string
		switch val := v.(type) {
		case string:
			value = val
		case int:
			value = strconv.Itoa(val)
		case float64:
			value = strconv.FormatFloat(val, 'g', -1, 64)
		case bool:
			value = strconv.FormatBool(val)
		// handles the case of a list of gates
		case []interface{}:
			alt := listFieldsYAML{}
			if err := yaml.Unmarshal(data, &alt); err != nil {
				return options, fmt.Errorf("Could not unmarshal config value for key: %s", k)
			}
			if k != "gate" || len(alt.Gate) == 0 {
				return options, fmt.Errorf("Unknown option: %s", k)
			}
			for _, val := range alt.Gate {
				opt, err := handleOption("gate", val)
				if err != nil {
					return options, err
				}
				options = append(options, opt)
			}
			continue
		default:
			return options, fmt.Errorf("Could not process config key %s, unknown type", k)
		}
		opt, err := handleOption(k, value)
		if err != nil {
			return options, err
		}
		if opt != nil {
			options = append(options, opt)
		}
	}
	return options, nil
}
