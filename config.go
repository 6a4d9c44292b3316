package tgrapher

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BTBurke/tgrapher/pkg/cut"
	"github.com/BTBurke/tgrapher/pkg/gate"
	"github.com/BTBurke/tgrapher/pkg/render"
	"github.com/BTBurke/tgrapher/pkg/source"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"
)

// RollbarTokenEnv names the environment variable that enables crash reporting
const RollbarTokenEnv = "TGRAPHER_ROLLBAR_TOKEN"

// Config holds everything needed to build one graph
type Config struct {
	Input  string
	Table  string
	X      string
	Y      string
	XError string
	YError string

	Gates      *gate.Set
	DrawOption string
	Style      render.Style
	Cut        *cut.Polygon

	Batch     bool
	PlotFile  string
	Width     vg.Length
	Height    vg.Length
	SaveFile  string
	GraphName string

	Stats     bool
	List      bool
	Watch     bool
	Delimiter rune

	LogLevel     string
	LogFormat    string
	RollbarToken string

	positional int
	out        io.Writer
	logger     *zap.Logger
	viewer     Viewer
	errors     ErrorReporter
}

// ConfigOption is a functional option applied to the configuration
type ConfigOption func(c *Config) error

func newConfig(options ...ConfigOption) (Config, []error) {
	c := Config{
		Gates:        gate.NewSet(),
		DrawOption:   render.DefaultDrawOption,
		Width:        render.DefaultWidth,
		Height:       render.DefaultHeight,
		LogLevel:     "info",
		LogFormat:    "console",
		RollbarToken: os.Getenv(RollbarTokenEnv),
		out:          os.Stdout,
	}

	var errs []error
	for _, option := range options {
		if err := option(&c); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, c.validate()...)
	if len(errs) > 0 {
		return Config{}, errs
	}

	if c.logger == nil {
		logger, err := NewLogger(c.LogLevel, c.LogFormat)
		if err != nil {
			return Config{}, []error{err}
		}
		c.logger = logger
	}
	if c.viewer == nil {
		c.viewer = systemViewer{}
	}
	if c.errors == nil {
		c.errors = newErrorService(c.RollbarToken)
	}
	return c, nil
}

func (c *Config) validate() []error {
	var errs []error
	if c.Input == "" {
		errs = append(errs, fmt.Errorf("no input file specified"))
	} else {
		format, err := source.FormatOf(c.Input)
		switch {
		case err != nil:
			errs = append(errs, err)
		case format.NeedsTableName() && c.Table == "":
			errs = append(errs, fmt.Errorf("no table name specified for %s input", format))
		}
	}
	if !c.List {
		if c.X == "" {
			errs = append(errs, fmt.Errorf("no column name specified for x-axis"))
		}
		if c.Y == "" {
			errs = append(errs, fmt.Errorf("no column name specified for y-axis"))
		}
	}
	style, err := render.ParseStyle(c.DrawOption)
	if err != nil {
		errs = append(errs, err)
	}
	c.Style = style
	if c.PlotFile != "" && !render.IsImage(c.PlotFile) {
		errs = append(errs, fmt.Errorf("unsupported plot format for %s", c.PlotFile))
	}
	if c.PlotFile != "" && samePath(c.PlotFile, c.SaveFile) {
		errs = append(errs, fmt.Errorf("--plot and --save both write %s", c.PlotFile))
	}
	if c.SaveFile != "" && samePath(c.SaveFile, c.Input) {
		errs = append(errs, fmt.Errorf("--save would overwrite the input file %s", c.Input))
	}
	return errs
}

// samePath reports whether a and b name the same file
func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	if absA == absB {
		return true
	}
	infoA, errA := os.Stat(absA)
	infoB, errB := os.Stat(absB)
	return errA == nil && errB == nil && os.SameFile(infoA, infoB)
}

// Positional fills the next unset positional argument: input, table, x column, y column
func Positional(value string) ConfigOption {
	return func(c *Config) error {
		c.positional++
		switch c.positional {
		case 1:
			c.Input = value
		case 2:
			c.Table = value
		case 3:
			c.X = value
		case 4:
			c.Y = value
		default:
			return fmt.Errorf("unexpected argument %q, expected <filename> <table> <x_column> <y_column>", value)
		}
		return nil
	}
}

// Input sets the path of the table file
func Input(path string) ConfigOption {
	return func(c *Config) error {
		c.Input = path
		return nil
	}
}

// Table sets the tree or table name inside the input file
func Table(name string) ConfigOption {
	return func(c *Config) error {
		c.Table = name
		return nil
	}
}

// XColumn sets the column plotted on the x-axis
func XColumn(name string) ConfigOption {
	return func(c *Config) error {
		c.X = name
		return nil
	}
}

// YColumn sets the column plotted on the y-axis
func YColumn(name string) ConfigOption {
	return func(c *Config) error {
		c.Y = name
		return nil
	}
}

// XError sets the column holding x-axis errors
func XError(name string) ConfigOption {
	return func(c *Config) error {
		c.XError = name
		return nil
	}
}

// YError sets the column holding y-axis errors
func YError(name string) ConfigOption {
	return func(c *Config) error {
		c.YError = name
		return nil
	}
}

// Gate adds a range to a gate, written as column:low:high.  Ranges on the same
// column are combined as a union.
func Gate(def string) ConfigOption {
	return func(c *Config) error {
		name, low, high, err := gate.Parse(def)
		if err != nil {
			return err
		}
		if c.Gates == nil {
			c.Gates = gate.NewSet()
		}
		return c.Gates.Add(name, low, high)
	}
}

// GateMode sets how distinct gates combine, any or all
func GateMode(mode string) ConfigOption {
	return func(c *Config) error {
		m, err := gate.ParseMode(mode)
		if err != nil {
			return err
		}
		if c.Gates == nil {
			c.Gates = gate.NewSet()
		}
		c.Gates.Mode = m
		return nil
	}
}

// DrawOption sets the draw option string, e.g. AP
func DrawOption(opt string) ConfigOption {
	return func(c *Config) error {
		c.DrawOption = opt
		return nil
	}
}

// Cut sets the selection polygon, written as space separated x,y pairs
func Cut(def string) ConfigOption {
	return func(c *Config) error {
		p, err := cut.Parse(def)
		if err != nil {
			return err
		}
		c.Cut = p
		return nil
	}
}

// Batch disables the image viewer
func Batch() ConfigOption {
	return func(c *Config) error {
		c.Batch = true
		return nil
	}
}

// Plot renders the graph image to path
func Plot(path string) ConfigOption {
	return func(c *Config) error {
		c.PlotFile = path
		return nil
	}
}

// Width sets the image width, e.g. 6in
func Width(length string) ConfigOption {
	return func(c *Config) error {
		l, err := render.ParseLength(length)
		if err != nil {
			return fmt.Errorf("could not convert width: %v", err)
		}
		c.Width = l
		return nil
	}
}

// Height sets the image height, e.g. 4in
func Height(length string) ConfigOption {
	return func(c *Config) error {
		l, err := render.ParseLength(length)
		if err != nil {
			return fmt.Errorf("could not convert height: %v", err)
		}
		c.Height = l
		return nil
	}
}

// Save exports the graph to path
func Save(path string) ConfigOption {
	return func(c *Config) error {
		c.SaveFile = path
		return nil
	}
}

// GraphName sets the object name used by Save
func GraphName(name string) ConfigOption {
	return func(c *Config) error {
		c.GraphName = name
		return nil
	}
}

// Stats prints summary statistics of the graph
func Stats() ConfigOption {
	return func(c *Config) error {
		c.Stats = true
		return nil
	}
}

// List prints the table columns instead of graphing
func List() ConfigOption {
	return func(c *Config) error {
		c.List = true
		return nil
	}
}

// Watch re-runs the graph whenever the input file changes
func Watch() ConfigOption {
	return func(c *Config) error {
		c.Watch = true
		return nil
	}
}

// Delimiter sets the separator for delimited text input.  Escapes such as \t are accepted.
func Delimiter(d string) ConfigOption {
	return func(c *Config) error {
		if unq, err := strconv.Unquote(`"` + d + `"`); err == nil {
			d = unq
		}
		r := []rune(d)
		if len(r) != 1 {
			return fmt.Errorf("delimiter must be a single character, got %q", d)
		}
		c.Delimiter = r[0]
		return nil
	}
}

// LogLevel sets the minimum log level: debug, info, warn or error
func LogLevel(level string) ConfigOption {
	return func(c *Config) error {
		switch l := strings.ToLower(level); l {
		case "debug", "info", "warn", "error":
			c.LogLevel = l
			return nil
		default:
			return fmt.Errorf("invalid log-level %q: must be debug, info, warn or error", level)
		}
	}
}

// LogFormat sets the log encoding: console or json
func LogFormat(format string) ConfigOption {
	return func(c *Config) error {
		switch f := strings.ToLower(format); f {
		case "console", "json":
			c.LogFormat = f
			return nil
		default:
			return fmt.Errorf("invalid log-format %q: must be console or json", format)
		}
	}
}

// RollbarToken enables reporting of unexpected errors to Rollbar
func RollbarToken(token string) ConfigOption {
	return func(c *Config) error {
		c.RollbarToken = token
		return nil
	}
}

// Output redirects the graph report, stdout by default
func Output(w io.Writer) ConfigOption {
	return func(c *Config) error {
		c.out = w
		return nil
	}
}

// Logger replaces the logger built from LogLevel and LogFormat
func Logger(l *zap.Logger) ConfigOption {
	return func(c *Config) error {
		c.logger = l
		return nil
	}
}

// WithViewer replaces the system image viewer
func WithViewer(v Viewer) ConfigOption {
	return func(c *Config) error {
		c.viewer = v
		return nil
	}
}

// WithErrorReporter replaces the Rollbar error reporter
func WithErrorReporter(r ErrorReporter) ConfigOption {
	return func(c *Config) error {
		c.errors = r
		return nil
	}
}

// Logger returns the configured logger
func (c Config) Logger() *zap.Logger {
	return c.logger
}
