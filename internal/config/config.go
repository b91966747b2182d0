// Package config turns the command line, FDSCAN_* environment variables and
// an optional config file into validated Options.
package config

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"fdscan/internal/model"
	"fdscan/internal/procfs"
)

// EnvPrefix prefixes every environment variable fdscan reads.
const EnvPrefix = "FDSCAN"

// ErrUsage marks a command line that cannot be run. It maps to exit code 1.
var ErrUsage = errors.New("invalid usage")

// Options is the full run configuration.
type Options struct {
	// Views
	Composite  bool
	PerProcess bool
	SystemWide bool
	Vnodes     bool

	Threshold model.Optional[int]
	PID       model.Optional[int]

	// Exports
	OutputText   bool
	OutputBinary bool
	OutputDir    string

	ProcRoot string

	// Modes
	JSON bool
	TUI  bool
	Web  bool
	Addr string

	Debug   bool
	Version bool
	Update  bool
	Help    bool
}

// ThresholdEnabled reports whether offenders are collected.
func (o *Options) ThresholdEnabled() bool {
	return o.Threshold.IsSet()
}

// Parser holds the flag set and the viper instance it is bound into.
type Parser struct {
	fs *pflag.FlagSet
	v  *viper.Viper
}

// NewParser defines the fdscan flags.
func NewParser() *Parser {
	fs := pflag.NewFlagSet("fdscan", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)

	fs.Bool("composite", false, "Show index, PID, FD, filename and inode (default when no flags are given)")
	fs.Bool("per-process", false, "Show PID and FD of every open descriptor")
	fs.Bool("systemWide", false, "Show PID, FD and filename of every open descriptor")
	fs.Bool("Vnodes", false, "Show FD and inode of every open descriptor")
	fs.Int("threshold", 0, "List processes with more than `N` open descriptors")
	fs.Bool("output_TXT", false, "Write the composite table to composite.txt")
	fs.Bool("output_binary", false, "Write the composite table to composite.bin")
	fs.String("output-dir", ".", "Directory for composite.txt and composite.bin")
	fs.String("proc-root", procfs.DefaultRoot, "Mount point of the proc filesystem")
	fs.BoolP("json", "j", false, "Output the scan as JSON")
	fs.BoolP("tui", "t", false, "Browse the scan interactively")
	fs.BoolP("web", "w", false, "Serve the scan over HTTP")
	fs.String("addr", "localhost:8080", "Listen address for --web")
	fs.String("config", "", "Read defaults from a config `file` (yaml, toml or json)")
	fs.BoolP("debug", "d", false, "Log skipped processes and descriptors")
	fs.BoolP("version", "V", false, "Print version information")
	fs.BoolP("update", "u", false, "Check for a newer release")
	fs.BoolP("help", "h", false, "Show this help message")

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return &Parser{fs: fs, v: v}
}

// Usage writes the help text to w.
func (p *Parser) Usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: fdscan [options] [PID]\n\n")
	fmt.Fprintf(w, "fdscan lists the open file descriptors of your processes.\n")
	fmt.Fprintf(w, "A bare PID limits the scan to that process.\n\n")
	fmt.Fprintf(w, "Options:\n")
	p.fs.SetOutput(w)
	p.fs.PrintDefaults()
	p.fs.SetOutput(io.Discard)
	fmt.Fprintf(w, "\nEnvironment:\n")
	fmt.Fprintf(w, "  %s_THRESHOLD, %s_OUTPUT_DIR, %s_PROC_ROOT, %s_DEBUG set defaults for the flags.\n", EnvPrefix, EnvPrefix, EnvPrefix, EnvPrefix)
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  fdscan                      # Composite table of all your descriptors\n")
	fmt.Fprintf(w, "  fdscan 1234                 # Only PID 1234\n")
	fmt.Fprintf(w, "  fdscan --threshold=100      # Processes with more than 100 descriptors\n")
	fmt.Fprintf(w, "  fdscan --Vnodes --output_TXT\n")
}

// Parse reads args (without the program name).
func (p *Parser) Parse(args []string) (*Options, error) {
	if err := p.fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if err := p.v.BindPFlags(p.fs); err != nil {
		return nil, err
	}
	if path := p.v.GetString("config"); path != "" {
		p.v.SetConfigFile(path)
		if err := p.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: reading config %s: %v", ErrUsage, path, err)
		}
	}

	opts := &Options{
		Composite:    p.v.GetBool("composite"),
		PerProcess:   p.v.GetBool("per-process"),
		SystemWide:   p.v.GetBool("systemWide"),
		Vnodes:       p.v.GetBool("Vnodes"),
		OutputText:   p.v.GetBool("output_TXT"),
		OutputBinary: p.v.GetBool("output_binary"),
		OutputDir:    p.v.GetString("output-dir"),
		ProcRoot:     p.v.GetString("proc-root"),
		JSON:         p.v.GetBool("json"),
		TUI:          p.v.GetBool("tui"),
		Web:          p.v.GetBool("web"),
		Addr:         p.v.GetString("addr"),
		Debug:        p.v.GetBool("debug"),
		Version:      p.v.GetBool("version"),
		Update:       p.v.GetBool("update"),
		Help:         p.v.GetBool("help"),
	}

	if p.v.IsSet("threshold") {
		raw := p.v.GetString("threshold")
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: threshold %q is not an integer", ErrUsage, raw)
		}
		opts.Threshold = model.Some(n)
	}

	for _, arg := range p.fs.Args() {
		pid, ok := parsePID(arg)
		if !ok {
			return nil, fmt.Errorf("%w: invalid argument %q", ErrUsage, arg)
		}
		// Last one wins.
		opts.PID = model.Some(pid)
	}

	// No arguments at all, or nothing but a PID, means the composite view.
	if len(args) == 0 || (len(args) == 1 && opts.PID.IsSet()) {
		opts.Composite = true
	}
	return opts, nil
}

func parsePID(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}
