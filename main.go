package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"fdscan/internal/config"
	"fdscan/internal/export"
	"fdscan/internal/model"
	"fdscan/internal/procfs"
	"fdscan/internal/report"
	"fdscan/internal/tui"
	"fdscan/internal/web"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/tcnksm/go-latest"
	"golang.org/x/sys/unix"
)

func checkUpdate(w io.Writer, currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "fdscan",
		Repository: "fdscan",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		fmt.Fprintf(w, "Could not check for updates: %v\n", err)
		return
	}

	if res.Outdated {
		fmt.Fprintf(w, "A new version is available: %s (you have %s)\n", res.Current, currentVer)
	} else {
		fmt.Fprintf(w, "You are using the latest version: %s\n", currentVer)
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	parser := config.NewParser()
	opts, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "fdscan: %v\n\n", err)
		parser.Usage(stderr)
		if errors.Is(err, config.ErrUsage) {
			return 1
		}
		return 2
	}

	log := logrus.New()
	log.SetOutput(stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if opts.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	if opts.Help {
		parser.Usage(stdout)
		return 0
	}

	if opts.Version {
		fmt.Fprintf(stdout, "fdscan version %s\n", model.Version)
		return 0
	}

	if opts.Update {
		checkUpdate(stdout, model.Version)
		return 0
	}

	scanner := &procfs.Scanner{
		Root:      opts.ProcRoot,
		UID:       unix.Getuid(),
		Threshold: opts.Threshold,
		PID:       opts.PID,
		Log:       log,
	}

	if opts.Web {
		return runWebMode(scanner, opts.Addr, log)
	}

	if opts.TUI {
		return runTuiMode(scanner, stderr)
	}

	res, err := scanner.Run()
	if err != nil {
		log.WithError(err).Error("scan aborted")
		return 1
	}
	defer res.Release()

	if opts.JSON {
		if err := report.WriteJSON(stdout, report.NewDocument(scanner, res)); err != nil {
			log.WithError(err).Error("writing JSON")
			return 1
		}
		return 0
	}

	runReportMode(opts, res, stdout, log)
	return 0
}

// runReportMode prints the selected views, then writes the selected exports.
// A failed export is logged and does not fail the run.
func runReportMode(opts *config.Options, res *procfs.Result, stdout io.Writer, log logrus.FieldLogger) {
	p := report.NewPrinter(stdout)
	if pid, ok := opts.PID.Get(); ok {
		p.Target(pid)
	}
	if opts.Composite {
		p.Composite(res.Records)
	}
	if opts.PerProcess {
		p.PerProcess(res.Records)
	}
	if opts.SystemWide {
		p.SystemWide(res.Records)
	}
	if opts.Vnodes {
		p.Vnodes(res.Records)
	}
	if opts.ThresholdEnabled() {
		p.Offenders(res.Offenders)
	}

	if opts.OutputText {
		if path, err := export.WriteTextFile(opts.OutputDir, res.Records); err != nil {
			log.WithError(err).Error("text export failed")
		} else {
			log.WithField("path", path).Debug("wrote text export")
		}
	}
	if opts.OutputBinary {
		if path, err := export.WriteBinaryFile(opts.OutputDir, res.Records); err != nil {
			log.WithError(err).Error("binary export failed")
		} else {
			log.WithField("path", path).Debug("wrote binary export")
		}
	}
}

func runTuiMode(scanner *procfs.Scanner, stderr io.Writer) int {
	// Keep log lines from tearing the alt screen.
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	scanner.Log = quiet

	m := tui.InitialModel(scanner)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(stderr, "Alas, there's been an error: %v\n", err)
		return 1
	}
	return 0
}

func runWebMode(scanner *procfs.Scanner, addr string, log logrus.FieldLogger) int {
	s := &web.Server{Base: *scanner, Log: log}
	if err := s.StartServer(addr); err != nil {
		log.WithError(err).Error("web server stopped")
		return 1
	}
	return 0
}
