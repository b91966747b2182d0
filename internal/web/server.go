package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"fdscan/internal/export"
	"fdscan/internal/model"
	"fdscan/internal/procfs"
	"fdscan/internal/report"
)

//go:embed static/*
var staticFS embed.FS

//go:embed help.md
var helpMD string

// Server answers scan requests. Base is copied for every request so each
// request scans into its own collections.
type Server struct {
	Base procfs.Scanner
	Log  logrus.FieldLogger
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	subFS, _ := fs.Sub(staticFS, "static")
	mux.Handle("/", http.FileServer(http.FS(subFS)))

	// API Endpoints
	mux.HandleFunc("/api/scan", s.handleScan)
	mux.HandleFunc("/api/offenders", s.handleOffenders)
	mux.HandleFunc("/api/export.txt", s.handleExport)
	mux.HandleFunc("/api/help", handleHelp)
	return mux
}

// StartServer listens on addr until the server fails.
func (s *Server) StartServer(addr string) error {
	fmt.Printf("Starting fdscan web server at http://%s\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// scanner applies the pid and threshold query parameters to a copy of Base.
func (s *Server) scanner(r *http.Request) (*procfs.Scanner, error) {
	sc := s.Base
	sc.Log = s.Log
	q := r.URL.Query()
	if v := q.Get("pid"); v != "" {
		pid, err := strconv.Atoi(v)
		if err != nil || pid < 0 {
			return nil, fmt.Errorf("invalid pid %q", v)
		}
		sc.PID = model.Some(pid)
	}
	if v := q.Get("threshold"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid threshold %q", v)
		}
		sc.Threshold = model.Some(n)
	}
	return &sc, nil
}

func (s *Server) run(w http.ResponseWriter, r *http.Request) (*procfs.Scanner, *procfs.Result, bool) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return nil, nil, false
	}
	sc, err := s.scanner(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, nil, false
	}
	res, err := sc.Run()
	if err != nil {
		s.logger().WithError(err).Error("scan failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, nil, false
	}
	return sc, res, true
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	sc, res, ok := s.run(w, r)
	if !ok {
		return
	}
	defer res.Release()

	w.Header().Set("Content-Type", "application/json")
	report.WriteJSON(w, report.NewDocument(sc, res))
}

func (s *Server) handleOffenders(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("threshold") == "" {
		http.Error(w, "threshold is required", http.StatusBadRequest)
		return
	}
	sc, res, ok := s.run(w, r)
	if !ok {
		return
	}
	defer res.Release()

	doc := report.NewDocument(sc, res)
	doc.Records = nil
	w.Header().Set("Content-Type", "application/json")
	report.WriteJSON(w, doc)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	_, res, ok := s.run(w, r)
	if !ok {
		return
	}
	defer res.Release()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+export.TextFile)
	if err := export.WriteText(w, res.Records); err != nil {
		s.logger().WithError(err).Warn("text export interrupted")
	}
}

func handleHelp(w http.ResponseWriter, r *http.Request) {
	// Use the embedded help content
	text := strings.ReplaceAll(helpMD, "{{VERSION}}", model.Version)

	w.Header().Set("Content-Type", "text/markdown")
	w.Write([]byte(text))
}

func (s *Server) logger() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}
