package procfs

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"fdscan/internal/model"
)

// DefaultRoot is the proc filesystem mount point.
const DefaultRoot = "/proc"

// ErrListProcesses is returned when the process listing cannot be opened.
// It is the only error that aborts a scan.
var ErrListProcesses = errors.New("cannot list processes")

// Stats counts what a scan saw and skipped.
type Stats struct {
	Listed         int `json:"listed"`
	Admitted       int `json:"admitted"`
	SkippedOwner   int `json:"skipped_owner"`
	SkippedForeign int `json:"skipped_foreign"`
	SkippedFDDir   int `json:"skipped_fd_dir"`
	Descriptors    int `json:"descriptors"`
	Offenders      int `json:"offenders"`
}

// Result is the output of a full scan.
type Result struct {
	Records   *model.Collection
	Offenders *model.Collection
	Stats     Stats
}

// Release drops both collections.
func (r *Result) Release() {
	r.Records.Release()
	r.Offenders.Release()
}

// Scanner walks every process under Root owned by UID.
type Scanner struct {
	Root string
	// UID is the invoking user; only processes it owns are enumerated.
	UID int
	// Threshold, when set, makes processes with more descriptors than it
	// offenders.
	Threshold model.Optional[int]
	// PID, when set, limits the scan to that process.
	PID model.Optional[int]

	Resolver DescriptorResolver
	Log      logrus.FieldLogger
}

// Run scans into fresh collections.
func (s *Scanner) Run() (*Result, error) {
	res := &Result{
		Records:   model.NewCollection(),
		Offenders: model.NewCollection(),
	}
	stats, err := s.Scan(res.Records, res.Offenders)
	res.Stats = stats
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Scan appends descriptor records to records and offender summaries to
// offenders. Processes are visited in the order the listing yields them.
func (s *Scanner) Scan(records, offenders *model.Collection) (Stats, error) {
	var stats Stats
	log := s.logger()
	root := s.root()

	dir, err := os.Open(root)
	if err != nil {
		return stats, fmt.Errorf("%w: %v", ErrListProcesses, err)
	}
	defer dir.Close()

	names, err := dir.Readdirnames(-1)
	if err != nil && len(names) == 0 {
		return stats, fmt.Errorf("%w: %v", ErrListProcesses, err)
	}

	enum := &Enumerator{Root: root, Resolver: s.resolver(), Log: log}
	threshold, thresholdOn := s.Threshold.Get()
	target, filtered := s.PID.Get()

	for _, name := range names {
		if name == "." || name == ".." {
			continue
		}
		pid, ok := parseID(name)
		if !ok {
			continue
		}
		stats.Listed++
		if filtered && pid != target {
			continue
		}

		owner, err := OwnerOf(root, pid)
		if err != nil {
			stats.SkippedOwner++
			log.WithField("pid", pid).Debugf("skipping process: %v", err)
			continue
		}
		if owner != s.UID {
			stats.SkippedForeign++
			continue
		}

		count, err := enum.Enumerate(records, pid)
		if err != nil {
			stats.SkippedFDDir++
			log.WithField("pid", pid).Debugf("skipping process: %v", err)
			continue
		}
		stats.Admitted++
		stats.Descriptors += count

		if thresholdOn && count > threshold {
			offenders.Append(model.NewSummary(pid, count))
			stats.Offenders++
		}
	}

	log.WithFields(logrus.Fields{
		"listed":      stats.Listed,
		"admitted":    stats.Admitted,
		"descriptors": stats.Descriptors,
		"offenders":   stats.Offenders,
	}).Debug("scan complete")
	return stats, nil
}

func (s *Scanner) root() string {
	if s.Root == "" {
		return DefaultRoot
	}
	return s.Root
}

func (s *Scanner) resolver() DescriptorResolver {
	if s.Resolver == nil {
		return Resolver{}
	}
	return s.Resolver
}

func (s *Scanner) logger() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}
