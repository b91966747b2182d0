package procfs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"

	"fdscan/internal/model"
)

// ErrNoFDDir is returned when a process's fd directory cannot be opened.
var ErrNoFDDir = errors.New("cannot open fd directory")

// Enumerator lists the descriptors of one process.
type Enumerator struct {
	Root     string
	Resolver DescriptorResolver
	Log      logrus.FieldLogger
}

// Enumerate appends one descriptor record per resolvable entry of
// <root>/<pid>/fd to c and returns how many it appended. Entries whose inode
// or link target cannot be read are dropped and not counted. Entries are
// visited in directory order.
func (e *Enumerator) Enumerate(c *model.Collection, pid int) (int, error) {
	dir := filepath.Join(e.Root, strconv.Itoa(pid), "fd")
	d, err := os.Open(dir)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoFDDir, err)
	}
	defer d.Close()

	// Readdirnames keeps kernel order, os.ReadDir would sort.
	names, err := d.Readdirnames(-1)
	if err != nil && len(names) == 0 {
		return 0, fmt.Errorf("%w: %v", ErrNoFDDir, err)
	}

	count := 0
	for _, name := range names {
		if name == "." || name == ".." {
			continue
		}
		fd, ok := parseID(name)
		if !ok {
			continue
		}
		path := filepath.Join(dir, name)

		inode, err := e.Resolver.ResolveInode(path)
		if err != nil {
			e.logger().WithFields(logrus.Fields{"pid": pid, "fd": fd}).Debugf("skipping descriptor: %v", err)
			continue
		}
		target, err := e.Resolver.ResolveLinkTarget(path)
		if err != nil {
			e.logger().WithFields(logrus.Fields{"pid": pid, "fd": fd}).Warnf("failed to read link target: %v", err)
			continue
		}

		c.Append(model.NewDescriptor(pid, fd, target, inode))
		count++
	}
	return count, nil
}

func (e *Enumerator) logger() logrus.FieldLogger {
	if e.Log == nil {
		return logrus.StandardLogger()
	}
	return e.Log
}

// parseID accepts a non-empty string of ASCII digits that fits in an int.
func parseID(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
