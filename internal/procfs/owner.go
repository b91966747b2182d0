package procfs

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrOwnerUnknown is returned when a process's owner cannot be determined.
var ErrOwnerUnknown = errors.New("owner unknown")

// OwnerOf returns the real uid of pid, read from the Uid: line of
// <root>/<pid>/status.
func OwnerOf(root string, pid int) (int, error) {
	path := filepath.Join(root, strconv.Itoa(pid), "status")
	f, err := os.Open(path)
	if err != nil {
		return -1, fmt.Errorf("%w: %v", ErrOwnerUnknown, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "Uid:") {
			continue
		}
		// Uid: real effective saved filesystem
		fields := strings.Fields(line[len("Uid:"):])
		if len(fields) == 0 {
			break
		}
		uid, err := strconv.Atoi(fields[0])
		if err != nil || uid < 0 {
			break
		}
		return uid, nil
	}
	if err := scanner.Err(); err != nil {
		return -1, fmt.Errorf("%w: reading %s: %v", ErrOwnerUnknown, path, err)
	}
	return -1, fmt.Errorf("%w: no Uid field in %s", ErrOwnerUnknown, path)
}
