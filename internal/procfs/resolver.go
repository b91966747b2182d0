package procfs

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"fdscan/internal/model"
)

// DescriptorResolver turns a /proc/<pid>/fd/<n> path into what it refers to.
type DescriptorResolver interface {
	ResolveInode(path string) (uint64, error)
	ResolveLinkTarget(path string) (string, error)
}

// Resolver resolves descriptors with stat(2) and readlink(2).
type Resolver struct{}

// ResolveInode returns the inode of the object path points to, following
// symlinks. Dangling links and exited processes return an error.
func (Resolver) ResolveInode(path string) (uint64, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	return uint64(st.Ino), nil
}

// ResolveLinkTarget reads the link at path, truncated to model.MaxNameLen.
func (Resolver) ResolveLinkTarget(path string) (string, error) {
	target, err := os.Readlink(path)
	if err != nil {
		return "", err
	}
	return model.TruncateName(target), nil
}
