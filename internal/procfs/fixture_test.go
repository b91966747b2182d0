package procfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// procTree builds a fake /proc under a temp dir. Descriptor entries are
// symlinks into a separate files dir so stat(2) follows them to real inodes.
type procTree struct {
	t     *testing.T
	root  string
	files string
}

func newProcTree(t *testing.T) *procTree {
	t.Helper()
	base := t.TempDir()
	p := &procTree{
		t:     t,
		root:  filepath.Join(base, "proc"),
		files: filepath.Join(base, "files"),
	}
	require.NoError(t, os.MkdirAll(p.root, 0o755))
	require.NoError(t, os.MkdirAll(p.files, 0o755))
	return p
}

func (p *procTree) pidDir(pid int) string {
	return filepath.Join(p.root, strconv.Itoa(pid))
}

// process creates <pid>/status owned by uid and an empty <pid>/fd.
func (p *procTree) process(pid, uid int) {
	p.t.Helper()
	p.statusOnly(pid, fmt.Sprintf("Name:\tproc%d\nUmask:\t0022\nState:\tS (sleeping)\nUid:\t%d\t%d\t%d\t%d\nGid:\t100\t100\t100\t100\n", pid, uid, uid, uid, uid))
	require.NoError(p.t, os.MkdirAll(filepath.Join(p.pidDir(pid), "fd"), 0o755))
}

// statusOnly creates <pid>/status with the given content and no fd dir.
func (p *procTree) statusOnly(pid int, content string) {
	p.t.Helper()
	require.NoError(p.t, os.MkdirAll(p.pidDir(pid), 0o755))
	require.NoError(p.t, os.WriteFile(filepath.Join(p.pidDir(pid), "status"), []byte(content), 0o644))
}

// open adds descriptor fd of pid pointing at a fresh regular file and
// returns the target path.
func (p *procTree) open(pid, fd int) string {
	p.t.Helper()
	target := filepath.Join(p.files, fmt.Sprintf("p%d-fd%d", pid, fd))
	require.NoError(p.t, os.WriteFile(target, nil, 0o644))
	p.link(pid, fd, target)
	return target
}

// openN adds descriptors 0..n-1 to pid.
func (p *procTree) openN(pid, n int) {
	p.t.Helper()
	for fd := 0; fd < n; fd++ {
		p.open(pid, fd)
	}
}

func (p *procTree) link(pid, fd int, target string) {
	p.t.Helper()
	require.NoError(p.t, os.Symlink(target, filepath.Join(p.pidDir(pid), "fd", strconv.Itoa(fd))))
}

// dangling adds a descriptor whose target does not exist.
func (p *procTree) dangling(pid, fd int) {
	p.t.Helper()
	p.link(pid, fd, filepath.Join(p.files, "gone", strconv.Itoa(fd)))
}

// notALink adds a regular file in the fd dir: stat works, readlink fails.
func (p *procTree) notALink(pid, fd int) {
	p.t.Helper()
	require.NoError(p.t, os.WriteFile(filepath.Join(p.pidDir(pid), "fd", strconv.Itoa(fd)), nil, 0o644))
}

func inodeOf(t *testing.T, path string) uint64 {
	t.Helper()
	var st unix.Stat_t
	require.NoError(t, unix.Stat(path, &st))
	return uint64(st.Ino)
}

// dirOrder returns the entries of dir in the order the filesystem yields them.
func dirOrder(t *testing.T, dir string) []string {
	t.Helper()
	d, err := os.Open(dir)
	require.NoError(t, err)
	defer d.Close()
	names, err := d.Readdirnames(-1)
	require.NoError(t, err)
	return names
}
