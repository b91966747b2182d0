package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"fdscan/internal/model"
)

func sample() *model.Collection {
	c := model.NewCollection()
	c.Append(model.NewDescriptor(4242, 0, "/dev/pts/3", 6))
	c.Append(model.NewDescriptor(4242, 3, "socket:[99812]", 99812))
	c.Append(model.NewDescriptor(5001, 1, "/tmp/x\ty", 0))
	return c
}

func render(fn func(p *Printer)) string {
	var buf bytes.Buffer
	fn(NewPrinter(&buf))
	return buf.String()
}

func TestComposite(t *testing.T) {
	got := render(func(p *Printer) { p.Composite(sample()) })
	want := "\t PID\tFD\tFilename\tInode\n" +
		"\t=============================================\n" +
		" 0\t4242\t0\t/dev/pts/3\t6\n" +
		" 1\t4242\t3\tsocket:[99812]\t99812\n" +
		" 2\t5001\t1\t/tmp/x\\ty\t0\n" +
		"\t=============================================\n\n"
	assert.Equal(t, want, got)
}

func TestCompositeEmpty(t *testing.T) {
	got := render(func(p *Printer) { p.Composite(model.NewCollection()) })
	want := "\t PID\tFD\tFilename\tInode\n" +
		"\t=============================================\n" +
		"\t=============================================\n\n"
	assert.Equal(t, want, got)
}

func TestPerProcess(t *testing.T) {
	got := render(func(p *Printer) { p.PerProcess(sample()) })
	want := "\t PID\tFD\n" +
		"\t ============\n" +
		"\t 4242   0      \n" +
		"\t 4242   3      \n" +
		"\t 5001   1      \n" +
		"\t============\n\n"
	assert.Equal(t, want, got)
}

func TestSystemWide(t *testing.T) {
	got := render(func(p *Printer) { p.SystemWide(sample()) })
	want := "\t PID\tFD\tFilename\n" +
		"\t====================================\n" +
		"\t 4242\t0\t/dev/pts/3\n" +
		"\t 4242\t3\tsocket:[99812]\n" +
		"\t 5001\t1\t/tmp/x\\ty\n" +
		"\t====================================\n\n"
	assert.Equal(t, want, got)
}

func TestVnodes(t *testing.T) {
	got := render(func(p *Printer) { p.Vnodes(sample()) })
	want := "\t FD\tInode\n" +
		"\t====================================\n" +
		"\t 0\t6\n" +
		"\t 3\t99812\n" +
		"\t 1\t0\n" +
		"\t====================================\n"
	assert.Equal(t, want, got)
}

func TestOffenders(t *testing.T) {
	c := model.NewCollection()
	assert.Equal(t, "## Offending processes:\n\n", render(func(p *Printer) { p.Offenders(c) }))

	c.Append(model.NewSummary(500, 7))
	assert.Equal(t, "## Offending processes:\n500 (7)\n", render(func(p *Printer) { p.Offenders(c) }))

	c.Append(model.NewSummary(612, 1031))
	assert.Equal(t, "## Offending processes:\n500 (7), 612 (1031)\n", render(func(p *Printer) { p.Offenders(c) }))
}

func TestTarget(t *testing.T) {
	assert.Equal(t, ">>> Target PID: 1234\n", render(func(p *Printer) { p.Target(1234) }))
}
