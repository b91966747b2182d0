package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fdscan/internal/model"
)

// TextRow is one parsed line of the text export.
type TextRow struct {
	Index int
	PID   int
	FD    int
	Name  string
	Inode uint64
}

// WriteText writes one "index\tpid\tfd\tname\tinode\n" line per record.
// Names are written raw, so a name holding a tab or newline does not parse
// back.
func WriteText(w io.Writer, c *model.Collection) error {
	for i, r := range c.All() {
		if _, err := fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%d\n", i, r.PID, r.FD.Or(-1), r.Name, r.Inode.Or(0)); err != nil {
			return err
		}
	}
	return nil
}

// ParseText reads rows produced by WriteText.
func ParseText(r io.Reader) ([]TextRow, error) {
	var rows []TextRow
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) != 5 {
			return nil, fmt.Errorf("line %d: want 5 fields, got %d", line, len(fields))
		}
		row := TextRow{Name: fields[3]}
		var err error
		if row.Index, err = strconv.Atoi(fields[0]); err != nil {
			return nil, fmt.Errorf("line %d: index: %w", line, err)
		}
		if row.PID, err = strconv.Atoi(fields[1]); err != nil {
			return nil, fmt.Errorf("line %d: pid: %w", line, err)
		}
		if row.FD, err = strconv.Atoi(fields[2]); err != nil {
			return nil, fmt.Errorf("line %d: fd: %w", line, err)
		}
		if row.Inode, err = strconv.ParseUint(fields[4], 10, 64); err != nil {
			return nil, fmt.Errorf("line %d: inode: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, scanner.Err()
}
