package export

import (
	"encoding/binary"
	"io"

	"fdscan/internal/model"
)

// WriteBinary writes each record as
//
//	' ' index '\t' pid '\t' fd '\t' name '\t' inode '\n'
//
// with index, pid and fd as 4-byte and inode as 8-byte little-endian
// integers. The name is written raw with no length or terminator, so the
// format is meant for inspection rather than interchange.
func WriteBinary(w io.Writer, c *model.Collection) error {
	var buf []byte
	for i, r := range c.All() {
		buf = buf[:0]
		buf = append(buf, ' ')
		buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(i)))
		buf = append(buf, '\t')
		buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(r.PID)))
		buf = append(buf, '\t')
		buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(r.FD.Or(-1))))
		buf = append(buf, '\t')
		buf = append(buf, r.Name...)
		buf = append(buf, '\t')
		buf = binary.LittleEndian.AppendUint64(buf, r.Inode.Or(0))
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}
