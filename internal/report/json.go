package report

import (
	"encoding/json"
	"io"

	"fdscan/internal/model"
	"fdscan/internal/procfs"
)

// Document is the JSON form of a scan, shared by --json and the web API.
type Document struct {
	Version   string              `json:"version"`
	TargetPID model.Optional[int] `json:"target_pid"`
	Threshold model.Optional[int] `json:"threshold"`
	Records   []model.Record      `json:"records"`
	Offenders []model.Record      `json:"offenders"`
	Stats     procfs.Stats        `json:"stats"`
}

// NewDocument builds a Document from a finished scan.
func NewDocument(s *procfs.Scanner, res *procfs.Result) Document {
	return Document{
		Version:   model.Version,
		TargetPID: s.PID,
		Threshold: s.Threshold,
		Records:   res.Records.Records(),
		Offenders: res.Offenders.Records(),
		Stats:     res.Stats,
	}
}

// WriteJSON writes doc as indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
