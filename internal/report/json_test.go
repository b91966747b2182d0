package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fdscan/internal/model"
	"fdscan/internal/procfs"
)

func TestWriteJSON(t *testing.T) {
	offenders := model.NewCollection()
	offenders.Append(model.NewSummary(4242, 2))
	res := &procfs.Result{Records: sample(), Offenders: offenders, Stats: procfs.Stats{Listed: 2, Admitted: 2, Descriptors: 3, Offenders: 1}}
	s := &procfs.Scanner{Threshold: model.Some(1)}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, NewDocument(s, res)))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, model.Version, doc.Version)
	assert.False(t, doc.TargetPID.IsSet())
	assert.Equal(t, model.Some(1), doc.Threshold)
	assert.Equal(t, sample().Records(), doc.Records)
	assert.Equal(t, []model.Record{model.NewSummary(4242, 2)}, doc.Offenders)
	assert.Equal(t, res.Stats, doc.Stats)
	assert.Contains(t, buf.String(), `"target_pid": null`)
}
