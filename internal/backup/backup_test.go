package backup

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasbih/internal/models"
)

func TestParseValidDocument(t *testing.T) {
	targetID := 7
	doc := &Backup{
		Version:   Version,
		Timestamp: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
		Logs: []*models.Log{
			{LogID: 1, Count: 33, TargetID: &targetID, Timestamp: time.Now(), DateStr: "2026-03-02"},
		},
		Targets: []*models.Target{
			{TargetID: targetID, Title: "Salawat", TargetCount: 1000, Status: models.StatusActive},
		},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, parsed.Targets, 1)
	require.Len(t, parsed.Logs, 1)
	assert.Equal(t, "Salawat", parsed.Targets[0].Title)
	assert.Equal(t, &targetID, parsed.Logs[0].TargetID)
}

func TestParseAcceptsEmptyCollections(t *testing.T) {
	parsed, err := Parse([]byte(`{"version":1,"timestamp":"2026-03-02T12:00:00Z","logs":[],"targets":[]}`))
	require.NoError(t, err)
	assert.Empty(t, parsed.Logs)
	assert.Empty(t, parsed.Targets)
}

func TestParseRejectsMissingCollections(t *testing.T) {
	_, err := Parse([]byte(`{"version":1,"targets":[]}`))
	assert.ErrorContains(t, err, "missing logs")

	_, err = Parse([]byte(`{"version":1,"logs":[]}`))
	assert.ErrorContains(t, err, "missing targets")
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse([]byte(`not json`))
	assert.Error(t, err)

	_, err = Parse([]byte(`[1,2,3]`))
	assert.Error(t, err)
}
