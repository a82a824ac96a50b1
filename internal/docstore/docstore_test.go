package docstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundfaq/internal/domain"
)

func sampleRecords() []domain.Record {
	return []domain.Record{
		{
			ID:        "r1",
			Text:      "JM Value Fund Direct Plan Growth - Expense Ratio: 0.98%.",
			SourceURL: "https://groww.in/mutual-funds/jm-basic-fund-direct-growth",
			FundName:  "JM Value Fund Direct Plan Growth",
			Kind:      domain.KindSchemeFact,
		},
		{
			ID:        "r2",
			Text:      "Online: open an account and complete KYC.",
			SourceURL: "https://groww.in/p/how-to-invest-in-mutual-funds",
			Kind:      domain.KindGuide,
		},
	}
}

func TestNew(t *testing.T) {
	s, err := New(sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	rec, ok := s.Get("r1")
	require.True(t, ok)
	assert.Equal(t, domain.KindSchemeFact, rec.Kind)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestNew_RejectsDuplicateIDs(t *testing.T) {
	records := sampleRecords()
	records[1].ID = records[0].ID
	_, err := New(records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestNew_RejectsMissingID(t *testing.T) {
	records := sampleRecords()
	records[0].ID = ""
	_, err := New(records)
	require.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vector_store", "documents.json")
	records := sampleRecords()
	require.NoError(t, Save(path, records))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, records, s.Records())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
