package cmd

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/memex/internal/model"
)

func TestCsvEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"with space", "with space"},
		{"with,comma", `"with,comma"`},
		{`with"quote`, `"with""quote"`},
		{"with\nnewline", "\"with\nnewline\""},
		{"with\rreturn", "\"with\rreturn\""},
		{"", ""},
	}
	for _, tt := range tests {
		got := csvEscape(tt.input)
		if got != tt.want {
			t.Errorf("csvEscape(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func exportFixture() []model.Entry {
	note := "cold, fresh"
	return []model.Entry{
		{ID: "1", Text: "drank water", Time: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), Comment: &note},
		{ID: "2", Text: "walk", Time: time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)},
	}
}

func TestWriteExportTxt(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeExport(&buf, "txt", exportFixture()))
	assert.Equal(t,
		"drank water on 2024-01-01T08:00:00+00:00 # cold, fresh\n"+
			"walk on 2024-01-01T09:30:00+00:00\n",
		buf.String())
}

func TestWriteExportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeExport(&buf, "csv", exportFixture()))
	assert.Equal(t,
		"date,time,text,comment\n"+
			"2024-01-01,08:00:00,drank water,\"cold, fresh\"\n"+
			"2024-01-01,09:30:00,walk,\n",
		buf.String())
}

func TestWriteExportStructured(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeExport(&buf, "json", exportFixture()))
	var fromJSON []model.Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	require.Len(t, fromJSON, 2)
	assert.Equal(t, "walk", fromJSON[1].Text)
	assert.Nil(t, fromJSON[1].Comment)

	buf.Reset()
	require.NoError(t, writeExport(&buf, "yaml", exportFixture()))
	var fromYAML []model.Entry
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	require.Len(t, fromYAML, 2)
	require.NotNil(t, fromYAML[0].Comment)
	assert.Equal(t, "cold, fresh", *fromYAML[0].Comment)
}

func TestWriteExportUnknownFormat(t *testing.T) {
	assert.Error(t, writeExport(&bytes.Buffer{}, "xml", nil))
}
