package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"學年期", "課程名稱", "1.消除貧窮"},
		Rows: []map[string]string{
			{"學年期": "1131", "課程名稱": "永續發展概論", "1.消除貧窮": "4"},
			{"學年期": "1131", "課程名稱": "媒體素養"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	require.True(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}))
	lines := strings.Split(strings.TrimSpace(string(out[3:])), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "學年期,課程名稱,1.消除貧窮", lines[0])
	assert.Equal(t, "1131,永續發展概論,4", lines[1])
	// missing cells render as empty fields, never shift columns
	assert.Equal(t, "1131,媒體素養,", lines[2])
}

func TestCSVExporterRenderWithoutBOM(t *testing.T) {
	exporter := &CSVExporter{WithBOM: false}
	out, err := exporter.Render(sampleDataset())
	require.NoError(t, err)
	assert.False(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset(), "Course Themes 113-1")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPDFExporterRequiresHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Dataset{}, "empty")
	require.Error(t, err)
}
