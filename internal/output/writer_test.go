package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/inodb/pharmaguard/internal/report"
)

func TestNew(t *testing.T) {
	tests := []struct {
		format  string
		want    any
		wantErr bool
	}{
		{"json", &JSONWriter{}, false},
		{"", &JSONWriter{}, false},
		{"yaml", &YAMLWriter{}, false},
		{"yml", &YAMLWriter{}, false},
		{"tab", &TabWriter{}, false},
		{"tsv", &TabWriter{}, false},
		{"xml", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			w, err := New(tt.format, &bytes.Buffer{})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, w)
		})
	}
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(&buf)
	require.NoError(t, w.Write(sampleResult()))
	require.NoError(t, w.Flush())

	var got report.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, *sampleResult(), got)
	assert.Contains(t, buf.String(), `"llm_generated_explanation"`)
}

func TestYAMLWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewYAMLWriter(&buf)
	require.NoError(t, w.Write(sampleResult()))
	require.NoError(t, w.Flush())

	var got report.Result
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "CYP2C19", got.PrimaryProfile().PrimaryGene)
	assert.Equal(t, "*17/*2", got.PrimaryProfile().Diplotype)
	assert.Contains(t, buf.String(), "risk_label: Adjust Dosage")
}
