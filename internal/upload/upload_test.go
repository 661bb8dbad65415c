package upload

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "url,wallOwner,text\nhttps://vk.com/wall1_1,owner,hero\nhttps://vk.com/wall1_2,owner,another hero\n"

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestCheckCSVAccepts(t *testing.T) {
	r := bytes.NewReader([]byte(sampleCSV))
	require.NoError(t, CheckCSV("records.CSV", r))

	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, string(rest))
}

func TestCheckCSVRejects(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content []byte
		want    error
	}{
		{"wrong extension", "records.txt", []byte(sampleCSV), ErrNotCSV},
		{"binary content", "records.csv", pngHeader, ErrNotCSV},
		{"empty", "records.csv", nil, ErrEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCSV(tt.file, bytes.NewReader(tt.content))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
