// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMarkerDocID(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{
			name: "export metadata",
			content: `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<trpDocMetadata>
    <docId>12345</docId>
    <title>Parish Book</title>
</trpDocMetadata>`,
			want: "12345",
		},
		{
			name:    "whitespace trimmed",
			content: "<md><docId>\n  77 \n</docId></md>",
			want:    "77",
		},
		{
			name:    "nested docId is not read",
			content: "<md><collection><docId>5</docId></collection></md>",
			want:    "",
		},
		{
			name:    "malformed",
			content: "<md><docId>1</md>",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, MarkerFile), []byte(tt.content), 0o644))

			got, err := ReadMarkerDocID(dir)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadMarkerDocID_Missing(t *testing.T) {
	_, err := ReadMarkerDocID(t.TempDir())
	assert.ErrorIs(t, err, ErrNoMarker)
}
