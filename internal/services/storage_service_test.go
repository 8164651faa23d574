package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidFileSignature(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, true},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, true},
		{"gif87a", []byte("GIF87a trailing"), true},
		{"gif89a", []byte("GIF89a trailing"), true},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBP"), true},
		{"pdf", []byte("%PDF-1.4"), false},
		{"empty", nil, false},
		{"short jpeg", []byte{0xFF, 0xD8}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidFileSignature(tt.data))
		})
	}
}
