package image

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		size        int64
		wantErr     bool
	}{
		{"jpeg accepted", "image/jpeg", 1024, false},
		{"png accepted", "image/png", 100, false},
		{"gif accepted", "image/gif", 1, false},
		{"bmp rejected", "image/bmp", 1024, true},
		{"pdf rejected", "application/pdf", 1024, true},
		{"empty type rejected", "", 1024, true},
		{"uppercase not matched", "IMAGE/JPEG", 1024, true},
		{"type with parameters rejected", "image/jpeg; charset=utf-8", 1024, true},
		{"zero size rejected", "image/png", 0, true},
		{"negative size rejected", "image/png", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFormat(tt.contentType, tt.size)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFormat)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
