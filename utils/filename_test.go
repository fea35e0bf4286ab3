package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecureFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"passport.jpg", "passport.jpg"},
		{"My cool passport.jpg", "My_cool_passport.jpg"},
		{"../../../etc/passwd", "etc_passwd"},
		{"i contain cool ümläuts.png", "i_contain_cool_umlauts.png"},
		{"scan (1).jpeg", "scan_1.jpeg"},
		{".hidden.png", "hidden.png"},
		{"___", ""},
		{"中文", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SecureFilename(tt.in))
		})
	}
}

func TestStorageFilename(t *testing.T) {
	assert.Equal(t, "passport.jpg", StorageFilename("passport.jpg"))

	assert.Equal(t, "jpg", StorageFilename("中文.jpg"))

	generated := StorageFilename("中文")
	assert.Len(t, generated, 36)
	assert.Equal(t, 4, strings.Count(generated, "-"))
}

func TestOutputStem(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/uploads/passport.jpg", "passport"},
		{"/uploads/passport.scan.jpg", "passport"},
		{"/uploads/john doe.jpg", "john"},
		{"/uploads/noext", "noext"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := OutputStem(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := OutputStem("/uploads/.jpg")
	assert.Error(t, err)
}
