package utils

import (
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", []string{}},
		{"single", "beach", []string{"beach"}},
		{"trims and lowercases", " Beach , FOOD ", []string{"beach", "food"}},
		{"drops duplicates", "beach,Beach,food,beach", []string{"beach", "food"}},
		{"skips blanks", "beach,, ,food", []string{"beach", "food"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SplitTags(tc.input))
		})
	}
}

func headerWithContentType(ct string) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: "upload.bin",
		Header:   textproto.MIMEHeader{"Content-Type": []string{ct}},
	}
}

func TestValidateImageFileType(t *testing.T) {
	w := httptest.NewRecorder()
	assert.True(t, ValidateImageFileType(w, headerWithContentType("image/png")))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	assert.False(t, ValidateImageFileType(w, headerWithContentType("text/plain")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
