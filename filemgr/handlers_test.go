package filemgr

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"
)

func multipartBody(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="` + field + `"; filename="` + filename + `"`},
		"Content-Type":        {contentType},
	})
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadRejectsNonImageContentType(t *testing.T) {
	h := NewHandlers(NewManager(t.TempDir()))

	body, contentType := multipartBody(t, "file", "notes.txt", "text/plain", []byte("not an image"))
	req := httptest.NewRequest(http.MethodPost, "/api/uploads/photo", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Upload(rec, req, httprouter.Params{{Key: "kind", Value: "photo"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadMultipleRejectsNonImageContentType(t *testing.T) {
	h := NewHandlers(NewManager(t.TempDir()))

	body, contentType := multipartBody(t, "files", "notes.txt", "application/pdf", []byte("%PDF-"))
	req := httptest.NewRequest(http.MethodPost, "/api/uploads/photo/batch", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.UploadMultiple(rec, req, httprouter.Params{{Key: "kind", Value: "photo"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
