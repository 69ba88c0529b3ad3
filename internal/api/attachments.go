package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/compliee/compliee/internal/extract"
)

const (
	attachDirName  = "attachments"
	maxUploadBytes = 50 << 20 // 50 MB
)

// AttachmentHandler accepts reference uploads and turns them into prompt
// text for drafting.
type AttachmentHandler struct {
	libraryRoot string
	extractor   *extract.Extractor
}

// NewAttachmentHandler creates a handler storing uploads under the library
// root.
func NewAttachmentHandler(libraryRoot string, extractor *extract.Extractor) *AttachmentHandler {
	return &AttachmentHandler{libraryRoot: libraryRoot, extractor: extractor}
}

func (a *AttachmentHandler) attachPath() string {
	return filepath.Join(a.libraryRoot, attachDirName)
}

// safeName validates that the filename is a plain name (no path separators,
// no traversal) and returns the absolute path under the attachments dir.
func (a *AttachmentHandler) safeName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("filename is required")
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid filename: %s", name)
	}
	abs := filepath.Join(a.attachPath(), cleaned)
	if !strings.HasPrefix(abs, a.attachPath()+string(os.PathSeparator)) && abs != a.attachPath() {
		return "", fmt.Errorf("path escapes attachments directory")
	}
	return abs, nil
}

// Text reads a previously uploaded attachment and extracts its prompt text.
func (a *AttachmentHandler) Text(name string) (string, error) {
	abs, err := a.safeName(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("attachment not found: %s", name)
	}
	return a.extractor.Extract(name, data), nil
}

// Upload handles POST /attachments (multipart/form-data, field "file").
// The response carries the extracted text so the editor can preview what
// the model will see.
func (a *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	abs, err := a.safeName(header.Filename)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	if err := os.MkdirAll(a.attachPath(), 0o755); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to create attachments dir"))
		return
	}

	dst, err := os.Create(abs)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to create file"))
		return
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to write file"))
		return
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to read back file"))
		return
	}

	writeJSON(w, http.StatusCreated, AttachmentUploadResponse{
		Filename: header.Filename,
		Size:     written,
		Text:     a.extractor.Extract(header.Filename, data),
	})
}
