package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/compliee/compliee/internal/library"
)

// CreateDocumentRequest is the request body for creating a document.
type CreateDocumentRequest struct {
	Title string `json:"title"`
	Color string `json:"color"`
}

func (r CreateDocumentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Color, validation.Length(0, 32)),
	)
}

// SaveDocumentRequest is the request body for saving a document.
type SaveDocumentRequest struct {
	Title string `json:"title"`
	Color string `json:"color"`
	Body  string `json:"body"`
}

func (r SaveDocumentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Color, validation.Length(0, 32)),
	)
}

// AutosaveRequest schedules a debounced save.
type AutosaveRequest struct {
	Path  string `json:"path"`
	Title string `json:"title"`
	Color string `json:"color"`
	Body  string `json:"body"`
}

func (r AutosaveRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Path, validation.Required),
		validation.Field(&r.Title, validation.Required),
	)
}

// DraftRequest asks the AI shim for new document content.
type DraftRequest struct {
	Instruction  string `json:"instruction"`
	DocumentPath string `json:"document_path"`
	Attachment   string `json:"attachment"`
}

func (r DraftRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Instruction, validation.Required, validation.Length(1, 10000)),
	)
}

// RefineRequest asks the AI shim to rewrite a selected passage.
type RefineRequest struct {
	Selection   string `json:"selection"`
	Instruction string `json:"instruction"`
}

func (r RefineRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Selection, validation.Required),
		validation.Field(&r.Instruction, validation.Required, validation.Length(1, 10000)),
	)
}

// ListItem is a lightweight library entry (aliased from the domain layer).
type ListItem = library.ListItem

// DocumentListResponse wraps library listings.
type DocumentListResponse struct {
	Documents []ListItem `json:"documents"`
	Total     int        `json:"total"`
}

// SearchResult is a single search hit in the API response.
type SearchResult struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// DraftResponse carries generated content back to the editor.
type DraftResponse struct {
	Content string `json:"content"`
}

// SessionResponse describes the caller's resolved access state.
type SessionResponse struct {
	Username   string `json:"username,omitempty"`
	SignedIn   bool   `json:"signed_in"`
	Subscribed bool   `json:"subscribed"`
	View       string `json:"view"`
}

// AttachmentUploadResponse is returned after a successful attachment upload.
type AttachmentUploadResponse struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Text     string `json:"text"`
}
