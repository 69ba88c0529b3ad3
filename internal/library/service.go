// Package library coordinates document storage, parsing, and indexing. It is
// the single entry point for reading and mutating compliance documents.
package library

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/compliee/compliee/internal/apperr"
	"github.com/compliee/compliee/internal/checksum"
	"github.com/compliee/compliee/internal/index"
	"github.com/compliee/compliee/internal/models"
	"github.com/compliee/compliee/internal/parser"
	"github.com/compliee/compliee/internal/storage"
)

// ListItem is a lightweight item in a library list response.
type ListItem struct {
	Path      string    `json:"path"`
	Title     string    `json:"title"`
	Color     string    `json:"color"`
	WordCount int       `json:"word_count"`
	Score     int       `json:"score"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service coordinates storage and index operations.
type Service struct {
	store storage.Provider
	db    *index.DB
}

// NewService creates a new library service.
func NewService(store storage.Provider, db *index.DB) *Service {
	return &Service{store: store, db: db}
}

// List returns every library document, newest first. A document that cannot
// be read or parsed is skipped rather than failing the whole listing.
func (s *Service) List(_ context.Context) ([]ListItem, error) {
	rows, err := s.db.ListDocuments()
	if err != nil {
		return nil, err
	}
	items := make([]ListItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, ListItem{
			Path:      r.Path,
			Title:     r.Title,
			Color:     r.Color,
			WordCount: r.WordCount,
			Score:     r.Score,
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return items, nil
}

// Load reads a document from storage and parses its envelope.
func (s *Service) Load(_ context.Context, path string) (*models.Document, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return s.buildDocument(path, data)
}

// Save writes a document back to storage and reindexes it. The stored blob
// always carries both envelope markers even when the loaded document was
// missing them. Last write wins; there is no version check.
func (s *Service) Save(_ context.Context, path, title, color, body string) (*models.Document, error) {
	if _, err := s.store.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	metadata := s.preservedMetadata(path, color)
	blob := parser.Render(metadata, color, title, body)

	if _, err := s.store.Write(path, blob, storage.WriteOptions{Overwrite: true}); err != nil {
		return nil, err
	}
	if err := s.IndexFile(path, blob); err != nil {
		return nil, err
	}
	return s.buildDocument(path, blob)
}

// Create adds a new document named after the slug of its title. Name
// collisions resolve to the next free "slug-N.html" rather than failing.
func (s *Service) Create(_ context.Context, title, color, author string) (*models.Document, error) {
	if color == "" {
		color = parser.DefaultColor
	}
	body := newDocumentBody(author)
	blob := parser.Render("", color, title, body)

	name := parser.Slugify(title) + ".html"
	path, err := s.store.Write(name, blob, storage.WriteOptions{DedupeName: true})
	if err != nil {
		return nil, err
	}
	if err := s.IndexFile(path, blob); err != nil {
		return nil, err
	}
	return s.buildDocument(path, blob)
}

// Delete removes a document from storage and index. There is no trash tier.
func (s *Service) Delete(_ context.Context, path string) error {
	if err := s.store.Delete(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperr.ErrNotFound
		}
		return err
	}
	return s.db.DeleteDocument(path)
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// IndexFile parses data and upserts it into the index.
// Exported so that sync and watcher helpers can reuse it.
func (s *Service) IndexFile(path string, data []byte) error {
	res := parser.Parse(data)

	title := res.Title
	if title == "" {
		title = parser.TitleFromFilename(path)
	}

	text := parser.PlainText(res.Title + " " + res.Body)
	words := parser.WordCount(text)
	score := models.ScoreFor(words)

	return s.db.UpsertDocument(index.DocumentRow{
		Path:      path,
		Title:     title,
		Color:     res.Color,
		Checksum:  checksum.Sum(data),
		WordCount: words,
		Score:     score,
		Status:    models.StatusFor(score),
		UpdatedAt: time.Now().UTC(),
	}, text)
}

// preservedMetadata returns the existing metadata block of path when its
// color matches, so unmodelled attributes survive a save. A color change
// forces a fresh block.
func (s *Service) preservedMetadata(path, color string) string {
	data, err := s.store.Read(path)
	if err != nil {
		return ""
	}
	res := parser.Parse(data)
	if res.Metadata != "" && res.Color == color {
		return res.Metadata
	}
	return ""
}

// buildDocument constructs a Document from raw data without re-reading the
// file. Timestamps come from the index when the path is already indexed.
func (s *Service) buildDocument(path string, data []byte) (*models.Document, error) {
	res := parser.Parse(data)

	title := res.Title
	if title == "" {
		title = parser.TitleFromFilename(path)
	}

	text := parser.PlainText(res.Title + " " + res.Body)
	words := parser.WordCount(text)
	score := models.ScoreFor(words)

	doc := &models.Document{
		Path:      path,
		Title:     title,
		Color:     res.Color,
		Body:      res.Body,
		Metadata:  res.Metadata,
		Checksum:  checksum.Sum(data),
		WordCount: words,
		Score:     score,
		Status:    models.StatusFor(score),
	}

	row, err := s.db.GetDocument(path)
	if err != nil {
		return nil, err
	}
	if row != nil {
		doc.CreatedAt = row.CreatedAt
		doc.UpdatedAt = row.UpdatedAt
	}
	return doc, nil
}

// newDocumentBody is the skeletal body of a freshly created document.
func newDocumentBody(author string) string {
	if author == "" {
		author = "Unassigned"
	}
	return fmt.Sprintf("<p>Status: %s</p><p>Owner: %s</p><p></p>", models.StatusDraft, author)
}
