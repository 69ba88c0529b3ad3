// Package models defines the domain types for Compliee.
package models

import "time"

// Document is a fully loaded compliance document from the library.
type Document struct {
	Path      string    `json:"path"`
	Title     string    `json:"title"`
	Color     string    `json:"color"`
	Body      string    `json:"body"`
	Metadata  string    `json:"-"` // raw metadata block, round-tripped verbatim
	Checksum  string    `json:"checksum"`
	WordCount int       `json:"word_count"`
	Score     int       `json:"score"`
	Status    string    `json:"status"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FileInfo is a lightweight storage-level description of a library file.
type FileInfo struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mtime"`
}

// Document status values derived from the compliance score heuristic.
const (
	StatusDraft   = "Draft"
	StatusAudited = "Audited"
)
