package index

import (
	"log/slog"
	"time"

	"github.com/compliee/compliee/internal/checksum"
	"github.com/compliee/compliee/internal/models"
	"github.com/compliee/compliee/internal/parser"
	"github.com/compliee/compliee/internal/storage"
)

// Sync walks the library and brings the index up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the index
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if checksums[m.Path] == checksum.Sum(data) {
			continue
		}
		if err := indexFile(db, m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteDocument(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// indexFile parses data and upserts it into the DB with derived compliance
// fields.
func indexFile(db *DB, path string, data []byte) error {
	res := parser.Parse(data)

	title := res.Title
	if title == "" {
		title = parser.TitleFromFilename(path)
	}

	text := parser.PlainText(res.Title + " " + res.Body)
	words := parser.WordCount(text)
	score := models.ScoreFor(words)

	row := DocumentRow{
		Path:      path,
		Title:     title,
		Color:     res.Color,
		Checksum:  checksum.Sum(data),
		WordCount: words,
		Score:     score,
		Status:    models.StatusFor(score),
		UpdatedAt: time.Now().UTC(),
	}
	return db.UpsertDocument(row, text)
}
