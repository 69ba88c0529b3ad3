package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/webassembly"
)

// maxPDFPages caps how many pages of a PDF are read into prompt text.
const maxPDFPages = 20

const instanceTimeout = 30 * time.Second

// pdfExtractor wraps a pdfium worker pool running in-process via WebAssembly,
// so no native pdfium library needs to be installed.
type pdfExtractor struct {
	pool pdfium.Pool
}

func newPDFExtractor() (*pdfExtractor, error) {
	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("extract: init pdfium: %w", err)
	}
	return &pdfExtractor{pool: pool}, nil
}

func (p *pdfExtractor) close() error {
	return p.pool.Close()
}

// text extracts plain text from up to maxPDFPages pages, each prefixed with
// a page delimiter.
func (p *pdfExtractor) text(data []byte) (string, error) {
	instance, err := p.pool.GetInstance(instanceTimeout)
	if err != nil {
		return "", fmt.Errorf("extract: get pdfium instance: %w", err)
	}
	defer instance.Close()

	doc, err := instance.OpenDocument(&requests.OpenDocument{File: &data})
	if err != nil {
		return "", fmt.Errorf("extract: open pdf: %w", err)
	}
	defer instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{Document: doc.Document}) //nolint:errcheck

	count, err := instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{Document: doc.Document})
	if err != nil {
		return "", fmt.Errorf("extract: page count: %w", err)
	}

	pages := count.PageCount
	if pages > maxPDFPages {
		pages = maxPDFPages
	}

	var out strings.Builder
	for i := 0; i < pages; i++ {
		pageText, err := instance.GetPageText(&requests.GetPageText{
			Page: requests.Page{
				ByIndex: &requests.PageByIndex{Document: doc.Document, Index: i},
			},
		})
		if err != nil {
			// A single broken page should not void the rest.
			fmt.Fprintf(&out, "\n--- Page %d ---\n[unreadable page]\n", i+1)
			continue
		}
		fmt.Fprintf(&out, "\n--- Page %d ---\n%s\n", i+1, pageText.Text)
	}
	return out.String(), nil
}
