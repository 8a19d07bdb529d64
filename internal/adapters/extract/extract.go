// Package extract turns uploaded documents into plain text. PDF
// uploads go through pdfcpu content extraction; plain text passes
// through untouched. Anything else is rejected up front.
package extract

import (
	"bytes"
	"context"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/okian/viva/internal/domain/model"
	"github.com/okian/viva/pkg/logger"
	"github.com/okian/viva/pkg/metrics"
)

// Extractor converts one uploaded document into its textual form.
type Extractor interface {
	Extract(ctx context.Context, name string, data []byte) (model.Document, error)
}

// DocumentExtractor sniffs the upload's real type and routes it to the
// matching extraction path.
type DocumentExtractor struct {
	log logger.Logger
}

// New builds a DocumentExtractor.
func New(opts ...Option) *DocumentExtractor {
	e := &DocumentExtractor{}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.Get().Named("extract")
	}
	return e
}

// Extract detects the content type from the bytes, never from the
// filename, and returns the document text.
func (e *DocumentExtractor) Extract(ctx context.Context, name string, data []byte) (model.Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		metrics.RecordExtractionError()
		return model.Document{}, ErrEmptyDocument
	}

	mtype := mimetype.Detect(data)
	switch {
	case mtype.Is("application/pdf"):
		doc, err := e.extractPDF(ctx, name, data)
		if err != nil {
			metrics.RecordExtractionError()
			return model.Document{}, err
		}
		metrics.RecordDocumentPages(doc.Pages)
		return doc, nil
	case isTextual(mtype):
		text := strings.TrimSpace(string(data))
		if text == "" {
			metrics.RecordExtractionError()
			return model.Document{}, ErrEmptyDocument
		}
		metrics.RecordDocumentPages(1)
		return model.Document{Name: name, Text: text, Pages: 1}, nil
	default:
		e.log.Warn(ctx, "rejected upload with unsupported content type",
			logger.String("name", name),
			logger.String("content_type", mtype.String()))
		metrics.RecordExtractionError()
		return model.Document{}, ErrUnsupportedType
	}
}

func isTextual(m *mimetype.MIME) bool {
	for candidate := m; candidate != nil; candidate = candidate.Parent() {
		if candidate.Is("text/plain") {
			return true
		}
	}
	return false
}
