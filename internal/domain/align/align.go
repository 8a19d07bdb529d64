// Package align matches submission items to answer-key items by item id.
package align

import (
	"context"
	"strings"

	"github.com/okian/viva/internal/domain/model"
	"github.com/okian/viva/pkg/logger"
	"github.com/okian/viva/pkg/metrics"
)

// Side is one document's items after segmentation and splitting, keyed in
// document order.
type Side struct {
	ItemID   string
	Prompt   string
	Response string
}

// Aligner merges the two sides into gradable AlignedItems.
type Aligner struct {
	logger logger.Logger
}

// New creates an Aligner.
func New(opts ...Option) *Aligner {
	a := &Aligner{}

	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = logger.Get().Named("align")
	}
	return a
}

// Align emits one AlignedItem per submission item, in the submission's given
// order. The key's response fills KeyResponse; a missing key entry leaves it
// empty with a warning. Key-only ids are dropped: only submission-driven
// items are graded. Duplicate submission ids keep their first occurrence.
func (a *Aligner) Align(ctx context.Context, submission, key []Side, studentName string) []model.AlignedItem {
	keyByID := make(map[string]Side, len(key))
	for _, k := range key {
		if _, ok := keyByID[k.ItemID]; ok {
			continue // first occurrence wins
		}
		keyByID[k.ItemID] = k
	}

	seen := make(map[string]struct{}, len(submission))
	items := make([]model.AlignedItem, 0, len(submission))
	for _, s := range submission {
		if _, dup := seen[s.ItemID]; dup {
			a.logger.Warn(ctx, "duplicate item id in submission; keeping first occurrence",
				logger.String("item_id", s.ItemID))
			continue
		}
		seen[s.ItemID] = struct{}{}

		k, matched := keyByID[s.ItemID]
		if !matched {
			a.logger.Warn(ctx, "no key entry for submission item",
				logger.String("item_id", s.ItemID))
			metrics.RecordAlignmentWarning()
		}

		prompt := strings.TrimSpace(s.Prompt)
		if prompt == "" {
			// Fall back to the key's wording of the question.
			prompt = strings.TrimSpace(k.Prompt)
		}

		items = append(items, model.AlignedItem{
			ItemID:          s.ItemID,
			Prompt:          prompt,
			StudentResponse: strings.TrimSpace(s.Response),
			KeyResponse:     strings.TrimSpace(k.Response),
			StudentName:     strings.TrimSpace(studentName),
		})
	}

	return items
}
