// Package segment turns raw document text into ordered item blocks and
// splits each block into a prompt and a response.
//
// The heuristics are best-effort by design: malformed layouts degrade to a
// well-formed result (possibly with empty fields), never to an error.
package segment

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/viva/internal/domain/model"
)

// Default marker configuration.
const (
	defaultMarkerLabel = "Question"
)

// Segmenter locates item markers ("<label> N:" or "<label> N.") and cuts the
// document into blocks between consecutive markers.
type Segmenter struct {
	label    string
	markerRE *regexp.Regexp
}

// NewSegmenter creates a segmenter with configuration options.
func NewSegmenter(opts ...Option) *Segmenter {
	s := &Segmenter{
		label: defaultMarkerLabel,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.markerRE = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(s.label) + `\s+(\d+)\s*[:.]`)
	return s
}

// Segment splits text into item blocks in document order. The item id is the
// integer captured from each marker, kept as a decimal string ("01" and "1"
// stay distinct). Text before the first marker is discarded. No markers
// yields an empty slice.
func (s *Segmenter) Segment(text string) []model.ItemBlock {
	matches := s.markerRE.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	blocks := make([]model.ItemBlock, 0, len(matches))
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		blocks = append(blocks, model.ItemBlock{
			ItemID:  text[m[2]:m[3]],
			RawText: strings.TrimSpace(text[m[1]:end]),
		})
	}
	return blocks
}

// SortNumeric returns a copy of blocks ordered by the numeric value of their
// item ids. Ties (e.g. "1" vs "01") keep first-seen order.
func SortNumeric(blocks []model.ItemBlock) []model.ItemBlock {
	sorted := make([]model.ItemBlock, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, _ := strconv.Atoi(sorted[i].ItemID)
		b, _ := strconv.Atoi(sorted[j].ItemID)
		return a < b
	})
	return sorted
}

// identityLineRE matches a leading name line such as "Name: Jane Doe" or
// "Full Name: Jane Doe". The line is document metadata, not item content.
var identityLineRE = regexp.MustCompile(`(?i)^[ \t]*(?:full\s+)?name\s*:[^\n]*\n?`)

// nameRE captures the student name anywhere in a document.
var nameRE = regexp.MustCompile(`(?im)^[ \t]*(?:full\s+)?name\s*:\s*(.+)$`)

// ExtractName pulls the student name out of a document's text. Returns an
// empty string when no identity line is present.
func ExtractName(text string) string {
	if text == "" {
		return ""
	}
	m := nameRE.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// stripIdentityLine removes a leading identity line from a block so it does
// not leak into the prompt or the response.
func stripIdentityLine(text string) string {
	return identityLineRE.ReplaceAllString(text, "")
}
