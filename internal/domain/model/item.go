// Package model contains domain models passed between layers.
package model

// Document is an uploaded document reduced to its extracted text.
type Document struct {
	Name  string // display identifier, normally the uploaded filename
	Text  string // concatenated per-page text
	Pages int    // diagnostic page count from extraction
}

// ItemBlock is one marker-delimited chunk of a document. ItemID is the
// decimal string captured from the marker; ordering is document order.
type ItemBlock struct {
	ItemID  string
	RawText string
}

// SplitResult partitions an item block into prompt and response. Either side
// may be empty. Strategy names the heuristic branch that produced the split.
type SplitResult struct {
	Prompt   string
	Response string
	Strategy string
}

// AlignedItem is one gradable unit: the submission's answer joined with the
// key's answer under a shared item id.
type AlignedItem struct {
	ItemID          string
	Prompt          string
	StudentResponse string
	KeyResponse     string
	StudentName     string
}

// ScoreResult is the gateway's verdict for a single item. RawScore is on a
// 0-10 scale and is always set; failures surface as zero with an explanatory
// Reasoning.
type ScoreResult struct {
	ItemID    string  `json:"item_id"`
	RawScore  float64 `json:"raw_score"`
	Reasoning string  `json:"reasoning"`
	Tip       string  `json:"tip"`
	Comment   string  `json:"comment"`
}

// NormalizedResult is a ScoreResult projected onto the shared 0-100 scale,
// carrying the item context for publication.
type NormalizedResult struct {
	ScoreResult
	NormalizedScore float64 `json:"normalized_score"`
	Prompt          string  `json:"prompt"`
	StudentResponse string  `json:"student_response"`
	KeyResponse     string  `json:"key_response"`
	StudentName     string  `json:"student_name"`
}
