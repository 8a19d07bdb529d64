package model

// Summary aggregates a full job's normalized results. Derived once, never
// mutated afterwards.
type Summary struct {
	TotalScore      float64     `json:"total_score"`
	AverageScore    float64     `json:"average_score"`
	Strengths       []string    `json:"strengths"`
	Weaknesses      []string    `json:"weaknesses"`
	OverallFeedback string      `json:"overall_feedback"`
	GeneralComment  string      `json:"general_comment"`
	Meta            SummaryMeta `json:"meta"`
}

// SummaryMeta carries diagnostic aggregates alongside the summary.
type SummaryMeta struct {
	Items        int     `json:"items"`
	PerItemShare float64 `json:"per_item_share"`
	RawTotal     float64 `json:"raw_total"` // sum of raw scores on the 0-10 scale
}
