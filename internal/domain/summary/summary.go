// Package summary aggregates a job's ordered results into a final report.
package summary

import (
	"math"
	"strings"

	"github.com/okian/viva/internal/domain/model"
)

// Classification thresholds relative to an item's full share.
const (
	strengthShare = 0.8
	weaknessShare = 0.5
)

// Overall feedback bands against the 0-100 total.
const (
	bandExcellent = 85
	bandGood      = 70
	bandFair      = 50
)

// Fixed qualitative templates keyed to the feedback bands.
const (
	feedbackExcellent = "The student shows an excellent grasp of the material; explanations are consistent and well supported by examples."
	feedbackGood      = "Overall understanding is good, though some responses lack depth and supporting examples."
	feedbackFair      = "Core concepts are understood, but the wording and connections are weak; more worked examples would help."
	feedbackPoor      = "Weak performance; the fundamentals should be revisited and practiced with examples."

	emptyFeedback = "No assessment data available."
	emptyComment  = "No items could be processed."

	narrativePrefix   = "Recurring themes across the responses: "
	narrativeFallback = "No overall narrative could be drawn from the grader commentary."
)

// Build derives a Summary from the ordered result set. It is a pure
// function: N comes from the actual result count, and an empty input yields
// the fixed empty-state payload rather than dividing by zero.
func Build(results []model.NormalizedResult) model.Summary {
	if len(results) == 0 {
		return model.Summary{
			Strengths:       []string{},
			Weaknesses:      []string{},
			OverallFeedback: emptyFeedback,
			GeneralComment:  emptyComment,
		}
	}

	var total float64
	for _, r := range results {
		total += r.NormalizedScore
	}
	total = round2(total)
	avg := round2(total / float64(len(results)))
	perShare := 100 / float64(len(results))

	strengths := []string{}
	weaknesses := []string{}
	for _, r := range results {
		switch {
		case r.NormalizedScore >= strengthShare*perShare:
			strengths = append(strengths, r.ItemID)
		case r.NormalizedScore < weaknessShare*perShare:
			weaknesses = append(weaknesses, r.ItemID)
		}
	}

	var rawTotal float64
	for _, r := range results {
		rawTotal += (r.NormalizedScore / perShare) * 10
	}

	return model.Summary{
		TotalScore:      total,
		AverageScore:    avg,
		Strengths:       strengths,
		Weaknesses:      weaknesses,
		OverallFeedback: feedbackFor(total),
		GeneralComment:  narrative(results),
		Meta: model.SummaryMeta{
			Items:        len(results),
			PerItemShare: round2(perShare),
			RawTotal:     round2(rawTotal),
		},
	}
}

// feedbackFor selects the qualitative template for a 0-100 total.
func feedbackFor(total float64) string {
	switch {
	case total >= bandExcellent:
		return feedbackExcellent
	case total >= bandGood:
		return feedbackGood
	case total >= bandFair:
		return feedbackFair
	default:
		return feedbackPoor
	}
}

// narrative concatenates the grader's commentary into one rollup string,
// preferring per-item comments, then reasonings, then tips.
func narrative(results []model.NormalizedResult) string {
	var comments, reasonings, tips []string
	for _, r := range results {
		if r.Comment != "" {
			comments = append(comments, r.Comment)
		}
		if r.Reasoning != "" {
			reasonings = append(reasonings, r.Reasoning)
		}
		if r.Tip != "" {
			tips = append(tips, r.Tip)
		}
	}

	parts := comments
	if len(parts) == 0 {
		parts = reasonings
	}
	if len(parts) == 0 {
		parts = tips
	}
	if len(parts) == 0 {
		return narrativeFallback
	}
	return narrativePrefix + strings.Join(parts, " ")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
