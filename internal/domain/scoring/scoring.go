// Package scoring grades a single aligned item against its answer key
// through an OpenAI-compatible chat completion endpoint.
package scoring

import (
	"context"

	"github.com/okian/viva/internal/domain/model"
)

// Status reports whether a grade came back from the model or was
// substituted after a failure.
type Status string

const (
	// StatusGraded means the model produced a usable grade.
	StatusGraded Status = "graded"
	// StatusDegraded means grading failed and the outcome carries a
	// zero score with an explanatory reasoning instead.
	StatusDegraded Status = "degraded"
)

// Input is one item to grade.
type Input struct {
	ItemID          string
	Prompt          string
	StudentResponse string
	KeyResponse     string
}

// Outcome is the result of grading one item. A degraded outcome still
// carries a complete ScoreResult so downstream aggregation never has
// to special-case it; Cause records what went wrong.
type Outcome struct {
	Status Status
	Result model.ScoreResult
	Cause  error
}

// Scorer grades one item. Implementations must not return partial
// results: every call yields a complete Outcome, degraded or not.
type Scorer interface {
	Score(ctx context.Context, in Input) Outcome
}

// Degrade builds the substitute outcome for a failed grade.
func Degrade(itemID string, cause error) Outcome {
	reasoning := "The grader response could not be interpreted."
	if cause != nil {
		reasoning = "The grader response could not be interpreted: " + cause.Error()
	}
	return Outcome{
		Status: StatusDegraded,
		Cause:  cause,
		Result: model.ScoreResult{
			ItemID:    itemID,
			RawScore:  0,
			Reasoning: reasoning,
			Tip:       "An error occurred while this item was being assessed.",
			Comment:   "No assessment could be produced for this item.",
		},
	}
}
