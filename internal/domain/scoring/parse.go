package scoring

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/okian/viva/internal/domain/model"
)

// extractJSON pulls the first JSON object out of a completion that may
// wrap it in a fenced code block or stray prose.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// parseGrade turns a raw completion into a ScoreResult. The item id is
// always taken from the input, never from the model, and the score is
// clamped to the 0-10 scale.
func parseGrade(itemID, content string) (model.ScoreResult, error) {
	extracted := extractJSON(content)
	if extracted == "" {
		return model.ScoreResult{}, ErrMalformedGrade
	}

	var wire gradeWire
	if err := json.Unmarshal([]byte(extracted), &wire); err != nil {
		return model.ScoreResult{}, ErrMalformedGrade
	}

	return model.ScoreResult{
		ItemID:    itemID,
		RawScore:  clampScore(parseScore(wire.Score)),
		Reasoning: strings.TrimSpace(wire.Reasoning),
		Tip:       strings.TrimSpace(wire.Tip),
		Comment:   strings.TrimSpace(wire.Comment),
	}, nil
}

// parseScore accepts both numeric and quoted scores; anything else
// counts as zero.
func parseScore(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return n
		}
	}
	return 0
}

func clampScore(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > maxRawScore:
		return maxRawScore
	default:
		return v
	}
}
