package segment

import (
	"regexp"
	"strings"

	"github.com/okian/viva/internal/domain/model"
	"github.com/okian/viva/pkg/metrics"
)

// Strategy names, recorded on each SplitResult for attribution.
const (
	StrategySeparatorToken = "separator-token"
	StrategySeparatorWord  = "separator-word"
	StrategyParagraph      = "paragraph-break"
	StrategyDirective      = "directive"
	StrategyQuestionMark   = "question-mark"
	StrategyFallback       = "fallback"
)

// Default splitter vocabulary.
var (
	defaultSeparators = []string{"answer", "response", "reply"}
	defaultDirectives = []string{"Explain"}
)

// splitFunc attempts one heuristic. ok reports whether the branch fired.
type splitFunc func(text string) (prompt, response string, ok bool)

// strategy pairs a heuristic with its name so results stay attributable.
type strategy struct {
	name  string
	split splitFunc
}

// Splitter partitions an item block into prompt and response by trying an
// ordered chain of heuristics and stopping at the first match. The final
// fallback always fires, so Split is total.
type Splitter struct {
	separators []string
	directives []string
	chain      []strategy
}

// NewSplitter creates a splitter with configuration options.
func NewSplitter(opts ...SplitOption) *Splitter {
	sp := &Splitter{
		separators: defaultSeparators,
		directives: defaultDirectives,
	}

	for _, opt := range opts {
		opt(sp)
	}

	sp.compile()
	return sp
}

// Split partitions one block's text. Exactly one strategy is attributed to
// every result; malformed input degrades to the fallback branch.
func (sp *Splitter) Split(text string) model.SplitResult {
	text = stripIdentityLine(text)

	for _, st := range sp.chain {
		prompt, response, ok := st.split(text)
		if !ok {
			continue
		}
		metrics.RecordSplitStrategy(st.name)
		return model.SplitResult{
			Prompt:   strings.TrimSpace(prompt),
			Response: strings.TrimSpace(response),
			Strategy: st.name,
		}
	}

	// Unreachable: the fallback strategy always fires.
	return model.SplitResult{Strategy: StrategyFallback}
}

func (sp *Splitter) compile() {
	alternation := strings.Join(sp.separators, "|")
	sepTokenRE := regexp.MustCompile(`(?i)\b(?:` + alternation + `)\s*[:\-–]\s*`)
	sepWordRE := regexp.MustCompile(`(?i)\b(?:` + alternation + `)\b`)
	paragraphRE := regexp.MustCompile(`\n[ \t]*\n+`)
	questionRE := regexp.MustCompile(`\?(?:\s|$)`)

	directiveREs := make([]*regexp.Regexp, 0, len(sp.directives)*3)
	for _, d := range sp.directives {
		quoted := regexp.QuoteMeta(d)
		// Punctuated forms first so the directive keeps its terminator.
		directiveREs = append(directiveREs,
			regexp.MustCompile(`(?i)`+quoted+`\.`),
			regexp.MustCompile(`(?i)`+quoted+`:`),
			regexp.MustCompile(`(?i)`+quoted),
		)
	}

	sp.chain = []strategy{
		{StrategySeparatorToken, func(text string) (string, string, bool) {
			loc := sepTokenRE.FindStringIndex(text)
			if loc == nil {
				return "", "", false
			}
			return text[:loc[0]], text[loc[1]:], true
		}},
		{StrategySeparatorWord, func(text string) (string, string, bool) {
			loc := sepWordRE.FindStringIndex(text)
			if loc == nil {
				return "", "", false
			}
			return text[:loc[0]], text[loc[1]:], true
		}},
		{StrategyParagraph, func(text string) (string, string, bool) {
			loc := paragraphRE.FindStringIndex(text)
			if loc == nil {
				return "", "", false
			}
			return text[:loc[0]], text[loc[1]:], true
		}},
		{StrategyDirective, func(text string) (string, string, bool) {
			for _, re := range directiveREs {
				if loc := re.FindStringIndex(text); loc != nil {
					// The directive belongs to the prompt.
					return text[:loc[1]], text[loc[1]:], true
				}
			}
			return "", "", false
		}},
		{StrategyQuestionMark, func(text string) (string, string, bool) {
			loc := questionRE.FindStringIndex(text)
			if loc == nil {
				return "", "", false
			}
			return text[:loc[1]], text[loc[1]:], true
		}},
		{StrategyFallback, func(text string) (string, string, bool) {
			return "", text, true
		}},
	}
}
