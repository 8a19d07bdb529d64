package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/okian/viva/pkg/logger"
	"github.com/okian/viva/pkg/metrics"
)

const (
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultModel       = "gpt-4o-mini"
	defaultTemperature = 0.2
	defaultTimeout     = 120 * time.Second

	maxRawScore = 10.0
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature,omitempty"`
	ResponseFormat any           `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// gradeWire is the JSON shape the prompt instructs the model to emit.
type gradeWire struct {
	ItemID    string          `json:"item_id"`
	Score     json.RawMessage `json:"score"`
	Reasoning string          `json:"reasoning"`
	Tip       string          `json:"tip"`
	Comment   string          `json:"comment"`
}

// LLMScorer grades items through a chat completion endpoint. A failed
// call is retried once on transport errors; any other failure turns
// into a degraded outcome so a single item can never sink a job.
type LLMScorer struct {
	baseURL     string
	model       string
	apiKey      string
	temperature float64
	timeout     time.Duration
	http        *http.Client
	log         logger.Logger
}

// NewLLMScorer builds a scorer against an OpenAI-compatible endpoint.
func NewLLMScorer(opts ...Option) *LLMScorer {
	s := &LLMScorer{
		baseURL:     defaultBaseURL,
		model:       defaultModel,
		temperature: defaultTemperature,
		timeout:     defaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.baseURL = normalizeBaseURL(s.baseURL)
	if s.http == nil {
		s.http = &http.Client{
			Timeout: s.timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				ForceAttemptHTTP2:   true,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}
	if s.log == nil {
		s.log = logger.Get().Named("scoring")
	}
	return s
}

// Score grades one item. It never returns an error: failures degrade
// into a zero-score outcome with the cause attached.
func (s *LLMScorer) Score(ctx context.Context, in Input) Outcome {
	start := time.Now()
	defer func() {
		metrics.RecordScoringLatency(float64(time.Since(start).Milliseconds()))
	}()

	content, err := s.complete(ctx, buildPrompt(in))
	if err != nil {
		// One retry covers transient transport hiccups; contexts that
		// are already done are not worth retrying.
		if ctx.Err() == nil {
			content, err = s.complete(ctx, buildPrompt(in))
		}
	}
	if err != nil {
		s.log.Warn(ctx, "grading fell back to a degraded score",
			logger.String("item_id", in.ItemID),
			logger.Error(err))
		metrics.RecordDegradedScore()
		return Degrade(in.ItemID, err)
	}

	result, err := parseGrade(in.ItemID, content)
	if err != nil {
		s.log.Warn(ctx, "grader output could not be parsed",
			logger.String("item_id", in.ItemID),
			logger.Error(err))
		metrics.RecordDegradedScore()
		return Degrade(in.ItemID, err)
	}

	metrics.RecordItemScored()
	return Outcome{Status: StatusGraded, Result: result}
}

func (s *LLMScorer) complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:          s.model,
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
		Temperature:    s.temperature,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	content := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}

func buildPrompt(in Input) string {
	var b strings.Builder
	b.WriteString("You are an experienced teacher grading one exam answer against its answer key.\n\n")
	b.WriteString("Score the student answer from 0 to 10 (decimals allowed, e.g. 7.5) and explain the grade.\n")
	b.WriteString("Respond with VALID JSON ONLY, no surrounding text, using exactly this template:\n")
	b.WriteString("{\n")
	fmt.Fprintf(&b, "  %q: %q,\n", "item_id", in.ItemID)
	b.WriteString("  \"score\": 0.0,\n")
	b.WriteString("  \"reasoning\": \"Short, concrete explanation of why the answer is strong or weak.\",\n")
	b.WriteString("  \"tip\": \"One suggestion for how the answer could be improved.\",\n")
	b.WriteString("  \"comment\": \"Overall judgement of the performance on this item.\"\n")
	b.WriteString("}\n\n")
	b.WriteString("[Question]\n")
	b.WriteString(strings.TrimSpace(in.Prompt))
	b.WriteString("\n\n[Answer Key]\n")
	b.WriteString(strings.TrimSpace(in.KeyResponse))
	b.WriteString("\n\n[Student Answer]\n")
	b.WriteString(strings.TrimSpace(in.StudentResponse))
	return b.String()
}

func normalizeBaseURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	return strings.TrimRight(trimmed, "/")
}
