package segment

// Option applies a configuration option to the Segmenter.
type Option func(*Segmenter)

// WithMarkerLabel sets the literal that announces an item, e.g. "Question"
// matches "Question 3:".
func WithMarkerLabel(label string) Option {
	return func(s *Segmenter) {
		if label != "" {
			s.label = label
		}
	}
}

// SplitOption applies a configuration option to the Splitter.
type SplitOption func(*Splitter)

// WithSeparators sets the keywords that separate prompt from response,
// e.g. "answer" matches "Answer:" and a bare "Answer".
func WithSeparators(separators []string) SplitOption {
	return func(sp *Splitter) {
		if len(separators) > 0 {
			sp.separators = separators
		}
	}
}

// WithDirectives sets the directive phrases that end a prompt, e.g.
// "Explain" splits right after "Explain." with the directive kept in the
// prompt.
func WithDirectives(directives []string) SplitOption {
	return func(sp *Splitter) {
		if len(directives) > 0 {
			sp.directives = directives
		}
	}
}
