package capability

import (
	"context"
	"errors"
)

// ErrUnsupported is returned by the adapter when the environment lacks a
// capability backend entirely.
var ErrUnsupported = errors.New("capability unsupported")

// Candidate is one ranked guess from the language detector.
type Candidate struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// SummaryOptions mirror the summarizer's tuning knobs.
type SummaryOptions struct {
	Style  string `json:"style" yaml:"style"`
	Format string `json:"format" yaml:"format"`
	Length string `json:"length" yaml:"length"`
}

func DefaultSummaryOptions() SummaryOptions {
	return SummaryOptions{Style: "tldr", Format: "plain-text", Length: "short"}
}

// TranslateSession is a reusable handle bound to one language pair.
type TranslateSession interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Translator builds translate sessions. Sessions are cached by the adapter per
// language pair so repeated calls with unchanged params reuse the handle.
type Translator interface {
	NewSession(ctx context.Context, source, target string) (TranslateSession, error)
}

// Detector returns ranked language candidates for a text. An empty candidate
// list is not an error; the adapter maps it to "Unknown".
type Detector interface {
	Detect(ctx context.Context, text string) ([]Candidate, error)
}

// Summarizer condenses a text according to options.
type Summarizer interface {
	Summarize(ctx context.Context, text string, opts SummaryOptions) (string, error)
}

// Providers is the set of available backends. A nil slot models a capability
// absent from the runtime environment; the adapter fails closed on it.
type Providers struct {
	Translator Translator
	Detector   Detector
	Summarizer Summarizer
}
