// Package capability wraps the three on-device language services (translate,
// detect, summarize) behind one uniform async invoke contract. Callers never see
// a panic or an unhandled error from this package: every failure mode, including
// a missing backend, is folded into a Result with a Failure outcome.
package capability

import "strings"

// Kind identifies one of the three independent capability pipelines.
type Kind string

const (
	KindTranslate Kind = "translate"
	KindDetect    Kind = "detect"
	KindSummarize Kind = "summarize"
)

// Kinds lists every pipeline in fan-out order.
var Kinds = []Kind{KindDetect, KindSummarize, KindTranslate}

// Supported language codes, two-letter.
var SupportedLanguages = []string{"en", "es", "pt", "ru", "tr", "fr"}

func IsSupportedLanguage(code string) bool {
	for _, c := range SupportedLanguages {
		if c == code {
			return true
		}
	}
	return false
}

// Snapshot is an immutable capture of the input text at one edit instant.
// Seq strictly increases per edit and is the freshness token used to discard
// stale async results.
type Snapshot struct {
	Text string
	Seq  uint64
}

// Empty reports whether the snapshot holds no usable text.
func (s Snapshot) Empty() bool {
	return strings.TrimSpace(s.Text) == ""
}

// Params carries the per-request capability options. Only translate reads the
// language pair; detect and summarize ignore it.
type Params struct {
	Source string
	Target string
}

// Request associates exactly one snapshot with one capability call.
type Request struct {
	Kind     Kind
	Snapshot Snapshot
	Params   Params
}

// Result is the completion of a Request. Snapshot always equals the request's
// snapshot so completions can be matched to the edit that produced them even
// when they arrive out of order. Err is a human-readable failure reason; a nil
// Err means Value holds the successful output (which may legitimately be "").
type Result struct {
	Kind     Kind
	Snapshot Snapshot
	Value    string
	Err      error
}

// Failed reports whether the outcome is a Failure.
func (r Result) Failed() bool {
	return r.Err != nil
}
