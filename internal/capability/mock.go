package capability

import (
	"context"
	"strings"
	"sync"
	"unicode"
)

// MockProvider simulates all three capabilities for offline use and tests.
// Outputs are deterministic so transcripts are stable across runs.
type MockProvider struct {
	mu    sync.Mutex
	calls map[Kind]int
}

func NewMockProvider() *MockProvider {
	return &MockProvider{calls: make(map[Kind]int)}
}

// Calls reports how many times a kind was invoked. Test helper.
func (m *MockProvider) Calls(kind Kind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[kind]
}

func (m *MockProvider) count(kind Kind) {
	m.mu.Lock()
	m.calls[kind]++
	m.mu.Unlock()
}

// MockProviders exposes one mock backend as the full provider set.
func MockProviders() Providers {
	m := NewMockProvider()
	return Providers{Translator: m, Detector: m, Summarizer: m}
}

// Small phrasebook keyed by lowercase source text, then language pair.
var mockPhrases = map[string]map[string]string{
	"bonjour": {
		"fr->en": "Hello",
		"fr->es": "Hola",
		"fr->pt": "Olá",
	},
	"hello": {
		"en->fr": "Bonjour",
		"en->es": "Hola",
		"en->pt": "Olá",
		"en->ru": "Привет",
		"en->tr": "Merhaba",
	},
	"thank you": {
		"en->fr": "Merci",
		"en->es": "Gracias",
		"en->tr": "Teşekkürler",
	},
	"good morning": {
		"en->fr": "Bonjour",
		"en->es": "Buenos días",
	},
}

type mockSession struct {
	provider *MockProvider
	pair     string
}

func (s *mockSession) Translate(_ context.Context, text string) (string, error) {
	s.provider.count(KindTranslate)
	key := strings.ToLower(strings.TrimSpace(text))
	if byPair, ok := mockPhrases[key]; ok {
		if out, ok := byPair[s.pair]; ok {
			return out, nil
		}
	}
	// Fallback keeps the text visible while marking the pair it was "translated" for.
	return "[" + s.pair + "] " + strings.TrimSpace(text), nil
}

func (m *MockProvider) NewSession(_ context.Context, source, target string) (TranslateSession, error) {
	return &mockSession{provider: m, pair: source + "->" + target}, nil
}

// Detect guesses by script and a few stop words; anything unrecognized yields
// an empty candidate list, which the adapter maps to "Unknown".
func (m *MockProvider) Detect(_ context.Context, text string) ([]Candidate, error) {
	m.count(KindDetect)
	trimmed := strings.ToLower(strings.TrimSpace(text))
	if trimmed == "" {
		return nil, nil
	}
	for _, r := range trimmed {
		if unicode.Is(unicode.Cyrillic, r) {
			return []Candidate{{Language: "ru", Confidence: 0.97}}, nil
		}
	}
	words := strings.Fields(trimmed)
	markers := []struct {
		language string
		words    []string
	}{
		{"fr", []string{"bonjour", "merci", "le", "la", "est", "je"}},
		{"es", []string{"hola", "gracias", "el", "como", "que", "es"}},
		{"pt", []string{"olá", "obrigado", "não", "você"}},
		{"tr", []string{"merhaba", "teşekkürler", "bir", "ve"}},
		{"en", []string{"hello", "the", "is", "a", "and", "you", "thank"}},
	}
	for _, marker := range markers {
		for _, w := range words {
			w = strings.Trim(w, ".,:;!?¿¡\"'")
			for _, mw := range marker.words {
				if w == mw {
					return []Candidate{
						{Language: marker.language, Confidence: 0.92},
						{Language: "en", Confidence: 0.05},
					}, nil
				}
			}
		}
	}
	return nil, nil
}

func (m *MockProvider) Summarize(_ context.Context, text string, opts SummaryOptions) (string, error) {
	m.count(KindSummarize)
	trimmed := strings.TrimSpace(text)
	if idx := strings.IndexAny(trimmed, ".!?"); idx >= 0 && idx+1 < len(trimmed) {
		trimmed = trimmed[:idx+1]
	}
	words := strings.Fields(trimmed)
	limit := 12
	if opts.Length == "long" {
		limit = 40
	}
	if len(words) > limit {
		trimmed = strings.Join(words[:limit], " ") + "…"
	}
	return trimmed, nil
}
