package tui

import (
	"testing"

	"lingochat/internal/app"
	"lingochat/internal/capability"
)

func newTestModel(t *testing.T) *MainModel {
	t.Helper()
	application, err := app.NewApplication(app.DefaultConfig(), true)
	if err != nil {
		t.Fatalf("NewApplication: %v", err)
	}
	t.Cleanup(func() { application.Close() })
	return New(application)
}

func TestNextLanguageCyclesThroughAllCodes(t *testing.T) {
	t.Parallel()

	code := capability.SupportedLanguages[0]
	seen := map[string]bool{code: true}
	for i := 1; i < len(capability.SupportedLanguages); i++ {
		code = nextLanguage(code)
		if seen[code] {
			t.Fatalf("cycle revisited %q before covering all codes", code)
		}
		seen[code] = true
	}
	if next := nextLanguage(code); next != capability.SupportedLanguages[0] {
		t.Fatalf("cycle did not wrap: %q -> %q", code, next)
	}
	if nextLanguage("zz") != capability.SupportedLanguages[0] {
		t.Fatal("unknown code should reset to the first language")
	}
}

func TestOneLineAndTruncate(t *testing.T) {
	t.Parallel()

	if got := oneLine("a\r\nb\n  c "); got != "a b c" {
		t.Fatalf("oneLine = %q", got)
	}
	if got := truncateRunes("héllo", 3); got != "hé…" {
		t.Fatalf("truncateRunes = %q", got)
	}
	if got := truncateRunes("hi", 10); got != "hi" {
		t.Fatalf("truncateRunes = %q", got)
	}
	if got := truncateRunes("hi", 0); got != "" {
		t.Fatalf("truncateRunes = %q", got)
	}
}

func TestStaleGenerationResultsAreIgnored(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)

	// A conversation is started and then reset. The fresh session restarts its
	// snapshot sequence, so an old in-flight completion could collide with the
	// new conversation's numbering if the generation guard were missing.
	first := m.session.Edit("hello")
	var oldTranslate capability.Request
	for _, r := range first {
		if r.Kind == capability.KindTranslate {
			oldTranslate = r
		}
	}
	m.reset()
	second := m.session.Edit("hello")

	m.Update(resultMsg{gen: m.gen - 1, res: capability.Result{
		Kind:     capability.KindTranslate,
		Snapshot: oldTranslate.Snapshot,
		Value:    "ghost",
	}})
	if f := m.session.Draft().Field(capability.KindTranslate); f.Set {
		t.Fatalf("stale-generation result reached the session: %+v", f)
	}

	var current capability.Request
	for _, r := range second {
		if r.Kind == capability.KindTranslate {
			current = r
		}
	}
	m.Update(resultMsg{gen: m.gen, res: capability.Result{
		Kind:     capability.KindTranslate,
		Snapshot: current.Snapshot,
		Value:    "real",
	}})
	if f := m.session.Draft().Field(capability.KindTranslate); f.Value != "real" {
		t.Fatalf("translate field = %+v", f)
	}
}

func TestCommitClearsInput(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.input.SetValue("hello")
	m.lastText = "hello"
	m.session.Edit("hello")

	m.commit(m.session.SendTranslation)
	if m.input.Value() != "" {
		t.Fatalf("input not cleared: %q", m.input.Value())
	}
	if n := len(m.session.Messages()); n != 1 {
		t.Fatalf("log has %d messages, want 1 (bot reply deferred)", n)
	}
}
