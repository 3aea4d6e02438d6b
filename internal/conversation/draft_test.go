package conversation

import (
	"errors"
	"testing"

	"lingochat/internal/capability"
)

func snap(text string, seq uint64) capability.Snapshot {
	return capability.Snapshot{Text: text, Seq: seq}
}

func TestReconcilerAppliesCurrentSnapshot(t *testing.T) {
	t.Parallel()

	r := NewReconciler()
	r.Advance(snap("Bonjour", 1), capability.Kinds, nil)

	disp := r.Apply(capability.Result{
		Kind:     capability.KindTranslate,
		Snapshot: snap("Bonjour", 1),
		Value:    "Hello",
	}, capability.Params{Source: "fr", Target: "en"})
	if disp != Applied {
		t.Fatalf("disposition = %v, want Applied", disp)
	}

	f := r.Draft().Field(capability.KindTranslate)
	if !f.Set || f.Failed || f.Value != "Hello" {
		t.Fatalf("translate field = %+v, want applied Hello", f)
	}
}

func TestReconcilerFreshnessInvariant(t *testing.T) {
	t.Parallel()

	r := NewReconciler()
	r.Advance(snap("a", 1), capability.Kinds, nil)
	r.Advance(snap("ab", 2), capability.Kinds, nil)

	// Late result for the superseded snapshot must not touch the draft.
	disp := r.Apply(capability.Result{
		Kind:     capability.KindTranslate,
		Snapshot: snap("a", 1),
		Value:    "stale",
	}, capability.Params{})
	if disp != Discarded {
		t.Fatalf("disposition = %v, want Discarded", disp)
	}
	if f := r.Draft().Field(capability.KindTranslate); f.Set {
		t.Fatalf("stale result was merged: %+v", f)
	}
	if !r.Draft().Pending() {
		t.Fatal("pending should still include the current snapshot's kinds")
	}

	disp = r.Apply(capability.Result{
		Kind:     capability.KindTranslate,
		Snapshot: snap("ab", 2),
		Value:    "fresh",
	}, capability.Params{})
	if disp != Applied {
		t.Fatalf("disposition = %v, want Applied", disp)
	}
	if f := r.Draft().Field(capability.KindTranslate); f.Value != "fresh" {
		t.Fatalf("translate field = %+v, want fresh", f)
	}
}

func TestReconcilerKindIndependence(t *testing.T) {
	t.Parallel()

	r := NewReconciler()
	r.Advance(snap("some text", 1), capability.Kinds, nil)

	r.Apply(capability.Result{Kind: capability.KindDetect, Snapshot: snap("some text", 1), Value: "en"}, capability.Params{})
	r.Apply(capability.Result{Kind: capability.KindSummarize, Snapshot: snap("some text", 1), Err: errors.New("boom")}, capability.Params{})
	r.Apply(capability.Result{Kind: capability.KindTranslate, Snapshot: snap("some text", 1), Value: "du texte"}, capability.Params{})

	d := r.Draft()
	if f := d.Field(capability.KindDetect); f.Value != "en" || f.Failed {
		t.Fatalf("detect field = %+v", f)
	}
	if f := d.Field(capability.KindTranslate); f.Value != "du texte" || f.Failed {
		t.Fatalf("translate field = %+v", f)
	}
	f := d.Field(capability.KindSummarize)
	if !f.Failed || f.Value != FailureText(capability.KindSummarize) {
		t.Fatalf("summarize field = %+v, want failure placeholder", f)
	}
	if d.Pending() {
		t.Fatal("pending should be empty after all three settled")
	}
}

func TestFailurePlaceholderDistinguishableFromEmptySuccess(t *testing.T) {
	t.Parallel()

	r := NewReconciler()
	r.Advance(snap("x", 1), []capability.Kind{capability.KindTranslate}, nil)
	r.Apply(capability.Result{Kind: capability.KindTranslate, Snapshot: snap("x", 1), Value: ""}, capability.Params{})

	f := r.Draft().Field(capability.KindTranslate)
	if !f.Set || f.Failed || f.Value != "" {
		t.Fatalf("empty success should be Set and not Failed, got %+v", f)
	}
}

func TestAdvanceEmptyKeepsFields(t *testing.T) {
	t.Parallel()

	r := NewReconciler()
	r.Advance(snap("hello", 1), capability.Kinds, nil)
	r.Apply(capability.Result{Kind: capability.KindDetect, Snapshot: snap("hello", 1), Value: "en"}, capability.Params{})

	r.AdvanceEmpty(snap("   ", 2))
	d := r.Draft()
	if f := d.Field(capability.KindDetect); f.Value != "en" {
		t.Fatalf("detect field lost on empty edit: %+v", f)
	}
	if d.Pending() {
		t.Fatal("empty edit must not leave anything pending")
	}
}

func TestAdvanceClearedDropsFields(t *testing.T) {
	t.Parallel()

	r := NewReconciler()
	r.Advance(snap("hello", 1), capability.Kinds, nil)
	r.Apply(capability.Result{Kind: capability.KindDetect, Snapshot: snap("hello", 1), Value: "en"}, capability.Params{})

	r.AdvanceCleared(snap("", 2))
	if f := r.Draft().Field(capability.KindDetect); f.Set {
		t.Fatalf("field survived a cleared advance: %+v", f)
	}
}
