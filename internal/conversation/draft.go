// Package conversation holds the orchestration core: it turns raw edit events
// into capability requests, reconciles out-of-order completions into a live
// draft keyed by input snapshot, and commits draft values into an append-only
// transcript. Everything here is driven from a single goroutine (the UI event
// loop); no internal locking is needed, but every write re-checks the snapshot
// freshness invariant.
package conversation

import "lingochat/internal/capability"

// Field is one capability output slot in the draft. Set distinguishes "no
// value yet" from a successful empty string; Failed marks the value as a
// failure placeholder rather than real output.
type Field struct {
	Set    bool
	Value  string
	Failed bool

	// Params the value was produced with. Only meaningful for translate,
	// where a language-picker change invalidates an otherwise-fresh value.
	Params capability.Params
}

// Draft is the in-progress set of capability outputs for the current snapshot.
type Draft struct {
	Snapshot capability.Snapshot
	fields   map[capability.Kind]Field
	pending  map[capability.Kind]bool
}

func newDraft() Draft {
	return Draft{
		fields:  make(map[capability.Kind]Field),
		pending: make(map[capability.Kind]bool),
	}
}

// Field returns the slot for a kind; the zero Field means nothing has been
// applied for the current text.
func (d Draft) Field(kind capability.Kind) Field {
	return d.fields[kind]
}

// PendingKinds lists the kinds still outstanding for the current snapshot.
func (d Draft) PendingKinds() []capability.Kind {
	var out []capability.Kind
	for _, k := range capability.Kinds {
		if d.pending[k] {
			out = append(out, k)
		}
	}
	return out
}

// Pending reports whether any capability call is still outstanding.
func (d Draft) Pending() bool {
	return len(d.pending) > 0
}

func (d Draft) clone() Draft {
	out := newDraft()
	out.Snapshot = d.Snapshot
	for k, f := range d.fields {
		out.fields[k] = f
	}
	for k, v := range d.pending {
		out.pending[k] = v
	}
	return out
}

// Disposition is the terminal state of one capability pipeline run.
type Disposition int

const (
	// Applied: the result matched the current snapshot and updated the draft.
	Applied Disposition = iota
	// Discarded: the result arrived for a superseded snapshot and was dropped.
	Discarded
)

// Failure placeholders surfaced in place of capability output. They must stay
// distinguishable from a successful empty string, which Field.Failed encodes.
var failureText = map[capability.Kind]string{
	capability.KindTranslate: "Translation failed. Please try again.",
	capability.KindSummarize: "Summarization failed. Please try again.",
	capability.KindDetect:    "Could not detect language.",
}

// FailureText returns the fixed placeholder for a kind's failure outcome.
func FailureText(kind capability.Kind) string {
	return failureText[kind]
}

// Reconciler merges completions from the independent capability pipelines into
// the draft. It is the sole writer of draft fields and the sole enforcer of
// the "last edit wins" freshness check.
type Reconciler struct {
	draft Draft
}

func NewReconciler() *Reconciler {
	return &Reconciler{draft: newDraft()}
}

// Draft returns a copy safe to hand to projections and tests.
func (r *Reconciler) Draft() Draft {
	return r.draft.clone()
}

// Advance moves the draft to a new snapshot. Kinds in issued become pending
// with their slots cleared; kinds in keep carry their applied values over
// (their output is still valid for the unchanged text); everything else is
// cleared. Results still in flight for older snapshots will fail the
// freshness check and be discarded.
func (r *Reconciler) Advance(snap capability.Snapshot, issued, keep []capability.Kind) {
	next := newDraft()
	next.Snapshot = snap
	for _, k := range keep {
		if f, ok := r.draft.fields[k]; ok {
			next.fields[k] = f
		}
	}
	for _, k := range issued {
		delete(next.fields, k)
		next.pending[k] = true
	}
	r.draft = next
}

// AdvanceEmpty moves to a whitespace-only snapshot: nothing is issued and
// every prior field is left untouched until non-empty text is entered again.
func (r *Reconciler) AdvanceEmpty(snap capability.Snapshot) {
	keep := make([]capability.Kind, 0, len(r.draft.fields))
	for k := range r.draft.fields {
		keep = append(keep, k)
	}
	r.Advance(snap, nil, keep)
}

// AdvanceCleared moves to an empty snapshot dropping all fields. Used after a
// commit, which is allowed to reset the just-committed snapshot's values.
func (r *Reconciler) AdvanceCleared(snap capability.Snapshot) {
	r.Advance(snap, nil, nil)
}

// Apply reconciles one completion. A result is merged only when its snapshot
// sequence equals the current draft's; anything older is dropped with no
// observable effect. One kind's failure never touches another kind's slot.
func (r *Reconciler) Apply(res capability.Result, params capability.Params) Disposition {
	if res.Snapshot.Seq != r.draft.Snapshot.Seq {
		return Discarded
	}
	field := Field{Set: true, Value: res.Value}
	if res.Failed() {
		field.Value = failureText[res.Kind]
		field.Failed = true
	}
	if res.Kind == capability.KindTranslate {
		field.Params = params
	}
	r.draft.fields[res.Kind] = field
	delete(r.draft.pending, res.Kind)
	return Applied
}
