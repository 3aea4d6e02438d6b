package conversation

import (
	"strings"

	"lingochat/internal/capability"
)

// Controller translates raw "text changed" events into a bounded set of
// capability requests. It owns the edit sequence counter and decides, per
// kind, whether a fresh request is needed or the draft's applied value can be
// carried over. At most one request per kind is issued per snapshot; older
// in-flight work is superseded logically (its results fail the freshness
// check), never aborted.
type Controller struct {
	seq     uint64
	current capability.Snapshot
	params  capability.Params
}

func NewController(source, target string) *Controller {
	return &Controller{params: capability.Params{Source: source, Target: target}}
}

// Snapshot returns the snapshot of the most recent edit.
func (c *Controller) Snapshot() capability.Snapshot {
	return c.current
}

// Params returns the current language pair.
func (c *Controller) Params() capability.Params {
	return c.params
}

// Edit registers a text mutation. It always advances the sequence, then
// computes which kinds to (re)issue against the given draft: a kind whose
// applied value already covers this exact text (and, for translate, this
// language pair) is kept instead of re-invoked. Whitespace-only text issues
// nothing.
func (c *Controller) Edit(text string, draft Draft) (capability.Snapshot, []capability.Request, []capability.Kind) {
	c.seq++
	c.current = capability.Snapshot{Text: text, Seq: c.seq}
	if c.current.Empty() {
		return c.current, nil, nil
	}
	reqs, keep := c.plan(text, draft)
	return c.current, reqs, keep
}

// SetLanguages updates the translate pair. When text is live this behaves
// like an edit of the same text: translate is re-issued unless its applied
// value already matches the new pair, while detect and summarize keep their
// output for the unchanged text.
func (c *Controller) SetLanguages(source, target string, draft Draft) (capability.Snapshot, []capability.Request, []capability.Kind) {
	c.params = capability.Params{Source: source, Target: target}
	if c.current.Empty() {
		return c.current, nil, nil
	}
	return c.Edit(c.current.Text, draft)
}

// Clear advances to an empty snapshot after a commit.
func (c *Controller) Clear() capability.Snapshot {
	c.seq++
	c.current = capability.Snapshot{Seq: c.seq}
	return c.current
}

func (c *Controller) plan(text string, draft Draft) ([]capability.Request, []capability.Kind) {
	var reqs []capability.Request
	var keep []capability.Kind
	for _, kind := range capability.Kinds {
		if c.covered(kind, text, draft) {
			keep = append(keep, kind)
			continue
		}
		reqs = append(reqs, capability.Request{Kind: kind, Snapshot: c.current, Params: c.params})
	}
	return reqs, keep
}

// covered reports whether the draft already holds a usable value for this
// kind and text. Failed slots are never treated as covered so a re-edit of
// the same text retries them.
func (c *Controller) covered(kind capability.Kind, text string, draft Draft) bool {
	f := draft.Field(kind)
	if !f.Set || f.Failed {
		return false
	}
	if strings.TrimSpace(draft.Snapshot.Text) != strings.TrimSpace(text) {
		return false
	}
	if kind == capability.KindTranslate && f.Params != c.params {
		return false
	}
	return true
}
