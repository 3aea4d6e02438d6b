package conversation

import "lingochat/internal/capability"

// DraftView is the renderable slice of the live draft.
type DraftView struct {
	Text             string
	DetectedLanguage Field
	Translation      Field
	Summary          Field
	Pending          []capability.Kind
}

// Transcript is what the UI renders: the committed log plus, when there is
// live input or outstanding work, a view of the draft.
type Transcript struct {
	Messages []Message
	Draft    *DraftView
}

// Project derives the renderable transcript. Pure function: it reads the log
// and draft and has no side effects, so it can be called on every frame.
func Project(messages []Message, draft Draft) Transcript {
	t := Transcript{Messages: messages}
	if draft.Snapshot.Empty() && !draft.Pending() {
		return t
	}
	t.Draft = &DraftView{
		Text:             draft.Snapshot.Text,
		DetectedLanguage: draft.Field(capability.KindDetect),
		Translation:      draft.Field(capability.KindTranslate),
		Summary:          draft.Field(capability.KindSummarize),
		Pending:          draft.PendingKinds(),
	}
	return t
}
