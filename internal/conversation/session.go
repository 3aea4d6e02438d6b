package conversation

import (
	"strings"

	"github.com/rs/zerolog"

	"lingochat/internal/capability"
)

// deferredReply is a bot message promised at commit time whose text was still
// in flight. It resolves only from the result tagged with the committed
// snapshot, never from a later edit's result.
type deferredReply struct {
	seq  uint64
	kind capability.Kind
}

// Session ties the trigger controller, reconciler and conversation log
// together behind the operations the UI drives. All methods must be called
// from one goroutine (the Bubble Tea update loop); completions from the
// capability goroutines reach Apply through that loop's message channel.
type Session struct {
	controller *Controller
	reconciler *Reconciler
	log        *Log
	deferred   []deferredReply
	logger     zerolog.Logger
}

func NewSession(source, target string, logger zerolog.Logger) *Session {
	return &Session{
		controller: NewController(source, target),
		reconciler: NewReconciler(),
		log:        NewLog(),
		logger:     logger,
	}
}

// Edit registers a text mutation and returns the capability requests the
// caller must dispatch. Whitespace-only text returns nothing and leaves prior
// draft values visible.
func (s *Session) Edit(text string) []capability.Request {
	snap, reqs, keep := s.controller.Edit(text, s.reconciler.Draft())
	if snap.Empty() {
		s.reconciler.AdvanceEmpty(snap)
		return nil
	}
	s.reconciler.Advance(snap, kinds(reqs), keep)
	s.logger.Debug().Uint64("seq", snap.Seq).Int("issued", len(reqs)).Int("kept", len(keep)).Msg("edit")
	return reqs
}

// SetLanguages changes the translate pair and returns any re-issued requests.
func (s *Session) SetLanguages(source, target string) []capability.Request {
	snap, reqs, keep := s.controller.SetLanguages(source, target, s.reconciler.Draft())
	if snap.Empty() {
		return nil
	}
	s.reconciler.Advance(snap, kinds(reqs), keep)
	return reqs
}

// Languages returns the current source and target codes.
func (s *Session) Languages() (string, string) {
	p := s.controller.Params()
	return p.Source, p.Target
}

// Apply feeds one completion into the reconciler, then settles any deferred
// bot replies waiting on exactly this snapshot and kind. A reply deferred at
// commit time resolves even when the draft has since moved on: the commit is
// bound to its own snapshot's result.
func (s *Session) Apply(res capability.Result) Disposition {
	disp := s.reconciler.Apply(res, s.controller.Params())
	s.logger.Debug().
		Str("kind", string(res.Kind)).
		Uint64("seq", res.Snapshot.Seq).
		Bool("applied", disp == Applied).
		Bool("failed", res.Failed()).
		Msg("capability result")

	remaining := s.deferred[:0]
	for _, d := range s.deferred {
		if d.seq == res.Snapshot.Seq && d.kind == res.Kind {
			s.log.Append(Message{Sender: SenderBot, Text: replyText(res)})
			continue
		}
		remaining = append(remaining, d)
	}
	s.deferred = remaining
	return disp
}

// SendTranslation commits the current input as a user message and replies
// with the draft's translation, deferring the bot message when translate is
// still pending for the committed snapshot. Returns false (and does nothing)
// on empty trimmed input.
func (s *Session) SendTranslation() bool {
	return s.commit(capability.KindTranslate)
}

// SendSummary is the summary-flavored commit, symmetric to SendTranslation.
func (s *Session) SendSummary() bool {
	return s.commit(capability.KindSummarize)
}

func (s *Session) commit(kind capability.Kind) bool {
	snap := s.controller.Snapshot()
	if strings.TrimSpace(snap.Text) == "" {
		return false
	}
	draft := s.reconciler.Draft()

	user := Message{Sender: SenderUser, Text: snap.Text}
	if f := draft.Field(capability.KindDetect); f.Set && !f.Failed {
		user.DetectedLanguage = f.Value
	}
	if kind == capability.KindSummarize {
		if f := draft.Field(capability.KindSummarize); f.Set && !f.Failed {
			user.Summary = f.Value
		}
	}
	s.log.Append(user)

	if f := draft.Field(kind); f.Set {
		s.log.Append(Message{Sender: SenderBot, Text: f.Value})
	} else {
		// Pending for this snapshot; the reply settles when its result lands.
		s.deferred = append(s.deferred, deferredReply{seq: draft.Snapshot.Seq, kind: kind})
	}

	s.reconciler.AdvanceCleared(s.controller.Clear())
	s.logger.Info().Str("commit", string(kind)).Uint64("seq", snap.Seq).Msg("committed")
	return true
}

// Transcript projects the renderable view from the log and live draft.
func (s *Session) Transcript() Transcript {
	return Project(s.log.Messages(), s.reconciler.Draft())
}

// Draft returns a copy of the live draft state.
func (s *Session) Draft() Draft {
	return s.reconciler.Draft()
}

// Pending reports whether any capability call is outstanding for the current
// snapshot, for the loading indicator.
func (s *Session) Pending() bool {
	return s.reconciler.Draft().Pending()
}

// Messages returns the committed log.
func (s *Session) Messages() []Message {
	return s.log.Messages()
}

func kinds(reqs []capability.Request) []capability.Kind {
	out := make([]capability.Kind, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.Kind)
	}
	return out
}

func replyText(res capability.Result) string {
	if res.Failed() {
		return failureText[res.Kind]
	}
	return res.Value
}
