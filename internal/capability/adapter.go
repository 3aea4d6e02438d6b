package capability

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Adapter is the single entry point for capability calls. It hides availability
// checks and session instantiation behind Invoke and guarantees the returned
// Result carries the request's snapshot unchanged.
type Adapter struct {
	providers Providers
	summary   SummaryOptions
	log       zerolog.Logger

	mu       sync.Mutex
	sessions map[string]TranslateSession
}

func NewAdapter(providers Providers, summary SummaryOptions, log zerolog.Logger) *Adapter {
	if summary == (SummaryOptions{}) {
		summary = DefaultSummaryOptions()
	}
	return &Adapter{
		providers: providers,
		summary:   summary,
		log:       log,
		sessions:  make(map[string]TranslateSession),
	}
}

// Invoke runs one capability call. The second return value is false when the
// call was silently skipped (empty input); no Result should be emitted then.
// Invoke never panics and never returns an error: failures are folded into the
// Result so one kind's trouble cannot take down the caller or its siblings.
func (a *Adapter) Invoke(ctx context.Context, req Request) (res Result, emitted bool) {
	if req.Snapshot.Empty() {
		return Result{}, false
	}

	res = Result{Kind: req.Kind, Snapshot: req.Snapshot}
	emitted = true
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("capability %s: %v", req.Kind, r)
			a.log.Error().Str("kind", string(req.Kind)).Interface("panic", r).Msg("capability backend panicked")
		}
	}()

	switch req.Kind {
	case KindTranslate:
		res.Value, res.Err = a.translate(ctx, req)
	case KindDetect:
		res.Value, res.Err = a.detect(ctx, req)
	case KindSummarize:
		res.Value, res.Err = a.summarize(ctx, req)
	default:
		res.Err = fmt.Errorf("unknown capability kind %q", req.Kind)
	}

	if res.Err != nil {
		a.log.Warn().
			Str("kind", string(req.Kind)).
			Uint64("seq", req.Snapshot.Seq).
			Err(res.Err).
			Msg("capability call failed")
	}
	return res, true
}

func (a *Adapter) translate(ctx context.Context, req Request) (string, error) {
	if a.providers.Translator == nil {
		return "", ErrUnsupported
	}
	sess, err := a.session(ctx, req.Params.Source, req.Params.Target)
	if err != nil {
		return "", err
	}
	return sess.Translate(ctx, req.Snapshot.Text)
}

func (a *Adapter) detect(ctx context.Context, req Request) (string, error) {
	if a.providers.Detector == nil {
		return "", ErrUnsupported
	}
	candidates, err := a.providers.Detector.Detect(ctx, req.Snapshot.Text)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "Unknown", nil
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Confidence > best.Confidence {
			best = c
		}
	}
	return best.Language, nil
}

func (a *Adapter) summarize(ctx context.Context, req Request) (string, error) {
	if a.providers.Summarizer == nil {
		return "", ErrUnsupported
	}
	return a.providers.Summarizer.Summarize(ctx, req.Snapshot.Text, a.summary)
}

// session returns a cached translate session for the pair, creating one on
// first use. Reuse is an optimization only; a failed create is never cached.
func (a *Adapter) session(ctx context.Context, source, target string) (TranslateSession, error) {
	key := source + "->" + target
	a.mu.Lock()
	sess, ok := a.sessions[key]
	a.mu.Unlock()
	if ok {
		return sess, nil
	}

	sess, err := a.providers.Translator.NewSession(ctx, source, target)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	a.sessions[key] = sess
	a.mu.Unlock()
	return sess, nil
}
