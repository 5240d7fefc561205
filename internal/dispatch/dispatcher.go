// Package dispatch runs one chat request through normalization, matching,
// generation, translation and the memory log.
package dispatch

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/antoniostano/simhelper/internal/knowledge"
	"github.com/antoniostano/simhelper/internal/matcher"
	"github.com/antoniostano/simhelper/internal/memory"
	"github.com/antoniostano/simhelper/internal/observability"
	"github.com/antoniostano/simhelper/internal/policy"
	"github.com/antoniostano/simhelper/internal/reliability"
)

const (
	DefaultUpstreamTimeout = 8 * time.Second
	retryBase              = 200 * time.Millisecond
	retryCap               = 2 * time.Second
)

// RouteRejected labels requests refused before classification.
const RouteRejected = "rejected"

type Classifier interface {
	Classify(normalized string) matcher.Result
}

type Conversation interface {
	Send(ctx context.Context, text string) (string, error)
	Len() int
}

type Translator interface {
	ToEnglish(ctx context.Context, text, srcHint string) (string, error)
	FromEnglish(ctx context.Context, text, target string) (string, error)
}

// Config wires a Dispatcher. Metrics may be nil.
type Config struct {
	Matcher         Classifier
	Session         Conversation
	Translator      Translator
	Memory          memory.Log
	Metrics         *observability.Metrics
	Logger          zerolog.Logger
	UpstreamTimeout time.Duration
	UpstreamRetries int
}

type Dispatcher struct {
	matcher Classifier
	session Conversation
	gateway Translator
	memory  memory.Log
	metrics *observability.Metrics
	logger  zerolog.Logger
	timeout time.Duration
	retries int
	now     func() time.Time
	newID   func() string

	backoffBase time.Duration
	backoffCap  time.Duration
}

func New(cfg Config) *Dispatcher {
	timeout := cfg.UpstreamTimeout
	if timeout <= 0 {
		timeout = DefaultUpstreamTimeout
	}
	retries := cfg.UpstreamRetries
	if retries < 0 {
		retries = 0
	}
	return &Dispatcher{
		matcher: cfg.Matcher,
		session: cfg.Session,
		gateway: cfg.Translator,
		memory:  cfg.Memory,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
		timeout: timeout,
		retries: retries,
		now:     time.Now,
		newID:   uuid.NewString,

		backoffBase: retryBase,
		backoffCap:  retryCap,
	}
}

// Reply is a successful dispatch outcome.
type Reply struct {
	Text  string
	Route matcher.Kind
}

// Handle answers message in lang. Errors are *InputError or *UpstreamError.
// A failed memory append is logged and counted but does not fail the call.
func (d *Dispatcher) Handle(ctx context.Context, message, lang string) (Reply, error) {
	start := d.now()
	userText := strings.TrimSpace(message)
	if userText == "" {
		d.metrics.ObserveRequest(RouteRejected, d.now().Sub(start))
		return Reply{}, &InputError{Err: ErrEmptyMessage}
	}
	lang = strings.TrimSpace(lang)
	if lang == "" {
		lang = "en"
	}

	stageStart := d.now()
	result := d.matcher.Classify(knowledge.Normalize(userText))
	d.metrics.ObserveStage(observability.StageMatch, d.now().Sub(stageStart))

	replyEN := result.Answer
	if result.Kind == matcher.KindGenerative {
		var err error
		replyEN, err = d.generate(ctx, userText)
		if err != nil {
			d.fail(err, result.Kind, lang, userText)
			return Reply{}, err
		}
	}

	reply := replyEN
	if lang != "en" {
		stageStart = d.now()
		var translated string
		err := d.upstream(ctx, func(ctx context.Context) error {
			var err error
			translated, err = d.gateway.FromEnglish(ctx, replyEN, lang)
			return err
		})
		d.metrics.ObserveStage(observability.StageTranslateOut, d.now().Sub(stageStart))
		if err != nil {
			uerr := &UpstreamError{Source: SourceTranslation, Err: err}
			d.fail(uerr, result.Kind, lang, userText)
			return Reply{}, uerr
		}
		reply = translated
	}

	d.persist(ctx, userText, reply)

	elapsed := d.now().Sub(start)
	d.metrics.ObserveStage(observability.StageTotal, elapsed)
	d.metrics.ObserveRequest(string(result.Kind), elapsed)
	ev := d.logger.Info().
		Str("route", string(result.Kind)).
		Str("strategy", result.Strategy).
		Str("lang", lang).
		Int64("latency_ms", elapsed.Milliseconds()).
		Str("message", policy.Preview(userText, 0))
	if result.Question != "" {
		ev = ev.Str("question", result.Question).Float64("score", result.Score)
	}
	ev.Msg("chat reply")

	return Reply{Text: reply, Route: result.Kind}, nil
}

func (d *Dispatcher) generate(ctx context.Context, userText string) (string, error) {
	stageStart := d.now()
	var english string
	err := d.upstream(ctx, func(ctx context.Context) error {
		var err error
		english, err = d.gateway.ToEnglish(ctx, userText, "")
		return err
	})
	d.metrics.ObserveStage(observability.StageTranslateIn, d.now().Sub(stageStart))
	if err != nil {
		return "", &UpstreamError{Source: SourceTranslation, Err: err}
	}

	stageStart = d.now()
	var reply string
	err = d.upstream(ctx, func(ctx context.Context) error {
		var err error
		reply, err = d.session.Send(ctx, english)
		return err
	})
	d.metrics.ObserveStage(observability.StageGenerate, d.now().Sub(stageStart))
	if err != nil {
		return "", &UpstreamError{Source: SourceGenerative, Err: err}
	}
	d.metrics.SetConversationTurns(d.session.Len())
	return reply, nil
}

// upstream runs fn with a per-attempt timeout and bounded retries.
func (d *Dispatcher) upstream(ctx context.Context, fn func(context.Context) error) error {
	return reliability.Retry(ctx, d.retries, d.backoffBase, d.backoffCap, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()
		return fn(callCtx)
	})
}

func (d *Dispatcher) persist(ctx context.Context, userText, reply string) {
	if d.memory == nil {
		return
	}
	record := memory.Record{
		ID:        d.newID(),
		UserText:  userText,
		ReplyText: reply,
		CreatedAt: d.now().UTC(),
	}
	stageStart := d.now()
	// The reply is already final; a canceled request must not drop the record.
	err := d.memory.Append(context.WithoutCancel(ctx), record)
	d.metrics.ObserveStage(observability.StageMemoryAppend, d.now().Sub(stageStart))
	if err != nil {
		perr := &PersistenceError{RecordID: record.ID, Err: err}
		d.metrics.ObserveMemoryLogError()
		d.logger.Error().Err(perr).Str("record_id", record.ID).Msg("memory log append failed")
	}
}

func (d *Dispatcher) fail(err error, route matcher.Kind, lang, userText string) {
	source := ""
	var uerr *UpstreamError
	if errors.As(err, &uerr) {
		source = string(uerr.Source)
	}
	d.metrics.ObserveUpstreamError(source)
	d.logger.Warn().
		Err(err).
		Str("source", source).
		Str("route", string(route)).
		Str("lang", lang).
		Str("message", policy.Preview(userText, 0)).
		Msg("chat request failed upstream")
}
