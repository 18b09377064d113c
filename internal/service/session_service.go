package service

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/scry-flashcards/internal/config"
	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/domain/matcher"
	"github.com/phrazzld/scry-flashcards/internal/domain/present"
	"github.com/phrazzld/scry-flashcards/internal/domain/session"
	"github.com/phrazzld/scry-flashcards/internal/events"
	"github.com/phrazzld/scry-flashcards/internal/platform/logger"
	"github.com/phrazzld/scry-flashcards/internal/task"
)

// AssetIndexer provides the match index and thumbnail addresses.
type AssetIndexer interface {
	Index(ctx context.Context) (*matcher.Index, error)
	ThumbnailURL(assetID string) string
}

// SessionService provides flashcard session operations.
// Every mutating call returns the session snapshot after the change.
type SessionService interface {
	// Create starts a new session on the home screen
	Create(ctx context.Context) (*Result, error)

	// View returns the current snapshot of a session
	View(ctx context.Context, id uuid.UUID) (*View, error)

	// Delete stops a session and forgets it
	Delete(ctx context.Context, id uuid.UUID) error

	// Search replaces the card list with the cards matching rawWords
	Search(ctx context.Context, id uuid.UUID, rawWords string) (*Result, error)

	// AddMore appends cards matching rawWords that are not already listed
	AddMore(ctx context.Context, id uuid.UUID, rawWords string) (*Result, error)

	// ToggleSelect includes or excludes one card
	ToggleSelect(ctx context.Context, id uuid.UUID, assetID string, included bool) (*Result, error)

	// SelectAll includes or excludes every card
	SelectAll(ctx context.Context, id uuid.UUID, included bool) (*Result, error)

	// Shuffle randomly reorders the card list
	Shuffle(ctx context.Context, id uuid.UUID) (*Result, error)

	// Clear empties the session and returns home
	Clear(ctx context.Context, id uuid.UUID) (*Result, error)

	// GoHome leaves the active screen and returns home
	GoHome(ctx context.Context, id uuid.UUID) (*Result, error)

	// SetGalleryView switches the gallery layout
	SetGalleryView(ctx context.Context, id uuid.UUID, view domain.GalleryView) (*Result, error)

	// TurnPage moves the paged gallery one page
	TurnPage(ctx context.Context, id uuid.UUID, dir domain.Direction) (*Result, error)

	// StartPresentation enters presentation mode
	StartPresentation(ctx context.Context, id uuid.UUID, opts session.PresentOptions) (*Result, error)

	// Advance moves the presentation one group
	Advance(ctx context.Context, id uuid.UUID, dir domain.Direction) (*Result, error)

	// SetAutoPlay starts or stops timed auto-advance
	SetAutoPlay(ctx context.Context, id uuid.UUID, enabled bool, intervalSeconds int) (*Result, error)

	// ExitPresentation returns to the gallery
	ExitPresentation(ctx context.Context, id uuid.UUID) (*Result, error)

	// StartMemoryGame deals a memory deck of the given number of pairs
	StartMemoryGame(ctx context.Context, id uuid.UUID, pairs int) (*Result, error)

	// Flip turns over one memory card
	Flip(ctx context.Context, id uuid.UUID, index int) (*Result, error)

	// Reshuffle re-deals the memory deck
	Reshuffle(ctx context.Context, id uuid.UUID) (*Result, error)

	// ExitMemoryGame returns to the gallery
	ExitMemoryGame(ctx context.Context, id uuid.UUID) (*Result, error)

	// Close stops every session
	Close()
}

// Options tunes the session service.
type Options struct {
	PageSize               int
	QueueSize              int
	MaxSessions            int
	IdleTTL                time.Duration
	DefaultIntervalSeconds int
	DefaultPairs           int
	MaxPairs               int
}

// OptionsFromConfig derives Options from application configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		PageSize:               cfg.UI.PageSize,
		QueueSize:              cfg.Session.QueueSize,
		MaxSessions:            cfg.Session.MaxSessions,
		IdleTTL:                time.Duration(cfg.Session.IdleTTLMinutes) * time.Minute,
		DefaultIntervalSeconds: cfg.UI.DefaultIntervalSeconds,
		DefaultPairs:           cfg.UI.DefaultPairs,
		MaxPairs:               cfg.UI.MaxPairs,
	}
}

func (o Options) withDefaults() Options {
	if o.PageSize < 1 {
		o.PageSize = session.DefaultPageSize
	}
	if o.QueueSize < 1 {
		o.QueueSize = 64
	}
	if o.MaxSessions < 1 {
		o.MaxSessions = 1000
	}
	if o.IdleTTL <= 0 {
		o.IdleTTL = time.Hour
	}
	if o.DefaultIntervalSeconds < present.MinIntervalSeconds || o.DefaultIntervalSeconds > present.MaxIntervalSeconds {
		o.DefaultIntervalSeconds = present.DefaultIntervalSeconds
	}
	if o.MaxPairs < 1 {
		o.MaxPairs = 12
	}
	if o.DefaultPairs < 1 || o.DefaultPairs > o.MaxPairs {
		o.DefaultPairs = min(6, o.MaxPairs)
	}
	return o
}

// sessionServiceImpl implements SessionService.
type sessionServiceImpl struct {
	assets   AssetIndexer
	emitter  events.EventEmitter
	registry *registry
	opts     Options
	closed   atomic.Bool
	logger   *slog.Logger
}

// NewSessionService creates a SessionService.
// It returns validation errors if any of the required dependencies are nil.
func NewSessionService(
	assets AssetIndexer,
	emitter events.EventEmitter,
	opts Options,
	logger *slog.Logger,
) (SessionService, error) {
	if assets == nil {
		return nil, domain.NewValidationError("assets", "cannot be nil", domain.ErrValidation)
	}
	if emitter == nil {
		return nil, domain.NewValidationError("emitter", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		return nil, domain.NewValidationError("logger", "cannot be nil", domain.ErrValidation)
	}

	opts = opts.withDefaults()
	log := logger.With(slog.String("component", "session_service"))
	return &sessionServiceImpl{
		assets:   assets,
		emitter:  emitter,
		registry: newRegistry(opts.MaxSessions, opts.IdleTTL, log),
		opts:     opts,
		logger:   log,
	}, nil
}

// command is one mutation applied on the session's loop.
type command func(st *session.State) (Change, error)

func (s *sessionServiceImpl) lookup(id uuid.UUID) (*handle, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	h, ok := s.registry.touch(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return h, nil
}

// apply runs cmd on the session's loop, stops auto-play if the session
// left it, and emits the change.
func (s *sessionServiceImpl) apply(ctx context.Context, id uuid.UUID, op string, cmd command) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("session_id", id.String()),
		slog.String("operation", op))

	h, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	var res *Result
	err = h.runner.Do(ctx, op, func(taskCtx context.Context) error {
		change, err := cmd(h.state)
		if err != nil {
			return err
		}
		s.syncAutoPlay(h)
		res = &Result{View: s.view(h), Change: change}
		s.emit(taskCtx, h, change)
		return nil
	})
	if err != nil {
		if errors.Is(err, task.ErrRunnerStopped) {
			err = ErrSessionClosed
		}
		err = wrapError(op, err)
		log.Debug("session command rejected", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("session command applied",
		slog.String("kind", res.Change.Kind),
		slog.String("mode", string(res.View.Mode)))
	return res, nil
}

func (s *sessionServiceImpl) view(h *handle) View {
	return buildView(h.id, h.state, s.assets.ThumbnailURL)
}

func (s *sessionServiceImpl) emit(ctx context.Context, h *handle, change Change) {
	event, err := events.NewChangeEvent(h.id, change.Kind, string(h.state.Mode()), change)
	if err != nil {
		s.logger.Error("failed to build change event",
			slog.String("session_id", h.id.String()),
			slog.String("error", err.Error()))
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Warn("change event delivery failed",
			slog.String("session_id", h.id.String()),
			slog.String("kind", change.Kind),
			slog.String("error", err.Error()))
	}
}

// syncAutoPlay stops the repeater whenever the session is no longer
// auto-playing a presentation. Must run on the session's loop.
func (s *sessionServiceImpl) syncAutoPlay(h *handle) {
	p := h.state.Presenter()
	if p == nil || !p.AutoPlay() {
		h.autoplay.Stop()
	}
}

// Create implements SessionService.Create
func (s *sessionServiceImpl) Create(ctx context.Context) (*Result, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	h := newHandle(s.opts.PageSize, s.opts.QueueSize, s.logger)
	s.registry.add(h)

	s.logger.Info("session created",
		slog.String("session_id", h.id.String()),
		slog.Int("active_sessions", s.registry.len()))

	return s.apply(ctx, h.id, "create", func(*session.State) (Change, error) {
		return Change{Kind: events.KindCreated}, nil
	})
}

// View implements SessionService.View
func (s *sessionServiceImpl) View(ctx context.Context, id uuid.UUID) (*View, error) {
	h, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	var v View
	err = h.runner.Do(ctx, "view", func(context.Context) error {
		v = s.view(h)
		return nil
	})
	if err != nil {
		if errors.Is(err, task.ErrRunnerStopped) {
			err = ErrSessionClosed
		}
		return nil, wrapError("view", err)
	}
	return &v, nil
}

// Delete implements SessionService.Delete
func (s *sessionServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	h, ok := s.registry.remove(id)
	if !ok {
		return ErrSessionNotFound
	}
	h.shutdown()
	s.emitClosed(ctx, id)

	s.logger.Info("session deleted", slog.String("session_id", id.String()))
	return nil
}

// emitClosed tells subscribers the session is gone.
func (s *sessionServiceImpl) emitClosed(ctx context.Context, id uuid.UUID) {
	event, err := events.NewChangeEvent(id, events.KindSessionClosed, string(domain.ModeHome), nil)
	if err != nil {
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Warn("change event delivery failed",
			slog.String("session_id", id.String()),
			slog.String("kind", events.KindSessionClosed),
			slog.String("error", err.Error()))
	}
}

// resolve lists the asset index before anything is queued so a failing
// source leaves the session untouched.
func (s *sessionServiceImpl) resolve(ctx context.Context, rawWords string) ([]domain.AssetRecord, error) {
	if len(matcher.SplitWords(rawWords)) == 0 {
		return nil, domain.ErrNoInput
	}
	idx, err := s.assets.Index(ctx)
	if err != nil {
		return nil, err
	}
	return matcher.Resolve(rawWords, idx), nil
}

// noInput returns the unchanged snapshot with a no-input notice.
func (s *sessionServiceImpl) noInput(ctx context.Context, id uuid.UUID, kind string) (*Result, error) {
	v, err := s.View(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Result{View: *v, Change: Change{Kind: kind, Notice: NoticeNoInput}}, nil
}

// Search implements SessionService.Search
func (s *sessionServiceImpl) Search(ctx context.Context, id uuid.UUID, rawWords string) (*Result, error) {
	records, err := s.resolve(ctx, rawWords)
	if errors.Is(err, domain.ErrNoInput) {
		return s.noInput(ctx, id, events.KindSearch)
	}
	if err != nil {
		return nil, wrapError("search", err)
	}
	return s.apply(ctx, id, "search", func(st *session.State) (Change, error) {
		if err := st.Search(records); err != nil {
			return Change{}, err
		}
		return Change{Kind: events.KindSearch, Added: len(st.Cards()), Changed: true}, nil
	})
}

// AddMore implements SessionService.AddMore
func (s *sessionServiceImpl) AddMore(ctx context.Context, id uuid.UUID, rawWords string) (*Result, error) {
	records, err := s.resolve(ctx, rawWords)
	if errors.Is(err, domain.ErrNoInput) {
		return s.noInput(ctx, id, events.KindAddMore)
	}
	if err != nil {
		return nil, wrapError("add more", err)
	}
	return s.apply(ctx, id, "add more", func(st *session.State) (Change, error) {
		added, err := st.AddMore(records)
		if err != nil {
			return Change{}, err
		}
		return Change{Kind: events.KindAddMore, Added: added, Changed: true}, nil
	})
}

// ToggleSelect implements SessionService.ToggleSelect
func (s *sessionServiceImpl) ToggleSelect(
	ctx context.Context,
	id uuid.UUID,
	assetID string,
	included bool,
) (*Result, error) {
	return s.apply(ctx, id, "toggle select", func(st *session.State) (Change, error) {
		changed, err := st.ToggleSelect(assetID, included)
		if err != nil {
			return Change{}, err
		}
		return Change{Kind: events.KindSelection, Changed: changed}, nil
	})
}

// SelectAll implements SessionService.SelectAll
func (s *sessionServiceImpl) SelectAll(ctx context.Context, id uuid.UUID, included bool) (*Result, error) {
	return s.apply(ctx, id, "select all", func(st *session.State) (Change, error) {
		if err := st.SelectAll(included); err != nil {
			return Change{}, err
		}
		return Change{Kind: events.KindSelection, Changed: true}, nil
	})
}

// Shuffle implements SessionService.Shuffle
func (s *sessionServiceImpl) Shuffle(ctx context.Context, id uuid.UUID) (*Result, error) {
	return s.apply(ctx, id, "shuffle", func(st *session.State) (Change, error) {
		if err := st.Shuffle(); err != nil {
			return Change{}, err
		}
		return Change{Kind: events.KindShuffle, Changed: true}, nil
	})
}

// Clear implements SessionService.Clear
func (s *sessionServiceImpl) Clear(ctx context.Context, id uuid.UUID) (*Result, error) {
	return s.apply(ctx, id, "clear", func(st *session.State) (Change, error) {
		st.Clear()
		return Change{Kind: events.KindClear, Changed: true}, nil
	})
}

// GoHome implements SessionService.GoHome
func (s *sessionServiceImpl) GoHome(ctx context.Context, id uuid.UUID) (*Result, error) {
	return s.apply(ctx, id, "go home", func(st *session.State) (Change, error) {
		st.GoHome()
		return Change{Kind: events.KindHome, Changed: true}, nil
	})
}

// SetGalleryView implements SessionService.SetGalleryView
func (s *sessionServiceImpl) SetGalleryView(
	ctx context.Context,
	id uuid.UUID,
	view domain.GalleryView,
) (*Result, error) {
	return s.apply(ctx, id, "set gallery view", func(st *session.State) (Change, error) {
		if err := st.SetGalleryView(view); err != nil {
			return Change{}, err
		}
		return Change{Kind: events.KindGalleryView, Changed: true}, nil
	})
}

// TurnPage implements SessionService.TurnPage
func (s *sessionServiceImpl) TurnPage(ctx context.Context, id uuid.UUID, dir domain.Direction) (*Result, error) {
	return s.apply(ctx, id, "turn page", func(st *session.State) (Change, error) {
		if err := st.TurnPage(dir); err != nil {
			return Change{}, err
		}
		return Change{Kind: events.KindGalleryPage, Changed: true}, nil
	})
}

// StartPresentation implements SessionService.StartPresentation
func (s *sessionServiceImpl) StartPresentation(
	ctx context.Context,
	id uuid.UUID,
	opts session.PresentOptions,
) (*Result, error) {
	if opts.GroupSize == 0 {
		opts.GroupSize = present.GroupSingle
	}
	return s.apply(ctx, id, "start presentation", func(st *session.State) (Change, error) {
		if err := st.StartPresentation(opts); err != nil {
			return Change{}, err
		}
		return Change{Kind: events.KindPresentationStart, Changed: true}, nil
	})
}

// Advance implements SessionService.Advance
func (s *sessionServiceImpl) Advance(ctx context.Context, id uuid.UUID, dir domain.Direction) (*Result, error) {
	return s.apply(ctx, id, "advance", func(st *session.State) (Change, error) {
		if _, err := st.Advance(dir); err != nil {
			return Change{}, err
		}
		return Change{Kind: events.KindAdvance, Changed: true}, nil
	})
}

// SetAutoPlay implements SessionService.SetAutoPlay
func (s *sessionServiceImpl) SetAutoPlay(
	ctx context.Context,
	id uuid.UUID,
	enabled bool,
	intervalSeconds int,
) (*Result, error) {
	if enabled && intervalSeconds == 0 {
		intervalSeconds = s.opts.DefaultIntervalSeconds
	}
	h, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, id, "set auto-play", func(st *session.State) (Change, error) {
		if err := st.SetAutoPlay(enabled, intervalSeconds); err != nil {
			return Change{}, err
		}
		if enabled {
			s.startAutoPlay(h, time.Duration(intervalSeconds)*time.Second)
		}
		return Change{Kind: events.KindAutoPlay, Changed: true}, nil
	})
}

// startAutoPlay (re)starts the repeater. Each firing queues one forward
// advance behind whatever is already waiting on the loop; a tick whose
// schedule was cancelled or replaced before it ran does nothing.
func (s *sessionServiceImpl) startAutoPlay(h *handle, interval time.Duration) {
	h.autoplay.Start(interval, func(gen uint64) {
		tick := task.NewFuncTask("auto advance", func(ctx context.Context) error {
			if !h.autoplay.Current(gen) {
				return nil
			}
			if _, err := h.state.Advance(domain.Forward); err != nil {
				return err
			}
			change := Change{Kind: events.KindAutoAdvance, Changed: true}
			s.emit(ctx, h, change)
			return nil
		})
		if err := h.runner.Submit(tick); err != nil {
			s.logger.Debug("auto-play tick dropped",
				slog.String("session_id", h.id.String()),
				slog.String("error", err.Error()))
		}
	})
}

// ExitPresentation implements SessionService.ExitPresentation
func (s *sessionServiceImpl) ExitPresentation(ctx context.Context, id uuid.UUID) (*Result, error) {
	return s.apply(ctx, id, "exit presentation", func(st *session.State) (Change, error) {
		if err := st.ExitPresentation(); err != nil {
			return Change{}, err
		}
		return Change{Kind: events.KindPresentationExit, Changed: true}, nil
	})
}

// StartMemoryGame implements SessionService.StartMemoryGame
func (s *sessionServiceImpl) StartMemoryGame(ctx context.Context, id uuid.UUID, pairs int) (*Result, error) {
	if pairs == 0 {
		pairs = s.opts.DefaultPairs
	}
	if pairs < 1 || pairs > s.opts.MaxPairs {
		return nil, domain.NewValidationError("pairs", "must be between 1 and the configured maximum", domain.ErrValidation)
	}
	return s.apply(ctx, id, "start memory game", func(st *session.State) (Change, error) {
		if err := st.StartMemoryGame(pairs); err != nil {
			return Change{}, err
		}
		return Change{Kind: events.KindMemoryStart, Changed: true}, nil
	})
}

// Flip implements SessionService.Flip
func (s *sessionServiceImpl) Flip(ctx context.Context, id uuid.UUID, index int) (*Result, error) {
	return s.apply(ctx, id, "flip", func(st *session.State) (Change, error) {
		res, err := st.Flip(index)
		if err != nil {
			return Change{}, err
		}
		return Change{Kind: events.KindFlip, Changed: !res.Ignored, Flip: &res}, nil
	})
}

// Reshuffle implements SessionService.Reshuffle
func (s *sessionServiceImpl) Reshuffle(ctx context.Context, id uuid.UUID) (*Result, error) {
	return s.apply(ctx, id, "reshuffle", func(st *session.State) (Change, error) {
		if err := st.Reshuffle(); err != nil {
			return Change{}, err
		}
		return Change{Kind: events.KindMemoryReshuffle, Changed: true}, nil
	})
}

// ExitMemoryGame implements SessionService.ExitMemoryGame
func (s *sessionServiceImpl) ExitMemoryGame(ctx context.Context, id uuid.UUID) (*Result, error) {
	return s.apply(ctx, id, "exit memory game", func(st *session.State) (Change, error) {
		if err := st.ExitMemoryGame(); err != nil {
			return Change{}, err
		}
		return Change{Kind: events.KindMemoryExit, Changed: true}, nil
	})
}

// Close implements SessionService.Close
func (s *sessionServiceImpl) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	handles := s.registry.drain()
	for _, h := range handles {
		h.shutdown()
		s.emitClosed(context.Background(), h.id)
	}
	s.logger.Info("session service closed", slog.Int("sessions_stopped", len(handles)))
}
