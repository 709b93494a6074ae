// Package engine drives the clip state machine: it decides which clip plays next, which buttons are offered,
// which events fire, and when the game is saved.
//
// An Engine is not safe for concurrent use. Hosts serialize calls, for example with one mutex per player.
package engine

import (
	"context"
	"github.com/myrjola/dvdcluedo/internal/errors"
	"github.com/myrjola/dvdcluedo/internal/layout"
	"github.com/myrjola/dvdcluedo/internal/models"
	"github.com/myrjola/dvdcluedo/internal/random"
	"github.com/myrjola/dvdcluedo/internal/scoring"
	"github.com/myrjola/dvdcluedo/internal/selector"
	"github.com/myrjola/dvdcluedo/internal/session"
	"github.com/myrjola/dvdcluedo/internal/timeline"
	"log/slog"
	"strings"
	"time"
)

var (
	ErrNoCase        = errors.NewSentinel("no active case")
	ErrUnknownCase   = errors.NewSentinel("unknown case")
	ErrNoSave        = errors.NewSentinel("no saved game")
	ErrNoClip        = errors.NewSentinel("no clip to show")
	ErrInvalidButton = errors.NewSentinel("invalid button")
)

// DefaultLoadingDelay is how long playback may take to become ready before the loading indicator shows.
const DefaultLoadingDelay = 1500 * time.Millisecond

// Config wires an Engine to its collaborators.
type Config struct {
	Catalog   *models.Catalog
	Host      Host
	Saves     SaveStore
	Settings  SettingsStore
	Scheduler timeline.Scheduler
	Random    random.Source
	Solutions scoring.Table
	// ShowIntro plays the setup sequence before the case menu when a case starts fresh.
	ShowIntro    bool
	LoadingDelay time.Duration
}

// Transition describes what a transition resolved to.
type Transition struct {
	// Clip is the clip that became current, which may differ from the requested one.
	Clip *models.Clip
	// StartEvents fire when the host reports Clip ready.
	StartEvents []models.EventKind
	// EndEvents fired on the left clip when the transition was caused by its natural end.
	EndEvents []models.EventKind
	// Restarted is set when the restart sentinel discarded the session.
	Restarted bool
}

type Engine struct {
	logger    *slog.Logger
	catalog   *models.Catalog
	host      Host
	saves     SaveStore
	store     SettingsStore
	rnd       random.Source
	solutions scoring.Table
	showIntro bool
	delay     time.Duration

	state     *session.State
	selector  *selector.Selector
	subtitles *timeline.Subtitles
	loading   *timeline.Delay
	settings  session.Settings
	handlers  map[models.EventKind]func(ctx context.Context) error

	// queue holds events waiting to run after the transition that fired them.
	queue     []models.EventKind
	ready     bool
	// ended latches the end of a non-looping clip until the next transition.
	ended     bool
	buttons   layout.Buttons
	selection selection
	note      int
}

// New creates an Engine and loads the player settings. Call Start to show the main menu.
func New(ctx context.Context, logger *slog.Logger, cfg Config) (*Engine, error) {
	if cfg.Catalog == nil || cfg.Catalog.Roles.MainMenu == nil {
		return nil, errors.New("catalog without main menu")
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = timeline.RealScheduler{}
	}
	if cfg.Random == nil {
		cfg.Random = random.NewSource()
	}
	if cfg.Saves == nil {
		cfg.Saves = session.NewMemoryStore()
	}
	if cfg.Settings == nil {
		cfg.Settings = session.NewMemorySettings()
	}
	if cfg.LoadingDelay <= 0 {
		cfg.LoadingDelay = DefaultLoadingDelay
	}
	settings, err := cfg.Settings.LoadSettings(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load settings")
	}
	e := &Engine{ //nolint:exhaustruct // playback state starts empty
		logger:    logger,
		catalog:   cfg.Catalog,
		host:      cfg.Host,
		saves:     cfg.Saves,
		store:     cfg.Settings,
		rnd:       cfg.Random,
		solutions: cfg.Solutions,
		showIntro: cfg.ShowIntro,
		delay:     cfg.LoadingDelay,
		state:     session.New(cfg.Catalog.Roles.Setup),
		selector:  selector.New(cfg.Random),
		loading:   timeline.NewDelay(cfg.Scheduler),
		settings:  settings.Normalized(),
		selection: newSelection(),
	}
	e.subtitles = timeline.NewSubtitles(cfg.Scheduler, cfg.Host.ShowSubtitle)
	e.handlers = e.eventHandlers()
	return e, nil
}

// Start shows the main menu.
func (e *Engine) Start(ctx context.Context) error {
	return e.Advance(ctx, e.catalog.Roles.MainMenu)
}

// Advance shows clip and runs any events the transition left queued.
func (e *Engine) Advance(ctx context.Context, clip *models.Clip) error {
	_, err := e.show(ctx, clip)
	return errors.Join(err, e.drain(ctx))
}

// Retry re-issues the current clip, used after the host failed to prepare it.
func (e *Engine) Retry(ctx context.Context) error {
	if e.state.Current == nil {
		return nil
	}
	return e.Advance(ctx, e.state.Current)
}

// show runs a transition to clip. It never runs queued events, callers drain the queue.
func (e *Engine) show(ctx context.Context, clip *models.Clip) (Transition, error) {
	var t Transition
	if clip == nil {
		return t, ErrNoClip
	}
	s := e.state
	roles := e.catalog.Roles

	e.showContinue(ctx, clip)

	if clip == s.Previous && (s.InSetup(clip) || strings.Contains(clip.Name, "Setup")) {
		s.NextSetup--
	}

	if s.Previous != nil && s.Case != nil && clip == s.Case.Menu {
		e.save(ctx)
	}

	if s.Current != nil && clip != s.Previous {
		s.Previous = s.Current
	}
	if clip == s.Previous {
		s.Previous = nil
	}
	if late := s.SetupClip(roles.LateSetupSlot); late != nil && clip == late {
		s.Previous = clip
	}

	e.host.HideButtons()
	e.buttons = layout.Buttons{Tag: models.LayoutNone, Slots: nil}
	e.subtitles.Stop()
	e.loading.Cancel()
	e.host.Stop()

	if s.Case != nil && clip == s.Case.Menu {
		if s.Countdown == 0 {
			clip = roles.InspectorCall
			s.Countdown = session.InitialCountdown
		} else {
			s.Countdown--
		}
	}

	s.Current = clip
	e.ready = false
	e.ended = false

	if clip == roles.Restart {
		return e.restart(ctx)
	}

	e.logger.LogAttrs(ctx, slog.LevelInfo, "show clip",
		slog.String("clip", clip.Name),
		slog.String("previous", s.Previous.String()),
		slog.Int("countdown", s.Countdown))

	settings := e.settings
	e.loading.Arm(e.delay, settings.Speed, func() {
		e.host.ShowLoading(true)
	})
	playback := Playback{
		Clip:   clip.Name,
		URL:    e.catalog.URL(clip),
		Loop:   clip.Looping,
		Muted:  (strings.Contains(clip.Name, "Menu") || strings.Contains(clip.Name, "Still")) && !settings.MenuMusic,
		Volume: settings.Volume,
		Speed:  settings.Speed,
	}
	t = Transition{Clip: clip, StartEvents: clip.OnStart, EndEvents: nil, Restarted: false}
	if err := e.host.Play(ctx, playback); err != nil {
		return t, errors.Wrap(err, "play clip", slog.String("clip", clip.Name), slog.String("url", playback.URL))
	}
	return t, nil
}

// restart throws away the session and shows the main menu as if the game had just launched.
func (e *Engine) restart(ctx context.Context) (Transition, error) {
	e.logger.LogAttrs(ctx, slog.LevelInfo, "restart game")
	e.invalidate(ctx)
	e.state.Reset()
	e.selector.Reset()
	e.selection = newSelection()
	e.queue = nil
	e.note = 0
	t, err := e.show(ctx, e.catalog.Roles.MainMenu)
	t.Restarted = true
	return t, err
}

// MediaReady is reported by the host once the current clip can play. It resolves the buttons, fires the start
// events and starts the subtitles. Repeated reports for the same transition are ignored.
func (e *Engine) MediaReady(ctx context.Context) error {
	clip := e.state.Current
	if clip == nil || e.ready {
		return nil
	}
	e.ready = true
	e.loading.Cancel()
	e.host.ShowLoading(false)

	e.buttons = layout.Resolve(clip.Buttons, e.state, e.catalog)
	e.host.ShowButtons(e.buttons)
	e.queue = append(e.queue, clip.OnStart...)
	e.startSubtitles(clip)
	e.revealSelectionPage(clip)
	return e.drain(ctx)
}

// NaturalEnd is reported by the host when the current clip reaches its end or loop point.
// Looping clips restart their subtitles. Other clips fire their end events and chain to their successor.
func (e *Engine) NaturalEnd(ctx context.Context) (Transition, error) {
	clip := e.state.Current
	if clip == nil || !e.ready || e.ended {
		return Transition{}, nil //nolint:exhaustruct // nothing happened
	}
	if clip.Looping {
		e.startSubtitles(clip)
		return Transition{Clip: clip, StartEvents: nil, EndEvents: nil, Restarted: false}, nil
	}
	e.ended = true
	e.queue = append(e.queue, clip.OnEnd...)
	t := Transition{Clip: clip, StartEvents: nil, EndEvents: clip.OnEnd, Restarted: false}
	var err error
	if clip.Next != nil {
		t, err = e.show(ctx, clip.Next)
		t.EndEvents = clip.OnEnd
	}
	return t, errors.Join(err, e.drain(ctx))
}

// Press handles a press of button slot of the current layout.
func (e *Engine) Press(ctx context.Context, slot int) error {
	if slot < 0 || slot >= len(e.buttons.Slots) {
		return errors.Wrap(ErrInvalidButton, "press",
			slog.Int("slot", slot), slog.String("layout", e.buttons.Tag.String()))
	}
	button := e.buttons.Slots[slot]
	e.logger.LogAttrs(ctx, slog.LevelDebug, "press button",
		slog.Int("slot", slot),
		slog.String("kind", button.Kind.String()),
		slog.String("layout", e.buttons.Tag.String()))
	switch button.Kind {
	case layout.Link:
		return e.Advance(ctx, button.Clip)
	case layout.Static:
		err := e.staticAction(ctx, e.buttons.Tag, slot)
		return errors.Join(err, e.drain(ctx))
	case layout.Disabled:
		return nil
	default:
		return nil
	}
}

// StartCase starts case i from scratch, discarding any saved game.
func (e *Engine) StartCase(ctx context.Context, i int) error {
	_, err := e.startCase(ctx, i)
	return errors.Join(err, e.drain(ctx))
}

func (e *Engine) startCase(ctx context.Context, i int) (Transition, error) {
	if i < 0 || i >= len(e.catalog.Cases) {
		return Transition{}, errors.Wrap(ErrUnknownCase, "start case", slog.Int("case", i)) //nolint:exhaustruct // error
	}
	e.invalidate(ctx)
	cs := e.catalog.Cases[i]
	s := e.state
	s.Begin(cs, i)
	e.selection = newSelection()
	e.logger.LogAttrs(ctx, slog.LevelInfo, "start case", slog.String("case", cs.Name), slog.Int("index", i))

	if e.showIntro && s.SetupLen() > 0 {
		e.applyCaseSetup(cs)
		t, err := e.show(ctx, s.SetupClip(0))
		s.NextSetup = 1
		return t, err
	}
	return e.show(ctx, cs.Menu)
}

// applyCaseSetup fills the overridable setup slots with the case's setup clips.
func (e *Engine) applyCaseSetup(cs *models.Case) {
	s := e.state
	s.ClearSetupOverrides()
	for k, slot := range e.catalog.Roles.SetupOverrides {
		if k < len(cs.Setup) {
			s.OverrideSetup(slot, cs.Setup[k])
		}
	}
}

// CanContinue reports whether there is a saved game to continue.
func (e *Engine) CanContinue(ctx context.Context) (bool, error) {
	ok, err := e.saves.HasSave(ctx)
	if err != nil {
		return false, errors.Wrap(err, "check save")
	}
	return ok, nil
}

// Continue resumes the saved game at its case menu.
func (e *Engine) Continue(ctx context.Context) error {
	data, err := e.saves.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "load save")
	}
	if data == nil {
		return ErrNoSave
	}
	if data.Case < 0 || data.Case >= len(e.catalog.Cases) {
		return errors.Wrap(ErrUnknownCase, "continue", slog.Int("case", data.Case))
	}
	cs := e.catalog.Cases[data.Case]
	e.state.Resume(cs, *data)
	if e.showIntro {
		e.applyCaseSetup(cs)
	} else {
		e.state.ClearSetupOverrides()
	}
	e.selection = newSelection()
	e.logger.LogAttrs(ctx, slog.LevelInfo, "continue case", slog.String("case", cs.Name), slog.Int("index", data.Case))
	return e.Advance(ctx, cs.Menu)
}

// Settings returns the active player settings.
func (e *Engine) Settings() session.Settings {
	return e.settings
}

// UpdateSettings persists s and applies it from the next clip on. Disabling subtitles clears them immediately.
func (e *Engine) UpdateSettings(ctx context.Context, s session.Settings) error {
	s = s.Normalized()
	if err := e.store.SaveSettings(ctx, s); err != nil {
		return errors.Wrap(err, "save settings")
	}
	e.settings = s
	if !s.Subtitles {
		e.subtitles.Stop()
		e.host.ShowSubtitle("")
	}
	return nil
}

func (e *Engine) startSubtitles(clip *models.Clip) {
	if !e.settings.Subtitles {
		return
	}
	e.subtitles.Start(clip.Subtitles, e.settings.Speed)
}

// drain runs the queued events in order. Events queued while draining run in the same pass.
func (e *Engine) drain(ctx context.Context) error {
	var errs []error
	for len(e.queue) > 0 {
		kind := e.queue[0]
		e.queue = e.queue[1:]
		handler, ok := e.handlers[kind]
		if !ok {
			errs = append(errs, errors.Wrap(models.ErrUnknownEvent, "run event", slog.Int("kind", int(kind))))
			continue
		}
		e.logger.LogAttrs(ctx, slog.LevelDebug, "run event",
			slog.String("event", kind.String()),
			slog.String("clip", e.state.Current.String()))
		if err := handler(ctx); err != nil {
			errs = append(errs, errors.Wrap(err, "run event", slog.String("event", kind.String())))
		}
	}
	return errors.Join(errs...)
}

func (e *Engine) showContinue(ctx context.Context, clip *models.Clip) {
	visible := false
	if clip == e.catalog.Roles.MainMenu {
		ok, err := e.saves.HasSave(ctx)
		if err != nil {
			e.logger.LogAttrs(ctx, slog.LevelError, "check save", errors.SlogError(err))
		}
		visible = ok
	}
	e.host.ShowContinue(visible)
}

// save writes the snapshot before signalling the save indicator. Failures are logged and never interrupt play.
func (e *Engine) save(ctx context.Context) {
	data := e.state.Snapshot()
	if err := e.saves.Save(ctx, data); err != nil {
		e.logger.LogAttrs(ctx, slog.LevelError, "save game", errors.SlogError(err))
		return
	}
	e.logger.LogAttrs(ctx, slog.LevelInfo, "saved game", slog.Int("case", data.Case))
	e.host.ShowSaved()
}

func (e *Engine) invalidate(ctx context.Context) {
	if err := e.saves.Invalidate(ctx); err != nil {
		e.logger.LogAttrs(ctx, slog.LevelError, "invalidate save", errors.SlogError(err))
	}
}
