package engine_test

import (
	"context"
	"github.com/myrjola/dvdcluedo/content"
	"github.com/myrjola/dvdcluedo/internal/engine"
	"github.com/myrjola/dvdcluedo/internal/layout"
	"github.com/myrjola/dvdcluedo/internal/models"
	"github.com/myrjola/dvdcluedo/internal/random"
	"github.com/myrjola/dvdcluedo/internal/scoring"
	"github.com/myrjola/dvdcluedo/internal/session"
	"github.com/myrjola/dvdcluedo/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"io"
	"sync"
	"testing"
)

type fakeHost struct {
	mu              sync.Mutex
	plays           []engine.Playback
	buttons         []layout.Buttons
	subtitles       []string
	loading         []bool
	overlays        []engine.Overlay
	saved           int
	continueVisible bool
	quits           int
	playErr         error
}

func (h *fakeHost) Play(_ context.Context, p engine.Playback) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.playErr != nil {
		return h.playErr
	}
	h.plays = append(h.plays, p)
	return nil
}

func (h *fakeHost) Stop() {}

func (h *fakeHost) ShowButtons(b layout.Buttons) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buttons = append(h.buttons, b)
}

func (h *fakeHost) HideButtons() {}

func (h *fakeHost) ShowSubtitle(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subtitles = append(h.subtitles, text)
}

func (h *fakeHost) ShowLoading(visible bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loading = append(h.loading, visible)
}

func (h *fakeHost) ShowOverlay(o engine.Overlay) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.overlays = append(h.overlays, o)
}

func (h *fakeHost) ShowSaved() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.saved++
}

func (h *fakeHost) ShowContinue(visible bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.continueVisible = visible
}

func (h *fakeHost) Quit() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.quits++
}

func (h *fakeHost) lastPlay() engine.Playback {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.plays[len(h.plays)-1]
}

func (h *fakeHost) lastOverlay() engine.Overlay {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.overlays[len(h.overlays)-1]
}

type options struct {
	intro     bool
	subtitles bool
	save      *session.SaveData
	catalog   func(c *models.Catalog)
}

type fixture struct {
	e         *engine.Engine
	host      *fakeHost
	saves     *session.MemoryStore
	settings  *session.MemorySettings
	scheduler *testhelpers.ManualScheduler
	catalog   *models.Catalog
}

func newFixture(t *testing.T, opts options) *fixture {
	t.Helper()
	ctx := context.Background()
	c, err := content.Default()
	require.NoError(t, err)
	if opts.catalog != nil {
		opts.catalog(c)
	}
	saves := session.NewMemoryStore()
	if opts.save != nil {
		require.NoError(t, saves.Save(ctx, *opts.save))
	}
	settings := session.NewMemorySettings()
	if opts.subtitles {
		s := session.DefaultSettings()
		s.Subtitles = true
		require.NoError(t, settings.SaveSettings(ctx, s))
	}
	host := &fakeHost{} //nolint:exhaustruct // records from scratch
	scheduler := testhelpers.NewManualScheduler()
	e, err := engine.New(ctx, testhelpers.NewLogger(io.Discard), engine.Config{
		Catalog:      c,
		Host:         host,
		Saves:        saves,
		Settings:     settings,
		Scheduler:    scheduler,
		Random:       random.NewSeededSource(1),
		Solutions:    scoring.Table{{1, 2, 3, 0}, {0, 0, 0, 0}},
		ShowIntro:    opts.intro,
		LoadingDelay: 0,
	})
	require.NoError(t, err)
	return &fixture{e: e, host: host, saves: saves, settings: settings, scheduler: scheduler, catalog: c}
}

func (f *fixture) clip(t *testing.T, name string) *models.Clip {
	t.Helper()
	clip := f.catalog.Clip(name)
	require.NotNil(t, clip, name)
	return clip
}

func (f *fixture) advance(t *testing.T, name string) {
	t.Helper()
	require.NoError(t, f.e.Advance(context.Background(), f.clip(t, name)))
}

func (f *fixture) ready(t *testing.T) {
	t.Helper()
	require.NoError(t, f.e.MediaReady(context.Background()))
}

func (f *fixture) press(t *testing.T, slot int) {
	t.Helper()
	require.NoError(t, f.e.Press(context.Background(), slot))
}

func (f *fixture) end(t *testing.T) engine.Transition {
	t.Helper()
	tr, err := f.e.NaturalEnd(context.Background())
	require.NoError(t, err)
	return tr
}

func (f *fixture) startCase(t *testing.T, i int) {
	t.Helper()
	require.NoError(t, f.e.Start(context.Background()))
	f.ready(t)
	f.press(t, i)
}

func (f *fixture) clipName() string {
	return f.e.Status().Clip
}

func (f *fixture) slotClips() []string {
	var names []string
	for _, slot := range f.e.Status().Buttons.Slots {
		if slot.Clip == nil {
			names = append(names, slot.Kind.String())
			continue
		}
		names = append(names, slot.Clip.Name)
	}
	return names
}
