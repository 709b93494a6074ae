package engine

import (
	"context"
	"github.com/myrjola/dvdcluedo/content"
	"github.com/myrjola/dvdcluedo/internal/layout"
	"github.com/myrjola/dvdcluedo/internal/models"
	"github.com/myrjola/dvdcluedo/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
)

type nopHost struct{}

func (nopHost) Play(context.Context, Playback) error { return nil }
func (nopHost) Stop()                                 {}
func (nopHost) ShowButtons(layout.Buttons)            {}
func (nopHost) HideButtons()                          {}
func (nopHost) ShowSubtitle(string)                   {}
func (nopHost) ShowLoading(bool)                      {}
func (nopHost) ShowOverlay(Overlay)                   {}
func (nopHost) ShowSaved()                            {}
func (nopHost) ShowContinue(bool)                     {}
func (nopHost) Quit()                                 {}

func TestEveryEventKindHasHandler(t *testing.T) {
	c, err := content.Default()
	require.NoError(t, err)
	e, err := New(context.Background(), testhelpers.NewLogger(io.Discard), Config{ //nolint:exhaustruct // defaults
		Catalog: c,
		Host:    nopHost{},
	})
	require.NoError(t, err)
	for _, kind := range models.EventKinds() {
		require.Contains(t, e.handlers, kind, kind.String())
	}
	require.Len(t, e.handlers, len(models.EventKinds()))
}

func TestCaseEventsWithoutCase(t *testing.T) {
	ctx := context.Background()
	c, err := content.Default()
	require.NoError(t, err)
	e, err := New(ctx, testhelpers.NewLogger(io.Discard), Config{ //nolint:exhaustruct // defaults
		Catalog: c,
		Host:    nopHost{},
	})
	require.NoError(t, err)
	require.NoError(t, e.Start(ctx))

	for _, kind := range []models.EventKind{
		models.EventSecretPassage, models.EventShowButlerClip, models.EventCheckForRoomMenu,
	} {
		require.ErrorIs(t, e.handlers[kind](ctx), ErrNoCase, kind.String())
	}
	require.Equal(t, "MainMenu", e.state.Current.Name)
}
