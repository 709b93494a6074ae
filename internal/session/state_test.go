package session_test

import (
	"context"
	"github.com/myrjola/dvdcluedo/internal/models"
	"github.com/myrjola/dvdcluedo/internal/session"
	"github.com/stretchr/testify/require"
	"testing"
)

func clip(name string) *models.Clip {
	return &models.Clip{Name: name} //nolint:exhaustruct // only identity matters
}

func TestSetupOverlay(t *testing.T) {
	base := []*models.Clip{clip("A"), clip("DEALCLIP"), clip("C"), clip("DEALCLIP")}
	s := session.New(base)
	require.Equal(t, 4, s.SetupLen())
	require.Nil(t, s.SetupClip(-1))
	require.Nil(t, s.SetupClip(4))

	override := clip("Override")
	s.OverrideSetup(2, override)
	s.OverrideSetup(9, override)
	require.Same(t, override, s.SetupClip(2))
	require.Equal(t, "C", base[2].Name, "authored sequence untouched")
	require.True(t, s.InSetup(override))
	require.False(t, s.InSetup(base[2]))

	deal := clip("Deal4Players")
	require.Equal(t, []int{1, 3}, s.ReplaceSetup("DEALCLIP", deal))
	require.Same(t, deal, s.SetupClip(3))
	require.Empty(t, s.ReplaceSetup("DEALCLIP", deal))
	require.Equal(t, []int{1, 2, 3}, s.Overrides())

	s.Reset()
	require.Empty(t, s.Overrides())
	require.Same(t, base[1], s.SetupClip(1))
}

func TestGrantGuards(t *testing.T) {
	s := session.New(nil)
	event := clip("Event")
	butler := clip("Butler")

	require.True(t, s.GrantNote(event))
	require.False(t, s.GrantNote(event))
	require.True(t, s.GrantNote(butler))
	require.Equal(t, 2, s.Notes)
	require.True(t, s.InspectorNote)

	require.True(t, s.GrantRoom(event))
	require.False(t, s.GrantRoom(event))
	require.Equal(t, 1, s.Rooms)
	require.True(t, s.ItemCard)
}

func TestSnapshotAndResume(t *testing.T) {
	c := &models.Case{ //nolint:exhaustruct // flags are all that matter
		Name:       "Case",
		StartFlags: models.Flags{SecretPassage: true}, //nolint:exhaustruct // one flag
	}
	s := session.New(nil)
	s.Begin(c, 1)
	require.True(t, s.SecretPassage)
	s.NextEvent = 2
	s.NextButler = 1
	s.NextSetup = 5
	s.GrantNote(clip("Note"))
	s.Countdown = 0
	s.Previous = clip("Prev")

	snapshot := s.Snapshot()
	require.Equal(t, session.SaveData{
		Case:        1,
		NextPassage: 0,
		NextEvent:   2,
		NextButler:  1,
		NextSetup:   5,
		Notes:       1,
		Rooms:       0,
		Flags:       models.Flags{SecretPassage: true, InspectorNote: true}, //nolint:exhaustruct // two flags
	}, snapshot)

	resumed := session.New(nil)
	resumed.Resume(c, snapshot)
	require.Equal(t, snapshot, resumed.Snapshot())
	require.Equal(t, session.InitialCountdown, resumed.Countdown)
	require.Nil(t, resumed.Previous)
	require.Same(t, c, resumed.Case)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()

	data, err := store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, data)

	require.NoError(t, store.Save(ctx, session.SaveData{Case: 1, Notes: 2})) //nolint:exhaustruct // partial snapshot
	ok, err := store.HasSave(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	data, err = store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, data.Notes)

	require.NoError(t, store.Invalidate(ctx))
	ok, err = store.HasSave(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSettingsNormalized(t *testing.T) {
	tests := []struct {
		name string
		in   session.Settings
		want session.Settings
	}{
		{"defaults unchanged", session.DefaultSettings(), session.DefaultSettings()},
		{
			"clamped",
			session.Settings{Speed: 9, Volume: -1, MenuMusic: false, Subtitles: true, Highlight: true},
			session.Settings{Speed: 5, Volume: 0, MenuMusic: false, Subtitles: true, Highlight: true},
		},
		{
			"zero speed",
			session.Settings{Speed: 0, Volume: 2, MenuMusic: true, Subtitles: false, Highlight: false},
			session.Settings{Speed: 1, Volume: 1, MenuMusic: true, Subtitles: false, Highlight: false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, tt.in.Normalized())
		})
	}
}
