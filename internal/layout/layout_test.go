package layout_test

import (
	"github.com/myrjola/dvdcluedo/content"
	"github.com/myrjola/dvdcluedo/internal/layout"
	"github.com/myrjola/dvdcluedo/internal/models"
	"github.com/myrjola/dvdcluedo/internal/session"
	"github.com/stretchr/testify/require"
	"testing"
)

func setup(t *testing.T) (*models.Catalog, *session.State) {
	t.Helper()
	c, err := content.Default()
	require.NoError(t, err)
	s := session.New(c.Roles.Setup)
	s.Begin(c.Cases[0], 0)
	return c, s
}

func kinds(b layout.Buttons) []layout.Kind {
	ks := make([]layout.Kind, 0, len(b.Slots))
	for _, slot := range b.Slots {
		ks = append(ks, slot.Kind)
	}
	return ks
}

func clips(b layout.Buttons) []*models.Clip {
	cs := make([]*models.Clip, 0, len(b.Slots))
	for _, slot := range b.Slots {
		cs = append(cs, slot.Clip)
	}
	return cs
}

func TestMainMenu(t *testing.T) {
	c, s := setup(t)
	b := layout.Resolve(models.LayoutMainMenu, s, c)
	require.Len(t, b.Slots, layout.MainMenuCaseSlots+1)
	require.Equal(t, layout.Static, b.Slots[0].Kind)
	require.Equal(t, layout.Static, b.Slots[1].Kind)
	for _, slot := range b.Slots[2:] {
		require.Equal(t, layout.Disabled, slot.Kind)
	}
}

func TestCaseMenu(t *testing.T) {
	c, s := setup(t)
	b := layout.Resolve(models.LayoutCaseMenu, s, c)
	require.Equal(t, []layout.Kind{
		layout.Disabled, layout.Disabled, layout.Disabled, layout.Disabled, layout.Link, layout.Link,
	}, kinds(b))
	require.Same(t, c.Roles.AccusationStart, b.Slots[4].Clip)
	require.Same(t, c.Roles.Restart, b.Slots[5].Clip)

	s.Flags = models.Flags{SecretPassage: true, SummonButler: true, ItemCard: true, InspectorNote: true}
	b = layout.Resolve(models.LayoutCaseMenu, s, c)
	require.Equal(t, []layout.Kind{
		layout.Link, layout.Static, layout.Static, layout.Static, layout.Link, layout.Link,
	}, kinds(b))
	require.Same(t, c.Roles.PassageStart, b.Slots[0].Clip)
}

func TestEventLayouts(t *testing.T) {
	tags := []models.LayoutTag{models.LayoutInspectorCall, models.LayoutEventOkMenu, models.LayoutEventOptionMenu}
	for _, tag := range tags {
		t.Run(tag.String(), func(t *testing.T) {
			c, s := setup(t)
			events := s.Case.Events
			for i := range len(events) + 2 {
				b := layout.Resolve(tag, s, c)
				want := c.Roles.OverflowEvent
				if i < len(events) {
					want = events[i]
				}
				require.Same(t, want, b.Slots[0].Clip, "event %d", i)
				require.Equal(t, i+1, s.NextEvent)
				if tag == models.LayoutEventOptionMenu {
					require.Len(t, b.Slots, 2)
					require.Same(t, s.Case.Menu, b.Slots[1].Clip)
				} else {
					require.Len(t, b.Slots, 1)
				}
			}
		})
	}
}

func TestSetupRepeat(t *testing.T) {
	c, s := setup(t)
	s.OverrideSetup(2, s.Case.Setup[0])
	s.NextSetup = 2
	b := layout.Resolve(models.LayoutSetupRepeat, s, c)
	require.Equal(t, []*models.Clip{s.Case.Setup[0], nil}, clips(b))
	require.Equal(t, []layout.Kind{layout.Link, layout.Disabled}, kinds(b))
	require.Equal(t, 3, s.NextSetup)

	previous := c.Clip("SetupWelcome")
	s.Previous = previous
	s.NextSetup = s.SetupLen()
	b = layout.Resolve(models.LayoutSetupRepeat, s, c)
	require.Equal(t, []*models.Clip{s.Case.Intro, previous}, clips(b), "past the end offers the intro")

	s.NextSetup = -1
	b = layout.Resolve(models.LayoutSetupRepeat, s, c)
	require.Same(t, s.SetupClip(0), b.Slots[0].Clip)
	require.Equal(t, 0, s.NextSetup)
}

func TestFixedLayouts(t *testing.T) {
	c, s := setup(t)
	cs := s.Case
	previous := c.Clip("NoteInstructions1")
	s.Previous = previous
	s.Room = cs.Rooms[0]
	s.Question = cs.Rooms[0].Observations[0].Questions[0]

	tests := []struct {
		tag   models.LayoutTag
		kinds []layout.Kind
		clips []*models.Clip
	}{
		{models.LayoutPassageOk, []layout.Kind{layout.Link}, []*models.Clip{c.Roles.PassageEnd}},
		{models.LayoutMenuRepeat, []layout.Kind{layout.Link, layout.Link}, []*models.Clip{cs.Menu, previous}},
		{models.LayoutPlayerCount, []layout.Kind{layout.Link, layout.Link, layout.Link},
			[]*models.Clip{cs.Players3, cs.Players4, cs.Players5}},
		{models.LayoutSelectionLetterReady, []layout.Kind{layout.Link}, []*models.Clip{c.Roles.SelectionLetterReady}},
		{models.LayoutSelectionLetterConfirm, []layout.Kind{layout.Static, layout.Link}, []*models.Clip{nil, previous}},
		{models.LayoutNoteInstructionsRepeat, []layout.Kind{layout.Static, layout.Link}, []*models.Clip{nil, previous}},
		{models.LayoutNoteNumberOk, []layout.Kind{layout.Link}, []*models.Clip{cs.Menu}},
		{models.LayoutNoteSelect2, []layout.Kind{layout.Static, layout.Static}, []*models.Clip{nil, nil}},
		{models.LayoutNoteSelect3, []layout.Kind{layout.Static, layout.Static, layout.Static},
			[]*models.Clip{nil, nil, nil}},
		{models.LayoutRoomSelect, []layout.Kind{layout.Static, layout.Static}, []*models.Clip{nil, nil}},
		{models.LayoutRoomAnswer, []layout.Kind{layout.Link, layout.Link}, []*models.Clip{cs.Menu, cs.Rooms[0].Success}},
		{models.LayoutRoomQuestion, []layout.Kind{layout.Link}, []*models.Clip{s.Question.Answer}},
		{models.LayoutNone, []layout.Kind{}, []*models.Clip{}},
	}
	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			b := layout.Resolve(tt.tag, s, c)
			require.Equal(t, tt.tag, b.Tag)
			require.Equal(t, tt.kinds, kinds(b))
			require.Equal(t, tt.clips, clips(b))
		})
	}
}

func TestResultsOk(t *testing.T) {
	c, s := setup(t)
	for correct := range 5 {
		s.Correct = correct
		b := layout.Resolve(models.LayoutResultsOk, s, c)
		want := s.Case.Menu
		if correct == layout.PerfectScore {
			want = s.Case.Ending
		}
		require.Equal(t, []*models.Clip{want}, clips(b))
	}
}

func TestCaseLayoutsWithoutCase(t *testing.T) {
	c, err := content.Default()
	require.NoError(t, err)
	s := session.New(c.Roles.Setup)
	for _, tag := range []models.LayoutTag{
		models.LayoutCaseMenu, models.LayoutInspectorCall, models.LayoutSetupRepeat, models.LayoutRoomAnswer,
	} {
		require.Empty(t, layout.Resolve(tag, s, c).Slots, tag.String())
	}
	require.Zero(t, s.NextEvent)
	require.Zero(t, s.NextSetup)
}
