// Package session holds the mutable state of one play-through.
package session

import (
	"github.com/myrjola/dvdcluedo/internal/models"
	"slices"
)

// InitialCountdown is the number of case menu visits before the inspector calls.
const InitialCountdown = 3

// State is the mutable state of one play-through. It is owned by a single engine and not safe for concurrent use.
type State struct {
	// Case is the active case, nil on the main menu before a case has started.
	Case      *models.Case
	CaseIndex int
	models.Flags

	NextEvent   int
	NextButler  int
	NextPassage int
	NextSetup   int

	// Countdown reaches zero after three case menu visits, the fourth visit is replaced by the inspector call.
	Countdown int

	Notes        int
	lastNoteFrom *models.Clip
	Rooms        int
	lastRoomFrom *models.Clip

	// Previous is the one-slot history offered by the repeat buttons.
	Previous *models.Clip
	Current  *models.Clip

	Room        *models.Room
	Observation *models.Observation
	Question    *models.Question

	// Correct is the score of the last accusation.
	Correct int

	setup   []*models.Clip
	overlay map[int]*models.Clip
}

// New creates the state of a fresh session layered over the authored setup sequence.
func New(setup []*models.Clip) *State {
	s := &State{setup: setup} //nolint:exhaustruct // reset below
	s.Reset()
	return s
}

// Reset discards everything, as when the game is restarted.
func (s *State) Reset() {
	*s = State{ //nolint:exhaustruct // zero values are the fresh state
		CaseIndex: -1,
		Countdown: InitialCountdown,
		setup:     s.setup,
		overlay:   map[int]*models.Clip{},
	}
}

// Begin starts c from scratch. The setup overlay and cursor are left to the caller since they depend on the intro.
func (s *State) Begin(c *models.Case, index int) {
	s.Case = c
	s.CaseIndex = index
	s.Flags = c.StartFlags
	s.NextEvent = 0
	s.NextButler = 0
	s.NextPassage = 0
	s.Countdown = InitialCountdown
	s.Notes = 0
	s.lastNoteFrom = nil
	s.Previous = nil
	s.Rooms = 0
	s.lastRoomFrom = nil
	s.ClearRoom()
}

// Resume restores c from a save snapshot.
func (s *State) Resume(c *models.Case, save SaveData) {
	s.Case = c
	s.CaseIndex = save.Case
	s.Flags = save.Flags
	s.NextEvent = save.NextEvent
	s.NextButler = save.NextButler
	s.NextPassage = save.NextPassage
	s.NextSetup = save.NextSetup
	s.Countdown = InitialCountdown
	s.Notes = save.Notes
	s.lastNoteFrom = nil
	s.Previous = nil
	s.Rooms = save.Rooms
	s.lastRoomFrom = nil
	s.ClearRoom()
}

// Snapshot captures the persisted part of the state.
func (s *State) Snapshot() SaveData {
	return SaveData{
		Case:        s.CaseIndex,
		NextPassage: s.NextPassage,
		NextEvent:   s.NextEvent,
		NextButler:  s.NextButler,
		NextSetup:   s.NextSetup,
		Notes:       s.Notes,
		Rooms:       s.Rooms,
		Flags:       s.Flags,
	}
}

// ClearRoom forgets the room, observation and question being investigated.
func (s *State) ClearRoom() {
	s.Room = nil
	s.Observation = nil
	s.Question = nil
}

// GrantNote enables inspector notes and adds one, unless from already granted the last one.
func (s *State) GrantNote(from *models.Clip) bool {
	s.InspectorNote = true
	if from == s.lastNoteFrom {
		return false
	}
	s.Notes++
	s.lastNoteFrom = from
	return true
}

// GrantRoom enables item cards and adds an available room, unless from already granted the last one.
func (s *State) GrantRoom(from *models.Clip) bool {
	s.ItemCard = true
	if from == s.lastRoomFrom {
		return false
	}
	s.Rooms++
	s.lastRoomFrom = from
	return true
}

// SetupLen is the length of the setup sequence.
func (s *State) SetupLen() int {
	return len(s.setup)
}

// SetupClip returns the clip at slot i of the setup sequence with this session's overrides applied.
func (s *State) SetupClip(i int) *models.Clip {
	if i < 0 || i >= len(s.setup) {
		return nil
	}
	if clip, ok := s.overlay[i]; ok {
		return clip
	}
	return s.setup[i]
}

// InSetup reports whether clip is part of the overlaid setup sequence.
func (s *State) InSetup(clip *models.Clip) bool {
	for i := range s.setup {
		if s.SetupClip(i) == clip {
			return true
		}
	}
	return false
}

// OverrideSetup replaces slot i of the setup sequence for this session only.
func (s *State) OverrideSetup(i int, clip *models.Clip) {
	if i < 0 || i >= len(s.setup) {
		return
	}
	s.overlay[i] = clip
}

// ClearSetupOverrides restores the authored setup sequence.
func (s *State) ClearSetupOverrides() {
	clear(s.overlay)
}

// ReplaceSetup overrides every slot currently showing a clip called placeholder and returns the replaced slots.
func (s *State) ReplaceSetup(placeholder string, clip *models.Clip) []int {
	var slots []int
	for i := range s.setup {
		if current := s.SetupClip(i); current != nil && current.Name == placeholder {
			s.overlay[i] = clip
			slots = append(slots, i)
		}
	}
	return slots
}

// Overrides returns the overridden setup slots in ascending order.
func (s *State) Overrides() []int {
	slots := make([]int, 0, len(s.overlay))
	for slot := range s.overlay {
		slots = append(slots, slot)
	}
	slices.Sort(slots)
	return slots
}
