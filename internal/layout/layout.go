// Package layout resolves a clip's button layout tag into the buttons offered to the player.
//
// Resolution is not idempotent: the event and setup layouts advance their cursors in the session state,
// so Resolve must run exactly once per transition.
package layout

import (
	"github.com/myrjola/dvdcluedo/internal/models"
	"github.com/myrjola/dvdcluedo/internal/session"
)

// Kind is what pressing a button does.
type Kind int

const (
	// Disabled buttons are shown but cannot be pressed.
	Disabled Kind = iota
	// Link buttons advance to Slot.Clip.
	Link
	// Static buttons trigger the action the layout assigns to the slot index.
	Static
)

func (k Kind) String() string {
	switch k {
	case Disabled:
		return "disabled"
	case Link:
		return "link"
	case Static:
		return "static"
	default:
		return "unknown"
	}
}

// Slot is one physical button.
type Slot struct {
	Kind Kind
	Clip *models.Clip
}

// Buttons are the slots of a layout in button order.
type Buttons struct {
	Tag   models.LayoutTag
	Slots []Slot
}

const (
	// MainMenuCaseSlots is the number of case buttons on the main menu.
	MainMenuCaseSlots = 10
	// PerfectScore is the number of correct selections that unlocks the ending.
	PerfectScore = 4
)

func link(clip *models.Clip) Slot {
	if clip == nil {
		return Slot{Kind: Disabled, Clip: nil}
	}
	return Slot{Kind: Link, Clip: clip}
}

func static() Slot {
	return Slot{Kind: Static, Clip: nil}
}

func disabled() Slot {
	return Slot{Kind: Disabled, Clip: nil}
}

func enabledIf(ok bool, slot Slot) Slot {
	if !ok {
		return disabled()
	}
	return slot
}

func statics(n int) []Slot {
	slots := make([]Slot, n)
	for i := range slots {
		slots[i] = static()
	}
	return slots
}

// Resolve maps tag to its buttons given the session state. Layouts that depend on the active case resolve to no
// buttons when no case is active, as does any tag without a rule.
func Resolve(tag models.LayoutTag, s *session.State, c *models.Catalog) Buttons {
	return Buttons{Tag: tag, Slots: resolve(tag, s, c)}
}

func resolve(tag models.LayoutTag, s *session.State, c *models.Catalog) []Slot {
	roles := c.Roles
	switch tag {
	case models.LayoutMainMenu:
		slots := make([]Slot, 0, MainMenuCaseSlots+1)
		for i := range MainMenuCaseSlots {
			slots = append(slots, enabledIf(i < len(c.Cases), static()))
		}
		return append(slots, disabled())
	case models.LayoutPassageOk:
		return []Slot{link(roles.PassageEnd)}
	case models.LayoutSelectionLetterReady:
		return []Slot{link(roles.SelectionLetterReady)}
	case models.LayoutSelectionLetterConfirm, models.LayoutNoteInstructionsRepeat:
		return []Slot{static(), link(s.Previous)}
	case models.LayoutNoteSelect2:
		return statics(2) //nolint:mnd // two notes
	case models.LayoutNoteSelect3:
		return statics(3) //nolint:mnd // three notes
	case models.LayoutRoomSelect:
		return statics(2) //nolint:mnd // two rooms
	case models.LayoutNone:
		return nil
	default:
	}

	cs := s.Case
	if cs == nil {
		return nil
	}
	switch tag {
	case models.LayoutCaseMenu:
		return []Slot{
			enabledIf(s.SecretPassage, link(roles.PassageStart)),
			enabledIf(s.SummonButler, static()),
			enabledIf(s.ItemCard, static()),
			enabledIf(s.InspectorNote, static()),
			link(roles.AccusationStart),
			link(roles.Restart),
		}
	case models.LayoutInspectorCall, models.LayoutEventOkMenu:
		return []Slot{link(nextEvent(s, roles))}
	case models.LayoutEventOptionMenu:
		return []Slot{link(nextEvent(s, roles)), link(cs.Menu)}
	case models.LayoutMenuRepeat:
		return []Slot{link(cs.Menu), link(s.Previous)}
	case models.LayoutSetupRepeat:
		next := cs.Intro
		if s.NextSetup < s.SetupLen() {
			next = s.SetupClip(max(s.NextSetup, 0))
		}
		s.NextSetup++
		return []Slot{link(next), link(s.Previous)}
	case models.LayoutPlayerCount:
		return []Slot{link(cs.Players3), link(cs.Players4), link(cs.Players5)}
	case models.LayoutResultsOk:
		if s.Correct == PerfectScore {
			return []Slot{link(cs.Ending)}
		}
		return []Slot{link(cs.Menu)}
	case models.LayoutNoteNumberOk:
		return []Slot{link(cs.Menu)}
	case models.LayoutRoomAnswer:
		var success *models.Clip
		if s.Room != nil {
			success = s.Room.Success
		}
		return []Slot{link(cs.Menu), link(success)}
	case models.LayoutRoomQuestion:
		if s.Question == nil {
			return []Slot{disabled()}
		}
		return []Slot{link(s.Question.Answer)}
	default:
		return nil
	}
}

// nextEvent pops the event at the cursor, or the overflow clip once the case has run out of events.
func nextEvent(s *session.State, roles models.Roles) *models.Clip {
	clip := roles.OverflowEvent
	if s.NextEvent >= 0 && s.NextEvent < len(s.Case.Events) {
		clip = s.Case.Events[s.NextEvent]
	}
	s.NextEvent++
	return clip
}
