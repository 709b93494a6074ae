package engine

import (
	"github.com/myrjola/dvdcluedo/internal/layout"
	"github.com/myrjola/dvdcluedo/internal/session"
)

// Status is a read-only view of the engine for hosts that render from polled state.
type Status struct {
	Clip    string
	URL     string
	Loop    bool
	Ready   bool
	Buttons layout.Buttons
	// Case is -1 until a case has started.
	Case      int
	CaseName  string
	Counters  session.SaveData
	Countdown int
	Previous  string
	Correct   int

	Selecting      bool
	SelectionPage  int
	SelectionIndex int

	Settings session.Settings
}

func (e *Engine) Status() Status {
	s := e.state
	status := Status{
		Clip:           "",
		URL:            "",
		Loop:           false,
		Ready:          e.ready,
		Buttons:        e.buttons,
		Case:           s.CaseIndex,
		CaseName:       "",
		Counters:       s.Snapshot(),
		Countdown:      s.Countdown,
		Previous:       "",
		Correct:        s.Correct,
		Selecting:      e.selection.active,
		SelectionPage:  e.selection.page,
		SelectionIndex: e.selection.index,
		Settings:       e.settings,
	}
	if s.Current != nil {
		status.Clip = s.Current.Name
		status.URL = e.catalog.URL(s.Current)
		status.Loop = s.Current.Looping
	}
	if s.Previous != nil {
		status.Previous = s.Previous.Name
	}
	if s.Case != nil {
		status.CaseName = s.Case.Name
	}
	return status
}
