package main

import (
	"context"
	"github.com/myrjola/dvdcluedo/internal/broker"
	"github.com/myrjola/dvdcluedo/internal/engine"
	"github.com/myrjola/dvdcluedo/internal/layout"
	"github.com/myrjola/dvdcluedo/internal/session"
)

// Host event types sent over the event stream.
const (
	eventPlay        = "play"
	eventStop        = "stop"
	eventButtons     = "buttons"
	eventHideButtons = "hide_buttons"
	eventSubtitle    = "subtitle"
	eventLoading     = "loading"
	eventOverlay     = "overlay"
	eventSaved       = "saved"
	eventContinue    = "continue"
	eventQuit        = "quit"
	eventState       = "state"
)

type playbackView struct {
	Clip   string  `json:"clip"`
	URL    string  `json:"url"`
	Loop   bool    `json:"loop"`
	Muted  bool    `json:"muted"`
	Volume float64 `json:"volume"`
	Speed  float64 `json:"speed"`
}

type slotView struct {
	Kind string `json:"kind"`
	Clip string `json:"clip,omitempty"`
}

type buttonsView struct {
	Layout string     `json:"layout"`
	Slots  []slotView `json:"slots"`
}

func newButtonsView(b layout.Buttons) buttonsView {
	slots := make([]slotView, 0, len(b.Slots))
	for _, s := range b.Slots {
		v := slotView{Kind: s.Kind.String(), Clip: ""}
		if s.Clip != nil {
			v.Clip = s.Clip.Name
		}
		slots = append(slots, v)
	}
	return buttonsView{Layout: b.Tag.String(), Slots: slots}
}

type overlayView struct {
	Kind    string `json:"kind"`
	Visible bool   `json:"visible"`
	Case    int    `json:"case"`
	Page    int    `json:"page"`
	Index   int    `json:"index"`
}

type settingsView struct {
	Speed     float64 `json:"speed"`
	Volume    float64 `json:"volume"`
	MenuMusic bool    `json:"menuMusic"`
	Subtitles bool    `json:"subtitles"`
	Highlight bool    `json:"highlight"`
}

func newSettingsView(s session.Settings) settingsView {
	return settingsView(s)
}

func (v settingsView) settings() session.Settings {
	return session.Settings(v)
}

type countersView struct {
	NextPassage   int  `json:"nextPassage"`
	NextEvent     int  `json:"nextEvent"`
	NextButler    int  `json:"nextButler"`
	NextSetup     int  `json:"nextSetup"`
	Notes         int  `json:"notes"`
	Rooms         int  `json:"rooms"`
	SecretPassage bool `json:"secretPassage"`
	SummonButler  bool `json:"summonButler"`
	ItemCard      bool `json:"itemCard"`
	InspectorNote bool `json:"inspectorNote"`
}

type stateView struct {
	Clip           string       `json:"clip"`
	URL            string       `json:"url"`
	Loop           bool         `json:"loop"`
	Ready          bool         `json:"ready"`
	Buttons        buttonsView  `json:"buttons"`
	Case           int          `json:"case"`
	CaseName       string       `json:"caseName"`
	Counters       countersView `json:"counters"`
	Countdown      int          `json:"countdown"`
	Previous       string       `json:"previous"`
	Correct        int          `json:"correct"`
	Selecting      bool         `json:"selecting"`
	SelectionPage  int          `json:"selectionPage"`
	SelectionIndex int          `json:"selectionIndex"`
	Settings       settingsView `json:"settings"`
	CanContinue    bool         `json:"canContinue"`
	CSRFToken      string       `json:"csrfToken,omitempty"`
}

func newStateView(s engine.Status, canContinue bool, csrfToken string) stateView {
	c := s.Counters
	return stateView{
		Clip:     s.Clip,
		URL:      s.URL,
		Loop:     s.Loop,
		Ready:    s.Ready,
		Buttons:  newButtonsView(s.Buttons),
		Case:     s.Case,
		CaseName: s.CaseName,
		Counters: countersView{
			NextPassage:   c.NextPassage,
			NextEvent:     c.NextEvent,
			NextButler:    c.NextButler,
			NextSetup:     c.NextSetup,
			Notes:         c.Notes,
			Rooms:         c.Rooms,
			SecretPassage: c.SecretPassage,
			SummonButler:  c.SummonButler,
			ItemCard:      c.ItemCard,
			InspectorNote: c.InspectorNote,
		},
		Countdown:      s.Countdown,
		Previous:       s.Previous,
		Correct:        s.Correct,
		Selecting:      s.Selecting,
		SelectionPage:  s.SelectionPage,
		SelectionIndex: s.SelectionIndex,
		Settings:       newSettingsView(s.Settings),
		CanContinue:    canContinue,
		CSRFToken:      csrfToken,
	}
}

// hostEvent is one message on the event stream. Only the field matching Type is set.
type hostEvent struct {
	Type     string        `json:"type"`
	Playback *playbackView `json:"playback,omitempty"`
	Buttons  *buttonsView  `json:"buttons,omitempty"`
	Overlay  *overlayView  `json:"overlay,omitempty"`
	State    *stateView    `json:"state,omitempty"`
	Text     string        `json:"text,omitempty"`
	Visible  bool          `json:"visible,omitempty"`
}

// playerHost renders engine output by publishing it to the player's event stream.
// Subtitle and loading timers call it from their own goroutines, publishing is safe for that.
type playerHost struct {
	playerID string
	hub      *broker.Hub[string, hostEvent]
}

func newPlayerHost(playerID string, hub *broker.Hub[string, hostEvent]) *playerHost {
	return &playerHost{playerID: playerID, hub: hub}
}

func (h *playerHost) publish(e hostEvent) {
	h.hub.Publish(h.playerID, e)
}

//nolint:exhaustruct // each event only sets its own payload.
func (h *playerHost) Play(_ context.Context, p engine.Playback) error {
	v := playbackView(p)
	h.publish(hostEvent{Type: eventPlay, Playback: &v})
	return nil
}

//nolint:exhaustruct // each event only sets its own payload.
func (h *playerHost) Stop() {
	h.publish(hostEvent{Type: eventStop})
}

//nolint:exhaustruct // each event only sets its own payload.
func (h *playerHost) ShowButtons(b layout.Buttons) {
	v := newButtonsView(b)
	h.publish(hostEvent{Type: eventButtons, Buttons: &v})
}

//nolint:exhaustruct // each event only sets its own payload.
func (h *playerHost) HideButtons() {
	h.publish(hostEvent{Type: eventHideButtons})
}

//nolint:exhaustruct // each event only sets its own payload.
func (h *playerHost) ShowSubtitle(text string) {
	h.publish(hostEvent{Type: eventSubtitle, Text: text})
}

//nolint:exhaustruct // each event only sets its own payload.
func (h *playerHost) ShowLoading(visible bool) {
	h.publish(hostEvent{Type: eventLoading, Visible: visible})
}

//nolint:exhaustruct // each event only sets its own payload.
func (h *playerHost) ShowOverlay(o engine.Overlay) {
	h.publish(hostEvent{Type: eventOverlay, Overlay: &overlayView{
		Kind:    o.Kind.String(),
		Visible: o.Visible,
		Case:    o.Case,
		Page:    o.Page,
		Index:   o.Index,
	}})
}

//nolint:exhaustruct // each event only sets its own payload.
func (h *playerHost) ShowSaved() {
	h.publish(hostEvent{Type: eventSaved})
}

//nolint:exhaustruct // each event only sets its own payload.
func (h *playerHost) ShowContinue(visible bool) {
	h.publish(hostEvent{Type: eventContinue, Visible: visible})
}

//nolint:exhaustruct // each event only sets its own payload.
func (h *playerHost) Quit() {
	h.publish(hostEvent{Type: eventQuit})
}
