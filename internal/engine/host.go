package engine

import (
	"context"
	"github.com/myrjola/dvdcluedo/internal/layout"
	"github.com/myrjola/dvdcluedo/internal/session"
)

// Playback asks the host to prepare and play a clip. The host reports back with Engine.MediaReady once the media
// can play and with Engine.NaturalEnd when it reaches its end or loop point.
type Playback struct {
	Clip   string
	URL    string
	Loop   bool
	Muted  bool
	Volume float64
	Speed  float64
}

// OverlayKind identifies an image shown on top of the video.
type OverlayKind int

const (
	OverlaySelectionLetter OverlayKind = iota + 1
	OverlayNoteNumber
	OverlaySelectionPage
)

func (k OverlayKind) String() string {
	switch k {
	case OverlaySelectionLetter:
		return "selection_letter"
	case OverlayNoteNumber:
		return "note_number"
	case OverlaySelectionPage:
		return "selection_page"
	default:
		return "unknown"
	}
}

// Overlay toggles an image on top of the video.
type Overlay struct {
	Kind    OverlayKind
	Visible bool
	// Case is the active case index, overlays pick case specific images by it.
	Case int
	// Page is the selection page for OverlaySelectionPage.
	Page int
	// Index is the selection letter, the note number or the highlighted carousel entry.
	Index int
}

// Host plays media and renders the user interface. Calls may arrive from timer goroutines for ShowSubtitle and
// ShowLoading so implementations must be safe for concurrent use.
type Host interface {
	Play(ctx context.Context, p Playback) error
	Stop()
	ShowButtons(b layout.Buttons)
	HideButtons()
	ShowSubtitle(text string)
	ShowLoading(visible bool)
	ShowOverlay(o Overlay)
	// ShowSaved signals the save indicator after a snapshot has been written.
	ShowSaved()
	// ShowContinue toggles the continue button of the main menu.
	ShowContinue(visible bool)
	Quit()
}

// SaveStore is the single save slot.
type SaveStore interface {
	Save(ctx context.Context, data session.SaveData) error
	// Load returns nil when there is no valid save.
	Load(ctx context.Context) (*session.SaveData, error)
	HasSave(ctx context.Context) (bool, error)
	Invalidate(ctx context.Context) error
}

// SettingsStore persists player preferences.
type SettingsStore interface {
	LoadSettings(ctx context.Context) (session.Settings, error)
	SaveSettings(ctx context.Context, s session.Settings) error
}
