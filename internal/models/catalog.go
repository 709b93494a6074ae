package models

import (
	"net/url"
	"slices"
)

// Catalog is the authored content: every clip, the cases, and the clips with a global role.
// It is loaded once and never mutated afterwards.
type Catalog struct {
	// MediaBaseURL is prefixed to the clip name to locate the video resource.
	MediaBaseURL string
	Clips        map[string]*Clip
	Cases        []*Case
	Roles        Roles
}

// Roles are clips and settings shared by all cases.
type Roles struct {
	MainMenu             *Clip
	InspectorCall        *Clip
	NoteInstructions     []*Clip
	NoteMenus            []*Clip
	NoteNumber           *Clip
	SelectionLetterReady *Clip
	PassageStart         *Clip
	PassageEnd           *Clip
	AccusationStart      *Clip
	// Results is indexed by the number of correct selections.
	Results         []*Clip
	OverflowEvent   *Clip
	OverflowPassage *Clip
	OverflowButler  *Clip
	// Restart is the sentinel clip that throws away the session when shown.
	Restart *Clip
	// Setup is the shared setup sequence played before a case when the intro is enabled.
	Setup []*Clip
	// SetupOverrides are the Setup slots filled from Case.Setup, in order.
	SetupOverrides []int
	// LateSetupSlot is the Setup slot whose clip always becomes the previous clip.
	LateSetupSlot int
	// DealPlaceholder names the Setup clips replaced by the deal clip for the chosen player count.
	DealPlaceholder  string
	Deal3            *Clip
	Deal4            *Clip
	Deal5            *Clip
	SelectionPages   []*Clip
	SelectionLetters int
}

// Clip returns the clip with the given name or nil.
func (c *Catalog) Clip(name string) *Clip {
	return c.Clips[name]
}

// CaseIndex returns the position of cs in Cases or -1.
func (c *Catalog) CaseIndex(cs *Case) int {
	return slices.Index(c.Cases, cs)
}

// URL is the media resource for clip by the base URL + name + ".mp4" convention.
func (c *Catalog) URL(clip *Clip) string {
	return c.MediaBaseURL + url.PathEscape(clip.Name) + ".mp4"
}
