package models

import (
	"github.com/myrjola/dvdcluedo/internal/errors"
	"log/slog"
)

var ErrUnknownLayout = errors.NewSentinel("unknown button layout")

// LayoutTag selects the button resolution rule applied when a clip is ready.
type LayoutTag int

const (
	LayoutNone LayoutTag = iota
	LayoutMainMenu
	LayoutCaseMenu
	LayoutPassageOk
	LayoutInspectorCall
	LayoutMenuRepeat
	LayoutEventOkMenu
	LayoutEventOptionMenu
	LayoutSetupRepeat
	LayoutPlayerCount
	LayoutSelectionLetterReady
	LayoutSelectionLetterConfirm
	LayoutResultsOk
	LayoutNoteInstructionsRepeat
	LayoutNoteNumberOk
	LayoutNoteSelect2
	LayoutNoteSelect3
	LayoutRoomSelect
	LayoutRoomAnswer
	LayoutRoomQuestion
)

var layoutNames = [...]string{
	LayoutNone:                   "None",
	LayoutMainMenu:               "MainMenu",
	LayoutCaseMenu:               "CaseMenu",
	LayoutPassageOk:              "PassageOk",
	LayoutInspectorCall:          "InspectorCall",
	LayoutMenuRepeat:             "MenuRepeat",
	LayoutEventOkMenu:            "EventOkMenu",
	LayoutEventOptionMenu:        "EventOptionMenu",
	LayoutSetupRepeat:            "SetupRepeat",
	LayoutPlayerCount:            "PlayerCount",
	LayoutSelectionLetterReady:   "SelectionLetterReady",
	LayoutSelectionLetterConfirm: "SelectionLetterConfirm",
	LayoutResultsOk:              "ResultsOk",
	LayoutNoteInstructionsRepeat: "NoteInstructionsRepeat",
	LayoutNoteNumberOk:           "NoteNumberOk",
	LayoutNoteSelect2:            "NoteSelect2",
	LayoutNoteSelect3:            "NoteSelect3",
	LayoutRoomSelect:             "RoomSelect",
	LayoutRoomAnswer:             "RoomAnswer",
	LayoutRoomQuestion:           "RoomQuestion",
}

func (t LayoutTag) String() string {
	if t < 0 || int(t) >= len(layoutNames) {
		return "Unknown"
	}
	return layoutNames[t]
}

// ParseLayoutTag maps an authored layout name to its tag. An empty name is LayoutNone.
func ParseLayoutTag(name string) (LayoutTag, error) {
	if name == "" {
		return LayoutNone, nil
	}
	for tag, n := range layoutNames {
		if n == name {
			return LayoutTag(tag), nil
		}
	}
	return LayoutNone, errors.Wrap(ErrUnknownLayout, "parse layout tag", slog.String("layout", name))
}
