package models

import (
	"github.com/myrjola/dvdcluedo/internal/errors"
	"log/slog"
)

var ErrUnknownEvent = errors.NewSentinel("unknown event")

// EventKind is a side effect a clip fires when it becomes ready or reaches its natural end.
type EventKind int

const (
	EventSet3Players EventKind = iota + 1
	EventSet4Players
	EventSet5Players
	EventSecretPassage
	EventEnableSecretPassage
	EventEnableButler
	EventAddItemCard
	EventAddInspectorNote
	EventPickSelectionLetter
	EventShowSelectionLetter
	EventHideSelectionLetter
	EventStartSelections
	EventShowButlerClip
	EventStartNotes
	EventCheckForNoteMenu
	EventShowNoteNumber
	EventHideNoteNumber
	EventCheckForRoomMenu
	EventShowRoomQuestion
	EventStopGame
)

var eventNames = map[EventKind]string{
	EventSet3Players:         "Set3Players",
	EventSet4Players:         "Set4Players",
	EventSet5Players:         "Set5Players",
	EventSecretPassage:       "SecretPassage",
	EventEnableSecretPassage: "EnableSecretPassage",
	EventEnableButler:        "EnableButler",
	EventAddItemCard:         "AddItemCard",
	EventAddInspectorNote:    "AddInspectorNote",
	EventPickSelectionLetter: "PickSelectionLetter",
	EventShowSelectionLetter: "ShowSelectionLetter",
	EventHideSelectionLetter: "HideSelectionLetter",
	EventStartSelections:     "StartSelections",
	EventShowButlerClip:      "ShowButlerClip",
	EventStartNotes:          "StartNotes",
	EventCheckForNoteMenu:    "CheckForNoteMenu",
	EventShowNoteNumber:      "ShowNoteNumber",
	EventHideNoteNumber:      "HideNoteNumber",
	EventCheckForRoomMenu:    "CheckForRoomMenu",
	EventShowRoomQuestion:    "ShowRoomQuestion",
	EventStopGame:            "StopGame",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "Unknown"
}

// ParseEventKind maps an authored event name to its kind, rejecting names without a handler.
func ParseEventKind(name string) (EventKind, error) {
	for kind, n := range eventNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, errors.Wrap(ErrUnknownEvent, "parse event kind", slog.String("event", name))
}

// EventKinds lists every known event kind in declaration order.
func EventKinds() []EventKind {
	kinds := make([]EventKind, 0, len(eventNames))
	for k := EventSet3Players; k <= EventStopGame; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}
