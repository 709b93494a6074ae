package engine

import (
	"context"
	"github.com/myrjola/dvdcluedo/internal/errors"
	"github.com/myrjola/dvdcluedo/internal/models"
	"log/slog"
)

// eventHandlers is the dispatch table for every event kind a clip may fire.
func (e *Engine) eventHandlers() map[models.EventKind]func(ctx context.Context) error {
	roles := e.catalog.Roles
	return map[models.EventKind]func(ctx context.Context) error{
		models.EventSet3Players: func(ctx context.Context) error { return e.deal(ctx, roles.Deal3) },
		models.EventSet4Players: func(ctx context.Context) error { return e.deal(ctx, roles.Deal4) },
		models.EventSet5Players: func(ctx context.Context) error { return e.deal(ctx, roles.Deal5) },
		models.EventSecretPassage: func(ctx context.Context) error {
			return e.nextCaseClip(ctx, func(cs *models.Case) []*models.Clip { return cs.SecretPassages },
				&e.state.NextPassage, roles.OverflowPassage)
		},
		models.EventEnableSecretPassage: func(context.Context) error {
			e.state.SecretPassage = true
			return nil
		},
		models.EventEnableButler: func(context.Context) error {
			e.state.SummonButler = true
			return nil
		},
		models.EventAddItemCard: func(ctx context.Context) error {
			if e.state.GrantRoom(e.state.Current) {
				e.logger.LogAttrs(ctx, slog.LevelInfo, "room available", slog.Int("rooms", e.state.Rooms))
			}
			return nil
		},
		models.EventAddInspectorNote: func(ctx context.Context) error {
			if e.state.GrantNote(e.state.Current) {
				e.logger.LogAttrs(ctx, slog.LevelInfo, "note available", slog.Int("notes", e.state.Notes))
			}
			return nil
		},
		models.EventPickSelectionLetter: func(context.Context) error {
			e.pickSelectionLetter()
			return nil
		},
		models.EventShowSelectionLetter: func(context.Context) error {
			e.overlay(OverlaySelectionLetter, true, e.selection.letter)
			return nil
		},
		models.EventHideSelectionLetter: func(context.Context) error {
			e.overlay(OverlaySelectionLetter, false, e.selection.letter)
			return nil
		},
		models.EventStartSelections: e.startSelections,
		models.EventShowButlerClip:  e.showButlerClip,
		models.EventStartNotes:      e.startNotes,
		models.EventCheckForNoteMenu: func(ctx context.Context) error {
			return e.checkForNoteMenu(ctx)
		},
		models.EventShowNoteNumber: func(context.Context) error {
			e.overlay(OverlayNoteNumber, true, e.note)
			return nil
		},
		models.EventHideNoteNumber: func(context.Context) error {
			e.overlay(OverlayNoteNumber, false, e.note)
			return nil
		},
		models.EventCheckForRoomMenu: e.checkForRoomMenu,
		models.EventShowRoomQuestion: e.showRoomQuestion,
		models.EventStopGame: func(ctx context.Context) error {
			e.logger.LogAttrs(ctx, slog.LevelInfo, "stop game")
			e.host.Quit()
			return nil
		},
	}
}

// staticAction runs the action behind a static button. The action depends on the layout and the slot.
func (e *Engine) staticAction(ctx context.Context, tag models.LayoutTag, slot int) error {
	switch tag {
	case models.LayoutMainMenu:
		_, err := e.startCase(ctx, slot)
		return err
	case models.LayoutCaseMenu:
		switch slot {
		case 1:
			return e.showButlerClip(ctx)
		case 2: //nolint:mnd // item card button
			return e.checkForRoomMenu(ctx)
		case 3: //nolint:mnd // inspector note button
			return e.startNotes(ctx)
		default:
		}
	case models.LayoutNoteInstructionsRepeat:
		return e.checkForNoteMenu(ctx)
	case models.LayoutNoteSelect2, models.LayoutNoteSelect3:
		return e.showNoteNumberClip(ctx, slot)
	case models.LayoutRoomSelect:
		return e.showRoomClip(ctx, slot)
	case models.LayoutSelectionLetterConfirm:
		return e.startSelections(ctx)
	default:
	}
	e.logger.LogAttrs(ctx, slog.LevelWarn, "static button without action",
		slog.String("layout", tag.String()), slog.Int("slot", slot))
	return nil
}

func (e *Engine) activeCase() (*models.Case, error) {
	if e.state.Case == nil {
		return nil, ErrNoCase
	}
	return e.state.Case, nil
}

// deal replaces the deal placeholder of the setup sequence with the deal clip for the chosen player count.
func (e *Engine) deal(ctx context.Context, clip *models.Clip) error {
	if clip == nil {
		return nil
	}
	slots := e.state.ReplaceSetup(e.catalog.Roles.DealPlaceholder, clip)
	e.logger.LogAttrs(ctx, slog.LevelDebug, "deal clip chosen",
		slog.String("clip", clip.Name), slog.Any("slots", slots))
	return nil
}

// nextCaseClip shows the entry of a case array at the cursor and advances it, or the overflow clip once the
// array is exhausted.
func (e *Engine) nextCaseClip(
	ctx context.Context,
	clips func(cs *models.Case) []*models.Clip,
	cursor *int,
	overflow *models.Clip,
) error {
	cs, err := e.activeCase()
	if err != nil {
		return err
	}
	entries := clips(cs)
	if *cursor < 0 || *cursor >= len(entries) {
		_, err = e.show(ctx, overflow)
		return err
	}
	_, err = e.show(ctx, entries[*cursor])
	*cursor++
	return err
}

func (e *Engine) showButlerClip(ctx context.Context) error {
	return e.nextCaseClip(ctx, func(cs *models.Case) []*models.Clip { return cs.Butler },
		&e.state.NextButler, e.catalog.Roles.OverflowButler)
}

func (e *Engine) startNotes(ctx context.Context) error {
	instructions := e.catalog.Roles.NoteInstructions
	if len(instructions) == 0 {
		return errors.New("no note instruction clips")
	}
	_, err := e.show(ctx, instructions[e.rnd.IntN(len(instructions))])
	return err
}

// checkForNoteMenu goes straight to the only note or offers the menu for the available notes.
func (e *Engine) checkForNoteMenu(ctx context.Context) error {
	if e.state.Notes == 1 {
		return e.showNoteNumberClip(ctx, 0)
	}
	menus := e.catalog.Roles.NoteMenus
	if len(menus) == 0 {
		return errors.New("no note menu clips", slog.Int("notes", e.state.Notes))
	}
	_, err := e.show(ctx, menus[min(max(e.state.Notes-2, 0), len(menus)-1)])
	return err
}

func (e *Engine) showNoteNumberClip(ctx context.Context, i int) error {
	e.note = i
	_, err := e.show(ctx, e.catalog.Roles.NoteNumber)
	return err
}

// checkForRoomMenu goes straight to the only room or offers the room menu.
func (e *Engine) checkForRoomMenu(ctx context.Context) error {
	cs, err := e.activeCase()
	if err != nil {
		return err
	}
	if e.state.Rooms == 1 {
		return e.showRoomClip(ctx, 0)
	}
	_, err = e.show(ctx, cs.RoomMenu)
	return err
}

// showRoomClip enters room i and shows the observation of a question not yet asked in this cycle.
func (e *Engine) showRoomClip(ctx context.Context, i int) error {
	cs, err := e.activeCase()
	if err != nil {
		return err
	}
	if i < 0 || i >= len(cs.Rooms) {
		e.logger.LogAttrs(ctx, slog.LevelWarn, "room not authored", slog.Int("room", i), slog.String("case", cs.Name))
		return nil
	}
	s := e.state
	s.Room = cs.Rooms[i]
	s.Observation, s.Question = e.selector.Pick(s.Room)
	if s.Observation == nil {
		return errors.New("room without questions", slog.String("room", s.Room.Name))
	}
	_, err = e.show(ctx, s.Observation.Clip)
	return err
}

func (e *Engine) showRoomQuestion(ctx context.Context) error {
	if e.state.Question == nil {
		return errors.New("no question picked")
	}
	_, err := e.show(ctx, e.state.Question.Question)
	return err
}

func (e *Engine) overlay(kind OverlayKind, visible bool, index int) {
	e.host.ShowOverlay(Overlay{
		Kind:    kind,
		Visible: visible,
		Case:    e.state.CaseIndex,
		Page:    e.selection.page,
		Index:   index,
	})
}
