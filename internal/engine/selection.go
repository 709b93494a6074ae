package engine

import (
	"context"
	"github.com/myrjola/dvdcluedo/internal/errors"
	"github.com/myrjola/dvdcluedo/internal/models"
	"log/slog"
)

// selection is the accusation carousel. One page per accused category, each confirm records the highlighted entry.
type selection struct {
	active bool
	// page is -1 before the first page is shown.
	page  int
	index int
	// letter is the randomly picked starting entry, -1 until picked.
	letter int
	picks  []int
}

func newSelection() selection {
	return selection{active: false, page: -1, index: 0, letter: -1, picks: nil}
}

// pickSelectionLetter picks the entry every selection page starts from.
func (e *Engine) pickSelectionLetter() {
	letters := e.catalog.Roles.SelectionLetters
	e.selection.letter = 0
	if letters > 1 {
		e.selection.letter = e.rnd.IntN(letters - 1)
	}
}

func (e *Engine) startSelections(ctx context.Context) error {
	e.selection.active = true
	return e.nextSelectionPage(ctx)
}

// Confirm records the highlighted entry of the current selection page and moves on to the next page.
// After the last page the selections are scored.
func (e *Engine) Confirm(ctx context.Context) error {
	if !e.selection.active {
		return nil
	}
	err := e.nextSelectionPage(ctx)
	return errors.Join(err, e.drain(ctx))
}

func (e *Engine) nextSelectionPage(ctx context.Context) error {
	sel := &e.selection
	pages := e.catalog.Roles.SelectionPages
	if sel.page > -1 {
		e.overlay(OverlaySelectionPage, false, sel.index)
		sel.picks = append(sel.picks, sel.index)
	} else {
		sel.picks = nil
	}
	sel.page++
	if sel.page >= len(pages) {
		picks := sel.picks
		*sel = newSelection()
		return e.showResults(ctx, picks)
	}
	_, err := e.show(ctx, pages[sel.page])
	sel.index = max(sel.letter, 0)
	return err
}

// revealSelectionPage shows the carousel once the page clip is ready.
func (e *Engine) revealSelectionPage(clip *models.Clip) {
	sel := e.selection
	pages := e.catalog.Roles.SelectionPages
	if !sel.active || sel.page < 0 || sel.page >= len(pages) || pages[sel.page] != clip {
		return
	}
	e.overlay(OverlaySelectionPage, true, sel.index)
}

// Rotate moves the carousel highlight by delta entries, wrapping around, and returns the highlighted entry.
func (e *Engine) Rotate(delta int) int {
	sel := &e.selection
	n := e.catalog.Roles.SelectionLetters
	if !sel.active || sel.page < 0 || n <= 0 {
		return sel.index
	}
	sel.index = ((sel.index+delta)%n + n) % n
	e.overlay(OverlaySelectionPage, true, sel.index)
	return sel.index
}

// ShowResults scores selections against the active case's solution and shows the matching results clip.
func (e *Engine) ShowResults(ctx context.Context, selections []int) error {
	err := e.showResults(ctx, selections)
	return errors.Join(err, e.drain(ctx))
}

func (e *Engine) showResults(ctx context.Context, selections []int) error {
	if _, err := e.activeCase(); err != nil {
		return err
	}
	results := e.catalog.Roles.Results
	if len(results) == 0 {
		return errors.New("no results clips")
	}
	correct := e.solutions.Score(e.state.CaseIndex, selections)
	e.state.Correct = correct
	e.logger.LogAttrs(ctx, slog.LevelInfo, "accusation scored",
		slog.Int("correct", correct), slog.Any("selections", selections))
	_, err := e.show(ctx, results[min(correct, len(results)-1)])
	return err
}
