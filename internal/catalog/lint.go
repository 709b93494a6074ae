package catalog

import (
	"fmt"
	"github.com/myrjola/dvdcluedo/internal/models"
	"slices"
	"strings"
)

// Warning is content that loads fine but makes the setup special cases interact in surprising ways.
type Warning struct {
	Case    string
	Clip    string
	Message string
}

func (w Warning) String() string {
	if w.Case == "" {
		return fmt.Sprintf("%s: %s", w.Clip, w.Message)
	}
	return fmt.Sprintf("%s/%s: %s", w.Case, w.Clip, w.Message)
}

// Lint reports content where the repeat-setup cursor correction and the late-setup previous clip rule
// could disagree. Both rules are applied literally at runtime; Lint only points at the risky spots.
func Lint(c *models.Catalog) []Warning {
	var warnings []Warning
	roles := c.Roles
	if len(roles.Setup) == 0 {
		return nil
	}

	inSetup := map[*models.Clip]bool{}
	for _, clip := range roles.Setup {
		inSetup[clip] = true
	}
	for _, cs := range c.Cases {
		for _, clip := range cs.Setup {
			inSetup[clip] = true
		}
	}
	for _, clip := range []*models.Clip{roles.Deal3, roles.Deal4, roles.Deal5} {
		if clip != nil {
			inSetup[clip] = true
		}
	}

	// Clips marked as setup by name outside the sequence still trigger the cursor correction.
	for _, clip := range sortedClips(c) {
		if strings.Contains(clip.Name, "Setup") && !inSetup[clip] {
			warnings = append(warnings, Warning{
				Case:    "",
				Clip:    clip.Name,
				Message: "name marks a setup clip but it is not in the setup sequence",
			})
		}
	}

	for _, cs := range c.Cases {
		setup := overlaid(roles, cs)
		late := setup[roles.LateSetupSlot]
		if late == nil {
			continue
		}
		for i, clip := range setup {
			if i != roles.LateSetupSlot && clip == late {
				warnings = append(warnings, Warning{
					Case:    cs.Name,
					Clip:    late.Name,
					Message: fmt.Sprintf("late setup clip also appears at setup slot %d", i),
				})
			}
		}
		if late.Buttons != models.LayoutSetupRepeat && late.Buttons != models.LayoutMenuRepeat {
			warnings = append(warnings, Warning{
				Case:    cs.Name,
				Clip:    late.Name,
				Message: "late setup clip is kept as previous but its layout never offers a repeat",
			})
		}
	}
	return warnings
}

// overlaid is the setup sequence as seen by a fresh session of cs.
func overlaid(roles models.Roles, cs *models.Case) []*models.Clip {
	setup := make([]*models.Clip, len(roles.Setup))
	copy(setup, roles.Setup)
	for i, slot := range roles.SetupOverrides {
		if i < len(cs.Setup) && slot < len(setup) {
			setup[slot] = cs.Setup[i]
		}
	}
	return setup
}

func sortedClips(c *models.Catalog) []*models.Clip {
	names := make([]string, 0, len(c.Clips))
	for name := range c.Clips {
		names = append(names, name)
	}
	slices.Sort(names)
	clips := make([]*models.Clip, 0, len(names))
	for _, name := range names {
		clips = append(clips, c.Clips[name])
	}
	return clips
}
