// Package authoring holds the commands that check authored case content.
package authoring

import (
	"fmt"
	"github.com/myrjola/dvdcluedo/cmd/cli/render"
	"github.com/myrjola/dvdcluedo/content"
	"github.com/myrjola/dvdcluedo/internal/catalog"
	"github.com/myrjola/dvdcluedo/internal/errors"
	"github.com/myrjola/dvdcluedo/internal/models"
	"github.com/spf13/cobra"
	"slices"
	"strconv"
	"strings"
)

var Group = &cobra.Group{
	ID:    "authoring",
	Title: "Case authoring",
}

func init() {
	Validate.Flags().String("catalog", "", "path to catalog file, the bundled catalog when empty")
	Validate.Flags().Bool("strict", false, "fail when lint reports warnings")
	URLs.Flags().String("catalog", "", "path to catalog file, the bundled catalog when empty")
	URLs.Flags().String("case", "", "only list the clips of the case with this name")
}

var ErrLintWarnings = errors.NewSentinel("catalog has lint warnings")

var Validate = &cobra.Command{
	Use:     "validate",
	GroupID: "authoring",
	Short:   "Validate catalog",
	Long:    "Loads the catalog, reporting every broken reference, and lists setup sequences worth a second look",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		rows := make([][]string, 0, len(c.Cases))
		for i, cs := range c.Cases {
			rows = append(rows, []string{
				strconv.Itoa(i), cs.Name,
				strconv.Itoa(len(cs.Events)), strconv.Itoa(len(cs.SecretPassages)),
				strconv.Itoa(len(cs.Butler)), strconv.Itoa(len(cs.Rooms)),
			})
		}
		_, _ = fmt.Fprintln(out, render.Table(
			[]string{"#", "Case", "Events", "Passages", "Butler", "Rooms"}, rows,
			[]render.Alignment{render.AlignRight, render.AlignLeft, render.AlignRight, render.AlignRight,
				render.AlignRight, render.AlignRight}))

		warnings := catalog.Lint(c)
		if len(warnings) == 0 {
			_, _ = fmt.Fprintf(out, "%d clips, no warnings\n", len(c.Clips))
			return nil
		}
		rows = rows[:0]
		for _, w := range warnings {
			rows = append(rows, []string{w.Case, w.Clip, w.Message})
		}
		_, _ = fmt.Fprintln(out, render.Table([]string{"Case", "Clip", "Warning"}, rows, nil))
		if strict, _ := cmd.Flags().GetBool("strict"); strict {
			return errors.Wrap(ErrLintWarnings, "validate")
		}
		return nil
	},
}

var URLs = &cobra.Command{
	Use:     "urls",
	GroupID: "authoring",
	Short:   "List media URLs",
	Long:    "Lists the media URL of every clip so the video files can be checked or mirrored",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		clips := allClips(c)
		if name, _ := cmd.Flags().GetString("case"); name != "" {
			i := slices.IndexFunc(c.Cases, func(cs *models.Case) bool { return cs.Name == name })
			if i < 0 {
				return errors.New("unknown case " + strconv.Quote(name))
			}
			clips = caseClips(c.Cases[i])
		}
		rows := make([][]string, 0, len(clips))
		for _, clip := range clips {
			looping := ""
			if clip.Looping {
				looping = "loop"
			}
			rows = append(rows, []string{clip.Name, looping, c.URL(clip)})
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), render.Table([]string{"Clip", "", "URL"}, rows, nil))
		return nil
	},
}

func loadCatalog(cmd *cobra.Command) (*models.Catalog, error) {
	path, _ := cmd.Flags().GetString("catalog")
	c, err := content.Load(path)
	if err != nil {
		return nil, errors.Wrap(err, "load catalog")
	}
	return c, nil
}

func allClips(c *models.Catalog) []*models.Clip {
	clips := make([]*models.Clip, 0, len(c.Clips))
	for _, clip := range c.Clips {
		clips = append(clips, clip)
	}
	slices.SortFunc(clips, func(a, b *models.Clip) int { return strings.Compare(a.Name, b.Name) })
	return clips
}

// caseClips lists the clips a case refers to directly, in authored order without duplicates.
func caseClips(cs *models.Case) []*models.Clip {
	var clips []*models.Clip
	seen := map[*models.Clip]bool{}
	add := func(list ...*models.Clip) {
		for _, clip := range list {
			if clip != nil && !seen[clip] {
				seen[clip] = true
				clips = append(clips, clip)
			}
		}
	}
	add(cs.Setup...)
	add(cs.Players3, cs.Players4, cs.Players5, cs.Intro, cs.Menu, cs.Ending, cs.RoomMenu)
	add(cs.Events...)
	add(cs.SecretPassages...)
	add(cs.Butler...)
	for _, room := range cs.Rooms {
		add(room.Success)
		for _, o := range room.Observations {
			add(o.Clip)
			for _, q := range o.Questions {
				add(q.Question, q.Answer)
			}
		}
	}
	return clips
}
