// Package answers holds the commands that inspect accusation solutions.
package answers

import (
	"fmt"
	"github.com/myrjola/dvdcluedo/cmd/cli/render"
	"github.com/myrjola/dvdcluedo/content"
	"github.com/myrjola/dvdcluedo/internal/errors"
	"github.com/myrjola/dvdcluedo/internal/scoring"
	"github.com/spf13/cobra"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var Group = &cobra.Group{
	ID:    "answers",
	Title: "Solutions",
}

func init() {
	Solutions.Flags().String("url", "", "solutions feed URL, the bundled solutions when empty")
	Solutions.Flags().String("catalog", "", "path to catalog file, the bundled catalog when empty")
	Solutions.Flags().Duration("timeout", 10*time.Second, "feed download timeout") //nolint:mnd // 10s
}

var ErrMismatch = errors.NewSentinel("solutions do not match catalog")

var Solutions = &cobra.Command{
	Use:     "solutions",
	GroupID: "answers",
	Short:   "Check solutions",
	Long:    "Lists the solution of every case and checks it against the catalog's selection pages",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		catalogPath, _ := cmd.Flags().GetString("catalog")
		c, err := content.Load(catalogPath)
		if err != nil {
			return errors.Wrap(err, "load catalog")
		}
		table, err := loadTable(cmd)
		if err != nil {
			return err
		}

		pages := len(c.Roles.SelectionPages)
		problems := 0
		rows := make([][]string, 0, len(c.Cases))
		for i, cs := range c.Cases {
			status := "missing"
			solution := []string{}
			if i < len(table) {
				for _, pick := range table[i] {
					solution = append(solution, strconv.Itoa(pick))
				}
				status = check(table[i], pages, c.Roles.SelectionLetters)
			}
			if status != "ok" {
				problems++
			}
			rows = append(rows, []string{strconv.Itoa(i), cs.Name, strings.Join(solution, ","), status})
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), render.Table(
			[]string{"#", "Case", "Solution", "Status"}, rows,
			[]render.Alignment{render.AlignRight}))
		if extra := len(table) - len(c.Cases); extra > 0 {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d solutions without a case\n", extra)
		}
		if problems > 0 {
			return errors.Wrap(ErrMismatch, "check solutions", slog.Int("problems", problems))
		}
		return nil
	},
}

func loadTable(cmd *cobra.Command) (scoring.Table, error) {
	url, _ := cmd.Flags().GetString("url")
	if url == "" {
		return content.Solutions()
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")
	client := &http.Client{Timeout: timeout} //nolint:exhaustruct // defaults
	table, err := scoring.FetchSolutions(cmd.Context(), client, url)
	if err != nil {
		return nil, errors.Wrap(err, "fetch solutions")
	}
	return table, nil
}

// check reports whether solution has one pick per selection page, each a valid carousel entry.
func check(solution []int, pages, letters int) string {
	if len(solution) != pages {
		return fmt.Sprintf("want %d picks, got %d", pages, len(solution))
	}
	for _, pick := range solution {
		if pick < 0 || pick >= letters {
			return fmt.Sprintf("pick %d out of range", pick)
		}
	}
	return "ok"
}
