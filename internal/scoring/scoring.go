// Package scoring compares accusation selections against the case solutions.
package scoring

import (
	"bufio"
	"context"
	"fmt"
	"github.com/myrjola/dvdcluedo/internal/errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// Score counts the positions where selections match solution. Selections past the end of the solution never match.
func Score(solution []int, selections []int) int {
	correct := 0
	for i, s := range selections {
		if i < len(solution) && solution[i] == s {
			correct++
		}
	}
	return correct
}

// Table holds one solution vector per case, indexed like the catalog cases.
type Table [][]int

// Score scores selections against the solution of case caseIndex. An unknown case scores zero.
func (t Table) Score(caseIndex int, selections []int) int {
	if caseIndex < 0 || caseIndex >= len(t) {
		return 0
	}
	return Score(t[caseIndex], selections)
}

// ParseSolutions reads one line per case of comma separated integers.
// A line with a part that is not an integer yields an empty solution for that case.
func ParseSolutions(r io.Reader) (Table, error) {
	var table Table
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		solution := []int{}
		for _, part := range strings.Split(line, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				solution = []int{}
				break
			}
			solution = append(solution, n)
		}
		table = append(table, solution)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan solutions")
	}
	return table, nil
}

// FetchSolutions downloads and parses the solutions feed.
func FetchSolutions(ctx context.Context, client *http.Client, url string) (Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "new solutions request", slog.String("url", url))
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "get solutions", slog.String("url", url))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(fmt.Sprintf("unexpected status %d", resp.StatusCode), slog.String("url", url))
	}
	table, err := ParseSolutions(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "parse solutions", slog.String("url", url))
	}
	return table, nil
}
