package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/persistorai/socialgraph/internal/models"
)

// Output formats.
const (
	formatJSONName  = "json"
	formatTableName = "table"
)

func validateFormat(f string) error {
	if f != formatJSONName && f != formatTableName {
		return fmt.Errorf("unknown --format %q (want json or table)", f)
	}
	return nil
}

func formatJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func formatTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			parts[i] = fmt.Sprintf("%-*s", w, cell)
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	printRow(headers)
	seps := make([]string, len(headers))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w)
	}
	printRow(seps)
	for _, row := range rows {
		printRow(row)
	}
}

// tabular is implemented by results that have a table rendering.
type tabular interface {
	table() ([]string, [][]string)
}

// output writes v as JSON, or as a table when requested and supported.
func output(w io.Writer, format string, v any) error {
	if t, ok := v.(tabular); ok && format == formatTableName {
		headers, rows := t.table()
		formatTable(w, headers, rows)
		return nil
	}
	return formatJSON(w, v)
}

func fmtScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Table adapters for the result types.

type userList struct {
	Users   []models.User `json:"users"`
	HasMore bool          `json:"has_more"`
}

func (l userList) table() ([]string, [][]string) {
	rows := make([][]string, 0, len(l.Users))
	for _, u := range l.Users {
		rows = append(rows, []string{u.Username, u.CreatedAt.Format("2006-01-02 15:04:05")})
	}
	return []string{"USERNAME", "CREATED"}, rows
}

type friendList struct {
	Username string   `json:"username"`
	Friends  []string `json:"friends"`
}

func (l friendList) table() ([]string, [][]string) {
	rows := make([][]string, 0, len(l.Friends))
	for _, f := range l.Friends {
		rows = append(rows, []string{f})
	}
	return []string{"FRIEND"}, rows
}

type rankingView struct{ *models.RankingResult }

func (r rankingView) table() ([]string, [][]string) {
	rows := make([][]string, 0, len(r.Users))
	for i, u := range r.Users {
		rows = append(rows, []string{strconv.Itoa(i + 1), u.Username, fmtScore(u.Score)})
	}
	return []string{"RANK", "USERNAME", "SCORE"}, rows
}

type partitionView struct{ *models.PartitionResult }

func (p partitionView) table() ([]string, [][]string) {
	rows := make([][]string, 0, len(p.Communities))
	for i, c := range p.Communities {
		rows = append(rows, []string{strconv.Itoa(i + 1), strconv.Itoa(len(c.Members)), strings.Join(c.Members, ", ")})
	}
	return []string{"COMMUNITY", "SIZE", "MEMBERS"}, rows
}

type recommendationList struct {
	Username        string                        `json:"username"`
	Recommendations []models.ScoredRecommendation `json:"recommendations"`
}

func (l recommendationList) table() ([]string, [][]string) {
	rows := make([][]string, 0, len(l.Recommendations))
	for _, r := range l.Recommendations {
		rows = append(rows, []string{r.Username, fmtScore(r.Score), strconv.Itoa(r.Mutuals)})
	}
	return []string{"USERNAME", "SCORE", "MUTUALS"}, rows
}

type suggestionList struct {
	Username    string             `json:"username"`
	Suggestions []models.Candidate `json:"suggestions"`
}

func (l suggestionList) table() ([]string, [][]string) {
	rows := make([][]string, 0, len(l.Suggestions))
	for _, c := range l.Suggestions {
		rows = append(rows, []string{c.Username, strconv.Itoa(c.MutualCount)})
	}
	return []string{"USERNAME", "MUTUALS"}, rows
}

type mutualsView struct{ models.MutualFriendsResult }

func (m mutualsView) table() ([]string, [][]string) {
	rows := make([][]string, 0, len(m.Mutuals))
	for _, u := range m.Mutuals {
		rows = append(rows, []string{u})
	}
	return []string{"MUTUAL"}, rows
}
