package client

import (
	"fmt"
	"html"
	"strings"

	"github.com/gradeboard/gradeboard/core/ranking"
)

type (
	// Row is one render-ready ranking line. Text fields are already escaped.
	Row struct {
		Rank       int
		Medal      string // set for ranks 1-3
		Name       string
		RollNo     string
		TotalMarks int
		Percentage float64
		Grade      string
		BadgeClass string
		Highlight  bool // the viewer's own row
	}

	// Stat is one dashboard stat card.
	Stat struct {
		Label string
		Value string
	}

	// Page is the full render instruction set for the rankings board.
	// Empty is explicit so the view never guesses from a nil slice.
	Page struct {
		Rows  []Row
		Stats []Stat
		Empty bool
	}
)

var medals = [...]string{"🥇", "🥈", "🥉"}

// BuildPage turns ranked entries into render instructions. Pure: same input,
// same page. All stored text is escaped here, before any markup sees it.
func BuildPage(entries []ranking.Entry, stats ranking.Stats, viewerID string) Page {
	page := Page{
		Rows:  make([]Row, 0, len(entries)),
		Empty: len(entries) == 0,
		Stats: []Stat{{Label: "Total Students", Value: fmt.Sprintf("%d", stats.TotalStudents)}},
	}

	for _, e := range entries {
		row := Row{
			Rank:       e.Rank,
			Name:       html.EscapeString(e.Name),
			RollNo:     html.EscapeString(e.RollNo),
			TotalMarks: e.TotalMarks,
			Percentage: e.Percentage,
			Grade:      html.EscapeString(e.Grade),
			BadgeClass: GradeBadgeClass(e.Grade),
			Highlight:  viewerID != "" && e.RollNo == viewerID,
		}
		if e.Rank >= 1 && e.Rank <= len(medals) {
			row.Medal = medals[e.Rank-1]
		}
		page.Rows = append(page.Rows, row)

		if row.Highlight {
			page.Stats = append(page.Stats,
				Stat{Label: "Your Rank", Value: fmt.Sprintf("#%d", e.Rank)},
				Stat{Label: "Your Percentage", Value: fmt.Sprintf("%.2f%%", e.Percentage)},
				Stat{Label: "Your Grade", Value: html.EscapeString(e.Grade)},
			)
		}
	}
	return page
}

// GradeBadgeClass maps a grade to its style hook: "A+" -> "grade-a-plus".
func GradeBadgeClass(grade string) string {
	cls := strings.ToLower(grade)
	cls = strings.ReplaceAll(cls, "+", "-plus")
	return "grade-" + cls
}
