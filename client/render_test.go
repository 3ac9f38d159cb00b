package client

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gradeboard/gradeboard/core/ranking"
)

func TestBuildPage(t *testing.T) {
	entries := []ranking.Entry{
		{Rank: 1, Name: "Diya Patel", RollNo: "STU002", TotalMarks: 433, Percentage: 86.6, Grade: "A"},
		{Rank: 2, Name: "Aarav Sharma", RollNo: "STU001", TotalMarks: 416, Percentage: 83.2, Grade: "A"},
		{Rank: 3, Name: "Rohan Gupta", RollNo: "STU003", TotalMarks: 325, Percentage: 65, Grade: "C"},
		{Rank: 4, Name: "Ananya Singh", RollNo: "STU004", TotalMarks: 301, Percentage: 60.2, Grade: "C"},
	}
	stats := ranking.Stats{TotalStudents: 4}

	t.Run("medals for top three only", func(t *testing.T) {
		page := BuildPage(entries, stats, "")
		assert.Equal(t, "🥇", page.Rows[0].Medal)
		assert.Equal(t, "🥈", page.Rows[1].Medal)
		assert.Equal(t, "🥉", page.Rows[2].Medal)
		assert.Empty(t, page.Rows[3].Medal)
		assert.False(t, page.Empty)
	})

	t.Run("anonymous viewer gets class stats only", func(t *testing.T) {
		page := BuildPage(entries, stats, "")
		assert.Equal(t, []Stat{{Label: "Total Students", Value: "4"}}, page.Stats)
		for _, row := range page.Rows {
			assert.False(t, row.Highlight)
		}
	})

	t.Run("viewer row highlighted with personal stats", func(t *testing.T) {
		page := BuildPage(entries, stats, "STU003")
		assert.True(t, page.Rows[2].Highlight)
		assert.False(t, page.Rows[0].Highlight)

		assert.Equal(t, []Stat{
			{Label: "Total Students", Value: "4"},
			{Label: "Your Rank", Value: "#3"},
			{Label: "Your Percentage", Value: "65.00%"},
			{Label: "Your Grade", Value: "C"},
		}, page.Stats)
	})

	t.Run("empty board", func(t *testing.T) {
		page := BuildPage(nil, ranking.Stats{}, "STU001")
		assert.True(t, page.Empty)
		assert.Empty(t, page.Rows)
		assert.Equal(t, []Stat{{Label: "Total Students", Value: "0"}}, page.Stats)
	})
}

func TestBuildPage_escapesStoredText(t *testing.T) {
	entries := []ranking.Entry{{
		Rank:   1,
		Name:   `<img src=x onerror="alert(1)">`,
		RollNo: `STU001"><script>`,
		Grade:  "A+",
	}}

	page := BuildPage(entries, ranking.Stats{TotalStudents: 1}, "")
	row := page.Rows[0]

	assert.NotContains(t, row.Name, "<")
	assert.NotContains(t, row.Name, `"`)
	assert.Contains(t, row.Name, "&lt;img")
	assert.NotContains(t, row.RollNo, "<script>")
	assert.True(t, strings.HasPrefix(row.RollNo, "STU001"))
	assert.Equal(t, "A+", row.Grade) // "+" itself is not markup
}

func TestGradeBadgeClass(t *testing.T) {
	tests := []struct{ grade, want string }{
		{"A+", "grade-a-plus"},
		{"A", "grade-a"},
		{"C", "grade-c"},
		{"F", "grade-f"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GradeBadgeClass(tt.grade), tt.grade)
	}
}
