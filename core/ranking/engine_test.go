package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradeboard/gradeboard/core"
	"github.com/gradeboard/gradeboard/core/student"
)

func newTestEngine(t *testing.T, maxTotal int) *Engine {
	t.Helper()
	eng, err := NewEngine(maxTotal, 100, DefaultScale())
	require.NoError(t, err)
	return eng
}

func TestEngine_Rank_workedExample(t *testing.T) {
	eng := newTestEngine(t, 200)

	students := []student.Student{
		{ID: "S1", Name: "One", Marks: student.Marks{"a": 80, "b": 90}},
		{ID: "S2", Name: "Two", Marks: student.Marks{"a": 95, "b": 95}},
	}

	entries, stats, err := eng.Rank(students)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, 2, stats.TotalStudents)

	assert.Equal(t, "S2", entries[0].RollNo)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 190, entries[0].TotalMarks)
	assert.Equal(t, 95.0, entries[0].Percentage)
	assert.Equal(t, "A+", entries[0].Grade)

	assert.Equal(t, "S1", entries[1].RollNo)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, 170, entries[1].TotalMarks)
	assert.Equal(t, 85.0, entries[1].Percentage)
	assert.Equal(t, "A", entries[1].Grade)
}

func TestEngine_Rank_tiesGetDistinctSequentialRanks(t *testing.T) {
	eng := newTestEngine(t, 500)

	// S3 and S4 tie; input order decides who gets the better rank
	students := []student.Student{
		{ID: "S9", Marks: student.Marks{"a": 200}},
		{ID: "S3", Marks: student.Marks{"a": 150}},
		{ID: "S4", Marks: student.Marks{"b": 150}},
	}

	entries, _, err := eng.Rank(students)
	require.NoError(t, err)

	assert.Equal(t, "S9", entries[0].RollNo)
	assert.Equal(t, "S3", entries[1].RollNo)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, "S4", entries[2].RollNo)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestEngine_Rank_preservesLengthAndTotals(t *testing.T) {
	eng := newTestEngine(t, 500)

	students := []student.Student{
		{ID: "S1", Marks: student.Marks{"math": 80, "eng": 70, "sci": 60}},
		{ID: "S2", Marks: student.Marks{"math": 95}},
		{ID: "S3", Marks: student.Marks{}},
		{ID: "S4", Marks: nil}, // absent marks count as 0
		{ID: "S5", Marks: student.Marks{"math": 80, "eng": 70, "sci": 95, "hist": 88, "geo": 91}},
	}

	var wantSum int
	for _, st := range students {
		wantSum += st.Marks.Total()
	}

	entries, stats, err := eng.Rank(students)
	require.NoError(t, err)
	require.Len(t, entries, len(students))
	assert.Equal(t, len(students), stats.TotalStudents)

	var gotSum int
	for i, e := range entries {
		gotSum += e.TotalMarks
		assert.Equal(t, i+1, e.Rank)
		if i > 0 {
			// ordered descending: percentage monotonic with totals
			assert.LessOrEqual(t, e.TotalMarks, entries[i-1].TotalMarks)
			assert.LessOrEqual(t, e.Percentage, entries[i-1].Percentage)
		}
	}
	assert.Equal(t, wantSum, gotSum)
}

func TestEngine_Rank_emptyInput(t *testing.T) {
	eng := newTestEngine(t, 500)

	entries, stats, err := eng.Rank(nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, 0, stats.TotalStudents)
}

func TestEngine_Rank_doesNotMutateInput(t *testing.T) {
	eng := newTestEngine(t, 500)

	students := []student.Student{
		{ID: "S2", Marks: student.Marks{"a": 10}},
		{ID: "S1", Marks: student.Marks{"a": 90}},
	}

	_, _, err := eng.Rank(students)
	require.NoError(t, err)

	// input order and contents untouched
	assert.Equal(t, "S2", students[0].ID)
	assert.Equal(t, 10, students[0].Marks["a"])
	assert.Equal(t, "S1", students[1].ID)
}

func TestEngine_Rank_negativeMarksAreDataIntegrityErrors(t *testing.T) {
	eng := newTestEngine(t, 500)

	_, _, err := eng.Rank([]student.Student{
		{ID: "S1", Marks: student.Marks{"math": -5}},
	})
	require.Error(t, err)
	assert.True(t, core.IsDataIntegrity(err))
}

func TestEngine_Result(t *testing.T) {
	eng := newTestEngine(t, 200)

	st := student.Student{
		ID:    "S20230045",
		Name:  "Imani",
		Marks: student.Marks{"math": 95, "english": 38},
	}

	res, err := eng.Result(st)
	require.NoError(t, err)

	// subjects alphabetical, graded against the per-subject max
	require.Len(t, res.Subjects, 2)
	assert.Equal(t, SubjectResult{Name: "english", Marks: 38, Grade: "F"}, res.Subjects[0])
	assert.Equal(t, SubjectResult{Name: "math", Marks: 95, Grade: "A+"}, res.Subjects[1])

	assert.Equal(t, 133, res.Summary.TotalMarks)
	assert.Equal(t, 66.5, res.Summary.Percentage)
	assert.Equal(t, "C", res.Summary.Grade)
	assert.Equal(t, "Pass", res.Summary.Status)
}

func TestEngine_Result_failStatus(t *testing.T) {
	eng := newTestEngine(t, 500)

	res, err := eng.Result(student.Student{ID: "S1", Marks: student.Marks{"math": 30}})
	require.NoError(t, err)
	assert.Equal(t, "F", res.Summary.Grade)
	assert.Equal(t, "Fail", res.Summary.Status)
}
