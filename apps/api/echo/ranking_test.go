package echoapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gradeboard/gradeboard/core/ranking"
	"github.com/gradeboard/gradeboard/core/student"
)

func Test_rankingApi_rankings(t *testing.T) {
	app := setup(t)

	// empty store: empty rankings, zero stats
	req, rec := newRequest(http.MethodGet, "/api/rankings")
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: []byte(`{"rankings":[],"stats":{"totalStudents":0}}`),
	}, rec)

	seedClass(t, app)

	req, rec = newRequest(http.MethodGet, "/api/rankings")
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Rankings []ranking.Entry `json:"rankings"`
		Stats    ranking.Stats   `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	require.Len(t, res.Rankings, 3)
	assert.Equal(t, 3, res.Stats.TotalStudents)

	// Diya 433 > Aarav 416 > Rohan 325
	assert.Equal(t, []string{"STU002", "STU001", "STU003"},
		[]string{res.Rankings[0].RollNo, res.Rankings[1].RollNo, res.Rankings[2].RollNo})
	for i, entry := range res.Rankings {
		assert.Equal(t, i+1, entry.Rank)
	}
	assert.Equal(t, 433, res.Rankings[0].TotalMarks)
	assert.Equal(t, 86.6, res.Rankings[0].Percentage)
	assert.Equal(t, "A", res.Rankings[0].Grade)
}

func Test_rankingApi_export(t *testing.T) {
	app := setup(t)
	students := seedClass(t, app)

	req, rec := newRequest(http.MethodGet, "/api/rankings/export")
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Rankings")
	require.NoError(t, err)
	require.Len(t, rows, len(students)+1) // header + one row per student

	assert.Equal(t, []string{"Rank", "Name", "Roll No", "Total Marks", "Percentage", "Grade"}, rows[0])
	assert.Equal(t, "Diya Patel", rows[1][1])
	assert.Equal(t, "1", rows[1][0])
}

// the rankings endpoint reflects a marks update on the next poll
func Test_rankingApi_rankingsAfterUpdate(t *testing.T) {
	app := setup(t)
	seedClass(t, app)

	// Rohan overtakes everyone
	_, err := app.studentRepo.UpdateStudentMarks(context.Background(), "STU003",
		student.Marks{"math": 100, "science": 100, "english": 100, "history": 100, "geography": 100})
	require.NoError(t, err)

	req, rec := newRequest(http.MethodGet, "/api/rankings")
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Rankings []ranking.Entry `json:"rankings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotEmpty(t, res.Rankings)
	assert.Equal(t, "STU003", res.Rankings[0].RollNo)
	assert.Equal(t, 500, res.Rankings[0].TotalMarks)
}
