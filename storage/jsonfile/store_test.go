package jsonfilestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradeboard/gradeboard/core"
	"github.com/gradeboard/gradeboard/core/student"
	"github.com/gradeboard/gradeboard/core/teacher"
)

var seedData = []student.Student{
	{ID: "STU001", Name: "Aarav Sharma", ClassName: "10", Section: "A", AcademicYear: "2024-25",
		Marks: student.Marks{"math": 92, "science": 88}},
	{ID: "STU002", Name: "Diya Patel", ClassName: "10", Section: "A", AcademicYear: "2024-25",
		Marks: student.Marks{"math": 95, "science": 89}},
}

func TestStudentRepository(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := Open(dir)
	require.NoError(t, err)
	repo := NewStudentRepository(store)

	// an empty store reads as an empty collection, not an error
	students, err := repo.QueryAllStudents(ctx)
	require.NoError(t, err)
	assert.Empty(t, students)

	_, err = repo.GetStudentByID(ctx, "STU001")
	assert.Equal(t, student.ErrNotFound, err)

	require.NoError(t, repo.(*studentRepository).SeedStudents(ctx, seedData))

	students, err = repo.QueryAllStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 2)

	st, err := repo.GetStudentByID(ctx, "STU002")
	require.NoError(t, err)
	assert.Equal(t, "Diya Patel", st.Name)

	// marks replacement persists across a fresh store over the same dir
	newMarks := student.Marks{"math": 100, "science": 100, "english": 100}
	st, err = repo.UpdateStudentMarks(ctx, "STU001", newMarks)
	require.NoError(t, err)
	assert.Equal(t, newMarks, st.Marks)

	_, err = repo.UpdateStudentMarks(ctx, "STU999", newMarks)
	assert.Equal(t, student.ErrNotFound, err)

	store2, err := Open(dir)
	require.NoError(t, err)
	st, err = NewStudentRepository(store2).GetStudentByID(ctx, "STU001")
	require.NoError(t, err)
	assert.Equal(t, newMarks, st.Marks)

	// the untouched record is intact
	st, err = NewStudentRepository(store2).GetStudentByID(ctx, "STU002")
	require.NoError(t, err)
	assert.Equal(t, seedData[1].Marks, st.Marks)
}

func TestStudentRepository_corruptFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := Open(dir)
	require.NoError(t, err)
	repo := NewStudentRepository(store)

	require.NoError(t, os.WriteFile(filepath.Join(dir, studentsFile), []byte("[{bad json"), 0o644))

	// corrupt data surfaces as an integrity failure, never as an empty class
	_, err = repo.QueryAllStudents(ctx)
	require.Error(t, err)
	assert.True(t, core.IsDataIntegrity(err))

	_, err = repo.GetStudentByID(ctx, "STU001")
	require.Error(t, err)
	assert.True(t, core.IsDataIntegrity(err))
}

func TestTeacherRepository(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := Open(dir)
	require.NoError(t, err)
	repo := NewTeacherRepository(store)

	_, err = repo.GetTeacherByID(ctx, "TCH001")
	assert.Equal(t, teacher.ErrNotFound, err)

	seed := []teacher.Teacher{{ID: "TCH001", Name: "Priya Verma", Subject: "Mathematics"}}
	require.NoError(t, repo.(*teacherRepository).SeedTeachers(ctx, seed))

	tch, err := repo.GetTeacherByID(ctx, "TCH001")
	require.NoError(t, err)
	assert.Equal(t, "Priya Verma", tch.Name)
}
