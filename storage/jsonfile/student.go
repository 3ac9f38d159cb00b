package jsonfilestore

import (
	"context"

	"github.com/gradeboard/gradeboard/core/student"
)

type studentRepository struct {
	store *Store
}

func NewStudentRepository(store *Store) student.Repository {
	return &studentRepository{store: store}
}

func (repo *studentRepository) QueryAllStudents(_ context.Context) ([]student.Student, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	var students []student.Student
	if err := repo.store.readAll(studentsFile, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (repo *studentRepository) GetStudentByID(_ context.Context, id string) (student.Student, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	var students []student.Student
	if err := repo.store.readAll(studentsFile, &students); err != nil {
		return student.Student{}, err
	}
	for _, st := range students {
		if st.ID == id {
			return st, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudentMarks(_ context.Context, id string, marks student.Marks) (student.Student, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	var students []student.Student
	if err := repo.store.readAll(studentsFile, &students); err != nil {
		return student.Student{}, err
	}

	idx := -1
	for i, st := range students {
		if st.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return student.Student{}, student.ErrNotFound
	}

	students[idx].Marks = marks
	if err := repo.store.writeAll(studentsFile, students); err != nil {
		return student.Student{}, err
	}
	return students[idx], nil
}

// SeedStudents replaces the whole collection. Admin tooling only.
func (repo *studentRepository) SeedStudents(_ context.Context, students []student.Student) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()
	return repo.store.writeAll(studentsFile, students)
}
