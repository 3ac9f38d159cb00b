package inmemdb

import (
	"context"

	"github.com/gradeboard/gradeboard/core/student"
)

type studentRepository struct {
	db *DB
}

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) QueryAllStudents(_ context.Context) ([]student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := make([]student.Student, len(repo.db.students))
	copy(students, repo.db.students)
	return students, nil
}

func (repo *studentRepository) GetStudentByID(_ context.Context, id string) (student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, st := range repo.db.students {
		if st.ID == id {
			return st, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudentMarks(_ context.Context, id string, marks student.Marks) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for i := range repo.db.students {
		if repo.db.students[i].ID == id {
			repo.db.students[i].Marks = marks
			return repo.db.students[i], nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

// SeedStudents replaces the whole collection.
func (repo *studentRepository) SeedStudents(_ context.Context, students []student.Student) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.students = make([]student.Student, len(students))
	copy(repo.db.students, students)
	return nil
}
