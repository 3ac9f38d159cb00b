package inmemdb

import (
	"context"

	"github.com/gradeboard/gradeboard/core/teacher"
)

type teacherRepository struct {
	db *DB
}

func NewTeacherRepository(db *DB) *teacherRepository {
	return &teacherRepository{db: db}
}

func (repo *teacherRepository) QueryAllTeachers(_ context.Context) ([]teacher.Teacher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	teachers := make([]teacher.Teacher, len(repo.db.teachers))
	copy(teachers, repo.db.teachers)
	return teachers, nil
}

func (repo *teacherRepository) GetTeacherByID(_ context.Context, id string) (teacher.Teacher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, tch := range repo.db.teachers {
		if tch.ID == id {
			return tch, nil
		}
	}
	return teacher.Teacher{}, teacher.ErrNotFound
}

// SeedTeachers replaces the whole collection.
func (repo *teacherRepository) SeedTeachers(_ context.Context, teachers []teacher.Teacher) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.teachers = make([]teacher.Teacher, len(teachers))
	copy(repo.db.teachers, teachers)
	return nil
}
