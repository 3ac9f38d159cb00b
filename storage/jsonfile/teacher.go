package jsonfilestore

import (
	"context"

	"github.com/gradeboard/gradeboard/core/teacher"
)

type teacherRepository struct {
	store *Store
}

func NewTeacherRepository(store *Store) teacher.Repository {
	return &teacherRepository{store: store}
}

func (repo *teacherRepository) QueryAllTeachers(_ context.Context) ([]teacher.Teacher, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	var teachers []teacher.Teacher
	if err := repo.store.readAll(teachersFile, &teachers); err != nil {
		return nil, err
	}
	return teachers, nil
}

func (repo *teacherRepository) GetTeacherByID(_ context.Context, id string) (teacher.Teacher, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	var teachers []teacher.Teacher
	if err := repo.store.readAll(teachersFile, &teachers); err != nil {
		return teacher.Teacher{}, err
	}
	for _, tch := range teachers {
		if tch.ID == id {
			return tch, nil
		}
	}
	return teacher.Teacher{}, teacher.ErrNotFound
}

// SeedTeachers replaces the whole collection. Admin tooling only.
func (repo *teacherRepository) SeedTeachers(_ context.Context, teachers []teacher.Teacher) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()
	return repo.store.writeAll(teachersFile, teachers)
}
