package student

import (
	"context"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("student not found")

type (
	Repository interface {
		QueryAllStudents(ctx context.Context) ([]Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		// UpdateStudentMarks replaces the student's marks wholesale and
		// persists synchronously. Last writer wins; no cross-caller
		// serialization is guaranteed by the store.
		UpdateStudentMarks(ctx context.Context, id string, marks Marks) (Student, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) UpdateMarks(ctx context.Context, id string, um UpdateMarks) (Student, error) {
	if err := um.Validate(); err != nil {
		return Student{}, err
	}
	return svc.repo.UpdateStudentMarks(ctx, id, um.Marks.Clone())
}
