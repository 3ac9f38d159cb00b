package teacher

import (
	"context"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("teacher not found")

type (
	Repository interface {
		GetTeacherByID(ctx context.Context, id string) (Teacher, error)
		QueryAllTeachers(ctx context.Context) ([]Teacher, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) GetByID(ctx context.Context, id string) (Teacher, error) {
	return svc.repo.GetTeacherByID(ctx, id)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Teacher, error) {
	return svc.repo.QueryAllTeachers(ctx)
}
