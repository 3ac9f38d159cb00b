package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/gradeboard/gradeboard/core/teacher"
)

type teacherRow struct {
	ID      string `db:"id"`
	Name    string `db:"name"`
	Subject string `db:"subject"`
	Email   string `db:"email"`
	Class   string `db:"class"`
}

func (row teacherRow) toTeacher() teacher.Teacher {
	return teacher.Teacher(row)
}

type teacherRepository struct {
	db *sqlx.DB
}

func NewTeacherRepository(db *sqlx.DB) teacher.Repository {
	return &teacherRepository{db: db}
}

func (repo *teacherRepository) QueryAllTeachers(ctx context.Context) ([]teacher.Teacher, error) {
	var rows []teacherRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM teacher ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}

	teachers := make([]teacher.Teacher, 0, len(rows))
	for _, row := range rows {
		teachers = append(teachers, row.toTeacher())
	}
	return teachers, nil
}

func (repo *teacherRepository) GetTeacherByID(ctx context.Context, id string) (teacher.Teacher, error) {
	var row teacherRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM teacher WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return teacher.Teacher{}, teacher.ErrNotFound
		}
		return teacher.Teacher{}, errors.Wrap(err, "querying teacher")
	}
	return row.toTeacher(), nil
}

// SeedTeachers replaces the whole collection. Admin tooling only.
func (repo *teacherRepository) SeedTeachers(ctx context.Context, teachers []teacher.Teacher) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting seed transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, `DELETE FROM teacher`); err != nil {
		return errors.Wrap(err, "clearing teachers")
	}
	for _, tch := range teachers {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO teacher (id, name, subject, email, class) VALUES ($1, $2, $3, $4, $5)`,
			tch.ID, tch.Name, tch.Subject, tch.Email, tch.Class)
		if err != nil {
			return errors.Wrapf(err, "inserting teacher %s", tch.ID)
		}
	}
	return tx.Commit()
}
