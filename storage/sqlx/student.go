package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/gradeboard/gradeboard/core"
	"github.com/gradeboard/gradeboard/core/student"
)

type studentRow struct {
	ID           string  `db:"id"`
	Name         string  `db:"name"`
	ClassName    string  `db:"class_name"`
	Section      string  `db:"section"`
	AcademicYear string  `db:"academic_year"`
	Attendance   float64 `db:"attendance"`
	Marks        []byte  `db:"marks"`
}

func (row studentRow) toStudent() (student.Student, error) {
	st := student.Student{
		ID:           row.ID,
		Name:         row.Name,
		ClassName:    row.ClassName,
		Section:      row.Section,
		AcademicYear: row.AcademicYear,
		Attendance:   row.Attendance,
	}
	if len(row.Marks) > 0 {
		if err := json.Unmarshal(row.Marks, &st.Marks); err != nil {
			return student.Student{}, core.NewDataIntegrityError(errors.Wrapf(err, "parsing marks for student %s", row.ID))
		}
	}
	return st, nil
}

type studentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM student ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}

	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		st, err := row.toStudent()
		if err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	return students, nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	var row studentRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM student WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "querying student")
	}
	return row.toStudent()
}

func (repo *studentRepository) UpdateStudentMarks(ctx context.Context, id string, marks student.Marks) (student.Student, error) {
	data, err := json.Marshal(marks)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "encoding marks")
	}

	res, err := repo.db.ExecContext(ctx, `UPDATE student SET marks = $2 WHERE id = $1`, id, data)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating marks")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return repo.GetStudentByID(ctx, id)
}

// SeedStudents replaces the whole collection. Admin tooling only.
func (repo *studentRepository) SeedStudents(ctx context.Context, students []student.Student) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting seed transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, `DELETE FROM student`); err != nil {
		return errors.Wrap(err, "clearing students")
	}
	for _, st := range students {
		data, err := json.Marshal(st.Marks)
		if err != nil {
			return errors.Wrap(err, "encoding marks")
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO student (id, name, class_name, section, academic_year, attendance, marks)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			st.ID, st.Name, st.ClassName, st.Section, st.AcademicYear, st.Attendance, data)
		if err != nil {
			return errors.Wrapf(err, "inserting student %s", st.ID)
		}
	}
	return tx.Commit()
}
