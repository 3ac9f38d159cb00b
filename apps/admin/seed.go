package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/gradeboard/gradeboard/core/student"
	"github.com/gradeboard/gradeboard/core/teacher"
)

// seed replaces store collections with the contents of the given JSON files.
func (cli *commandLine) seed(studentsPath, teachersPath string) error {
	ctx := context.Background()

	if studentsPath != "" {
		var students []student.Student
		if err := readJSONFile(studentsPath, &students); err != nil {
			return err
		}
		for _, st := range students {
			if st.Marks == nil { // a record without marks is fine, scores read as 0
				continue
			}
			if err := (student.UpdateMarks{Marks: st.Marks}).Validate(); err != nil {
				return errors.Wrapf(err, "student %s", st.ID)
			}
		}
		if err := cli.studentRepo.SeedStudents(ctx, students); err != nil {
			return errors.Wrap(err, "seeding students")
		}
		fmt.Printf("seeded %d students\n", len(students))
	}

	if teachersPath != "" {
		var teachers []teacher.Teacher
		if err := readJSONFile(teachersPath, &teachers); err != nil {
			return err
		}
		if err := cli.teacherRepo.SeedTeachers(ctx, teachers); err != nil {
			return errors.Wrap(err, "seeding teachers")
		}
		fmt.Printf("seeded %d teachers\n", len(teachers))
	}
	return nil
}

func readJSONFile(path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}
	if err = json.Unmarshal(data, dst); err != nil {
		return errors.Wrapf(err, "parsing %s", path)
	}
	return nil
}
