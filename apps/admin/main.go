package main

import (
	"context"
	"log"
	"os"

	"github.com/gradeboard/gradeboard/core"
	"github.com/gradeboard/gradeboard/core/student"
	"github.com/gradeboard/gradeboard/core/teacher"
	inmemdb "github.com/gradeboard/gradeboard/storage/inmem"
	jsonfilestore "github.com/gradeboard/gradeboard/storage/jsonfile"
	sqlxrepos "github.com/gradeboard/gradeboard/storage/sqlx"
)

var logger *log.Logger

// the admin CLI needs the repositories' seeding surface on top of the
// core contracts
type (
	studentStore interface {
		student.Repository
		SeedStudents(ctx context.Context, students []student.Student) error
	}
	teacherStore interface {
		teacher.Repository
		SeedTeachers(ctx context.Context, teachers []teacher.Teacher) error
	}
)

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	cli, cleanup, err := newCommandLine(conf)
	errAndDie(err)
	defer cleanup()

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

// newCommandLine wires the CLI against the configured store engine.
func newCommandLine(conf *core.Config) (*commandLine, func(), error) {
	cli := &commandLine{conf: conf}
	cleanup := func() {}

	switch conf.Store.Engine {
	case "postgres":
		db, err := sqlxrepos.Open(conf)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() { _ = db.Close() }
		cli.studentRepo = sqlxrepos.NewStudentRepository(db).(studentStore)
		cli.teacherRepo = sqlxrepos.NewTeacherRepository(db).(teacherStore)
		cli.accountRepo = sqlxrepos.NewAccountRepository(db)

	case "inmem":
		db, err := inmemdb.Open()
		if err != nil {
			return nil, nil, err
		}
		cli.studentRepo = inmemdb.NewStudentRepository(db)
		cli.teacherRepo = inmemdb.NewTeacherRepository(db)
		cli.accountRepo = inmemdb.NewAccountRepository(db)

	default: // jsonfile
		store, err := jsonfilestore.Open(conf.Store.DataDir)
		if err != nil {
			return nil, nil, err
		}
		cli.studentRepo = jsonfilestore.NewStudentRepository(store).(studentStore)
		cli.teacherRepo = jsonfilestore.NewTeacherRepository(store).(teacherStore)
		cli.accountRepo = jsonfilestore.NewAccountRepository(store)
	}
	return cli, cleanup, nil
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
