package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/gradeboard/gradeboard/apps/api/echo"
	"github.com/gradeboard/gradeboard/core"
	"github.com/gradeboard/gradeboard/core/account"
	"github.com/gradeboard/gradeboard/core/ranking"
	"github.com/gradeboard/gradeboard/core/student"
	"github.com/gradeboard/gradeboard/core/teacher"
	emailsvc "github.com/gradeboard/gradeboard/services/email"
	logsvc "github.com/gradeboard/gradeboard/services/logger"
	inmemdb "github.com/gradeboard/gradeboard/storage/inmem"
	jsonfilestore "github.com/gradeboard/gradeboard/storage/jsonfile"
	sessionstore "github.com/gradeboard/gradeboard/storage/session"
	sqlxrepos "github.com/gradeboard/gradeboard/storage/sqlx"
)

type repos struct {
	student student.Repository
	teacher teacher.Repository
	account account.Repository
}

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up stores
	rps, cleanup, err := setUpStore(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up store: %v", err), err)
	}
	defer cleanup()

	sessions, err := setUpSessions(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up session registry: %v", err), err)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	scale, err := ranking.ParseScale(conf.Grading.Scale)
	if err != nil {
		logger.Fatal(fmt.Sprintf("parsing grading scale: %v", err), err)
	}
	engine, err := ranking.NewEngine(conf.Grading.MaxTotal, conf.Grading.MaxPerSubject, scale)
	if err != nil {
		logger.Fatal(fmt.Sprintf("building ranking engine: %v", err), err)
	}

	studentSvc := student.NewService(rps.student)
	teacherSvc := teacher.NewService(rps.teacher)
	accountSvc := account.NewService(rps.account, sessions, mailSvc, conf)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator, conf.Grading.MaxPerSubject)
	account.InitValidators(validate, translator)
	account.Configure(conf)

	core.ParseEmailTemplates(conf, logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			StudentSvc: studentSvc,
			TeacherSvc: teacherSvc,
			AccountSvc: accountSvc,
			Engine:     engine,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// setUpStore selects the record store backend from config.
func setUpStore(conf *core.Config) (repos, func(), error) {
	switch conf.Store.Engine {
	case "postgres":
		db, err := sqlxrepos.Open(conf)
		if err != nil {
			return repos{}, nil, err
		}
		cleanup := func() { _ = db.Close() }
		return repos{
			student: sqlxrepos.NewStudentRepository(db),
			teacher: sqlxrepos.NewTeacherRepository(db),
			account: sqlxrepos.NewAccountRepository(db),
		}, cleanup, nil

	case "inmem":
		db, err := inmemdb.Open()
		if err != nil {
			return repos{}, nil, err
		}
		return repos{
			student: inmemdb.NewStudentRepository(db),
			teacher: inmemdb.NewTeacherRepository(db),
			account: inmemdb.NewAccountRepository(db),
		}, func() {}, nil

	default: // jsonfile
		store, err := jsonfilestore.Open(conf.Store.DataDir)
		if err != nil {
			return repos{}, nil, err
		}
		return repos{
			student: jsonfilestore.NewStudentRepository(store),
			teacher: jsonfilestore.NewTeacherRepository(store),
			account: jsonfilestore.NewAccountRepository(store),
		}, func() {}, nil
	}
}

// setUpSessions picks Redis when an address is configured, else in-memory.
func setUpSessions(conf *core.Config) (account.SessionRegistry, error) {
	if conf.Redis.Addr != "" {
		return sessionstore.NewRedisRegistry(conf)
	}
	return sessionstore.NewInMemRegistry(), nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
