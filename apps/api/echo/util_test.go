package echoapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/gradeboard/gradeboard/apps/api/echo"
	"github.com/gradeboard/gradeboard/core"
	"github.com/gradeboard/gradeboard/core/account"
	"github.com/gradeboard/gradeboard/core/ranking"
	"github.com/gradeboard/gradeboard/core/student"
	"github.com/gradeboard/gradeboard/core/teacher"
	emailsvc "github.com/gradeboard/gradeboard/services/email"
	inmemdb "github.com/gradeboard/gradeboard/storage/inmem"
	sessionstore "github.com/gradeboard/gradeboard/storage/session"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	server      Server
	conf        *core.Config
	db          *inmemdb.DB
	studentRepo interface {
		student.Repository
		SeedStudents(context.Context, []student.Student) error
	}
	teacherRepo interface {
		teacher.Repository
		SeedTeachers(context.Context, []teacher.Teacher) error
	}
	accountSvc *account.Service
}

func newTestConfig() *core.Config {
	conf := &core.Config{
		AppName:   "Gradeboard",
		Env:       "TEST",
		TestMode:  true,
		SecretKey: []byte("secret"),
	}
	conf.Server.Address = ":0"
	conf.Server.JWTExpirationDelta = 10 * time.Minute
	conf.Server.SessionTTL = 4 * time.Hour
	conf.Grading.MaxTotal = 500
	conf.Grading.MaxPerSubject = 100
	return conf
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func setup(t *testing.T) *testApp {
	conf := newTestConfig()

	db, err := inmemdb.Open()
	require.NoError(t, err)
	studentRepo := inmemdb.NewStudentRepository(db)
	teacherRepo := inmemdb.NewTeacherRepository(db)
	accountRepo := inmemdb.NewAccountRepository(db)
	sessions := sessionstore.NewInMemRegistry()

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	accountSvc := account.NewService(accountRepo, sessions, mailSvc, conf)

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator, conf.Grading.MaxPerSubject)
	account.InitValidators(validate, translator)
	account.Configure(conf)

	engine, err := ranking.NewEngine(conf.Grading.MaxTotal, conf.Grading.MaxPerSubject, ranking.DefaultScale())
	require.NoError(t, err)

	srv := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         testLogger{t},
		StudentSvc:     student.NewService(studentRepo),
		TeacherSvc:     teacher.NewService(teacherRepo),
		AccountSvc:     accountSvc,
		Engine:         engine,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})

	return &testApp{
		server:      srv,
		conf:        conf,
		db:          db,
		studentRepo: studentRepo,
		teacherRepo: teacherRepo,
		accountSvc:  accountSvc,
	}
}

type testLogger struct {
	t *testing.T
}

func (l testLogger) Enable(bool)                          {}
func (l testLogger) Debug(msg string, _ ...interface{})   { l.t.Log(msg) }
func (l testLogger) Info(msg string, _ ...interface{})    { l.t.Log(msg) }
func (l testLogger) Warn(msg string, _ ...interface{})    { l.t.Log(msg) }
func (l testLogger) Error(msg string, _ ...interface{})   { l.t.Log(msg) }
func (l testLogger) Fatal(msg string, _ ...interface{})   { l.t.Fatal(msg) }

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

// createAccount registers a login account linked to a record.
func (app *testApp) createAccount(t *testing.T, name, username, email, pwd, role, recordID string) account.Account {
	acct, err := app.accountSvc.Create(context.Background(), account.NewAccount{
		Name:     name,
		Username: username,
		Email:    email,
		Password: pwd,
		Role:     role,
		RecordID: recordID,
	})
	require.NoError(t, err)
	return acct
}

// login goes through the real endpoint so tests hold tokens bound to live sessions.
func (app *testApp) login(t *testing.T, username, password string) string {
	body := marchallObj(t, map[string]string{"username": username, "password": password})
	req, rec := newRequest(http.MethodPost, "/api/login", body)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, "login failed: %s", rec.Body.String())

	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if tt.wantCode == 0 {
		tt.wantCode = http.StatusOK
	}
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
