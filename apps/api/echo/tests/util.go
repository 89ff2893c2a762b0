package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	echoapi "github.com/trezcool/ratiba/apps/api/echo"
	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/dashboard"
	"github.com/trezcool/ratiba/core/schedule"
	"github.com/trezcool/ratiba/core/teacher"
	"github.com/trezcool/ratiba/core/user"
	emailsvc "github.com/trezcool/ratiba/services/email"
	metricsvc "github.com/trezcool/ratiba/services/metrics"
	notifysvc "github.com/trezcool/ratiba/services/notify"
	"github.com/trezcool/ratiba/storage/records"
	"github.com/trezcool/ratiba/tests"
)

// Instants of the seeded timetable. 2026-10-12 is a Monday.
const (
	monday0930  = "2026-10-12T09:30:00Z"
	monday1030  = "2026-10-12T10:30:00Z"
	monday1031  = "2026-10-12T10:31:00Z"
	monday1100  = "2026-10-12T11:00:00Z"
	sunday1000  = "2026-10-18T10:00:00Z"
	wednesday15 = "2026-10-14T15:00:00+00:00"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	*echoapi.Server
	conf     *core.Config
	logger   *testutil.LoggerMock
	mailSvc  *emailsvc.ConsoleServiceMock
	usrRepo  user.Repository
	sessions schedule.Repository

	admin, teacher, student user.User
}

// setup returns a server over a freshly seeded in-memory store.
func setup(t *testing.T) *testApp {
	conf := testutil.TestConfig()
	logger := new(testutil.LoggerMock)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	schedule.InitValidators(validate, translator)

	store := testutil.NewStore(t, true)
	usrRepo := records.NewUserRepository(store)
	teacherRepo := records.NewTeacherRepository(store)
	sessionRepo := records.NewSessionRepository(store)

	mailSvc := emailsvc.NewConsoleServiceMock(logger, conf)
	metrics := metricsvc.New("test")
	usrSvc := user.NewService(usrRepo, validate, mailSvc, user.ServiceOptions{
		SecretKey:            conf.SecretKey,
		PasswordResetTimeout: conf.PasswordResetTimeoutDelta,
		FrontendBaseURL:      conf.FrontendBaseURL,
	})
	teacherSvc := teacher.NewService(teacherRepo, validate)
	scheduleSvc := schedule.NewService(sessionRepo, validate,
		schedule.WithNotifier(notifysvc.New(teacherRepo, mailSvc, logger, metrics)),
		schedule.WithConflictRejection(conf.Schedule.RejectConflicts),
	)

	srv := echoapi.NewServer(&echoapi.Options{
		Conf:         conf,
		Logger:       logger,
		Validate:     validate,
		Translator:   translator,
		Metrics:      metrics,
		UserSvc:      usrSvc,
		TeacherSvc:   teacherSvc,
		ScheduleSvc:  scheduleSvc,
		DashboardSvc: dashboard.NewService(sessionRepo, teacherRepo, usrRepo),
	})
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	app := &testApp{
		Server:   srv,
		conf:     conf,
		logger:   logger,
		mailSvc:  mailSvc,
		usrRepo:  usrRepo,
		sessions: sessionRepo,
	}
	app.admin = app.getUser(t, "1")
	app.teacher = app.getUser(t, "2")
	app.student = app.getUser(t, "3")
	return app
}

func (app *testApp) getUser(t *testing.T, id string) user.User {
	usr, err := app.usrRepo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("getUser(%s) failed: %v", id, err)
	}
	return usr
}

func (app *testApp) getToken(t *testing.T, usr user.User) string {
	token, err := app.GenerateToken(usr)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

// do serves the request and returns the recorded response.
func (app *testApp) do(tt httpTest) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
	app.ServeHTTP(rec, req)
	return rec
}

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

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

// sessionIDs decodes a list of sessions and returns their ids, in order.
func sessionIDs(t *testing.T, body []byte) []string {
	var sessions []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &sessions); err != nil {
		t.Fatalf("sessionIDs() failed: %v", err)
	}
	ids := make([]string, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.ID)
	}
	return ids
}
