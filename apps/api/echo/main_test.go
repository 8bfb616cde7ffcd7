package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hsandamith/School-Management-System/core"
	"github.com/hsandamith/School-Management-System/core/class"
	"github.com/hsandamith/School-Management-System/core/dashboard"
	"github.com/hsandamith/School-Management-System/core/guardian"
	"github.com/hsandamith/School-Management-System/core/library"
	"github.com/hsandamith/School-Management-System/core/payroll"
	"github.com/hsandamith/School-Management-System/core/pupil"
	"github.com/hsandamith/School-Management-System/core/staff"
	emailsvc "github.com/hsandamith/School-Management-System/services/email"
	logsvc "github.com/hsandamith/School-Management-System/services/logger"
	"github.com/hsandamith/School-Management-System/storage/database/dbtest"
	sqlxrepos "github.com/hsandamith/School-Management-System/storage/database/sqlx"
)

const adminPassword = "correct horse battery staple"

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

type testEnv struct {
	conf    *core.Config
	db      *sqlx.DB
	app     *Server
	mailSvc *emailsvc.ConsoleService
	token   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conf := core.NewTestConfig()
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	conf.Admin.PasswordHash = string(hash)

	db := dbtest.Open(t)

	logger := logsvc.NewRollbarLogger(zerolog.Nop(), conf)
	logger.Enable(false)

	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)

	guardianRepo := sqlxrepos.NewGuardianRepository(db)
	app := NewServer(ServerDeps{
		Conf:         conf,
		Logger:       logger,
		Validate:     validate,
		Translator:   translator,
		ClassSvc:     class.NewService(db, sqlxrepos.NewClassRepository(db)),
		GuardianSvc:  guardian.NewService(db, guardianRepo),
		PupilSvc:     pupil.NewService(conf, logger, db, sqlxrepos.NewPupilRepository(db), guardianRepo, mailSvc, validate),
		LibrarySvc:   library.NewService(conf, db, sqlxrepos.NewLibraryRepository(db), validate),
		StaffSvc:     staff.NewService(db, sqlxrepos.NewStaffRepository(db)),
		PayrollSvc:   payroll.NewService(db, sqlxrepos.NewPayrollRepository(db)),
		DashboardSvc: dashboard.NewService(conf, sqlxrepos.NewDashboardRepository(db)),
	})

	return &testEnv{
		conf:    conf,
		db:      db,
		app:     app,
		mailSvc: mailSvc,
		token:   getToken(t, conf),
	}
}

// freezeTime pins core.NowFunc for the duration of the test.
func freezeTime(t *testing.T, now time.Time) {
	t.Helper()
	orig := core.NowFunc
	core.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { core.NowFunc = orig })
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

func getToken(t *testing.T, conf *core.Config) string {
	token, err := GenerateToken(conf, newClaims(conf, conf.Admin.Email))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

// do sends an authenticated request and decodes a successful JSON response into out.
func (env *testEnv) do(t *testing.T, method, path string, body interface{}, out interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var data []byte
	if body != nil {
		data = marchallObj(t, body)
	}
	req, rec := newAuthRequest(method, path, env.token, data)
	env.app.ServeHTTP(rec, req)
	if out != nil && rec.Code < http.StatusBadRequest {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec
}

func (env *testEnv) run(t *testing.T, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
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
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
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
