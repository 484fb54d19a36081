package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/hrdesk-be/internal/auth"
	"github.com/isdelr/hrdesk-be/internal/database"
	"github.com/isdelr/hrdesk-be/internal/models"
	"github.com/isdelr/hrdesk-be/internal/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	users       *services.UserService
	departments *services.DepartmentService
	employees   *services.EmployeeService
	events      *services.EventService
	router      chi.Router
}

type nopBroadcaster struct{}

func (nopBroadcaster) Publish([]byte) {}

// newTestEnv wires real services over a throwaway database. Protected routes
// run as alice without a token so handlers can be tested in isolation.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "hrdesk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	events := services.NewEventService(db, nopBroadcaster{})
	codec := auth.NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"), 15*time.Minute)
	env := &testEnv{
		users:       services.NewUserService(db, auth.NewBcryptHasher(bcrypt.MinCost), codec, events),
		departments: services.NewDepartmentService(db, events),
		employees:   services.NewEmployeeService(db, events),
		events:      events,
	}
	reports := services.NewReportService(db, events, filepath.Join(t.TempDir(), "reports"))

	userHandler := NewUserHandler(env.users)
	departmentHandler := NewDepartmentHandler(env.departments)
	employeeHandler := NewEmployeeHandler(env.employees)
	reportHandler := NewReportHandler(reports)
	eventHandler := NewEventHandler(events)

	r := chi.NewRouter()
	r.Post("/register", userHandler.Register)
	r.Post("/login", userHandler.Login)
	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				alice := models.User{ID: 1, Username: "alice"}
				next.ServeHTTP(w, req.WithContext(auth.WithUser(req.Context(), alice)))
			})
		})
		r.Get("/me", userHandler.GetMe)
		r.Get("/departments", departmentHandler.GetAll)
		r.Post("/departments", departmentHandler.Create)
		r.Get("/departments/{id}", departmentHandler.Get)
		r.Put("/departments/{id}", departmentHandler.Update)
		r.Delete("/departments/{id}", departmentHandler.Delete)
		r.Get("/employees", employeeHandler.GetAll)
		r.Post("/employees", employeeHandler.Create)
		r.Get("/employees/{id}", employeeHandler.Get)
		r.Put("/employees/{id}", employeeHandler.Update)
		r.Delete("/employees/{id}", employeeHandler.Delete)
		r.Get("/reports", reportHandler.EmployeeDepartments)
		r.Get("/reports/csv", reportHandler.CSV)
		r.Get("/reports/html", reportHandler.HTML)
		r.Get("/events", eventHandler.GetRecent)
	})
	env.router = r
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) doForm(t *testing.T, method, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func ctx() context.Context {
	return auth.WithUser(context.Background(), models.User{ID: 1, Username: "alice"})
}
