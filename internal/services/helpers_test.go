package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/isdelr/hrdesk-be/internal/auth"
	"github.com/isdelr/hrdesk-be/internal/database"
	"github.com/isdelr/hrdesk-be/internal/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "hrdesk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

type recordingBroadcaster struct {
	mu       sync.Mutex
	messages [][]byte
}

func (b *recordingBroadcaster) Publish(message []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, message)
}

func (b *recordingBroadcaster) Messages() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]byte(nil), b.messages...)
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

type fixture struct {
	db          *sql.DB
	clock       *clock
	broadcaster *recordingBroadcaster
	events      *EventService
	users       *UserService
	departments *DepartmentService
	employees   *EmployeeService
	reports     *ReportService
	reportsDir  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	c := &clock{now: time.Now()}
	b := &recordingBroadcaster{}
	events := NewEventService(db, b)
	codec := auth.NewTokenCodec(testSecret, 15*time.Minute, auth.WithClock(c.Now))
	dir := filepath.Join(t.TempDir(), "reports")

	return &fixture{
		db:          db,
		clock:       c,
		broadcaster: b,
		events:      events,
		users:       NewUserService(db, auth.NewBcryptHasher(bcrypt.MinCost), codec, events),
		departments: NewDepartmentService(db, events),
		employees:   NewEmployeeService(db, events),
		reports:     NewReportService(db, events, dir),
		reportsDir:  dir,
	}
}

func asUser(username string) context.Context {
	return auth.WithUser(context.Background(), models.User{ID: 1, Username: username})
}

func strPtr(s string) *string { return &s }
func int64Ptr(n int64) *int64 { return &n }
