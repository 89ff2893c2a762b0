// Package testutil holds helpers shared by the tests of the app packages.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/user"
	"github.com/trezcool/ratiba/storage/database/inmem"
	"github.com/trezcool/ratiba/storage/records"
)

// LoggedMessage is one message received by a LoggerMock.
type LoggedMessage struct {
	Level string
	Msg   string
	Args  []interface{}
}

// LoggerMock records every message it receives.
type LoggerMock struct {
	mu       sync.Mutex
	messages []LoggedMessage
}

var _ core.Logger = (*LoggerMock)(nil)

func (l *LoggerMock) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, LoggedMessage{Level: level, Msg: msg, Args: args})
}

func (l *LoggerMock) Debug(msg string, args ...interface{}) { l.log("debug", msg, args) }
func (l *LoggerMock) Info(msg string, args ...interface{})  { l.log("info", msg, args) }
func (l *LoggerMock) Warn(msg string, args ...interface{})  { l.log("warn", msg, args) }
func (l *LoggerMock) Error(msg string, args ...interface{}) { l.log("error", msg, args) }
func (l *LoggerMock) Fatal(msg string, args ...interface{}) { l.log("fatal", msg, args) }

func (l *LoggerMock) Messages(level string) []LoggedMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	msgs := make([]LoggedMessage, 0)
	for _, m := range l.messages {
		if m.Level == level {
			msgs = append(msgs, m)
		}
	}
	return msgs
}

// NewStore returns a record store over a fresh in-memory backend, optionally seeded with the default records.
func NewStore(t *testing.T, seed bool) *records.Store {
	store := records.NewStore(inmemdb.NewDB())
	if seed {
		if _, err := records.SeedDefaults(context.Background(), store); err != nil {
			t.Fatalf("NewStore() failed: %v", err)
		}
	}
	return store
}

// TestConfig returns the configuration used in tests.
func TestConfig() *core.Config {
	return &core.Config{
		AppName:                   "Ratiba",
		Env:                       "TEST",
		TestMode:                  true,
		SecretKey:                 "test-secret-key",
		DefaultFromEmail:          "Ratiba <noreply@ratiba.test>",
		FrontendBaseURL:           "http://frontend.test",
		PasswordResetTimeoutDelta: time.Hour,
		Server: core.ServerConfig{
			DisableReqLogs:            true,
			ShutdownTimeout:           time.Second,
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 24 * time.Hour,
		},
		Store: core.StoreConfig{Engine: core.StoreMemory},
	}
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd, role, department string,
) user.User {
	usr := user.User{
		Name:       name,
		Email:      email,
		Role:       role,
		Department: department,
		CreatedAt:  time.Now().UTC(),
	}
	if role == user.RoleStudent {
		usr.StudentID = fmt.Sprintf("ST%03d", time.Now().Nanosecond()%1000)
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.Create(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}
