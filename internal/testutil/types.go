package testutil

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Common test errors
var (
	ErrTest        = errors.New("test error")
	ErrConstructor = errors.New("constructor error")
)

// TestService is a basic test service
type TestService struct {
	ID        string
	CreatedAt time.Time
	Data      string
}

// NewTestService creates a new test service with a unique ID
func NewTestService() *TestService {
	return &TestService{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Data:      "test",
	}
}

// TestLogger is a test logger interface
type TestLogger interface {
	Log(msg string)
	GetLogs() []string
}

// TestLoggerImpl implements TestLogger
type TestLoggerImpl struct {
	ID   string
	logs []string
	mu   sync.Mutex
}

// NewTestLoggerImpl creates a logger with a unique ID
func NewTestLoggerImpl() *TestLoggerImpl {
	return &TestLoggerImpl{ID: uuid.NewString()}
}

func (l *TestLoggerImpl) Log(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logs = append(l.logs, msg)
}

func (l *TestLoggerImpl) GetLogs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	result := make([]string, len(l.logs))
	copy(result, l.logs)
	return result
}

// AlternateLogger is a second TestLogger implementation used for override tests
type AlternateLogger struct {
	Prefix string
}

func (l *AlternateLogger) Log(msg string)     {}
func (l *AlternateLogger) GetLogs() []string { return nil }

// TestDatabase is a test database interface
type TestDatabase interface {
	Query(sql string) string
}

// TestDatabaseImpl implements TestDatabase
type TestDatabaseImpl struct {
	Name string
}

// NewTestDatabase creates a database named "testdb"
func NewTestDatabase() *TestDatabaseImpl {
	return &TestDatabaseImpl{Name: "testdb"}
}

func (d *TestDatabaseImpl) Query(sql string) string {
	return fmt.Sprintf("%s: %s", d.Name, sql)
}

// TestServiceWithDeps depends on a logger and a database
type TestServiceWithDeps struct {
	Logger   TestLogger
	Database TestDatabase
}

// NewTestServiceWithDeps creates a service from its dependencies
func NewTestServiceWithDeps(logger TestLogger, db TestDatabase) *TestServiceWithDeps {
	return &TestServiceWithDeps{Logger: logger, Database: db}
}

// CircularServiceA depends on CircularServiceB
type CircularServiceA struct {
	B *CircularServiceB
}

// CircularServiceB depends on CircularServiceA
type CircularServiceB struct {
	A *CircularServiceA
}

func NewCircularServiceA(b *CircularServiceB) *CircularServiceA {
	return &CircularServiceA{B: b}
}

func NewCircularServiceB(a *CircularServiceA) *CircularServiceB {
	return &CircularServiceB{A: a}
}

// Counter counts constructor invocations
type Counter struct {
	calls atomic.Int64
}

// Count returns the number of recorded calls
func (c *Counter) Count() int64 {
	return c.calls.Load()
}

// CountingConstructor returns a constructor for *TestService that records every call
func (c *Counter) CountingConstructor() func() *TestService {
	return func() *TestService {
		c.calls.Add(1)
		return NewTestService()
	}
}

// FailingConstructor returns a constructor for *TestService that always fails with err
func FailingConstructor(err error) func() (*TestService, error) {
	return func() (*TestService, error) {
		return nil, err
	}
}
