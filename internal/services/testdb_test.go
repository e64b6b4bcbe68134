package services

import (
	"context"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/mlazarev/tracknest/internal/models"
	"github.com/mlazarev/tracknest/pkg/cache"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database with foreign keys on.
// A single connection keeps the in-memory database alive and visible
// across transactions.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}

	err = db.AutoMigrate(&models.User{}, &models.Project{}, &models.Issue{}, &models.ActivityLog{})
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Email:          username + "@example.com",
		Username:       username,
		HashedPassword: "x",
		IsActive:       true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

// memConn is an in-memory cache.Conn so service tests can observe
// population and invalidation without a Redis server.
type memConn struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemConn() *memConn {
	return &memConn{data: make(map[string]string)}
}

func (c *memConn) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	val, ok := c.data[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return val, nil
}

func (c *memConn) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memConn) Keys(ctx context.Context, pattern string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var keys []string
	for k := range c.data {
		if ok, _ := path.Match(pattern, k); ok {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (c *memConn) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memConn) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

func newTestCache() (*cache.Cache, *memConn) {
	conn := newMemConn()
	return cache.NewWithConn(conn, time.Minute), conn
}
