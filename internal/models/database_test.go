package models

import (
	"path/filepath"
	"testing"

	"github.com/mlazarev/tracknest/internal/config"
)

func TestSqliteDSN(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"tracknest.db", "tracknest.db?_foreign_keys=on"},
		{"file:data.db?cache=shared", "file:data.db?cache=shared&_foreign_keys=on"},
		{"file:data.db?_foreign_keys=on", "file:data.db?_foreign_keys=on"},
		{"file:data.db?_foreign_keys=off", "file:data.db?_foreign_keys=off"},
	}
	for _, tt := range tests {
		if got := sqliteDSN(tt.dsn); got != tt.want {
			t.Errorf("sqliteDSN(%q) = %q, expected %q", tt.dsn, got, tt.want)
		}
	}
}

func TestInitDB_UnsupportedDriver(t *testing.T) {
	err := InitDB(&config.DatabaseConfig{Driver: "oracle", DSN: "whatever"})
	if err == nil {
		t.Fatal("InitDB should reject unknown drivers")
	}
}

// Initializes through InitDB the way the server does, then verifies the
// FK cascades actually fire on the default sqlite driver.
func TestInitDB_SqliteCascades(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "tracknest.db"),
	}
	if err := InitDB(cfg); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	if err := AutoMigrate(); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	db := GetDB()

	user := &User{Email: "alice@example.com", Username: "alice", HashedPassword: "x", IsActive: true}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	project := &Project{Key: "TRK", Name: "Tracker", AuthorID: user.ID}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("create project: %v", err)
	}
	issue := &Issue{
		ProjectID: project.ID, Key: 1, Title: "Crash on save",
		Type: IssueTypeBug, Priority: IssuePriorityHigh, Status: IssueStatusToDo,
		AuthorID: user.ID,
	}
	if err := db.Create(issue).Error; err != nil {
		t.Fatalf("create issue: %v", err)
	}

	if err := db.Delete(project).Error; err != nil {
		t.Fatalf("delete project: %v", err)
	}
	var count int64
	if err := db.Model(&Issue{}).Where("project_id = ?", project.ID).Count(&count).Error; err != nil {
		t.Fatalf("count issues: %v", err)
	}
	if count != 0 {
		t.Errorf("%d issues survived the project delete", count)
	}

	// Deleting the account removes its remaining projects the same way.
	leftover := &Project{Key: "SEC", Name: "Second", AuthorID: user.ID}
	if err := db.Create(leftover).Error; err != nil {
		t.Fatalf("create second project: %v", err)
	}
	if err := db.Delete(user).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if err := db.Model(&Project{}).Where("author_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count projects: %v", err)
	}
	if count != 0 {
		t.Errorf("%d projects survived the account delete", count)
	}
}
