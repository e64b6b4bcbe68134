package services

import (
	"context"
	"errors"
	"testing"
)

func TestParseSearchQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"single word", "crash", "crash"},
		{"two words joined", "login crash", "login & crash"},
		{"lowercased", "Login CRASH", "login & crash"},
		{"operators stripped", `"login" & (crash) | !boom`, "login & crash & boom"},
		{"single char words dropped", "a crash b report", "crash & report"},
		{"whitespace trimmed", "  crash  ", "crash"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSearchQuery(tt.query)
			if err != nil {
				t.Fatalf("parseSearchQuery(%q): %v", tt.query, err)
			}
			if got != tt.want {
				t.Errorf("parseSearchQuery(%q) = %q, expected %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestParseSearchQuery_Invalid(t *testing.T) {
	long := make([]byte, searchMaxLength+1)
	for i := range long {
		long[i] = 'x'
	}

	tests := []struct {
		name  string
		query string
	}{
		{"too short", "ab"},
		{"too long", string(long)},
		{"only noise", `a ! " '`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSearchQuery(tt.query)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("parseSearchQuery(%q) = %v, expected ValidationError", tt.query, err)
			}
		})
	}
}

func TestSearchService_LikeFallback(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	projects := NewProjectService(db, nil)
	issues := NewIssueService(db, nil)
	svc := NewSearchService(db)
	ctx := context.Background()

	aliceProject, err := projects.Create(ctx, alice.ID, &CreateProjectRequest{Name: "Payment Gateway", Key: "PAY"})
	if err != nil {
		t.Fatalf("Create project: %v", err)
	}
	if _, err := projects.Create(ctx, alice.ID, &CreateProjectRequest{Name: "Website", Key: "WEB"}); err != nil {
		t.Fatalf("Create second project: %v", err)
	}
	bobProject, err := projects.Create(ctx, bob.ID, &CreateProjectRequest{Name: "Payment Clone", Key: "CLN"})
	if err != nil {
		t.Fatalf("Create bob project: %v", err)
	}

	if _, err := issues.Create(ctx, alice.ID, aliceProject.ID, &CreateIssueRequest{
		Title: "Payment times out", Type: "bug", Priority: "high", Status: "to_do",
	}); err != nil {
		t.Fatalf("Create issue: %v", err)
	}
	if _, err := issues.Create(ctx, bob.ID, bobProject.ID, &CreateIssueRequest{
		Title: "Payment rejected", Type: "bug", Priority: "high", Status: "to_do",
	}); err != nil {
		t.Fatalf("Create bob issue: %v", err)
	}

	resp, err := svc.Search(ctx, alice.ID, "Payment", 20)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Projects) != 1 {
		t.Errorf("found %d projects, expected only alice's match", len(resp.Projects))
	}
	if len(resp.Issues) != 1 {
		t.Errorf("found %d issues, expected only alice's match", len(resp.Issues))
	}
	if len(resp.Projects) == 1 && resp.Projects[0].Name != "Payment Gateway" {
		t.Errorf("matched project %q, expected Payment Gateway", resp.Projects[0].Name)
	}
}

func TestSearchService_RejectsShortQuery(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	svc := NewSearchService(db)

	_, err := svc.Search(context.Background(), user.ID, "ab", 20)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Search = %v, expected ValidationError", err)
	}
}
