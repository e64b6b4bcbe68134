package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/mlazarev/tracknest/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	searchMinLength = 3
	searchMaxLength = 100
)

// SearchService runs full-text search over the caller's projects and
// issues. On Postgres it uses the tsvector GIN indexes; other backends
// fall back to LIKE matching.
type SearchService struct {
	db *gorm.DB
}

func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{db: db}
}

type SearchResponse struct {
	Projects []models.Project `json:"projects"`
	Issues   []models.Issue   `json:"issues"`
}

func (s *SearchService) Search(ctx context.Context, userID uint, query string, limit int) (*SearchResponse, error) {
	if limit < 1 || limit > 50 {
		limit = 20
	}

	resp := &SearchResponse{}
	db := s.db.WithContext(ctx)

	if db.Dialector.Name() == "postgres" {
		tsquery, err := parseSearchQuery(query)
		if err != nil {
			return nil, err
		}

		err = scopeProjects(db.Model(&models.Project{}), userID).
			Where("to_tsvector('english', name || ' ' || key) @@ to_tsquery('english', ?)", tsquery).
			Clauses(clause.OrderBy{Expression: clause.Expr{
				SQL:  "ts_rank(to_tsvector('english', name || ' ' || key), to_tsquery('english', ?)) DESC",
				Vars: []interface{}{tsquery},
			}}).
			Limit(limit).
			Find(&resp.Projects).Error
		if err != nil {
			return nil, err
		}

		err = db.Model(&models.Issue{}).
			Where("author_id = ?", userID).
			Where("to_tsvector('english', title || ' ' || description) @@ to_tsquery('english', ?)", tsquery).
			Clauses(clause.OrderBy{Expression: clause.Expr{
				SQL:  "ts_rank(to_tsvector('english', title || ' ' || description), to_tsquery('english', ?)) DESC",
				Vars: []interface{}{tsquery},
			}}).
			Limit(limit).
			Find(&resp.Issues).Error
		if err != nil {
			return nil, err
		}
		return resp, nil
	}

	// LIKE fallback for sqlite and mysql.
	trimmed := strings.TrimSpace(query)
	if len(trimmed) < searchMinLength {
		return nil, &ValidationError{Field: "q", Reason: fmt.Sprintf("must be at least %d characters", searchMinLength)}
	}
	if len(trimmed) > searchMaxLength {
		return nil, &ValidationError{Field: "q", Reason: fmt.Sprintf("must be at most %d characters", searchMaxLength)}
	}
	pattern := "%" + trimmed + "%"

	err := scopeProjects(db.Model(&models.Project{}), userID).
		Where("name LIKE ? OR key LIKE ?", pattern, pattern).
		Order("created_at DESC").
		Limit(limit).
		Find(&resp.Projects).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&models.Issue{}).
		Where("author_id = ?", userID).
		Where("title LIKE ? OR description LIKE ?", pattern, pattern).
		Order("created_at DESC").
		Limit(limit).
		Find(&resp.Issues).Error
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// parseSearchQuery converts free text to a tsquery expression: trims,
// validates length, strips quoting characters, lowercases, drops
// single-character words and joins the rest with the AND operator.
func parseSearchQuery(query string) (string, error) {
	query = strings.TrimSpace(query)

	if len(query) < searchMinLength {
		return "", &ValidationError{Field: "q", Reason: fmt.Sprintf("must be at least %d characters", searchMinLength)}
	}
	if len(query) > searchMaxLength {
		return "", &ValidationError{Field: "q", Reason: fmt.Sprintf("must be at most %d characters", searchMaxLength)}
	}

	replacer := strings.NewReplacer(`"`, "", "'", "", "(", "", ")", "", "&", "", "|", "", "!", "", ":", "")
	query = replacer.Replace(query)

	var terms []string
	for _, word := range strings.Fields(query) {
		if len(word) >= 2 {
			terms = append(terms, strings.ToLower(word))
		}
	}
	if len(terms) == 0 {
		return "", &ValidationError{Field: "q", Reason: "no valid search terms"}
	}

	return strings.Join(terms, " & "), nil
}
