package repository

import (
	"context"
	"strings"

	"lexiq-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SuggestionRepository handles database operations for the central
// suggestion pool
type SuggestionRepository struct {
	db *pgxpool.Pool
}

// NewSuggestionRepository creates a new suggestion repository
func NewSuggestionRepository(db *pgxpool.Pool) *SuggestionRepository {
	return &SuggestionRepository{db: db}
}

// ListByDomainLanguage returns pool entries matching both domain and language
func (r *SuggestionRepository) ListByDomainLanguage(ctx context.Context, domain, language string) ([]models.Suggestion, error) {
	query := `
		SELECT id, term, domain, language, semantic_type, created_at
		FROM suggestions
		WHERE lower(domain) = $1 AND lower(language) = $2
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, strings.ToLower(domain), strings.ToLower(language))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSuggestions(rows)
}

// ListByLanguage returns pool entries matching the language only
func (r *SuggestionRepository) ListByLanguage(ctx context.Context, language string) ([]models.Suggestion, error) {
	query := `
		SELECT id, term, domain, language, semantic_type, created_at
		FROM suggestions
		WHERE lower(language) = $1
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, strings.ToLower(language))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSuggestions(rows)
}

// Create inserts a new suggestion pool entry
func (r *SuggestionRepository) Create(ctx context.Context, s *models.Suggestion) error {
	query := `
		INSERT INTO suggestions (term, domain, language, semantic_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return r.db.QueryRow(
		ctx, query,
		s.Term,
		s.Domain,
		s.Language,
		s.SemanticType,
	).Scan(&s.ID, &s.CreatedAt)
}

func scanSuggestions(rows pgx.Rows) ([]models.Suggestion, error) {
	var suggestions []models.Suggestion
	for rows.Next() {
		var s models.Suggestion
		err := rows.Scan(
			&s.ID,
			&s.Term,
			&s.Domain,
			&s.Language,
			&s.SemanticType,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		suggestions = append(suggestions, s)
	}

	return suggestions, rows.Err()
}
