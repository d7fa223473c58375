package repository

import (
	"context"
	"errors"
	"strings"

	"lexiq-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TermRepository handles database operations for glossary terms
type TermRepository struct {
	db *pgxpool.Pool
}

// NewTermRepository creates a new term repository
func NewTermRepository(db *pgxpool.Pool) *TermRepository {
	return &TermRepository{db: db}
}

// LookupExact finds a term matching domain AND language. A miss returns
// (nil, nil); it is a normal terminal state, not an error.
func (r *TermRepository) LookupExact(ctx context.Context, term, domain, language string) (*models.Term, error) {
	query := `
		SELECT id, term, domain, language, semantic_type, created_at, updated_at
		FROM terms
		WHERE lower(term) = $1 AND lower(domain) = $2 AND lower(language) = $3
		LIMIT 1`

	row := r.db.QueryRow(ctx, query,
		strings.ToLower(strings.TrimSpace(term)),
		strings.ToLower(domain),
		strings.ToLower(language),
	)

	return scanTerm(row)
}

// LookupLoose finds a term matching domain OR language
func (r *TermRepository) LookupLoose(ctx context.Context, term, domain, language string) (*models.Term, error) {
	query := `
		SELECT id, term, domain, language, semantic_type, created_at, updated_at
		FROM terms
		WHERE lower(term) = $1 AND (lower(domain) = $2 OR lower(language) = $3)
		LIMIT 1`

	row := r.db.QueryRow(ctx, query,
		strings.ToLower(strings.TrimSpace(term)),
		strings.ToLower(domain),
		strings.ToLower(language),
	)

	return scanTerm(row)
}

// Create inserts a new glossary term
func (r *TermRepository) Create(ctx context.Context, term *models.Term) error {
	query := `
		INSERT INTO terms (term, domain, language, semantic_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRow(
		ctx, query,
		term.Term,
		term.Domain,
		term.Language,
		term.SemanticType,
	).Scan(&term.ID, &term.CreatedAt, &term.UpdatedAt)
}

func scanTerm(row pgx.Row) (*models.Term, error) {
	term := &models.Term{}
	err := row.Scan(
		&term.ID,
		&term.Term,
		&term.Domain,
		&term.Language,
		&term.SemanticType,
		&term.CreatedAt,
		&term.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return term, nil
}
