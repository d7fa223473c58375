package repository

import (
	"context"

	"lexiq-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SelectionRepository handles database operations for reviewer term
// selections. Selections are append-only.
type SelectionRepository struct {
	db *pgxpool.Pool
}

// NewSelectionRepository creates a new selection repository
func NewSelectionRepository(db *pgxpool.Pool) *SelectionRepository {
	return &SelectionRepository{db: db}
}

// Append stores a new selection record
func (r *SelectionRepository) Append(ctx context.Context, sel *models.SelectionRecord) error {
	query := `
		INSERT INTO hot_match_selections (
			user_id, base_term_hash, base_term, selected_term, rejected_terms,
			domain, language, project_id, session_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	return r.db.QueryRow(
		ctx, query,
		sel.UserID,
		sel.BaseTermHash,
		sel.BaseTerm,
		sel.SelectedTerm,
		sel.RejectedTerms,
		sel.Domain,
		sel.Language,
		sel.ProjectID,
		sel.SessionID,
	).Scan(&sel.ID, &sel.CreatedAt)
}

// ListByGroupHash returns every selection recorded for a term group
func (r *SelectionRepository) ListByGroupHash(ctx context.Context, hash string) ([]models.SelectionRecord, error) {
	query := `
		SELECT id, user_id, base_term_hash, base_term, selected_term, rejected_terms,
			domain, language, project_id, session_id, created_at
		FROM hot_match_selections
		WHERE base_term_hash = $1
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, hash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSelections(rows)
}

// ListByUser returns a user's most recent selections
func (r *SelectionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.SelectionRecord, error) {
	query := `
		SELECT id, user_id, base_term_hash, base_term, selected_term, rejected_terms,
			domain, language, project_id, session_id, created_at
		FROM hot_match_selections
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSelections(rows)
}

// TrendingByDomain returns the most selected terms in a domain
func (r *SelectionRepository) TrendingByDomain(ctx context.Context, domain string, limit int) ([]models.TermUsage, error) {
	query := `
		SELECT selected_term, COUNT(*) AS selections
		FROM hot_match_selections
		WHERE lower(domain) = lower($1)
		GROUP BY selected_term
		ORDER BY selections DESC, selected_term
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, domain, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usage []models.TermUsage
	for rows.Next() {
		var u models.TermUsage
		if err := rows.Scan(&u.Term, &u.Selections); err != nil {
			return nil, err
		}
		usage = append(usage, u)
	}

	return usage, rows.Err()
}

func scanSelections(rows pgx.Rows) ([]models.SelectionRecord, error) {
	var selections []models.SelectionRecord
	for rows.Next() {
		var sel models.SelectionRecord
		err := rows.Scan(
			&sel.ID,
			&sel.UserID,
			&sel.BaseTermHash,
			&sel.BaseTerm,
			&sel.SelectedTerm,
			&sel.RejectedTerms,
			&sel.Domain,
			&sel.Language,
			&sel.ProjectID,
			&sel.SessionID,
			&sel.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		selections = append(selections, sel)
	}

	return selections, rows.Err()
}
