package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RejectedTerms represents the alternatives a reviewer passed over
type RejectedTerms []string

// Value implements driver.Valuer for JSONB
func (r RejectedTerms) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements sql.Scanner for JSONB
func (r *RejectedTerms) Scan(value interface{}) error {
	if value == nil {
		*r = make(RejectedTerms, 0)
		return nil
	}

	// Handle different types that pgx might return for JSONB
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*r = make(RejectedTerms, 0)
		return nil
	}

	if len(bytes) == 0 {
		*r = make(RejectedTerms, 0)
		return nil
	}

	return json.Unmarshal(bytes, r)
}

// SelectionRecord represents one reviewer choice within a term group.
// Records are append-only; they are never updated or deleted.
type SelectionRecord struct {
	ID            uuid.UUID     `json:"id"`
	UserID        string        `json:"user_id"`
	BaseTermHash  string        `json:"base_term_hash"`
	BaseTerm      string        `json:"base_term"`
	SelectedTerm  string        `json:"selected_term"`
	RejectedTerms RejectedTerms `json:"rejected_terms"`
	Domain        string        `json:"domain"`
	Language      string        `json:"language"`
	ProjectID     *string       `json:"project_id,omitempty"`
	SessionID     *string       `json:"session_id,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// InterchangeableMatch represents a detected term together with its known
// acceptable alternatives in a domain
type InterchangeableMatch struct {
	BaseTerm     string   `json:"base_term"`
	DetectedTerm string   `json:"detected_term"`
	Alternatives []string `json:"alternatives"`
	Context      string   `json:"context"`
	Confidence   float64  `json:"confidence"`
	Domain       string   `json:"domain"`
}

// TermUsage represents an aggregate selection count for one term in a domain
type TermUsage struct {
	Term       string `json:"term"`
	Selections int    `json:"selections"`
}
