package models

import (
	"time"

	"github.com/google/uuid"
)

// Term represents a validated glossary entry in the term repository
type Term struct {
	ID           uuid.UUID `json:"id"`
	Term         string    `json:"term"`
	Domain       string    `json:"domain"`
	Language     string    `json:"language"`
	SemanticType *string   `json:"semantic_type,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Suggestion represents one entry in the central suggestion pool used for
// tier-3 recommendations
type Suggestion struct {
	ID           uuid.UUID `json:"id"`
	Term         string    `json:"term"`
	Domain       string    `json:"domain"`
	Language     string    `json:"language"`
	SemanticType *string   `json:"semantic_type,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
