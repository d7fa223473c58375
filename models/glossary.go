package models

// GlossaryTerm represents a source/target term pairing checked during
// glossary compliance
type GlossaryTerm struct {
	ID            string  `json:"id"`
	Source        string  `json:"source"`
	Target        string  `json:"target"`
	Domain        *string `json:"domain,omitempty"`
	CaseSensitive bool    `json:"case_sensitive"`
	Forbidden     bool    `json:"forbidden"`
}

// RuleType represents the kind of custom rule being applied
type RuleType string

const (
	RuleRegex     RuleType = "regex"
	RuleForbidden RuleType = "forbidden"
	RuleRequired  RuleType = "required"
)

// CustomRule represents a user-defined check applied to target text
type CustomRule struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Type        RuleType      `json:"type"`
	Pattern     string        `json:"pattern"`
	Description string        `json:"description"`
	Replacement *string       `json:"replacement,omitempty"`
	Severity    IssueSeverity `json:"severity"`
	Enabled     bool          `json:"enabled"`
}
