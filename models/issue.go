package models

// CheckType represents a category of consistency check
type CheckType string

const (
	CheckSegmentAlignment   CheckType = "segment_alignment"
	CheckGlossaryCompliance CheckType = "glossary_compliance"
	CheckCapitalization     CheckType = "capitalization"
	CheckPunctuation        CheckType = "punctuation"
	CheckNumberFormat       CheckType = "number_format"
	CheckWhitespace         CheckType = "whitespace"
	CheckTagPlaceholder     CheckType = "tag_placeholder"
	CheckCustomRule         CheckType = "custom_rule"
)

// AllCheckTypes returns every check type in execution order
func AllCheckTypes() []CheckType {
	return []CheckType{
		CheckSegmentAlignment,
		CheckGlossaryCompliance,
		CheckCapitalization,
		CheckPunctuation,
		CheckNumberFormat,
		CheckWhitespace,
		CheckTagPlaceholder,
		CheckCustomRule,
	}
}

// IssueSeverity represents the severity of a consistency issue
type IssueSeverity string

const (
	SeverityCritical IssueSeverity = "critical"
	SeverityMajor    IssueSeverity = "major"
	SeverityMinor    IssueSeverity = "minor"
	SeverityInfo     IssueSeverity = "info"
)

// Weight returns the quality-score penalty for this severity
func (s IssueSeverity) Weight() int {
	switch s {
	case SeverityCritical:
		return 10
	case SeverityMajor:
		return 5
	case SeverityMinor:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// Issue represents a single consistency defect found in a target segment.
// Issues are immutable once produced.
type Issue struct {
	ID            string        `json:"id"`
	Type          CheckType     `json:"type"`
	Severity      IssueSeverity `json:"severity"`
	TargetText    string        `json:"target_text"`
	StartPosition int           `json:"start_position"`
	EndPosition   int           `json:"end_position"`
	Context       string        `json:"context"`
	Message       string        `json:"message"`
	Rationale     string        `json:"rationale"`
	Suggestions   []string      `json:"suggestions"`
	Confidence    float64       `json:"confidence"`
	AutoFixable   bool          `json:"auto_fixable"`
	SourceText    *string       `json:"source_text,omitempty"`
	RuleID        *string       `json:"rule_id,omitempty"`
}

// Statistics aggregates an issue collection into a single quality verdict
type Statistics struct {
	TotalIssues       int               `json:"total_issues"`
	CriticalIssues    int               `json:"critical_issues"`
	MajorIssues       int               `json:"major_issues"`
	MinorIssues       int               `json:"minor_issues"`
	InfoIssues        int               `json:"info_issues"`
	IssuesByType      map[CheckType]int `json:"issues_by_type"`
	QualityScore      float64           `json:"quality_score"`
	AverageConfidence float64           `json:"average_confidence"`
}
