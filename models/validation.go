package models

// FallbackTier identifies which stage of the validation fallback chain
// produced a result
type FallbackTier string

const (
	TierRepository FallbackTier = "tier_1_repository"
	TierSemantic   FallbackTier = "tier_2_semantic"
	TierRecommend  FallbackTier = "tier_3_recommend"
)

// ValidationResult represents the outcome of validating a single term
type ValidationResult struct {
	Term            string       `json:"term"`
	IsValid         bool         `json:"is_valid"`
	Confidence      float64      `json:"confidence"`
	FallbackTier    FallbackTier `json:"fallback_tier"`
	Rationale       string       `json:"rationale"`
	RecommendedTerm *string      `json:"recommended_term,omitempty"`
	SemanticType    *string      `json:"semantic_type,omitempty"`
	DomainMatch     bool         `json:"domain_match"`
	LanguageMatch   bool         `json:"language_match"`
}

// SemanticInference represents the outcome of semantic type inference.
// Consumed only by the tier-2 validation path.
type SemanticInference struct {
	SemanticType    string   `json:"semantic_type"`
	Confidence      float64  `json:"confidence"`
	ContextKeywords []string `json:"context_keywords"`
	DomainRelevance float64  `json:"domain_relevance"`
}
