package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"lexiq-backend/models"
	"lexiq-backend/patterns"
)

// TermLookup is the external term repository consumed by tier 1
type TermLookup interface {
	LookupExact(ctx context.Context, term, domain, language string) (*models.Term, error)
	LookupLoose(ctx context.Context, term, domain, language string) (*models.Term, error)
}

// SuggestionSource is the central suggestion pool consumed by tier 3
type SuggestionSource interface {
	ListByDomainLanguage(ctx context.Context, domain, language string) ([]models.Suggestion, error)
	ListByLanguage(ctx context.Context, language string) ([]models.Suggestion, error)
}

// ValidatorConfig holds the empirically tuned validation thresholds. They
// carry no documented derivation; override with care.
type ValidatorConfig struct {
	// SemanticAcceptance is the minimum tier-2 confidence before falling
	// through to tier 3
	SemanticAcceptance float64

	// KeywordBoost is the confidence boost per matched context keyword
	KeywordBoost float64

	// RecommendThreshold is the minimum similarity score for a tier-3
	// recommendation
	RecommendThreshold float64
}

// DefaultValidatorConfig returns the standard thresholds
func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{
		SemanticAcceptance: 0.6,
		KeywordBoost:       0.1,
		RecommendThreshold: 0.3,
	}
}

// ValidatorService validates terms through a three-tier fallback chain:
// repository lookup, semantic inference, pool recommendation
type ValidatorService struct {
	termRepo       TermLookup
	suggestionRepo SuggestionSource
	tables         *patterns.Tables
	scorer         Scorer
	cfg            ValidatorConfig
}

// ValidatorServiceOption is a functional option for ValidatorService
type ValidatorServiceOption func(*ValidatorService)

// WithTermRepository sets the term repository used by tier 1
func WithTermRepository(repo TermLookup) ValidatorServiceOption {
	return func(s *ValidatorService) {
		s.termRepo = repo
	}
}

// WithSuggestionRepository sets the suggestion pool used by tier 3
func WithSuggestionRepository(repo SuggestionSource) ValidatorServiceOption {
	return func(s *ValidatorService) {
		s.suggestionRepo = repo
	}
}

// WithPatternTables sets the pattern tables used by tier 2
func WithPatternTables(tables *patterns.Tables) ValidatorServiceOption {
	return func(s *ValidatorService) {
		s.tables = tables
	}
}

// WithScorer sets the similarity scorer used by tier 3
func WithScorer(scorer Scorer) ValidatorServiceOption {
	return func(s *ValidatorService) {
		s.scorer = scorer
	}
}

// WithValidatorConfig overrides the validation thresholds
func WithValidatorConfig(cfg ValidatorConfig) ValidatorServiceOption {
	return func(s *ValidatorService) {
		s.cfg = cfg
	}
}

// NewValidatorService creates a new validator service
func NewValidatorService(opts ...ValidatorServiceOption) *ValidatorService {
	s := &ValidatorService{
		tables: patterns.Default(),
		scorer: NewTokenOverlapScorer(),
		cfg:    DefaultValidatorConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateTermRequest represents a request to validate a single term
type ValidateTermRequest struct {
	Term     string
	Domain   string
	Language string
	Context  string
}

// TermInput represents one term in a batch validation request
type TermInput struct {
	Text    string
	Context string
}

// ValidateTerm validates a term by escalating through the fallback tiers.
// A miss at every tier is a normal terminal outcome, not an error.
func (s *ValidatorService) ValidateTerm(ctx context.Context, req ValidateTermRequest) *models.ValidationResult {
	if strings.TrimSpace(req.Term) == "" {
		return &models.ValidationResult{
			Term:         req.Term,
			IsValid:      false,
			Confidence:   0,
			FallbackTier: models.TierRepository,
			Rationale:    "Empty term cannot be validated",
		}
	}

	if result := s.tier1Lookup(ctx, req); result != nil {
		return result
	}

	if result := s.tier2Semantic(req); result != nil {
		return result
	}

	return s.tier3Recommend(ctx, req)
}

// BatchValidateTerms validates multiple terms against the same domain and
// language
func (s *ValidatorService) BatchValidateTerms(ctx context.Context, terms []TermInput, domain, language string) []*models.ValidationResult {
	results := make([]*models.ValidationResult, 0, len(terms))
	for _, t := range terms {
		results = append(results, s.ValidateTerm(ctx, ValidateTermRequest{
			Term:     t.Text,
			Domain:   domain,
			Language: language,
			Context:  t.Context,
		}))
	}
	return results
}

// tier1Lookup queries the term repository for exact then loose matches.
// Repository unavailability degrades to a miss.
func (s *ValidatorService) tier1Lookup(ctx context.Context, req ValidateTermRequest) *models.ValidationResult {
	if s.termRepo == nil {
		return nil
	}

	exact, err := s.termRepo.LookupExact(ctx, req.Term, req.Domain, req.Language)
	if err != nil {
		log.Printf("Warning: tier 1 exact lookup failed for %q: %v", req.Term, err)
		return nil
	}
	if exact != nil {
		return &models.ValidationResult{
			Term:          req.Term,
			IsValid:       true,
			Confidence:    1.0,
			FallbackTier:  models.TierRepository,
			Rationale:     "Exact match found in term repository",
			SemanticType:  exact.SemanticType,
			DomainMatch:   true,
			LanguageMatch: true,
		}
	}

	loose, err := s.termRepo.LookupLoose(ctx, req.Term, req.Domain, req.Language)
	if err != nil {
		log.Printf("Warning: tier 1 loose lookup failed for %q: %v", req.Term, err)
		return nil
	}
	if loose != nil {
		domainMatch := strings.EqualFold(loose.Domain, req.Domain)
		languageMatch := strings.EqualFold(loose.Language, req.Language)
		return &models.ValidationResult{
			Term:          req.Term,
			IsValid:       true,
			Confidence:    0.8,
			FallbackTier:  models.TierRepository,
			Rationale:     fmt.Sprintf("Partial match found (domain: %t, language: %t)", domainMatch, languageMatch),
			SemanticType:  loose.SemanticType,
			DomainMatch:   domainMatch,
			LanguageMatch: languageMatch,
		}
	}

	return nil
}

// tier2Semantic infers a semantic type from the pattern tables and scores
// domain relevance from keyword occurrences in the context
func (s *ValidatorService) tier2Semantic(req ValidateTermRequest) *models.ValidationResult {
	inference := s.inferSemanticType(req.Term, req.Domain, req.Context)

	if inference.Confidence < s.cfg.SemanticAcceptance {
		return nil
	}

	domainRelevant := inference.DomainRelevance >= 0.5

	rationale := []string{
		fmt.Sprintf("Semantic type: %s", inference.SemanticType),
		fmt.Sprintf("Confidence: %.2f", inference.Confidence),
		fmt.Sprintf("Domain relevance: %.2f", inference.DomainRelevance),
	}
	if len(inference.ContextKeywords) > 0 {
		shown := inference.ContextKeywords
		if len(shown) > 3 {
			shown = shown[:3]
		}
		rationale = append(rationale, "Context keywords: "+strings.Join(shown, ", "))
	}

	semanticType := inference.SemanticType
	return &models.ValidationResult{
		Term:         req.Term,
		IsValid:      domainRelevant,
		Confidence:   inference.Confidence,
		FallbackTier: models.TierSemantic,
		Rationale:    strings.Join(rationale, " | "),
		SemanticType: &semanticType,
		DomainMatch:  domainRelevant,
		// No independent evidence against the language at this tier
		LanguageMatch: true,
	}
}

// tier3Recommend searches the suggestion pool for the closest candidate.
// This tier always terminates the chain.
func (s *ValidatorService) tier3Recommend(ctx context.Context, req ValidateTermRequest) *models.ValidationResult {
	noMatch := &models.ValidationResult{
		Term:          req.Term,
		IsValid:       false,
		Confidence:    0,
		FallbackTier:  models.TierRecommend,
		Rationale:     "No suitable recommendation found in suggestion pool",
		DomainMatch:   false,
		LanguageMatch: true,
	}

	if s.suggestionRepo == nil {
		return noMatch
	}

	pool, err := s.suggestionRepo.ListByDomainLanguage(ctx, req.Domain, req.Language)
	if err != nil {
		log.Printf("Warning: suggestion pool query failed for domain %q: %v", req.Domain, err)
		return noMatch
	}

	if len(pool) == 0 {
		pool, err = s.suggestionRepo.ListByLanguage(ctx, req.Language)
		if err != nil {
			log.Printf("Warning: suggestion pool query failed for language %q: %v", req.Language, err)
			return noMatch
		}
	}

	var best *models.Suggestion
	bestScore := 0.0
	for i := range pool {
		score, err := s.scorer.Score(ctx, req.Term, pool[i].Term)
		if err != nil {
			log.Printf("Warning: scorer failed for candidate %q: %v", pool[i].Term, err)
			continue
		}
		if score > bestScore {
			bestScore = score
			best = &pool[i]
		}
	}

	if best == nil || bestScore < s.cfg.RecommendThreshold {
		return noMatch
	}

	recommended := best.Term
	return &models.ValidationResult{
		Term:            req.Term,
		IsValid:         false,
		Confidence:      bestScore,
		FallbackTier:    models.TierRecommend,
		Rationale:       fmt.Sprintf("Auto-recommended from suggestion pool (similarity: %.2f)", bestScore),
		RecommendedTerm: &recommended,
		SemanticType:    best.SemanticType,
		DomainMatch:     strings.EqualFold(best.Domain, req.Domain),
		LanguageMatch:   true,
	}
}

// inferSemanticType classifies a term against the semantic pattern lists and
// measures domain relevance from keyword occurrences in the context
func (s *ValidatorService) inferSemanticType(term, domain, context string) models.SemanticInference {
	termLower := strings.ToLower(term)
	contextLower := strings.ToLower(context)

	keywords := s.tables.Keywords(domain)
	var contextKeywords []string
	for _, kw := range keywords {
		if strings.Contains(contextLower, strings.ToLower(kw)) {
			contextKeywords = append(contextKeywords, kw)
		}
	}

	denominator := len(keywords)
	if denominator < 1 {
		denominator = 1
	}
	domainRelevance := float64(len(contextKeywords)) / float64(denominator) * 2
	if domainRelevance > 1.0 {
		domainRelevance = 1.0
	}

	semanticType := "unknown"
	confidence := 0.5
	for _, stp := range s.tables.SemanticTypes {
		for _, pattern := range stp.Patterns {
			if strings.Contains(termLower, pattern) || strings.Contains(pattern, termLower) {
				semanticType = stp.Type
				confidence = 0.8
				break
			}
		}
		if confidence > 0.5 {
			break
		}
	}

	if len(contextKeywords) > 0 {
		confidence += s.cfg.KeywordBoost * float64(len(contextKeywords))
		if confidence > 1.0 {
			confidence = 1.0
		}
	}

	return models.SemanticInference{
		SemanticType:    semanticType,
		Confidence:      confidence,
		ContextKeywords: contextKeywords,
		DomainRelevance: domainRelevance,
	}
}
