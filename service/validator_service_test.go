package service

import (
	"context"
	"errors"
	"testing"

	"lexiq-backend/models"
)

type stubTermRepo struct {
	exact *models.Term
	loose *models.Term
	err   error
}

func (s *stubTermRepo) LookupExact(ctx context.Context, term, domain, language string) (*models.Term, error) {
	return s.exact, s.err
}

func (s *stubTermRepo) LookupLoose(ctx context.Context, term, domain, language string) (*models.Term, error) {
	return s.loose, s.err
}

type stubSuggestionRepo struct {
	byDomain []models.Suggestion
	byLang   []models.Suggestion
	err      error
}

func (s *stubSuggestionRepo) ListByDomainLanguage(ctx context.Context, domain, language string) ([]models.Suggestion, error) {
	return s.byDomain, s.err
}

func (s *stubSuggestionRepo) ListByLanguage(ctx context.Context, language string) ([]models.Suggestion, error) {
	return s.byLang, s.err
}

func TestValidateTermEmpty(t *testing.T) {
	s := NewValidatorService()

	result := s.ValidateTerm(context.Background(), ValidateTermRequest{Term: "   ", Domain: "technology", Language: "en"})

	if result.IsValid {
		t.Error("empty term should not be valid")
	}
	if result.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0", result.Confidence)
	}
	if result.FallbackTier != models.TierRepository {
		t.Errorf("FallbackTier = %v, want %v", result.FallbackTier, models.TierRepository)
	}
}

func TestValidateTermExactMatch(t *testing.T) {
	semanticType := "technical_term"
	s := NewValidatorService(
		WithTermRepository(&stubTermRepo{
			exact: &models.Term{Term: "api", Domain: "technology", Language: "en", SemanticType: &semanticType},
		}),
	)

	result := s.ValidateTerm(context.Background(), ValidateTermRequest{Term: "api", Domain: "technology", Language: "en"})

	if !result.IsValid {
		t.Error("exact match should be valid")
	}
	if result.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", result.Confidence)
	}
	if result.FallbackTier != models.TierRepository {
		t.Errorf("FallbackTier = %v, want %v", result.FallbackTier, models.TierRepository)
	}
	if !result.DomainMatch || !result.LanguageMatch {
		t.Errorf("DomainMatch = %v, LanguageMatch = %v, want both true", result.DomainMatch, result.LanguageMatch)
	}
	if result.SemanticType == nil || *result.SemanticType != semanticType {
		t.Errorf("SemanticType = %v, want %q", result.SemanticType, semanticType)
	}
}

func TestValidateTermLooseMatch(t *testing.T) {
	s := NewValidatorService(
		WithTermRepository(&stubTermRepo{
			loose: &models.Term{Term: "api", Domain: "finance", Language: "en"},
		}),
	)

	result := s.ValidateTerm(context.Background(), ValidateTermRequest{Term: "api", Domain: "technology", Language: "en"})

	if !result.IsValid {
		t.Error("loose match should be valid")
	}
	if result.Confidence != 0.8 {
		t.Errorf("Confidence = %v, want 0.8", result.Confidence)
	}
	if result.DomainMatch {
		t.Error("DomainMatch should be false for a cross-domain match")
	}
	if !result.LanguageMatch {
		t.Error("LanguageMatch should be true for a same-language match")
	}
}

func TestValidateTermRepositoryErrorFallsThrough(t *testing.T) {
	s := NewValidatorService(
		WithTermRepository(&stubTermRepo{err: errors.New("connection refused")}),
	)

	result := s.ValidateTerm(context.Background(), ValidateTermRequest{
		Term:     "database system",
		Domain:   "technology",
		Language: "en",
		Context:  "implementation deployment framework architecture",
	})

	if result.FallbackTier != models.TierSemantic {
		t.Fatalf("FallbackTier = %v, want %v", result.FallbackTier, models.TierSemantic)
	}
	if !result.IsValid {
		t.Error("domain-relevant semantic match should be valid")
	}
	if result.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0 after keyword boost", result.Confidence)
	}
}

func TestValidateTermSemanticWithoutContext(t *testing.T) {
	s := NewValidatorService()

	result := s.ValidateTerm(context.Background(), ValidateTermRequest{Term: "system", Domain: "technology", Language: "en"})

	if result.FallbackTier != models.TierSemantic {
		t.Fatalf("FallbackTier = %v, want %v", result.FallbackTier, models.TierSemantic)
	}
	if result.Confidence != 0.8 {
		t.Errorf("Confidence = %v, want 0.8", result.Confidence)
	}
	// No context keywords means no evidence of domain relevance
	if result.IsValid {
		t.Error("semantic match with zero domain relevance should not be valid")
	}
	if result.SemanticType == nil || *result.SemanticType != "technical_term" {
		t.Errorf("SemanticType = %v, want technical_term", result.SemanticType)
	}
}

func TestValidateTermRecommendation(t *testing.T) {
	s := NewValidatorService(
		WithSuggestionRepository(&stubSuggestionRepo{
			byDomain: []models.Suggestion{
				{Term: "capacitor data sheet", Domain: "technology", Language: "en"},
				{Term: "unrelated words entirely", Domain: "technology", Language: "en"},
			},
		}),
	)

	result := s.ValidateTerm(context.Background(), ValidateTermRequest{Term: "flux capacitor data", Domain: "technology", Language: "en"})

	if result.FallbackTier != models.TierRecommend {
		t.Fatalf("FallbackTier = %v, want %v", result.FallbackTier, models.TierRecommend)
	}
	if result.IsValid {
		t.Error("a recommendation is not a validation")
	}
	if result.RecommendedTerm == nil || *result.RecommendedTerm != "capacitor data sheet" {
		t.Errorf("RecommendedTerm = %v, want capacitor data sheet", result.RecommendedTerm)
	}
	if result.Confidence <= 0.3 {
		t.Errorf("Confidence = %v, want above the recommendation threshold", result.Confidence)
	}
}

func TestValidateTermRecommendationLanguageFallback(t *testing.T) {
	s := NewValidatorService(
		WithSuggestionRepository(&stubSuggestionRepo{
			byLang: []models.Suggestion{
				{Term: "flux capacitor", Domain: "general", Language: "en"},
			},
		}),
	)

	result := s.ValidateTerm(context.Background(), ValidateTermRequest{Term: "flux capacitor data", Domain: "technology", Language: "en"})

	if result.RecommendedTerm == nil {
		t.Fatal("expected a recommendation from the language-wide pool")
	}
	if result.DomainMatch {
		t.Error("DomainMatch should be false for a cross-domain recommendation")
	}
}

func TestValidateTermNoRecommendation(t *testing.T) {
	tests := []struct {
		name string
		repo SuggestionSource
	}{
		{name: "no pool configured", repo: nil},
		{name: "empty pool", repo: &stubSuggestionRepo{}},
		{name: "pool unavailable", repo: &stubSuggestionRepo{err: errors.New("timeout")}},
		{name: "nothing similar", repo: &stubSuggestionRepo{
			byDomain: []models.Suggestion{{Term: "completely different", Domain: "technology", Language: "en"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := []ValidatorServiceOption{}
			if tt.repo != nil {
				opts = append(opts, WithSuggestionRepository(tt.repo))
			}
			s := NewValidatorService(opts...)

			result := s.ValidateTerm(context.Background(), ValidateTermRequest{Term: "flux capacitor data", Domain: "technology", Language: "en"})

			if result.IsValid {
				t.Error("terminal miss should not be valid")
			}
			if result.FallbackTier != models.TierRecommend {
				t.Errorf("FallbackTier = %v, want %v", result.FallbackTier, models.TierRecommend)
			}
			if result.Confidence != 0 {
				t.Errorf("Confidence = %v, want 0", result.Confidence)
			}
			if result.RecommendedTerm != nil {
				t.Errorf("RecommendedTerm = %v, want nil", result.RecommendedTerm)
			}
		})
	}
}

func TestBatchValidateTerms(t *testing.T) {
	s := NewValidatorService(
		WithTermRepository(&stubTermRepo{
			exact: &models.Term{Term: "api", Domain: "technology", Language: "en"},
		}),
	)

	results := s.BatchValidateTerms(context.Background(), []TermInput{
		{Text: "api"},
		{Text: "endpoint"},
		{Text: ""},
	}, "technology", "en")

	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	if results[0].Term != "api" || results[1].Term != "endpoint" {
		t.Error("results should preserve input order")
	}
	if results[2].IsValid {
		t.Error("empty input should produce an invalid result")
	}
}

func TestTokenOverlapScorer(t *testing.T) {
	scorer := NewTokenOverlapScorer()
	ctx := context.Background()

	tests := []struct {
		name      string
		term      string
		candidate string
		want      float64
	}{
		{name: "identical", term: "data store", candidate: "data store", want: 1.0},
		{name: "partial overlap", term: "data store", candidate: "data warehouse", want: 0.5},
		{name: "disjoint", term: "data store", candidate: "message queue", want: 0},
		{name: "case insensitive", term: "Data Store", candidate: "data store", want: 1.0},
		{name: "empty term", term: "", candidate: "data", want: 0},
		{name: "size asymmetry", term: "data", candidate: "data store cluster node", want: 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scorer.Score(ctx, tt.term, tt.candidate)
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Score(%q, %q) = %v, want %v", tt.term, tt.candidate, got, tt.want)
			}
		})
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{name: "identical", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, want: 1.0},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "length mismatch", a: []float32{1, 2}, b: []float32{1}, want: 0},
		{name: "zero vector", a: []float32{0, 0}, b: []float32{1, 1}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("cosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}
