package service

import (
	"context"
	"log"
	"math"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

// Scorer computes a similarity score in [0,1] between a query term and a
// candidate term. Implementations must be deterministic for identical inputs
// or degrade to a deterministic fallback.
type Scorer interface {
	Score(ctx context.Context, term, candidate string) (float64, error)
}

// TokenOverlapScorer scores by word-set overlap: shared words divided by the
// larger word-set size. It is the deterministic fallback used when no
// embedding model is configured.
type TokenOverlapScorer struct{}

// NewTokenOverlapScorer creates the fallback scorer
func NewTokenOverlapScorer() *TokenOverlapScorer {
	return &TokenOverlapScorer{}
}

// Score computes word-set overlap between two terms
func (s *TokenOverlapScorer) Score(ctx context.Context, term, candidate string) (float64, error) {
	termWords := wordSet(term)
	candidateWords := wordSet(candidate)

	if len(termWords) == 0 || len(candidateWords) == 0 {
		return 0, nil
	}

	shared := 0
	for w := range termWords {
		if _, ok := candidateWords[w]; ok {
			shared++
		}
	}

	if shared == 0 {
		return 0, nil
	}

	larger := len(termWords)
	if len(candidateWords) > larger {
		larger = len(candidateWords)
	}

	return float64(shared) / float64(larger), nil
}

func wordSet(s string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// EmbeddingScorer scores by cosine similarity of Gemini embeddings. Any API
// failure degrades to the fallback scorer so a slow or unreachable model
// never breaks validation.
type EmbeddingScorer struct {
	model    *genai.EmbeddingModel
	fallback Scorer
}

// NewEmbeddingScorer creates an embedding-backed scorer with a deterministic
// fallback
func NewEmbeddingScorer(client *genai.Client, fallback Scorer) *EmbeddingScorer {
	if fallback == nil {
		fallback = NewTokenOverlapScorer()
	}
	return &EmbeddingScorer{
		model:    client.EmbeddingModel("gemini-embedding-001"),
		fallback: fallback,
	}
}

// Score computes cosine similarity between term embeddings
func (s *EmbeddingScorer) Score(ctx context.Context, term, candidate string) (float64, error) {
	termEmb, err := s.embed(ctx, term)
	if err != nil {
		log.Printf("Warning: embedding failed for %q, using fallback scorer: %v", term, err)
		return s.fallback.Score(ctx, term, candidate)
	}

	candidateEmb, err := s.embed(ctx, candidate)
	if err != nil {
		log.Printf("Warning: embedding failed for %q, using fallback scorer: %v", candidate, err)
		return s.fallback.Score(ctx, term, candidate)
	}

	sim := cosineSimilarity(termEmb, candidateEmb)
	if sim < 0 {
		sim = 0
	}
	if sim > 1 {
		sim = 1
	}
	return sim, nil
}

func (s *EmbeddingScorer) embed(ctx context.Context, text string) ([]float32, error) {
	res, err := s.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}
	return res.Embedding.Values, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
