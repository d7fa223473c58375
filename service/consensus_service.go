package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"log"
	"strings"
	"sync"
	"time"

	"lexiq-backend/cache"
	"lexiq-backend/models"
)

// SelectionStore is the external append-only store for reviewer selections
type SelectionStore interface {
	Append(ctx context.Context, sel *models.SelectionRecord) error
	ListByGroupHash(ctx context.Context, hash string) ([]models.SelectionRecord, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.SelectionRecord, error)
	TrendingByDomain(ctx context.Context, domain string, limit int) ([]models.TermUsage, error)
}

// percentageCacheTTL bounds how long recomputed group percentages stay cached
const percentageCacheTTL = time.Hour

// ConsensusService records reviewer term selections and serves per-group
// usage percentages. Writes to the same group are serialized by a per-group
// lock so a stale recompute cannot overwrite a newer one.
type ConsensusService struct {
	store SelectionStore
	cache cache.Cache

	// one mutex per group hash
	groupLocks sync.Map
}

// ConsensusServiceOption is a functional option for ConsensusService
type ConsensusServiceOption func(*ConsensusService)

// WithSelectionStore sets the selection store
func WithSelectionStore(store SelectionStore) ConsensusServiceOption {
	return func(s *ConsensusService) {
		s.store = store
	}
}

// WithPercentageCache sets the percentage cache
func WithPercentageCache(c cache.Cache) ConsensusServiceOption {
	return func(s *ConsensusService) {
		s.cache = c
	}
}

// NewConsensusService creates a new consensus service
func NewConsensusService(opts ...ConsensusServiceOption) *ConsensusService {
	s := &ConsensusService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GroupHash returns the stable identifier for a term group. It is
// case-insensitive over both inputs.
func GroupHash(baseTerm, domain string) string {
	sum := md5.Sum([]byte(strings.ToLower(baseTerm) + strings.ToLower(domain)))
	return hex.EncodeToString(sum[:])
}

// RecordSelectionRequest represents one reviewer choice to record
type RecordSelectionRequest struct {
	BaseTerm      string
	SelectedTerm  string
	RejectedTerms []string
	Domain        string
	Language      string
	ProjectID     *string
	SessionID     *string
}

// RecordSelection appends a selection record and recomputes the group's
// percentage cache
func (s *ConsensusService) RecordSelection(ctx context.Context, userID string, req RecordSelectionRequest) error {
	if s.store == nil {
		log.Printf("Warning: no selection store configured, dropping selection for %q", req.BaseTerm)
		return nil
	}

	hash := GroupHash(req.BaseTerm, req.Domain)

	mu := s.lockFor(hash)
	mu.Lock()
	defer mu.Unlock()

	sel := &models.SelectionRecord{
		UserID:        userID,
		BaseTermHash:  hash,
		BaseTerm:      req.BaseTerm,
		SelectedTerm:  req.SelectedTerm,
		RejectedTerms: req.RejectedTerms,
		Domain:        req.Domain,
		Language:      req.Language,
		ProjectID:     req.ProjectID,
		SessionID:     req.SessionID,
	}
	if sel.RejectedTerms == nil {
		sel.RejectedTerms = models.RejectedTerms{}
	}

	if err := s.store.Append(ctx, sel); err != nil {
		return err
	}

	s.recomputeGroup(ctx, hash)
	return nil
}

// GetPercentage returns the usage percentage of a term within its group.
// Unseen terms and unavailable stores both yield 0.
func (s *ConsensusService) GetPercentage(ctx context.Context, hash, term string) float64 {
	percentages := s.groupPercentages(ctx, hash)
	return percentages[strings.ToLower(term)]
}

// GetAllPercentages returns the usage percentage for each requested term,
// defaulting unseen terms to 0
func (s *ConsensusService) GetAllPercentages(ctx context.Context, hash string, terms []string) map[string]float64 {
	percentages := s.groupPercentages(ctx, hash)

	result := make(map[string]float64, len(terms))
	for _, term := range terms {
		result[term] = percentages[strings.ToLower(term)]
	}
	return result
}

// UserHistory returns a user's most recent selections
func (s *ConsensusService) UserHistory(ctx context.Context, userID string, limit int) []models.SelectionRecord {
	if s.store == nil {
		return nil
	}
	if limit <= 0 {
		limit = 50
	}

	selections, err := s.store.ListByUser(ctx, userID, limit)
	if err != nil {
		log.Printf("Warning: failed to load selection history for user %q: %v", userID, err)
		return nil
	}
	return selections
}

// TrendingTerms returns the most selected terms in a domain
func (s *ConsensusService) TrendingTerms(ctx context.Context, domain string, limit int) []models.TermUsage {
	if s.store == nil {
		return nil
	}
	if limit <= 0 {
		limit = 10
	}

	usage, err := s.store.TrendingByDomain(ctx, domain, limit)
	if err != nil {
		log.Printf("Warning: failed to load trending terms for domain %q: %v", domain, err)
		return nil
	}
	return usage
}

// groupPercentages returns the cached percentage map for a group,
// recomputing and repopulating the cache on a miss
func (s *ConsensusService) groupPercentages(ctx context.Context, hash string) map[string]float64 {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, percentageCacheKey(hash)); ok {
			if percentages, ok := cached.(map[string]float64); ok {
				return percentages
			}
		}
	}

	mu := s.lockFor(hash)
	mu.Lock()
	defer mu.Unlock()

	return s.recomputeGroup(ctx, hash)
}

// recomputeGroup derives the full percentage map from the store and
// publishes it to the cache. Callers must hold the group lock.
func (s *ConsensusService) recomputeGroup(ctx context.Context, hash string) map[string]float64 {
	percentages := make(map[string]float64)

	if s.store == nil {
		return percentages
	}

	selections, err := s.store.ListByGroupHash(ctx, hash)
	if err != nil {
		log.Printf("Warning: failed to load selections for group %s: %v", hash, err)
		return percentages
	}

	if len(selections) == 0 {
		return percentages
	}

	counts := make(map[string]int)
	for _, sel := range selections {
		term := strings.ToLower(sel.SelectedTerm)
		if term != "" {
			counts[term]++
		}
	}

	total := float64(len(selections))
	for term, count := range counts {
		percentages[term] = float64(count) / total * 100
	}

	if s.cache != nil {
		s.cache.Set(ctx, percentageCacheKey(hash), percentages, percentageCacheTTL)
	}

	return percentages
}

func (s *ConsensusService) lockFor(hash string) *sync.Mutex {
	mu, _ := s.groupLocks.LoadOrStore(hash, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func percentageCacheKey(hash string) string {
	return "hot_match:" + hash
}
