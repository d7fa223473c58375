package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"lexiq-backend/cache"
	"lexiq-backend/models"

	"github.com/google/uuid"
)

type fakeSelectionStore struct {
	mu         sync.Mutex
	records    []models.SelectionRecord
	listCalls  int
	appendErr  error
	listErr    error
	historyErr error
}

func (f *fakeSelectionStore) Append(ctx context.Context, sel *models.SelectionRecord) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	sel.ID = uuid.New()
	sel.CreatedAt = time.Now()
	f.records = append(f.records, *sel)
	return nil
}

func (f *fakeSelectionStore) ListByGroupHash(ctx context.Context, hash string) ([]models.SelectionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.SelectionRecord
	for _, r := range f.records {
		if r.BaseTermHash == hash {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSelectionStore) ListByUser(ctx context.Context, userID string, limit int) ([]models.SelectionRecord, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.SelectionRecord
	for i := len(f.records) - 1; i >= 0 && len(out) < limit; i-- {
		if f.records[i].UserID == userID {
			out = append(out, f.records[i])
		}
	}
	return out, nil
}

func (f *fakeSelectionStore) TrendingByDomain(ctx context.Context, domain string, limit int) ([]models.TermUsage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int)
	for _, r := range f.records {
		if r.Domain == domain {
			counts[r.SelectedTerm]++
		}
	}
	var out []models.TermUsage
	for term, n := range counts {
		out = append(out, models.TermUsage{Term: term, Selections: n})
	}
	return out, nil
}

func newConsensusService(store SelectionStore) *ConsensusService {
	return NewConsensusService(
		WithSelectionStore(store),
		WithPercentageCache(cache.NewMemory()),
	)
}

func recordChoice(t *testing.T, s *ConsensusService, userID, baseTerm, selected string) {
	t.Helper()
	err := s.RecordSelection(context.Background(), userID, RecordSelectionRequest{
		BaseTerm:     baseTerm,
		SelectedTerm: selected,
		Domain:       "technology",
		Language:     "en",
	})
	if err != nil {
		t.Fatalf("RecordSelection(%q) error = %v", selected, err)
	}
}

func TestGroupHash(t *testing.T) {
	base := GroupHash("implementation", "technology")

	if len(base) != 32 {
		t.Errorf("hash length = %d, want 32 hex chars", len(base))
	}
	if GroupHash("Implementation", "TECHNOLOGY") != base {
		t.Error("GroupHash should be case-insensitive")
	}
	if GroupHash("implementation", "medical") == base {
		t.Error("distinct domains should produce distinct hashes")
	}
}

func TestRecordSelectionPercentages(t *testing.T) {
	store := &fakeSelectionStore{}
	s := newConsensusService(store)
	ctx := context.Background()

	recordChoice(t, s, "u1", "implementation", "deployment")
	recordChoice(t, s, "u2", "implementation", "deployment")
	recordChoice(t, s, "u3", "implementation", "rollout")

	hash := GroupHash("implementation", "technology")

	got := s.GetPercentage(ctx, hash, "deployment")
	if math.Abs(got-66.6666) > 0.01 {
		t.Errorf("deployment percentage = %v, want ~66.67", got)
	}
	got = s.GetPercentage(ctx, hash, "rollout")
	if math.Abs(got-33.3333) > 0.01 {
		t.Errorf("rollout percentage = %v, want ~33.33", got)
	}

	all := s.GetAllPercentages(ctx, hash, []string{"deployment", "rollout"})
	sum := all["deployment"] + all["rollout"]
	if math.Abs(sum-100) > 0.01 {
		t.Errorf("percentages sum = %v, want 100", sum)
	}
}

func TestGetPercentageCaseInsensitiveTerm(t *testing.T) {
	store := &fakeSelectionStore{}
	s := newConsensusService(store)

	recordChoice(t, s, "u1", "implementation", "Deployment")

	hash := GroupHash("implementation", "technology")
	if got := s.GetPercentage(context.Background(), hash, "deployment"); got != 100 {
		t.Errorf("percentage = %v, want 100 regardless of case", got)
	}
}

func TestGetPercentageUnseenTerm(t *testing.T) {
	store := &fakeSelectionStore{}
	s := newConsensusService(store)

	recordChoice(t, s, "u1", "implementation", "deployment")

	hash := GroupHash("implementation", "technology")
	if got := s.GetPercentage(context.Background(), hash, "integration"); got != 0 {
		t.Errorf("unseen term percentage = %v, want 0", got)
	}

	all := s.GetAllPercentages(context.Background(), hash, []string{"deployment", "integration"})
	if all["integration"] != 0 {
		t.Errorf("unseen term in map = %v, want 0", all["integration"])
	}
}

func TestRecordSelectionPopulatesCache(t *testing.T) {
	store := &fakeSelectionStore{}
	s := newConsensusService(store)
	ctx := context.Background()

	recordChoice(t, s, "u1", "implementation", "deployment")

	callsAfterWrite := store.listCalls
	hash := GroupHash("implementation", "technology")
	s.GetPercentage(ctx, hash, "deployment")
	s.GetPercentage(ctx, hash, "rollout")

	if store.listCalls != callsAfterWrite {
		t.Errorf("reads after a write should hit the cache, store queried %d extra times", store.listCalls-callsAfterWrite)
	}
}

func TestRecordSelectionWithoutStore(t *testing.T) {
	s := NewConsensusService()

	err := s.RecordSelection(context.Background(), "u1", RecordSelectionRequest{
		BaseTerm:     "implementation",
		SelectedTerm: "deployment",
		Domain:       "technology",
		Language:     "en",
	})
	if err != nil {
		t.Errorf("RecordSelection() error = %v, want graceful drop", err)
	}

	if got := s.GetPercentage(context.Background(), "deadbeef", "deployment"); got != 0 {
		t.Errorf("percentage without store = %v, want 0", got)
	}
}

func TestRecordSelectionStoreFailure(t *testing.T) {
	store := &fakeSelectionStore{appendErr: errors.New("disk full")}
	s := newConsensusService(store)

	err := s.RecordSelection(context.Background(), "u1", RecordSelectionRequest{
		BaseTerm:     "implementation",
		SelectedTerm: "deployment",
		Domain:       "technology",
		Language:     "en",
	})
	if err == nil {
		t.Error("RecordSelection() should surface store failures")
	}
}

func TestUserHistory(t *testing.T) {
	store := &fakeSelectionStore{}
	s := newConsensusService(store)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		recordChoice(t, s, "u1", "implementation", fmt.Sprintf("term-%d", i))
	}
	recordChoice(t, s, "u2", "implementation", "deployment")

	history := s.UserHistory(ctx, "u1", 3)
	if len(history) != 3 {
		t.Fatalf("history = %d records, want 3", len(history))
	}
	if history[0].SelectedTerm != "term-4" {
		t.Errorf("first record = %q, want the most recent term-4", history[0].SelectedTerm)
	}

	if got := s.UserHistory(ctx, "nobody", 10); len(got) != 0 {
		t.Errorf("history for unknown user = %d records, want 0", len(got))
	}
}

func TestUserHistoryStoreFailure(t *testing.T) {
	store := &fakeSelectionStore{historyErr: errors.New("timeout")}
	s := newConsensusService(store)

	if got := s.UserHistory(context.Background(), "u1", 10); got != nil {
		t.Errorf("history on store failure = %v, want nil", got)
	}
}

func TestTrendingTerms(t *testing.T) {
	store := &fakeSelectionStore{}
	s := newConsensusService(store)

	recordChoice(t, s, "u1", "implementation", "deployment")
	recordChoice(t, s, "u2", "implementation", "deployment")
	recordChoice(t, s, "u3", "implementation", "rollout")

	trending := s.TrendingTerms(context.Background(), "technology", 10)
	if len(trending) != 2 {
		t.Fatalf("trending = %d terms, want 2: %+v", len(trending), trending)
	}
}

func TestConcurrentSelections(t *testing.T) {
	store := &fakeSelectionStore{}
	s := newConsensusService(store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			term := "deployment"
			if n%2 == 0 {
				term = "rollout"
			}
			err := s.RecordSelection(ctx, fmt.Sprintf("u%d", n), RecordSelectionRequest{
				BaseTerm:     "implementation",
				SelectedTerm: term,
				Domain:       "technology",
				Language:     "en",
			})
			if err != nil {
				t.Errorf("RecordSelection() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	hash := GroupHash("implementation", "technology")
	all := s.GetAllPercentages(ctx, hash, []string{"deployment", "rollout"})
	if all["deployment"] != 50 || all["rollout"] != 50 {
		t.Errorf("percentages = %v, want an even 50/50 split", all)
	}
}
