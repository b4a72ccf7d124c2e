package cv

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobdeck-api/internal/config"
	"jobdeck-api/pkg/models"
)

type fakeOptimizer struct {
	mu          sync.Mutex
	calls       int
	err         error
	suggestions *models.OptimizationSuggestions
	barrier     chan struct{} // when set, OptimizeCv blocks until closed
}

func (f *fakeOptimizer) OptimizeCv(_ context.Context, _ *models.Cv, jobTitle, _ string) (*models.OptimizationSuggestions, error) {
	f.mu.Lock()
	f.calls++
	barrier := f.barrier
	err := f.err
	suggestions := f.suggestions
	f.mu.Unlock()

	if barrier != nil {
		<-barrier
	}
	if err != nil {
		return nil, err
	}
	if suggestions != nil {
		return suggestions, nil
	}
	return &models.OptimizationSuggestions{
		Summary: &models.SummarySuggestion{
			Suggestion: "Tailored summary for " + jobTitle,
			Reason:     "Aligns with the posting",
		},
	}, nil
}

type fakeCvStore struct {
	mu         sync.Mutex
	cv         models.Cv
	patchCalls int
	lastPatch  models.CvPatch
}

func (f *fakeCvStore) FindByID(_ context.Context, _ string) (*models.Cv, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := f.cv
	clone.Skills = append([]string(nil), f.cv.Skills...)
	clone.Experience = append([]models.Experience(nil), f.cv.Experience...)
	clone.Education = append([]models.Education(nil), f.cv.Education...)
	return &clone, nil
}

func (f *fakeCvStore) ApplyPatch(ctx context.Context, _ string, patch models.CvPatch) (*models.Cv, error) {
	f.mu.Lock()
	f.patchCalls++
	f.lastPatch = patch
	if patch.Summary != nil {
		f.cv.Summary = *patch.Summary
	}
	if patch.Skills != nil {
		f.cv.Skills = append([]string(nil), patch.Skills...)
	}
	for _, p := range patch.Experience {
		f.cv.Experience[p.Index].SetField(p.Field, p.Value)
	}
	for _, p := range patch.Education {
		f.cv.Education[p.Index].SetField(p.Field, p.Value)
	}
	f.mu.Unlock()
	return f.FindByID(ctx, "")
}

func baseCv() models.Cv {
	return models.Cv{
		ID:      "cv-1",
		UserID:  "user-1",
		Summary: "Original summary",
		Skills:  []string{"Go", "SQL"},
		Experience: []models.Experience{
			{Title: "Engineer", Company: "Acme", Description: "Built things"},
		},
		Education: []models.Education{
			{School: "State U", Degree: "BSc", Description: "Studied things"},
		},
	}
}

func newTestOrchestrator(opt *fakeOptimizer, store *fakeCvStore) *Orchestrator {
	return NewOrchestrator("cv-1", 3, opt, store, nil)
}

func TestOptimizeSuccess(t *testing.T) {
	opt := &fakeOptimizer{}
	store := &fakeCvStore{cv: baseCv()}
	orch := newTestOrchestrator(opt, store)

	require.Equal(t, StateIdle, orch.State())

	suggestions, err := orch.Optimize(context.Background(), "Backend Engineer", "Build APIs")
	require.NoError(t, err)
	require.NotNil(t, suggestions)

	assert.Equal(t, StateSuggestionsReady, orch.State())
	assert.Equal(t, suggestions, orch.Suggestions())
	assert.Empty(t, orch.ErrorMessage())

	history := orch.History()
	require.Len(t, history, 1)
	assert.Equal(t, "Backend Engineer", history[0].JobTitle)
}

func TestOptimizeFailureStoresExactMessage(t *testing.T) {
	opt := &fakeOptimizer{err: errors.New("llm unavailable")}
	store := &fakeCvStore{cv: baseCv()}
	orch := newTestOrchestrator(opt, store)

	suggestions, err := orch.Optimize(context.Background(), "Backend Engineer", "Build APIs")
	require.Error(t, err)
	assert.Nil(t, suggestions)

	assert.Equal(t, StateFailed, orch.State())
	assert.Equal(t, "Failed to optimize CV. Please try again.", orch.ErrorMessage())
	assert.Nil(t, orch.Suggestions(), "no suggestions survive a failure")
	assert.Empty(t, orch.History(), "failed runs are not recorded")
}

func TestOptimizeFailureIsResubmittable(t *testing.T) {
	opt := &fakeOptimizer{err: errors.New("timeout")}
	store := &fakeCvStore{cv: baseCv()}
	orch := newTestOrchestrator(opt, store)

	_, err := orch.Optimize(context.Background(), "Backend Engineer", "Build APIs")
	require.Error(t, err)

	opt.err = nil
	suggestions, err := orch.Optimize(context.Background(), "Backend Engineer", "Build APIs")
	require.NoError(t, err)
	assert.NotNil(t, suggestions)
	assert.Equal(t, StateSuggestionsReady, orch.State())
	assert.Empty(t, orch.ErrorMessage())
}

func TestHistoryBoundEvictsOldestFirst(t *testing.T) {
	opt := &fakeOptimizer{}
	store := &fakeCvStore{cv: baseCv()}
	orch := newTestOrchestrator(opt, store) // limit 3

	for _, title := range []string{"First", "Second", "Third", "Fourth"} {
		_, err := orch.Optimize(context.Background(), title, "desc")
		require.NoError(t, err)
	}

	history := orch.History()
	require.Len(t, history, 3)
	assert.Equal(t, "Second", history[0].JobTitle)
	assert.Equal(t, "Fourth", history[2].JobTitle)
}

func TestHistoryLimitComesFromConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.CV.HistoryLimit = 2

	opt := &fakeOptimizer{}
	store := &fakeCvStore{cv: baseCv()}
	mgr := NewSessionManager(cfg, opt, store, nil)
	orch := mgr.Session("cv-1")

	for _, title := range []string{"First", "Second", "Third"} {
		_, err := orch.Optimize(context.Background(), title, "desc")
		require.NoError(t, err)
	}

	require.Len(t, orch.History(), 2)
	assert.Same(t, orch, mgr.Session("cv-1"), "sessions are reused per CV")
}

func TestApplySummaryOnce(t *testing.T) {
	opt := &fakeOptimizer{}
	store := &fakeCvStore{cv: baseCv()}
	orch := newTestOrchestrator(opt, store)

	_, err := orch.Optimize(context.Background(), "Backend Engineer", "desc")
	require.NoError(t, err)

	result, err := orch.Apply(context.Background(), "summary", 0, "")
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, 1, store.patchCalls, "updater called exactly once")
	assert.Equal(t, "Tailored summary for Backend Engineer", result.Cv.Summary)

	// Second apply of the same suggestion finds no diff.
	result, err = orch.Apply(context.Background(), "summary", 0, "")
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, NoChangesMessage, result.Message)
	assert.Equal(t, 1, store.patchCalls, "idempotence guard skips the updater")
}

func TestApplySkillsOrderInsensitive(t *testing.T) {
	opt := &fakeOptimizer{
		suggestions: &models.OptimizationSuggestions{
			Skills: &models.SkillsSuggestion{Suggestions: []string{"B", "A"}},
		},
	}
	cv := baseCv()
	cv.Skills = []string{"A", "B"}
	store := &fakeCvStore{cv: cv}
	orch := newTestOrchestrator(opt, store)

	_, err := orch.Optimize(context.Background(), "Backend Engineer", "desc")
	require.NoError(t, err)

	result, err := orch.Apply(context.Background(), "skills", 0, "")
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, NoChangesMessage, result.Message)
	assert.Zero(t, store.patchCalls, "reordered skill sets are identical")
}

func TestApplyExperienceField(t *testing.T) {
	opt := &fakeOptimizer{
		suggestions: &models.OptimizationSuggestions{
			Experience: []models.EntrySuggestion{
				{Index: 0, Field: "description", Suggestion: "Shipped APIs at scale"},
			},
		},
	}
	store := &fakeCvStore{cv: baseCv()}
	orch := newTestOrchestrator(opt, store)

	_, err := orch.Optimize(context.Background(), "Backend Engineer", "desc")
	require.NoError(t, err)

	result, err := orch.Apply(context.Background(), "experience", 0, "description")
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, "Shipped APIs at scale", result.Cv.Experience[0].Description)

	_, err = orch.Apply(context.Background(), "experience", 5, "description")
	assert.Error(t, err, "out-of-range index is rejected")

	_, err = orch.Apply(context.Background(), "experience", 0, "salary")
	assert.Error(t, err, "unknown field is rejected")
}

func TestApplyWithoutSuggestions(t *testing.T) {
	orch := newTestOrchestrator(&fakeOptimizer{}, &fakeCvStore{cv: baseCv()})

	_, err := orch.Apply(context.Background(), "summary", 0, "")
	assert.Error(t, err)
}

func TestRestoreFromHistoryDoesNotMutateHistory(t *testing.T) {
	opt := &fakeOptimizer{}
	store := &fakeCvStore{cv: baseCv()}
	orch := newTestOrchestrator(opt, store)

	_, err := orch.Optimize(context.Background(), "First", "desc")
	require.NoError(t, err)
	_, err = orch.Optimize(context.Background(), "Second", "desc")
	require.NoError(t, err)

	before := orch.History()
	restored, err := orch.RestoreFromHistory(0)
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, "Tailored summary for First", restored.Summary.Suggestion)
	assert.Equal(t, restored, orch.Suggestions())
	assert.Equal(t, StateSuggestionsReady, orch.State())

	// Mutating the restored copy must not reach back into history.
	restored.Summary.Suggestion = "mutated"
	after := orch.History()
	assert.Equal(t, before, after)
	assert.Equal(t, "Tailored summary for First", after[0].Suggestions.Summary.Suggestion)

	assert.Equal(t, 2, opt.calls, "restore makes no remote call")

	_, err = orch.RestoreFromHistory(9)
	assert.Error(t, err)
}

func TestClearResetsToIdle(t *testing.T) {
	opt := &fakeOptimizer{}
	store := &fakeCvStore{cv: baseCv()}
	orch := newTestOrchestrator(opt, store)

	_, err := orch.Optimize(context.Background(), "Backend Engineer", "desc")
	require.NoError(t, err)
	require.Equal(t, StateSuggestionsReady, orch.State())

	orch.Clear()
	assert.Equal(t, StateIdle, orch.State())
	assert.Nil(t, orch.Suggestions())
	assert.Empty(t, orch.ErrorMessage())
}

func TestStaleOptimizeResponseIsDiscarded(t *testing.T) {
	barrier := make(chan struct{})
	opt := &fakeOptimizer{barrier: barrier}
	store := &fakeCvStore{cv: baseCv()}
	orch := newTestOrchestrator(opt, store)

	done := make(chan error, 1)
	go func() {
		_, err := orch.Optimize(context.Background(), "Stale", "desc")
		done <- err
	}()

	// Wait for the in-flight call to reach the optimizer, then supersede it.
	require.Eventually(t, func() bool {
		opt.mu.Lock()
		defer opt.mu.Unlock()
		return opt.calls == 1
	}, time.Second, time.Millisecond)

	orch.Clear()
	close(barrier)

	err := <-done
	require.Error(t, err, "superseded response surfaces as an error")
	assert.Equal(t, StateIdle, orch.State(), "stale response does not overwrite the cleared session")
	assert.Nil(t, orch.Suggestions())
	assert.Empty(t, orch.History(), "stale run is not recorded")
}

func TestStaleFailureDoesNotOverwriteNewerSuccess(t *testing.T) {
	barrier := make(chan struct{})
	opt := &fakeOptimizer{barrier: barrier, err: errors.New("slow failure")}
	store := &fakeCvStore{cv: baseCv()}
	orch := newTestOrchestrator(opt, store)

	done := make(chan error, 1)
	go func() {
		_, err := orch.Optimize(context.Background(), "Old", "desc")
		done <- err
	}()

	require.Eventually(t, func() bool {
		opt.mu.Lock()
		defer opt.mu.Unlock()
		return opt.calls == 1
	}, time.Second, time.Millisecond)

	// Newer request succeeds while the old one is still blocked.
	opt.mu.Lock()
	opt.err = nil
	opt.barrier = nil
	opt.mu.Unlock()

	_, err := orch.Optimize(context.Background(), "New", "desc")
	require.NoError(t, err)
	require.Equal(t, StateSuggestionsReady, orch.State())

	close(barrier)
	<-done

	assert.Equal(t, StateSuggestionsReady, orch.State(), "stale failure does not flip the state")
	assert.NotNil(t, orch.Suggestions())
	assert.Empty(t, orch.ErrorMessage())
}
