package cv

import (
	"context"
	"fmt"
	"sync"
	"time"

	"jobdeck-api/internal/logging"
	"jobdeck-api/pkg/models"
	"jobdeck-api/pkg/utils"
)

// State is the lifecycle phase of an optimization session.
type State string

const (
	StateIdle             State = "idle"
	StateRequesting       State = "requesting"
	StateSuggestionsReady State = "suggestions_ready"
	StateFailed           State = "failed"
)

// OptimizeFailedMessage is the user-facing message stored when the remote
// optimization call fails for any reason.
const OptimizeFailedMessage = "Failed to optimize CV. Please try again."

// NoChangesMessage is emitted when an apply operation finds the suggestion
// already matches the live CV.
const NoChangesMessage = "No changes detected"

// Optimizer is the remote-suggestion port. The worker pool satisfies it in
// production; tests inject fakes.
type Optimizer interface {
	OptimizeCv(ctx context.Context, cv *models.Cv, jobTitle, jobDescription string) (*models.OptimizationSuggestions, error)
}

// CvStore is the persistence port apply operations read and write through.
type CvStore interface {
	FindByID(ctx context.Context, id string) (*models.Cv, error)
	ApplyPatch(ctx context.Context, id string, patch models.CvPatch) (*models.Cv, error)
}

// HistorySink receives completed runs for durable storage. It is optional;
// the orchestrator's own bounded history is authoritative.
type HistorySink interface {
	AppendOptimizationRun(ctx context.Context, cvID string, run models.OptimizationRun) error
}

// Orchestrator holds the optimization session state for one CV. All state
// lives in the struct, nothing is process-global, so each session is
// independently testable and disposable.
type Orchestrator struct {
	mu sync.Mutex

	cvID           string
	state          State
	jobTitle       string
	jobDescription string
	suggestions    *models.OptimizationSuggestions
	errorMessage   string

	// generation increments on every Optimize and Clear; a response carrying
	// a stale token is discarded instead of overwriting newer state.
	generation uint64

	history      []models.OptimizationRun
	historyLimit int

	optimizer Optimizer
	store     CvStore
	sink      HistorySink
	logger    logging.Logger
	now       func() time.Time
}

// NewOrchestrator creates an idle session for the given CV. historyLimit
// bounds the retained runs; values below 1 keep a single run.
func NewOrchestrator(cvID string, historyLimit int, optimizer Optimizer, store CvStore, sink HistorySink) *Orchestrator {
	if historyLimit < 1 {
		historyLimit = 1
	}
	return &Orchestrator{
		cvID:         cvID,
		state:        StateIdle,
		historyLimit: historyLimit,
		optimizer:    optimizer,
		store:        store,
		sink:         sink,
		logger:       logging.GetGlobalLogger().WithField("cv_id", cvID),
		now:          time.Now,
	}
}

// State returns the current lifecycle phase.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Suggestions returns the active suggestion bundle, nil unless the session
// is in the suggestions-ready phase.
func (o *Orchestrator) Suggestions() *models.OptimizationSuggestions {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.suggestions
}

// ErrorMessage returns the stored failure message, empty outside the
// failed phase.
func (o *Orchestrator) ErrorMessage() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.errorMessage
}

// History returns a copy of the retained runs, newest last.
func (o *Orchestrator) History() []models.OptimizationRun {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]models.OptimizationRun(nil), o.history...)
}

// Optimize runs one remote suggestion call. On success the bundle becomes
// the active suggestions and is appended to history; on failure the session
// stores OptimizeFailedMessage and stays re-submittable. A response that
// arrives after a newer Optimize or Clear is discarded.
func (o *Orchestrator) Optimize(ctx context.Context, jobTitle, jobDescription string) (*models.OptimizationSuggestions, error) {
	o.mu.Lock()
	o.state = StateRequesting
	o.jobTitle = jobTitle
	o.jobDescription = jobDescription
	o.errorMessage = ""
	o.generation++
	token := o.generation
	o.mu.Unlock()

	liveCv, err := o.store.FindByID(ctx, o.cvID)
	if err != nil {
		return nil, o.fail(token, fmt.Errorf("cv lookup failed: %w", err))
	}

	suggestions, err := o.optimizer.OptimizeCv(ctx, liveCv, jobTitle, jobDescription)
	if err != nil {
		return nil, o.fail(token, err)
	}

	o.mu.Lock()
	if token != o.generation {
		o.mu.Unlock()
		o.logger.Warn("Discarding stale optimization response", map[string]interface{}{
			"token": token,
		})
		return nil, utils.NewOptimizationError("optimization superseded by a newer request")
	}

	o.state = StateSuggestionsReady
	o.suggestions = suggestions
	run := models.OptimizationRun{
		JobTitle:    jobTitle,
		Timestamp:   o.now(),
		Suggestions: suggestions.Clone(),
	}
	o.history = append(o.history, run)
	if len(o.history) > o.historyLimit {
		o.history = o.history[len(o.history)-o.historyLimit:]
	}
	o.mu.Unlock()

	if o.sink != nil {
		if err := o.sink.AppendOptimizationRun(ctx, o.cvID, run); err != nil {
			o.logger.Warn("Failed to persist optimization run", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	o.logger.Info("Optimization completed", map[string]interface{}{
		"job_title": jobTitle,
	})
	return suggestions, nil
}

func (o *Orchestrator) fail(token uint64, cause error) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if token != o.generation {
		return utils.NewOptimizationError("optimization superseded by a newer request")
	}

	o.state = StateFailed
	o.suggestions = nil
	o.errorMessage = OptimizeFailedMessage

	o.logger.Error("Optimization failed", map[string]interface{}{
		"error": cause.Error(),
	})
	return utils.NewOptimizationError(OptimizeFailedMessage)
}

// ApplyResult reports the outcome of an apply operation.
type ApplyResult struct {
	Changed bool
	Message string
	Cv      *models.Cv
}

// Apply diffs the addressed suggestion against the live CV and calls the
// store exactly once when they differ. Scalar fields compare by string
// equality; skills compare order-insensitively.
func (o *Orchestrator) Apply(ctx context.Context, section string, index int, field string) (*ApplyResult, error) {
	o.mu.Lock()
	suggestions := o.suggestions
	o.mu.Unlock()

	if suggestions == nil {
		return nil, utils.NewBadRequestError("no suggestions available to apply")
	}

	liveCv, err := o.store.FindByID(ctx, o.cvID)
	if err != nil {
		return nil, utils.NewInternalServerError(fmt.Sprintf("cv lookup failed: %v", err))
	}

	patch, err := buildPatch(liveCv, suggestions, section, index, field)
	if err != nil {
		return nil, err
	}

	if patch == nil {
		return &ApplyResult{Changed: false, Message: NoChangesMessage, Cv: liveCv}, nil
	}

	updated, err := o.store.ApplyPatch(ctx, o.cvID, *patch)
	if err != nil {
		return nil, utils.NewInternalServerError(fmt.Sprintf("cv update failed: %v", err))
	}

	o.logger.Info("Suggestion applied", map[string]interface{}{
		"section": section,
	})
	return &ApplyResult{Changed: true, Message: "Suggestion applied", Cv: updated}, nil
}

// buildPatch returns the patch for the addressed suggestion, or nil when
// the live CV already matches it.
func buildPatch(liveCv *models.Cv, s *models.OptimizationSuggestions, section string, index int, field string) (*models.CvPatch, error) {
	switch section {
	case "summary":
		if s.Summary == nil {
			return nil, utils.NewBadRequestError("no summary suggestion available")
		}
		if liveCv.Summary == s.Summary.Suggestion {
			return nil, nil
		}
		value := s.Summary.Suggestion
		return &models.CvPatch{Summary: &value}, nil

	case "skills":
		if s.Skills == nil {
			return nil, utils.NewBadRequestError("no skills suggestion available")
		}
		if utils.SortedEqual(liveCv.Skills, s.Skills.Suggestions) {
			return nil, nil
		}
		return &models.CvPatch{Skills: append([]string(nil), s.Skills.Suggestions...)}, nil

	case "experience":
		entry, err := findEntry(s.Experience, index, field, "experience")
		if err != nil {
			return nil, err
		}
		if index < 0 || index >= len(liveCv.Experience) {
			return nil, utils.NewBadRequestError(fmt.Sprintf("experience index %d out of range", index))
		}
		current, ok := liveCv.Experience[index].Field(field)
		if !ok {
			return nil, utils.NewBadRequestError(fmt.Sprintf("unknown experience field %q", field))
		}
		if current == entry.Suggestion {
			return nil, nil
		}
		return &models.CvPatch{
			Experience: []models.SectionFieldPatch{{Index: index, Field: field, Value: entry.Suggestion}},
		}, nil

	case "education":
		entry, err := findEntry(s.Education, index, field, "education")
		if err != nil {
			return nil, err
		}
		if index < 0 || index >= len(liveCv.Education) {
			return nil, utils.NewBadRequestError(fmt.Sprintf("education index %d out of range", index))
		}
		current, ok := liveCv.Education[index].Field(field)
		if !ok {
			return nil, utils.NewBadRequestError(fmt.Sprintf("unknown education field %q", field))
		}
		if current == entry.Suggestion {
			return nil, nil
		}
		return &models.CvPatch{
			Education: []models.SectionFieldPatch{{Index: index, Field: field, Value: entry.Suggestion}},
		}, nil

	default:
		return nil, utils.NewBadRequestError(fmt.Sprintf("unknown section %q", section))
	}
}

func findEntry(entries []models.EntrySuggestion, index int, field, section string) (*models.EntrySuggestion, error) {
	for i := range entries {
		if entries[i].Index == index && entries[i].Field == field {
			return &entries[i], nil
		}
	}
	return nil, utils.NewBadRequestError(fmt.Sprintf("no %s suggestion for index %d field %q", section, index, field))
}

// RestoreFromHistory copies the suggestions of the indexed run into the
// active slot. No remote call is made and history is left untouched.
func (o *Orchestrator) RestoreFromHistory(index int) (*models.OptimizationSuggestions, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if index < 0 || index >= len(o.history) {
		return nil, utils.NewBadRequestError(fmt.Sprintf("history index %d out of range", index))
	}

	restored := o.history[index].Suggestions.Clone()
	o.suggestions = restored
	o.jobTitle = o.history[index].JobTitle
	o.state = StateSuggestionsReady
	o.errorMessage = ""
	return restored, nil
}

// Clear resets the session to idle, discarding suggestions and inputs. The
// generation bump invalidates any in-flight optimize response.
func (o *Orchestrator) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.state = StateIdle
	o.suggestions = nil
	o.jobTitle = ""
	o.jobDescription = ""
	o.errorMessage = ""
	o.generation++
}
