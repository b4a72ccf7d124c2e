package models

import "time"

// SummarySuggestion is a proposed replacement for the CV summary section
type SummarySuggestion struct {
	Suggestion string `json:"suggestion"`
	Reason     string `json:"reason"`
}

// SkillsSuggestion is a proposed replacement skill set for the CV
type SkillsSuggestion struct {
	Suggestions []string `json:"suggestions"`
	Reason      string   `json:"reason"`
}

// EntrySuggestion is a proposed edit to one field of an indexed section entry
// (experience or education)
type EntrySuggestion struct {
	Index      int    `json:"index"`
	Field      string `json:"field"`
	Suggestion string `json:"suggestion"`
	Reason     string `json:"reason"`
}

// OptimizationSuggestions is the four-section suggestion bundle produced by a
// single optimization run
type OptimizationSuggestions struct {
	Summary    *SummarySuggestion `json:"summary,omitempty"`
	Skills     *SkillsSuggestion  `json:"skills,omitempty"`
	Experience []EntrySuggestion  `json:"experience,omitempty"`
	Education  []EntrySuggestion  `json:"education,omitempty"`
}

// Clone returns a deep copy of the suggestion bundle
func (s *OptimizationSuggestions) Clone() *OptimizationSuggestions {
	if s == nil {
		return nil
	}
	out := &OptimizationSuggestions{}
	if s.Summary != nil {
		summary := *s.Summary
		out.Summary = &summary
	}
	if s.Skills != nil {
		skills := SkillsSuggestion{
			Suggestions: append([]string(nil), s.Skills.Suggestions...),
			Reason:      s.Skills.Reason,
		}
		out.Skills = &skills
	}
	out.Experience = append([]EntrySuggestion(nil), s.Experience...)
	out.Education = append([]EntrySuggestion(nil), s.Education...)
	return out
}

// OptimizationRun is one completed optimization recorded in history
type OptimizationRun struct {
	JobTitle    string                   `json:"job_title"`
	Timestamp   time.Time                `json:"timestamp"`
	Suggestions *OptimizationSuggestions `json:"suggestions"`
}
