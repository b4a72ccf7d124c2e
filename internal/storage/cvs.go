package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"jobdeck-api/pkg/models"
	"jobdeck-api/pkg/utils"
)

// FindByID retrieves a CV by its identifier.
func (s *Store) FindByID(ctx context.Context, id string) (*models.Cv, error) {
	return scanCv(s.pool.QueryRow(ctx,
		`SELECT id, user_id, summary, skills, experience, education, created_at, updated_at
		 FROM cvs WHERE id = $1`,
		id,
	))
}

// SaveCv inserts or replaces a CV document.
func (s *Store) SaveCv(ctx context.Context, cv *models.Cv) error {
	skills, experience, education, err := marshalSections(cv)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO cvs (id, user_id, summary, skills, experience, education)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
			summary = $3, skills = $4, experience = $5, education = $6, updated_at = NOW()`,
		cv.ID, cv.UserID, cv.Summary, skills, experience, education,
	)
	if err != nil {
		return fmt.Errorf("failed to save cv: %w", err)
	}
	return nil
}

// ApplyPatch applies a partial update to a CV inside one transaction and
// returns the updated document. The row is locked while the sections are
// rewritten so concurrent applies cannot interleave.
func (s *Store) ApplyPatch(ctx context.Context, id string, patch models.CvPatch) (*models.Cv, error) {
	if patch.IsEmpty() {
		return s.FindByID(ctx, id)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	cv, err := scanCv(tx.QueryRow(ctx,
		`SELECT id, user_id, summary, skills, experience, education, created_at, updated_at
		 FROM cvs WHERE id = $1 FOR UPDATE`,
		id,
	))
	if err != nil {
		return nil, err
	}

	if patch.Summary != nil {
		cv.Summary = *patch.Summary
	}
	if patch.Skills != nil {
		cv.Skills = append([]string(nil), patch.Skills...)
	}
	for _, p := range patch.Experience {
		if p.Index < 0 || p.Index >= len(cv.Experience) {
			return nil, utils.NewBadRequestError(fmt.Sprintf("experience index %d out of range", p.Index))
		}
		if !cv.Experience[p.Index].SetField(p.Field, p.Value) {
			return nil, utils.NewBadRequestError(fmt.Sprintf("unknown experience field %q", p.Field))
		}
	}
	for _, p := range patch.Education {
		if p.Index < 0 || p.Index >= len(cv.Education) {
			return nil, utils.NewBadRequestError(fmt.Sprintf("education index %d out of range", p.Index))
		}
		if !cv.Education[p.Index].SetField(p.Field, p.Value) {
			return nil, utils.NewBadRequestError(fmt.Sprintf("unknown education field %q", p.Field))
		}
	}

	skills, experience, education, err := marshalSections(cv)
	if err != nil {
		return nil, err
	}

	err = tx.QueryRow(ctx,
		`UPDATE cvs
		 SET summary = $2, skills = $3, experience = $4, education = $5, updated_at = NOW()
		 WHERE id = $1
		 RETURNING updated_at`,
		id, cv.Summary, skills, experience, education,
	).Scan(&cv.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update cv: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit cv update: %w", err)
	}

	return cv, nil
}

func scanCv(row pgx.Row) (*models.Cv, error) {
	var cv models.Cv
	var skills, experience, education []byte

	err := row.Scan(&cv.ID, &cv.UserID, &cv.Summary, &skills, &experience, &education, &cv.CreatedAt, &cv.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, utils.NewNotFoundError("cv not found")
		}
		return nil, fmt.Errorf("failed to get cv: %w", err)
	}

	if err := json.Unmarshal(skills, &cv.Skills); err != nil {
		return nil, fmt.Errorf("failed to decode skills: %w", err)
	}
	if err := json.Unmarshal(experience, &cv.Experience); err != nil {
		return nil, fmt.Errorf("failed to decode experience: %w", err)
	}
	if err := json.Unmarshal(education, &cv.Education); err != nil {
		return nil, fmt.Errorf("failed to decode education: %w", err)
	}

	return &cv, nil
}

func marshalSections(cv *models.Cv) (skills, experience, education []byte, err error) {
	if skills, err = json.Marshal(cv.Skills); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode skills: %w", err)
	}
	if experience, err = json.Marshal(cv.Experience); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode experience: %w", err)
	}
	if education, err = json.Marshal(cv.Education); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode education: %w", err)
	}
	return skills, experience, education, nil
}
