package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobdeck-api/internal/config"
	"jobdeck-api/pkg/models"
)

type fakeEventRepo struct {
	events     []models.ScheduleEvent
	slots      []models.RecurringSlot
	listErr    error
	lastQuery  models.ScheduleQuery
	statusByID map[string]models.EventStatus
}

func (f *fakeEventRepo) ListInRange(_ context.Context, query models.ScheduleQuery) ([]models.ScheduleEvent, error) {
	f.lastQuery = query
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.ScheduleEvent, 0)
	for _, ev := range f.events {
		if ev.StartsAt.Before(query.Start) || ev.StartsAt.After(query.End) {
			continue
		}
		if query.Type != "" && ev.Type != query.Type {
			continue
		}
		if query.Status != "" && ev.Status != query.Status {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (f *fakeEventRepo) ListRecurringSlots(_ context.Context) ([]models.RecurringSlot, error) {
	return f.slots, nil
}

func (f *fakeEventRepo) FindEvent(_ context.Context, id string) (*models.ScheduleEvent, error) {
	for _, ev := range f.events {
		if ev.ID == id {
			return &ev, nil
		}
	}
	return nil, errors.New("event not found")
}

func (f *fakeEventRepo) UpdateStatus(_ context.Context, id string, status models.EventStatus) (*models.ScheduleEvent, error) {
	for i, ev := range f.events {
		if ev.ID == id {
			f.events[i].Status = status
			if f.statusByID == nil {
				f.statusByID = make(map[string]models.EventStatus)
			}
			f.statusByID[id] = status
			return &f.events[i], nil
		}
	}
	return nil, errors.New("event not found")
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Schedule.DefaultLimit = 200
	return cfg
}

func TestServiceWeekViewMergesStoredAndRecurring(t *testing.T) {
	repo := &fakeEventRepo{
		events: []models.ScheduleEvent{
			makeEvent("stored",
				time.Date(2024, 3, 5, 11, 0, 0, 0, time.UTC),
				time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)),
		},
		slots: []models.RecurringSlot{
			{
				ID:              "standup",
				Type:            models.EventTypeMeeting,
				Title:           "Standup",
				RRule:           "FREQ=WEEKLY;BYDAY=MO",
				DTStart:         time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
				DurationMinutes: 15,
			},
		},
	}
	svc := NewService(testConfig(), repo)

	view, err := svc.WeekView(context.Background(), time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), "", "")
	require.NoError(t, err)

	require.Len(t, view.Days[0].Events, 1)
	assert.Equal(t, "Standup", view.Days[0].Events[0].Title)
	require.Len(t, view.Days[1].Events, 1)
	assert.Equal(t, "stored", view.Days[1].Events[0].ID)

	assert.Equal(t, 200, repo.lastQuery.Limit)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), repo.lastQuery.Start)
}

func TestServiceWeekViewAppliesFiltersToRecurring(t *testing.T) {
	repo := &fakeEventRepo{
		slots: []models.RecurringSlot{
			{
				ID:              "standup",
				Type:            models.EventTypeMeeting,
				Title:           "Standup",
				RRule:           "FREQ=WEEKLY;BYDAY=MO",
				DTStart:         time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
				DurationMinutes: 15,
			},
		},
	}
	svc := NewService(testConfig(), repo)

	view, err := svc.WeekView(context.Background(), time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), models.EventTypeInterview, "")
	require.NoError(t, err)

	for _, day := range view.Days {
		assert.Empty(t, day.Events, "meeting slots are filtered out of an interview-only view")
	}
}

func TestServiceWeekViewRepositoryError(t *testing.T) {
	repo := &fakeEventRepo{listErr: errors.New("connection refused")}
	svc := NewService(testConfig(), repo)

	view, err := svc.WeekView(context.Background(), time.Now(), "", "")
	assert.Nil(t, view)
	assert.Error(t, err)
}

func TestServiceConfirmAndDecline(t *testing.T) {
	repo := &fakeEventRepo{
		events: []models.ScheduleEvent{
			makeEvent("ev1",
				time.Date(2024, 3, 5, 11, 0, 0, 0, time.UTC),
				time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)),
		},
	}
	repo.events[0].Status = models.EventStatusPending
	svc := NewService(testConfig(), repo)

	confirmed, err := svc.Confirm(context.Background(), "ev1")
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusConfirmed, confirmed.Status)

	declined, err := svc.Decline(context.Background(), "ev1")
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusCancelled, declined.Status)

	_, err = svc.Confirm(context.Background(), "missing")
	assert.Error(t, err)
}
