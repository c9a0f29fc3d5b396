/*
scheduler.go - Daily reminder scan

PURPOSE:
  Periodically scans the aggregate for calendar tasks due today and
  vaccinations coming due, and logs reminders. The scan is strictly
  read-only: reminders never feed back into the state engine.

DESIGN:
  - robfig/cron drives the scan on a configurable schedule
    (default: 07:00 daily)
  - Vaccinations are flagged when the next due date falls within the
    lookahead window (3 days) or is already overdue but not more than
    a week past

USAGE:
  scheduler, err := NewReminderScheduler(store, "0 7 * * *", logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - farm/types.go: CalendarTask, VaccinationRecord
*/
package api

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/greenacre/farmbook/farm"
)

// vaccinationLookahead is how far ahead a next-due date triggers a
// reminder.
const vaccinationLookahead = 3 * 24 * time.Hour

// Reminder is one notification produced by a scan.
type Reminder struct {
	Kind    string // "task" or "vaccination"
	Date    string
	Message string
}

// ReminderScheduler runs the daily reminder scan.
type ReminderScheduler struct {
	store  *farm.Store
	cron   *cron.Cron
	logger *zap.Logger
}

// NewReminderScheduler wires the scan onto the given cron schedule.
func NewReminderScheduler(store *farm.Store, schedule string, logger *zap.Logger) (*ReminderScheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	rs := &ReminderScheduler{
		store:  store,
		cron:   cron.New(),
		logger: logger,
	}

	if _, err := rs.cron.AddFunc(schedule, func() {
		for _, rem := range rs.Scan(time.Now()) {
			rs.logger.Info("reminder",
				zap.String("kind", rem.Kind),
				zap.String("date", rem.Date),
				zap.String("message", rem.Message))
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}

	return rs, nil
}

// Start begins the scheduler.
func (rs *ReminderScheduler) Start() {
	rs.cron.Start()
	rs.logger.Info("reminder scheduler started")
}

// Stop halts the scheduler; running scans finish.
func (rs *ReminderScheduler) Stop() {
	rs.cron.Stop()
	rs.logger.Info("reminder scheduler stopped")
}

// Scan returns the reminders due as of now. Exposed for tests and the
// manual trigger; Start calls it on schedule.
func (rs *ReminderScheduler) Scan(now time.Time) []Reminder {
	state := rs.store.State()
	today := now.Format("2006-01-02")

	var reminders []Reminder

	for _, task := range state.Tasks {
		if task.Completed || task.Date != today {
			continue
		}
		reminders = append(reminders, Reminder{
			Kind:    "task",
			Date:    task.Date,
			Message: fmt.Sprintf("Task due today: %s", task.Title),
		})
	}

	for _, rec := range state.Records {
		vax, ok := rec.(farm.VaccinationRecord)
		if !ok || vax.NextDueDate == "" {
			continue
		}
		due, err := time.Parse("2006-01-02", vax.NextDueDate)
		if err != nil {
			continue
		}
		until := due.Sub(now.Truncate(24 * time.Hour))
		if until > vaccinationLookahead || until < -7*24*time.Hour {
			continue
		}
		reminders = append(reminders, Reminder{
			Kind:    "vaccination",
			Date:    vax.NextDueDate,
			Message: fmt.Sprintf("Vaccination %s due %s", vax.VaccineType, vax.NextDueDate),
		})
	}

	return reminders
}
