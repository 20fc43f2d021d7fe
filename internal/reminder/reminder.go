// Package reminder runs the periodic jobs that keep guests in the loop:
// pre-event reminder texts to accepted guests, and retries for invitation
// SMS that never went out.
package reminder

import (
	"context"
	"fmt"
	"time"

	cronlib "github.com/robfig/cron/v3"

	"github.com/convive/convive/internal/db"
	"github.com/convive/convive/internal/logging"
	"github.com/convive/convive/internal/svc"
)

// runTimeout bounds one scheduler tick.
const runTimeout = 2 * time.Minute

// Scheduler owns the cron loop.
type Scheduler struct {
	svcCtx   *svc.ServiceContext
	cron     *cronlib.Cron
	reminded map[string]bool // invitation IDs already texted a reminder
}

// NewScheduler builds the scheduler from the configured cron spec.
func NewScheduler(svcCtx *svc.ServiceContext) (*Scheduler, error) {
	s := &Scheduler{
		svcCtx:   svcCtx,
		cron:     cronlib.New(),
		reminded: make(map[string]bool),
	}
	spec := svcCtx.Config.Reminder.Schedule
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins the cron loop.
func (s *Scheduler) Start() {
	s.cron.Start()
	logging.Infof("Reminder scheduler started (%s)", s.svcCtx.Config.Reminder.Schedule)
}

// Stop halts the loop and waits for a running tick to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// tick runs one scheduler pass.
func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if err := s.RemindUpcoming(ctx); err != nil {
		logging.Errorf("Reminder pass failed: %v", err)
	}
	if err := s.RetryUnsentInvites(ctx); err != nil {
		logging.Errorf("Invite retry pass failed: %v", err)
	}
}

// RemindUpcoming texts accepted guests of events starting within the window.
// Each invitation is reminded at most once per process lifetime.
func (s *Scheduler) RemindUpcoming(ctx context.Context) error {
	window := time.Duration(s.svcCtx.Config.Reminder.WindowHours) * time.Hour
	events, err := s.svcCtx.DB.ListEventsStartingBefore(ctx, time.Now().Add(window))
	if err != nil {
		return fmt.Errorf("list upcoming events: %w", err)
	}

	for _, event := range events {
		accepted, err := s.svcCtx.DB.ListAcceptedInvitationsByEvent(ctx, event.ID)
		if err != nil {
			return fmt.Errorf("list accepted invitations for %s: %w", event.ID, err)
		}
		for _, inv := range accepted {
			if s.reminded[inv.ID] {
				continue
			}
			body := reminderBody(&event)
			if err := s.svcCtx.SMS.Send(ctx, inv.Phone, body); err != nil {
				logging.Errorf("Failed to send reminder to %s: %v", inv.Phone, err)
				continue
			}
			s.reminded[inv.ID] = true
		}
	}
	return nil
}

// RetryUnsentInvites resends invitation SMS that failed on creation.
func (s *Scheduler) RetryUnsentInvites(ctx context.Context) error {
	unsent, err := s.svcCtx.DB.ListUnsentInvitations(ctx)
	if err != nil {
		return fmt.Errorf("list unsent invitations: %w", err)
	}

	for _, inv := range unsent {
		event, err := s.svcCtx.DB.GetEvent(ctx, inv.EventID)
		if err != nil {
			logging.Errorf("Unsent invitation %s references missing event: %v", inv.ID, err)
			continue
		}
		link := fmt.Sprintf("%s/invite/%s", s.svcCtx.Config.ServerBaseURL(), inv.Token)
		body := fmt.Sprintf("You're invited to %s on %s. RSVP: %s",
			event.Title, event.StartsAt.Format("Mon Jan 2 at 3:04 PM"), link)
		if err := s.svcCtx.SMS.Send(ctx, inv.Phone, body); err != nil {
			logging.Errorf("Invite SMS retry failed for %s: %v", inv.Phone, err)
			continue
		}
		if err := s.svcCtx.DB.MarkInvitationSMSSent(ctx, inv.ID); err != nil {
			logging.Errorf("Failed to mark invitation %s sent: %v", inv.ID, err)
		}
	}
	return nil
}

func reminderBody(event *db.Event) string {
	return fmt.Sprintf("Reminder: %s is coming up on %s at %s. See you there!",
		event.Title, event.StartsAt.Format("Mon Jan 2"), event.StartsAt.Format("3:04 PM"))
}
