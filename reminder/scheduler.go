package reminder

import (
	"context"
	"fmt"
	"log"
	"time"

	"voyago/models"
	"voyago/notifications"
)

const (
	dateLayout = "2006-01-02"
	// Reminder bodies show dates day-first.
	bodyDateLayout = "02/01/2006"
)

type tripFinder interface {
	FindActiveTripsForUser(ctx context.Context, userID, today string) ([]models.Trip, error)
	FindUpcomingTripsForUser(ctx context.Context, userID, today string) ([]models.Trip, error)
}

type deviceLister interface {
	ListAll(ctx context.Context) ([]models.UserDevice, error)
}

type notifier interface {
	NotifyUser(ctx context.Context, msg notifications.Message) error
}

// Claimer marks a (user, day) pair as handled; rdx.Dedupe satisfies it.
type Claimer interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Scheduler runs the daily trip-reminder sweep: every registered user either
// has an active trip today (no reminder) or gets one reminder for their
// earliest upcoming trip. Each user is handled at most once per calendar day.
type Scheduler struct {
	trips   tripFinder
	devices deviceLister
	gateway notifier
	dedupe  Claimer
	at      string
	now     func() time.Time
}

// NewScheduler builds the sweep. at is the daily wall-clock trigger in HH:MM;
// dedupe may be nil, in which case duplicate suppression is off.
func NewScheduler(trips tripFinder, devices deviceLister, gateway notifier, dedupe Claimer, at string) *Scheduler {
	if _, err := time.Parse("15:04", at); err != nil {
		at = "08:00"
	}
	return &Scheduler{
		trips:   trips,
		devices: devices,
		gateway: gateway,
		dedupe:  dedupe,
		at:      at,
		now:     time.Now,
	}
}

// Run blocks, firing the sweep once a day at the configured time, until the
// context is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		wait := s.untilNext()
		log.Printf("[Reminder] next sweep in %s", wait.Round(time.Second))
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
			s.RunOnce(ctx)
		}
	}
}

func (s *Scheduler) untilNext() time.Duration {
	now := s.now()
	trigger, _ := time.Parse("15:04", s.at)
	next := time.Date(now.Year(), now.Month(), now.Day(), trigger.Hour(), trigger.Minute(), 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

// RunOnce sweeps every registered device. A failure for one user never stops
// the rest of the sweep.
func (s *Scheduler) RunOnce(ctx context.Context) {
	today := s.now().Format(dateLayout)

	devices, err := s.devices.ListAll(ctx)
	if err != nil {
		log.Printf("[Reminder] listing devices: %v", err)
		return
	}
	log.Printf("[Reminder] sweeping %d users for %s", len(devices), today)

	for _, device := range devices {
		if err := s.remindUser(ctx, device.UserID, today); err != nil {
			log.Printf("[Reminder] user %s: %v", device.UserID, err)
		}
	}
}

func (s *Scheduler) remindUser(ctx context.Context, userID, today string) error {
	if s.dedupe != nil {
		key := "reminder:" + userID + ":" + today
		won, err := s.dedupe.Claim(ctx, key, 48*time.Hour)
		if err != nil {
			return fmt.Errorf("dedupe claim: %w", err)
		}
		if !won {
			return nil
		}
	}

	// A trip in progress today suppresses the reminder entirely.
	active, err := s.trips.FindActiveTripsForUser(ctx, userID, today)
	if err != nil {
		return fmt.Errorf("finding active trips: %w", err)
	}
	if len(active) > 0 {
		return nil
	}

	upcoming, err := s.trips.FindUpcomingTripsForUser(ctx, userID, today)
	if err != nil {
		return fmt.Errorf("finding upcoming trips: %w", err)
	}
	if len(upcoming) == 0 {
		return nil
	}

	trip := upcoming[0]
	msg := notifications.Message{
		UserID:    userID,
		Title:     "Trip Reminder",
		Body:      composeBody(trip),
		Type:      models.NotifTripReminder,
		TripID:    trip.ID,
		TripTitle: trip.Title,
	}
	if err := s.gateway.NotifyUser(ctx, msg); err != nil {
		return fmt.Errorf("notifying: %w", err)
	}
	return nil
}

func composeBody(trip models.Trip) string {
	start, err := time.Parse(dateLayout, trip.StartDate)
	if err != nil {
		return fmt.Sprintf("Your trip '%s' is coming up!", trip.Title)
	}
	return fmt.Sprintf("Your trip '%s' starts on %s!", trip.Title, start.Format(bodyDateLayout))
}
