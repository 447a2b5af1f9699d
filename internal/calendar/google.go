// Package calendar adapts Google Calendar for availability lookups and
// appointment events.
package calendar

import (
	"context"
	"fmt"
	"os"
	"time"

	"appraisal_portal_backend/internal/availability/domain"
	"appraisal_portal_backend/platform/config"
	"appraisal_portal_backend/platform/logger"

	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Event is an appointment to place on the business calendar.
type Event struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	Duration    time.Duration
}

// Calendar is what the rest of the app needs from a calendar backend.
type Calendar interface {
	BusySlots(ctx context.Context, date time.Time) ([]domain.BusySlot, error)
	CreateEvent(ctx context.Context, event Event) (string, error)
}

// GoogleCalendar talks to one Google calendar with a service account.
type GoogleCalendar struct {
	svc        *gcal.Service
	calendarID string
	loc        *time.Location
}

// New returns a Google-backed calendar when credentials are configured and
// a no-op calendar otherwise.
func New(ctx context.Context, cfg config.CalendarConfig, loc *time.Location, log *logger.Logger) (Calendar, error) {
	if !cfg.IsCalendarEnabled() {
		log.Info("google calendar disabled, using no-op calendar")
		return Noop{}, nil
	}

	data, err := os.ReadFile(cfg.GetGoogleCredentialsFile())
	if err != nil {
		return nil, fmt.Errorf("read google credentials: %w", err)
	}
	jwtCfg, err := google.JWTConfigFromJSON(data, gcal.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("parse google credentials: %w", err)
	}

	svc, err := gcal.NewService(ctx, option.WithHTTPClient(jwtCfg.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	log.Info("google calendar initialized", "calendar_id", cfg.GetGoogleCalendarID())
	return NewGoogleCalendar(svc, cfg.GetGoogleCalendarID(), loc), nil
}

func NewGoogleCalendar(svc *gcal.Service, calendarID string, loc *time.Location) *GoogleCalendar {
	if loc == nil {
		loc = time.UTC
	}
	return &GoogleCalendar{svc: svc, calendarID: calendarID, loc: loc}
}

// BusySlots queries free/busy for the whole calendar day of date.
func (g *GoogleCalendar) BusySlots(ctx context.Context, date time.Time) ([]domain.BusySlot, error) {
	dayStart := domain.StartOfDay(date.In(g.loc))
	dayEnd := dayStart.AddDate(0, 0, 1)

	resp, err := g.svc.Freebusy.Query(&gcal.FreeBusyRequest{
		TimeMin:  dayStart.Format(time.RFC3339),
		TimeMax:  dayEnd.Format(time.RFC3339),
		TimeZone: g.loc.String(),
		Items:    []*gcal.FreeBusyRequestItem{{Id: g.calendarID}},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("freebusy query: %w", err)
	}

	cal, ok := resp.Calendars[g.calendarID]
	if !ok {
		return nil, nil
	}
	if len(cal.Errors) > 0 {
		return nil, fmt.Errorf("freebusy calendar error: %s", cal.Errors[0].Reason)
	}

	busy := make([]domain.BusySlot, 0, len(cal.Busy))
	for _, period := range cal.Busy {
		start, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, period.End)
		if err != nil || !end.After(start) {
			continue
		}
		busy = append(busy, domain.BusySlot{Start: start.In(g.loc), End: end.In(g.loc)})
	}
	return busy, nil
}

// CreateEvent inserts the appointment and returns the Google event id.
func (g *GoogleCalendar) CreateEvent(ctx context.Context, event Event) (string, error) {
	duration := event.Duration
	if duration <= 0 {
		duration = domain.SlotDuration
	}
	start := event.Start.In(g.loc)

	ev := &gcal.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		Start:       &gcal.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: g.loc.String()},
		End:         &gcal.EventDateTime{DateTime: start.Add(duration).Format(time.RFC3339), TimeZone: g.loc.String()},
	}

	created, err := g.svc.Events.Insert(g.calendarID, ev).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("insert calendar event: %w", err)
	}
	return created.Id, nil
}

// Noop is used when no calendar is configured: nothing is ever busy and
// events are accepted without being stored.
type Noop struct{}

func (Noop) BusySlots(context.Context, time.Time) ([]domain.BusySlot, error) { return nil, nil }
func (Noop) CreateEvent(context.Context, Event) (string, error)               { return "", nil }

var (
	_ Calendar = (*GoogleCalendar)(nil)
	_ Calendar = Noop{}
)
