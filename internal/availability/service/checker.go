// Package service fetches busy intervals and evaluates the appointment grid.
package service

import (
	"context"
	"fmt"
	"time"

	"appraisal_portal_backend/internal/availability/domain"
	"appraisal_portal_backend/platform/logger"

	"golang.org/x/sync/singleflight"
)

// BusySource reports the busy intervals of a calendar date.
type BusySource interface {
	BusySlots(ctx context.Context, date time.Time) ([]domain.BusySlot, error)
}

// Checker answers availability questions in the business time zone.
type Checker struct {
	source BusySource
	loc    *time.Location
	log    *logger.Logger
	now    func() time.Time
	group  singleflight.Group
}

func New(source BusySource, loc *time.Location, log *logger.Logger) *Checker {
	if loc == nil {
		loc = time.UTC
	}
	return &Checker{source: source, loc: loc, log: log, now: time.Now}
}

// WithClock overrides the clock. Used by tests.
func (c *Checker) WithClock(now func() time.Time) *Checker {
	c.now = now
	return c
}

// Location is the business time zone.
func (c *Checker) Location() *time.Location { return c.loc }

// Today is the current calendar date in the business time zone.
func (c *Checker) Today() time.Time {
	return domain.StartOfDay(c.now().In(c.loc))
}

// ParseDate reads a YYYY-MM-DD date in the business time zone.
func (c *Checker) ParseDate(s string) (time.Time, error) {
	return domain.ParseDate(s, c.loc)
}

// DateSelectable applies the booking window to date.
func (c *Checker) DateSelectable(date time.Time) bool {
	return domain.DateSelectable(date, c.Today())
}

// BusySlots returns the busy intervals of date. Concurrent calls for the
// same date share one fetch. A failed fetch yields no intervals so every
// slot stays bookable.
func (c *Checker) BusySlots(ctx context.Context, date time.Time) []domain.BusySlot {
	key := date.In(c.loc).Format(domain.DateLayout)
	v, err, _ := c.group.Do(key, func() (any, error) {
		busy, err := c.source.BusySlots(ctx, domain.StartOfDay(date.In(c.loc)))
		if err != nil {
			return nil, fmt.Errorf("busy slots for %s: %w", key, err)
		}
		return busy, nil
	})
	if err != nil {
		c.log.WithContext(ctx).LookupDegraded("availability", err, "date", key)
		return nil
	}
	return v.([]domain.BusySlot)
}

// DaySlots evaluates the grid of date against busy.
func (c *Checker) DaySlots(date time.Time, busy []domain.BusySlot) []domain.Slot {
	return domain.DaySlots(date.In(c.loc), busy)
}
