// Package service drives quote sessions: it runs client actions through the
// reducer and feeds the results of pricing, availability and discount
// lookups back in as actions.
package service

import (
	"context"
	"slices"
	"time"

	availability "appraisal_portal_backend/internal/availability/domain"
	"appraisal_portal_backend/internal/catalog"
	discounts "appraisal_portal_backend/internal/discounts/domain"
	pricing "appraisal_portal_backend/internal/pricing/domain"
	pricingsvc "appraisal_portal_backend/internal/pricing/service"
	"appraisal_portal_backend/internal/properties"
	"appraisal_portal_backend/internal/submission"
	"appraisal_portal_backend/internal/wizard/domain"
	"appraisal_portal_backend/internal/wizard/store"
	"appraisal_portal_backend/platform/apperr"
	"appraisal_portal_backend/platform/logger"

	"github.com/google/uuid"
)

// Pricer prices a selection.
type Pricer interface {
	Quote(ctx context.Context, serviceIDs []string, sqft int) pricingsvc.Quote
}

// Availability is the appointment calendar in the business time zone.
type Availability interface {
	Today() time.Time
	ParseDate(s string) (time.Time, error)
	DateSelectable(date time.Time) bool
	BusySlots(ctx context.Context, date time.Time) []availability.BusySlot
	DaySlots(date time.Time, busy []availability.BusySlot) []availability.Slot
}

type DiscountResolver interface {
	Resolve(ctx context.Context, code string, subtotal float64) discounts.Resolution
}

// Debouncer coalesces discount lookups per session.
type Debouncer interface {
	Schedule(key string, task func(ctx context.Context))
	Cancel(key string)
}

type Submitter interface {
	Submit(ctx context.Context, form domain.QuoteFormData, property properties.PropertyInfo, discountCode string) (submission.Result, error)
}

type Deps struct {
	Store        store.Store
	Catalog      *catalog.Catalog
	Pricer       Pricer
	Availability Availability
	Discounts    DiscountResolver
	Debouncer    Debouncer
	Submitter    Submitter
	Log          *logger.Logger
}

type Service struct {
	deps  Deps
	now   func() time.Time
	newID func() string
}

func New(deps Deps) *Service {
	return &Service{
		deps:  deps,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// Create opens a session for the property chosen in the search.
func (s *Service) Create(ctx context.Context, property properties.PropertyInfo) (domain.State, error) {
	state := domain.NewState(s.newID(), property, s.now())
	if err := s.deps.Store.Create(ctx, state); err != nil {
		return domain.State{}, err
	}
	s.deps.Log.WithContext(ctx).Info("quote session opened", "session_id", state.ID, "property_id", property.ID)
	return state, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.State, error) {
	return s.deps.Store.Get(ctx, id)
}

// Apply runs a client action. When Next is blocked by validation the new
// state is still stored and an unprocessable error carries the field errors.
func (s *Service) Apply(ctx context.Context, id string, action domain.Action) (domain.State, error) {
	action = s.prepare(action)

	before, err := s.deps.Store.Get(ctx, id)
	if err != nil {
		return domain.State{}, err
	}
	if before.Submitting {
		return before, apperr.Conflict("submission in progress")
	}

	state, err := s.reduce(ctx, id, action)
	if err != nil {
		return domain.State{}, err
	}

	switch action.(type) {
	case domain.ToggleService, domain.SetSquareFootage:
		state = s.refreshPrices(ctx, state)
	case domain.SelectDate:
		state = s.loadBusy(ctx, state, state.Form.SelectedDate)
	case domain.SetDiscountCode:
		s.scheduleDiscount(state)
	case domain.Next:
		if state.Step == before.Step && len(state.Errors) > 0 {
			return state, apperr.InvalidFields("please correct the highlighted fields", apperr.FieldErrors(state.Errors))
		}
	case domain.RequestClose, domain.ConfirmClose:
		state = s.discardIfClosed(ctx, state)
	}
	return state, nil
}

// Close requests closing the session. With confirm the session is discarded
// even when it holds input.
func (s *Service) Close(ctx context.Context, id string, confirm bool) (domain.State, error) {
	state, err := s.Apply(ctx, id, domain.RequestClose{})
	if err != nil {
		return state, err
	}
	if confirm && state.ClosePending {
		return s.Apply(ctx, id, domain.ConfirmClose{})
	}
	return state, nil
}

// Slots returns the grid of date for the session, reusing busy intervals
// already fetched for it.
func (s *Service) Slots(ctx context.Context, id, date string) (bool, []availability.Slot, error) {
	state, err := s.deps.Store.Get(ctx, id)
	if err != nil {
		return false, nil, err
	}
	day, err := s.deps.Availability.ParseDate(date)
	if err != nil {
		return false, nil, apperr.BadRequest(err.Error())
	}
	if !s.deps.Availability.DateSelectable(day) {
		return false, []availability.Slot{}, nil
	}
	state = s.loadBusy(ctx, state, date)
	return true, s.deps.Availability.DaySlots(day, state.BusyByDate[date]), nil
}

// Submit validates the whole form and runs the submission workflow once.
// A second submit while one is in flight is a conflict.
func (s *Service) Submit(ctx context.Context, id string) (submission.Result, error) {
	today := s.deps.Availability.Today()
	state, err := s.deps.Store.Update(ctx, id, func(st domain.State) (domain.State, error) {
		if st.Submitting {
			return st, apperr.Conflict("submission already in progress")
		}
		if st.Terminal() {
			return st, apperr.Gone("quote session is closed")
		}
		return domain.Reduce(st, domain.SubmitStarted{Today: today}), nil
	})
	if err != nil {
		return submission.Result{}, err
	}
	if !state.Submitting {
		return submission.Result{}, apperr.InvalidFields("please correct the highlighted fields", apperr.FieldErrors(state.Errors))
	}

	code := ""
	if state.DiscountAmount() > 0 {
		code = state.Discount.Code
	}
	result, submitErr := s.deps.Submitter.Submit(ctx, state.Form, state.Property, code)

	outcome := domain.SubmissionOutcome{
		Success:         result.Success,
		JobID:           result.JobID,
		Total:           result.Total,
		Message:         result.Message,
		Warnings:        result.Warnings,
		CalendarCreated: result.CalendarCreated,
		EmailSent:       result.EmailSent,
	}
	// The flag must be cleared even if the caller went away.
	if _, err := s.reduce(context.WithoutCancel(ctx), id, domain.SubmitFinished{Outcome: outcome}); err != nil {
		s.deps.Log.WithContext(ctx).Error("failed to record submission outcome", "session_id", id, "error", err)
	}
	s.deps.Debouncer.Cancel(id)
	return result, submitErr
}

func (s *Service) reduce(ctx context.Context, id string, action domain.Action) (domain.State, error) {
	return s.deps.Store.Update(ctx, id, func(st domain.State) (domain.State, error) {
		next := domain.Reduce(st, action)
		next.UpdatedAt = s.now()
		return next, nil
	})
}

// prepare fills in what the reducer needs but the client does not send.
func (s *Service) prepare(action domain.Action) domain.Action {
	switch a := action.(type) {
	case domain.ToggleService:
		a.Catalog = s.deps.Catalog
		return a
	case domain.Next:
		a.Today = s.deps.Availability.Today()
		return a
	case domain.UpdateAppraisal:
		a.Today = s.deps.Availability.Today()
		return a
	}
	return action
}

// refreshPrices prices the current selection and stores the quote unless
// the selection changed in the meantime.
func (s *Service) refreshPrices(ctx context.Context, state domain.State) domain.State {
	selected := slices.Clone(state.Form.SelectedServices)
	sqftInput := state.Form.UserSquareFootage
	sqft, source := pricing.ResolveSquareFootage(state.Property.SquareFootage, sqftInput)

	q := s.deps.Pricer.Quote(ctx, selected, sqft)
	quote := domain.PriceQuote{
		Tier:                string(q.Tier),
		SquareFootage:       q.SquareFootage,
		SquareFootageSource: string(source),
		Subtotal:            q.Subtotal,
	}
	for _, l := range q.Lines {
		quote.Lines = append(quote.Lines, domain.PriceLine{ServiceID: l.ServiceID, Name: l.Name, Price: l.Price, Source: string(l.Source)})
	}

	next, err := s.deps.Store.Update(ctx, state.ID, func(st domain.State) (domain.State, error) {
		if !slices.Equal(st.Form.SelectedServices, selected) || st.Form.UserSquareFootage != sqftInput {
			return st, nil
		}
		return domain.Reduce(st, domain.PricesResolved{Quote: quote}), nil
	})
	if err != nil {
		s.deps.Log.WithContext(ctx).Warn("failed to store quote", "session_id", state.ID, "error", err)
		return state
	}
	return next
}

// loadBusy fetches and memoises the busy intervals of date.
func (s *Service) loadBusy(ctx context.Context, state domain.State, date string) domain.State {
	if date == "" {
		return state
	}
	if _, ok := state.BusyByDate[date]; ok {
		return state
	}
	day, err := s.deps.Availability.ParseDate(date)
	if err != nil || !s.deps.Availability.DateSelectable(day) {
		return state
	}
	busy := s.deps.Availability.BusySlots(ctx, day)
	if busy == nil {
		busy = []availability.BusySlot{}
	}
	next, err := s.reduce(ctx, state.ID, domain.BusyResolved{Date: date, Busy: busy})
	if err != nil {
		s.deps.Log.WithContext(ctx).Warn("failed to store busy slots", "session_id", state.ID, "error", err)
		state = domain.Reduce(state, domain.BusyResolved{Date: date, Busy: busy})
		return state
	}
	return next
}

// scheduleDiscount queues a lookup of the code just entered. An empty code
// cancels the pending lookup.
func (s *Service) scheduleDiscount(state domain.State) {
	id := state.ID
	if !state.Discount.Pending {
		s.deps.Debouncer.Cancel(id)
		return
	}
	code := state.Discount.Code
	s.deps.Debouncer.Schedule(id, func(ctx context.Context) {
		current, err := s.deps.Store.Get(ctx, id)
		if err != nil {
			return
		}
		res := s.deps.Discounts.Resolve(ctx, code, current.Quote.Subtotal)
		if ctx.Err() != nil {
			return
		}
		if _, err := s.reduce(ctx, id, domain.DiscountResolved{Resolution: res}); err != nil && ctx.Err() == nil {
			s.deps.Log.Warn("failed to store discount result", "session_id", id, "error", err)
		}
	})
}

func (s *Service) discardIfClosed(ctx context.Context, state domain.State) domain.State {
	if !state.Closed {
		return state
	}
	s.deps.Debouncer.Cancel(state.ID)
	if err := s.deps.Store.Delete(ctx, state.ID); err != nil {
		s.deps.Log.WithContext(ctx).Warn("failed to delete closed session", "session_id", state.ID, "error", err)
	}
	return state
}
