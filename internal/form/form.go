package form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avstrong/orderform/internal/catalog"
	"github.com/avstrong/orderform/internal/logger"
	"github.com/avstrong/orderform/internal/order"
	"github.com/avstrong/orderform/internal/picker"
	"github.com/avstrong/orderform/internal/submission"
)

type View string

const (
	ViewForm         View = "form"
	ViewConfirmation View = "confirmation"
)

const FailureMessage = "Sorry, your application could not be sent. Please try again."

type projector interface {
	Project(sel *order.Selection) order.Summary
}

type controller interface {
	Submit(ctx context.Context, customer order.Customer, sel *order.Selection) (*submission.Outcome, error)
	Reset() error
	State() submission.State
	SubmitEnabled() bool
	SubmitLabel() string
}

// Subscriber re-renders from a fresh summary. It may be called any number of times.
type Subscriber func(order.Summary)

// Form is the single in-memory session. Every event runs under one lock, except
// the network call of a submission.
type Form struct {
	mu          sync.Mutex
	l           *logger.Logger
	catalog     *catalog.Catalog
	selection   *order.Selection
	projector   projector
	controller  controller
	view        View
	customer    order.Customer
	fieldErrors map[string][]string
	failure     string
	subscribers []Subscriber
}

func New(l *logger.Logger, c *catalog.Catalog, projector projector, controller controller) *Form {
	//nolint:exhaustruct
	return &Form{
		l:          l,
		catalog:    c,
		selection:  order.NewSelection(c),
		projector:  projector,
		controller: controller,
		view:       ViewForm,
	}
}

func (f *Form) Subscribe(s Subscriber) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.subscribers = append(f.subscribers, s)
}

// mutate applies fn under the lock and then notifies subscribers outside of it.
func (f *Form) mutate(fn func() error) error {
	f.mu.Lock()

	if err := fn(); err != nil {
		f.mu.Unlock()

		return err
	}

	summary := f.projector.Project(f.selection)
	subscribers := append([]Subscriber(nil), f.subscribers...)
	f.mu.Unlock()

	for _, s := range subscribers {
		s(summary)
	}

	return nil
}

func (f *Form) Toggle(optionID string, selected bool) error {
	return f.mutate(func() error {
		if f.view != ViewForm {
			return ErrConfirmationShown
		}

		return f.selection.SetSelected(optionID, selected)
	})
}

// PickRange goes through the option's picker so disabled dates and bounds are enforced.
func (f *Form) PickRange(optionID string, from, to time.Time) error {
	return f.mutate(func() error {
		if f.view != ViewForm {
			return ErrConfirmationShown
		}

		p := f.selection.Picker(optionID)
		if p == nil {
			// let the selection explain why there is no picker
			if err := f.selection.SetDateRange(optionID, from, to); err != nil {
				return err
			}

			return fmt.Errorf("pick range for %q: %w", optionID, order.ErrNotPerNight)
		}

		return p.Pick(from, to)
	})
}

func (f *Form) Summary() order.Summary {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.projector.Project(f.selection)
}

// Submit hands a copy of the selection to the controller. On success the form
// switches to the confirmation view and the selection is cleared; on failure
// nothing the user entered is lost.
func (f *Form) Submit(ctx context.Context, customer order.Customer) (*submission.Outcome, error) {
	f.mu.Lock()

	if f.view != ViewForm {
		f.mu.Unlock()

		return nil, ErrConfirmationShown
	}

	f.customer = customer
	snapshot := f.selection.Clone()
	f.mu.Unlock()

	outcome, err := f.controller.Submit(ctx, customer, snapshot)

	switch {
	case errors.Is(err, submission.ErrInFlight):
		return nil, err
	case err != nil:
		f.mu.Lock()
		defer f.mu.Unlock()

		if inputErr := order.IsInputError(err); inputErr != nil {
			f.fieldErrors = inputErr.Fields()
			f.failure = ""

			return nil, err
		}

		f.fieldErrors = nil
		f.failure = FailureMessage

		return outcome, err
	}

	return outcome, f.mutate(func() error {
		f.selection.Clear()
		f.view = ViewConfirmation
		f.customer = order.Customer{}
		f.fieldErrors = nil
		f.failure = ""

		return nil
	})
}

// Reset returns to an empty form view.
func (f *Form) Reset() error {
	if err := f.controller.Reset(); err != nil {
		return fmt.Errorf("reset submission: %w", err)
	}

	return f.mutate(func() error {
		f.selection.Clear()
		f.view = ViewForm
		f.customer = order.Customer{}
		f.fieldErrors = nil
		f.failure = ""

		return nil
	})
}

type OptionState struct {
	Option   catalog.Option
	Selected bool
	Range    order.DateRange
	Picker   *picker.Config
}

// Snapshot is everything the presentation layer renders.
type Snapshot struct {
	View          View
	State         submission.State
	SubmitEnabled bool
	SubmitLabel   string
	Customer      order.Customer
	Options       []OptionState
	Summary       order.Summary
	FieldErrors   map[string][]string
	Failure       string
}

func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	options := f.catalog.Options()
	states := make([]OptionState, 0, len(options))

	for _, opt := range options {
		//nolint:exhaustruct
		state := OptionState{
			Option:   opt,
			Selected: f.selection.IsSelected(opt.ID),
		}

		state.Range, _ = f.selection.Range(opt.ID)

		if p := f.selection.Picker(opt.ID); p != nil {
			conf := p.Config()
			state.Picker = &conf
		}

		states = append(states, state)
	}

	return Snapshot{
		View:          f.view,
		State:         f.controller.State(),
		SubmitEnabled: f.controller.SubmitEnabled(),
		SubmitLabel:   f.controller.SubmitLabel(),
		Customer:      f.customer,
		Options:       states,
		Summary:       f.projector.Project(f.selection),
		FieldErrors:   f.fieldErrors,
		Failure:       f.failure,
	}
}
