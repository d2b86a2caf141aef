package submission

import (
	"context"
	"fmt"
	"sync"

	"github.com/avstrong/orderform/internal/catalog"
	"github.com/avstrong/orderform/internal/logger"
	"github.com/avstrong/orderform/internal/order"
	"github.com/avstrong/orderform/internal/transport/formpost"
)

type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

const (
	LabelSubmit  = "Submit application"
	LabelSending = "Sending…"
)

type transport interface {
	Send(ctx context.Context, req *formpost.Request) error
}

type payloadBuilder interface {
	Build(ctx context.Context, customer order.Customer, sel *order.Selection) (*order.Payload, error)
}

type Outcome struct {
	State   State
	Payload *order.Payload
}

// Controller runs one submission at a time. A second Submit while one is
// validating or in flight is rejected, not queued.
type Controller struct {
	mu            sync.Mutex
	l             *logger.Logger
	builder       payloadBuilder
	transport     transport
	state         State
	submitEnabled bool
}

func New(l *logger.Logger, builder payloadBuilder, transport transport) *Controller {
	//nolint:exhaustruct
	return &Controller{
		l:             l,
		builder:       builder,
		transport:     transport,
		state:         StateIdle,
		submitEnabled: true,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

func (c *Controller) SubmitEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.submitEnabled
}

func (c *Controller) SubmitLabel() string {
	if c.SubmitEnabled() {
		return LabelSubmit
	}

	return LabelSending
}

func (c *Controller) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateValidating, StateSubmitting:
		return ErrInFlight
	case StateSucceeded:
		return ErrAlreadySubmitted
	case StateIdle, StateFailed:
	}

	c.state = StateValidating

	return nil
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = s
}

// Submit validates the customer, snapshots the selection into a payload and
// posts it. The selection is only read. Validation failures come back as
// *order.InputError without any network call; transport failures wrap ErrTransport.
func (c *Controller) Submit(ctx context.Context, customer order.Customer, sel *order.Selection) (*Outcome, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}

	if err := customer.Validate(); err != nil {
		c.setState(StateIdle)

		return nil, err
	}

	payload, err := c.builder.Build(ctx, customer, sel)
	if err != nil {
		c.setState(StateFailed)

		return nil, fmt.Errorf("build payload: %w", err)
	}

	raw, err := payload.Marshal()
	if err != nil {
		c.setState(StateFailed)

		return nil, fmt.Errorf("serialise payload: %w", err)
	}

	return c.send(ctx, payload, &formpost.Request{
		Fields:  FormFields(customer, sel),
		Payload: raw,
	})
}

func (c *Controller) send(ctx context.Context, payload *order.Payload, req *formpost.Request) (*Outcome, error) {
	c.mu.Lock()
	c.state = StateSubmitting
	c.submitEnabled = false
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		if c.state == StateSubmitting {
			c.state = StateFailed
		}

		c.submitEnabled = true
	}()

	// A dispatched submission runs to completion even if the caller goes away.
	if err := c.transport.Send(context.WithoutCancel(ctx), req); err != nil {
		c.l.LogErrorf("Could not submit application %s: %v", payload.ID, err.Error())
		c.setState(StateFailed)

		return &Outcome{State: StateFailed, Payload: payload}, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	c.l.LogInfo("Application %s submitted, total %.2f %s", payload.ID, payload.Summary.TotalAmount, payload.Summary.Currency)
	c.setState(StateSucceeded)

	return &Outcome{State: StateSucceeded, Payload: payload}, nil
}

// Reset brings a finished controller back to Idle.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateValidating || c.state == StateSubmitting {
		return ErrInFlight
	}

	c.state = StateIdle
	c.submitEnabled = true

	return nil
}

// FormFields flattens the customer and the selection into plain form values, catalog order.
func FormFields(customer order.Customer, sel *order.Selection) []formpost.Field {
	customer = customer.Normalized()

	fields := []formpost.Field{
		{Name: "fullName", Value: customer.FullName},
		{Name: "email", Value: customer.Email},
	}

	selected := sel.Selected()

	for _, item := range selected {
		fields = append(fields, formpost.Field{Name: "options", Value: item.Option.ID})
	}

	for _, item := range selected {
		if !item.Range.Complete() {
			continue
		}

		fields = append(fields,
			formpost.Field{Name: item.Option.ID + "_from", Value: item.Range.From.Format(catalog.DateLayout)},
			formpost.Field{Name: item.Option.ID + "_to", Value: item.Range.To.Format(catalog.DateLayout)},
		)
	}

	return fields
}
