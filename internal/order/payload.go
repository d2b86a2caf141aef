package order

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/avstrong/orderform/internal/catalog"
)

// TimestampLayout is a sortable UTC instant with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

type idGenerator interface {
	GetID(ctx context.Context) (string, error)
}

type Builder struct {
	engine      nightEngine
	currency    string
	idGenerator idGenerator
	now         func() time.Time
}

func NewBuilder(engine nightEngine, currency string, idGenerator idGenerator) *Builder {
	return &Builder{
		engine:      engine,
		currency:    currency,
		idGenerator: idGenerator,
		now:         time.Now,
	}
}

// WithClock replaces the time source used for submittedAt.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	return &Builder{
		engine:      b.engine,
		currency:    b.currency,
		idGenerator: b.idGenerator,
		now:         now,
	}
}

// Build snapshots the customer and the selection. Nights and totals are recomputed here
// and a fresh id is drawn on every call, retries included.
func (b *Builder) Build(ctx context.Context, customer Customer, sel *Selection) (*Payload, error) {
	id, err := b.idGenerator.GetID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNextID, err)
	}

	customer = customer.Normalized()

	selected := sel.Selected()

	payload := &Payload{
		ID: id,
		Customer: PayloadCustomer{
			FullName: customer.FullName,
			Email:    customer.Email,
		},
		Options: make([]PayloadOption, 0, len(selected)),
		Summary: PayloadSummary{
			Currency: b.currency,
		},
		SubmittedAt: b.now().UTC().Format(TimestampLayout),
	}

	for _, item := range selected {
		opt := b.option(item)

		payload.Options = append(payload.Options, opt)
		payload.Summary.TotalAmount += opt.Total
	}

	return payload, nil
}

func (b *Builder) option(item Selected) PayloadOption {
	//nolint:exhaustruct
	out := PayloadOption{
		ID:   item.Option.ID,
		Name: item.Option.Name,
	}

	if !item.Option.PerNight() {
		out.Total = item.Option.FlatPrice

		return out
	}

	out.PricePerNight = catalog.Price(item.Option.NightPrice())

	if !item.Range.Complete() {
		out.Nights = intPtr(0)

		return out
	}

	out.DateFrom = datePtr(item.Range.From)
	out.DateTo = datePtr(item.Range.To)
	out.Nights = intPtr(b.engine.OptionNights(item.Option, item.Range.From, item.Range.To))
	out.Total = b.engine.LineTotal(item.Option, item.Range.From, item.Range.To)

	return out
}

func datePtr(d time.Time) *string {
	s := d.Format(catalog.DateLayout)

	return &s
}

func (p *Payload) Marshal() ([]byte, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal payload %s: %w", p.ID, err)
	}

	return raw, nil
}
