package form

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avstrong/orderform/internal/catalog"
	"github.com/avstrong/orderform/internal/idgen/uuidgen"
	"github.com/avstrong/orderform/internal/logger"
	"github.com/avstrong/orderform/internal/nights"
	"github.com/avstrong/orderform/internal/order"
	"github.com/avstrong/orderform/internal/picker"
	"github.com/avstrong/orderform/internal/submission"
	"github.com/avstrong/orderform/internal/transport/formpost"
)

type stubTransport struct {
	err   error
	calls int
}

func (s *stubTransport) Send(context.Context, *formpost.Request) error {
	s.calls++

	return s.err
}

func sep(day int) time.Time {
	return catalog.Date(2026, time.September, day)
}

func newForm(t *testing.T, tr *stubTransport) *Form {
	t.Helper()

	c := catalog.MustDefault()
	engine := nights.New(c)
	l := logger.Discard()

	ctrl := submission.New(l, order.NewBuilder(engine, c.Currency(), uuidgen.New()), tr)

	return New(l, c, order.NewProjector(engine, c.Currency()), ctrl)
}

var ada = order.Customer{FullName: "Ada Lovelace", Email: "ada@example.org"}

func TestToggleAndPickNotifySubscribers(t *testing.T) {
	f := newForm(t, &stubTransport{})

	var renders []order.Summary

	f.Subscribe(func(s order.Summary) { renders = append(renders, s) })

	if err := f.Toggle("pre-post-night", true); err != nil {
		t.Fatal(err)
	}

	if err := f.PickRange("pre-post-night", sep(10), sep(20)); err != nil {
		t.Fatal(err)
	}

	if len(renders) != 2 {
		t.Fatalf("expected 2 renders, got %d", len(renders))
	}

	if !renders[0].NeedsDates || renders[1].Total != 2160 {
		t.Errorf("unexpected renders %+v", renders)
	}

	if f.Summary().Total != 2160 {
		t.Errorf("summary out of sync with renders")
	}
}

func TestFailedMutationDoesNotRender(t *testing.T) {
	f := newForm(t, &stubTransport{})

	renders := 0
	f.Subscribe(func(order.Summary) { renders++ })

	if err := f.Toggle("spa", true); !errors.Is(err, order.ErrUnknownOption) {
		t.Errorf("expected ErrUnknownOption, got %v", err)
	}

	if err := f.PickRange("bike-rental", sep(10), sep(12)); !errors.Is(err, order.ErrNotSelected) {
		t.Errorf("expected ErrNotSelected, got %v", err)
	}

	if err := f.Toggle("airport-transfer", true); err != nil {
		t.Fatal(err)
	}

	if err := f.PickRange("airport-transfer", sep(10), sep(12)); !errors.Is(err, order.ErrNotPerNight) {
		t.Errorf("expected ErrNotPerNight, got %v", err)
	}

	if renders != 1 {
		t.Errorf("only the successful toggle should render, got %d", renders)
	}
}

func TestPickRangeRejectsIncludedDatesForPrePost(t *testing.T) {
	f := newForm(t, &stubTransport{})

	if err := f.Toggle("pre-post-night", true); err != nil {
		t.Fatal(err)
	}

	if err := f.PickRange("pre-post-night", sep(14), sep(20)); picker.IsDateError(err) == nil {
		t.Errorf("expected a DateError, got %v", err)
	}

	if err := f.Toggle("bike-rental", true); err != nil {
		t.Fatal(err)
	}

	if err := f.PickRange("bike-rental", sep(14), sep(15)); err != nil {
		t.Errorf("bike rental may use included dates, got %v", err)
	}
}

func TestSnapshot(t *testing.T) {
	f := newForm(t, &stubTransport{})

	empty := f.Snapshot()
	if empty.View != ViewForm || !empty.Summary.Empty || !empty.SubmitEnabled || empty.SubmitLabel != submission.LabelSubmit {
		t.Errorf("unexpected initial snapshot %+v", empty)
	}

	if err := f.Toggle("bike-rental", true); err != nil {
		t.Fatal(err)
	}

	snap := f.Snapshot()
	if len(snap.Options) != 4 {
		t.Fatalf("expected every catalog option, got %d", len(snap.Options))
	}

	for _, opt := range snap.Options {
		switch opt.Option.ID {
		case "bike-rental":
			if !opt.Selected || opt.Picker == nil || len(opt.Picker.HighlightedDates) != 5 {
				t.Errorf("unexpected bike rental state %+v", opt)
			}
		default:
			if opt.Selected || opt.Picker != nil {
				t.Errorf("unexpected state for %s: %+v", opt.Option.ID, opt)
			}
		}
	}
}

func TestSubmitSuccessShowsConfirmationAndClears(t *testing.T) {
	tr := &stubTransport{}
	f := newForm(t, tr)

	if err := f.Toggle("bike-rental", true); err != nil {
		t.Fatal(err)
	}

	if err := f.PickRange("bike-rental", sep(13), sep(17)); err != nil {
		t.Fatal(err)
	}

	out, err := f.Submit(context.Background(), ada)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Payload.Summary.TotalAmount != 400 {
		t.Errorf("unexpected total %v", out.Payload.Summary.TotalAmount)
	}

	snap := f.Snapshot()
	if snap.View != ViewConfirmation || !snap.Summary.Empty || snap.State != submission.StateSucceeded {
		t.Errorf("unexpected snapshot after success %+v", snap)
	}

	if err := f.Toggle("bike-rental", true); !errors.Is(err, ErrConfirmationShown) {
		t.Errorf("expected ErrConfirmationShown, got %v", err)
	}

	if err := f.Reset(); err != nil {
		t.Fatal(err)
	}

	snap = f.Snapshot()
	if snap.View != ViewForm || snap.State != submission.StateIdle || !snap.Summary.Empty {
		t.Errorf("unexpected snapshot after reset %+v", snap)
	}
}

func TestSubmitValidationFailure(t *testing.T) {
	tr := &stubTransport{}
	f := newForm(t, tr)

	if _, err := f.Submit(context.Background(), order.Customer{FullName: "Ada"}); order.IsInputError(err) == nil {
		t.Fatalf("expected an input error, got %v", err)
	}

	snap := f.Snapshot()
	if _, ok := snap.FieldErrors["email"]; !ok {
		t.Errorf("expected an email field error, got %v", snap.FieldErrors)
	}

	if tr.calls != 0 || !snap.SubmitEnabled || snap.View != ViewForm {
		t.Errorf("unexpected state after validation failure %+v", snap)
	}

	if snap.Customer.FullName != "Ada" {
		t.Errorf("entered name must be kept, got %q", snap.Customer.FullName)
	}
}

func TestSubmitTransportFailureKeepsSelection(t *testing.T) {
	tr := &stubTransport{err: &formpost.RejectedError{StatusCode: 503}}
	f := newForm(t, tr)

	if err := f.Toggle("pre-post-night", true); err != nil {
		t.Fatal(err)
	}

	if err := f.PickRange("pre-post-night", sep(10), sep(20)); err != nil {
		t.Fatal(err)
	}

	before := f.Summary()

	if _, err := f.Submit(context.Background(), ada); !errors.Is(err, submission.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}

	snap := f.Snapshot()
	if snap.Failure != FailureMessage || !snap.SubmitEnabled || snap.View != ViewForm {
		t.Errorf("unexpected snapshot after failure %+v", snap)
	}

	if snap.Summary.Total != before.Total || len(snap.Summary.Lines) != len(before.Lines) {
		t.Errorf("selection changed after a failed submission")
	}

	tr.err = nil

	if _, err := f.Submit(context.Background(), ada); err != nil {
		t.Errorf("manual retry must succeed, got %v", err)
	}

	if tr.calls != 2 {
		t.Errorf("expected 2 attempts, got %d", tr.calls)
	}
}
