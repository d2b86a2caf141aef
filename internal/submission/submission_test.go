package submission

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/avstrong/orderform/internal/catalog"
	"github.com/avstrong/orderform/internal/idgen/uuidgen"
	"github.com/avstrong/orderform/internal/logger"
	"github.com/avstrong/orderform/internal/nights"
	"github.com/avstrong/orderform/internal/order"
	"github.com/avstrong/orderform/internal/transport/formpost"
)

type fakeTransport struct {
	mu       sync.Mutex
	err      error
	requests []*formpost.Request
	during   func()
}

func (f *fakeTransport) Send(_ context.Context, req *formpost.Request) error {
	if f.during != nil {
		f.during()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)

	return f.err
}

func (f *fakeTransport) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.requests)
}

// cancellingTransport cancels the caller's context once the request is on its way.
type cancellingTransport struct {
	cancel context.CancelFunc
}

func (c *cancellingTransport) Send(ctx context.Context, _ *formpost.Request) error {
	c.cancel()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

var validCustomer = order.Customer{FullName: "Ada Lovelace", Email: "ada@example.org"}

func setup(t *testing.T, tr *fakeTransport) (*Controller, *order.Selection) {
	t.Helper()

	c := catalog.MustDefault()
	builder := order.NewBuilder(nights.New(c), c.Currency(), uuidgen.New())

	sel := order.NewSelection(c)
	if err := sel.SetSelected("pre-post-night", true); err != nil {
		t.Fatal(err)
	}

	if err := sel.SetDateRange("pre-post-night", catalog.Date(2026, time.September, 10), catalog.Date(2026, time.September, 20)); err != nil {
		t.Fatal(err)
	}

	return New(logger.Discard(), builder, tr), sel
}

func TestSubmitSuccess(t *testing.T) {
	tr := &fakeTransport{}
	ctrl, sel := setup(t, tr)

	tr.during = func() {
		if ctrl.SubmitEnabled() {
			t.Errorf("submit control must be disabled while sending")
		}

		if ctrl.SubmitLabel() != LabelSending {
			t.Errorf("unexpected label while sending %q", ctrl.SubmitLabel())
		}

		if ctrl.State() != StateSubmitting {
			t.Errorf("expected submitting state, got %s", ctrl.State())
		}
	}

	out, err := ctrl.Submit(context.Background(), validCustomer, sel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.State != StateSucceeded || ctrl.State() != StateSucceeded {
		t.Errorf("expected succeeded, got %s / %s", out.State, ctrl.State())
	}

	if !ctrl.SubmitEnabled() || ctrl.SubmitLabel() != LabelSubmit {
		t.Errorf("submit control must be re-enabled after sending")
	}

	if tr.calls() != 1 {
		t.Fatalf("expected one request, got %d", tr.calls())
	}

	var sent order.Payload
	if err := json.Unmarshal(tr.requests[0].Payload, &sent); err != nil {
		t.Fatalf("payload field is not JSON: %v", err)
	}

	if sent.ID != out.Payload.ID || sent.Summary.TotalAmount != 2160 {
		t.Errorf("unexpected payload on the wire %+v", sent)
	}

	if _, err := ctrl.Submit(context.Background(), validCustomer, sel); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("expected ErrAlreadySubmitted before reset, got %v", err)
	}

	if err := ctrl.Reset(); err != nil {
		t.Fatal(err)
	}

	if ctrl.State() != StateIdle {
		t.Errorf("expected idle after reset, got %s", ctrl.State())
	}
}

func TestSubmitWithEmptyEmailMakesNoCall(t *testing.T) {
	tr := &fakeTransport{}
	ctrl, sel := setup(t, tr)

	_, err := ctrl.Submit(context.Background(), order.Customer{FullName: "Ada", Email: ""}, sel)

	inputErr := order.IsInputError(err)
	if inputErr == nil {
		t.Fatalf("expected an input error, got %v", err)
	}

	if _, ok := inputErr.Fields()["email"]; !ok {
		t.Errorf("expected an email field error, got %v", inputErr.Fields())
	}

	if tr.calls() != 0 {
		t.Errorf("validation failures must not reach the network")
	}

	if ctrl.State() != StateIdle || !ctrl.SubmitEnabled() {
		t.Errorf("expected idle and enabled, got %s / %v", ctrl.State(), ctrl.SubmitEnabled())
	}
}

func TestSubmitTransportFailure(t *testing.T) {
	tr := &fakeTransport{err: &formpost.RejectedError{StatusCode: 500}}
	ctrl, sel := setup(t, tr)

	before := sel.Clone()

	out, err := ctrl.Submit(context.Background(), validCustomer, sel)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}

	if formpost.IsRejectedError(err) == nil {
		t.Errorf("the backend status must stay reachable, got %v", err)
	}

	if out == nil || out.State != StateFailed {
		t.Errorf("expected a failed outcome, got %+v", out)
	}

	if !ctrl.SubmitEnabled() || ctrl.SubmitLabel() != LabelSubmit {
		t.Errorf("submit control must be re-enabled after a failure")
	}

	rng, complete := sel.Range("pre-post-night")
	wantRng, _ := before.Range("pre-post-night")

	if !complete || rng != wantRng || len(sel.SelectedOptionIDs()) != 1 {
		t.Errorf("selection must be left untouched, got %+v", rng)
	}

	tr.err = nil

	retry, err := ctrl.Submit(context.Background(), validCustomer, sel)
	if err != nil {
		t.Fatalf("retry after failure must be allowed, got %v", err)
	}

	if retry.Payload.ID == out.Payload.ID {
		t.Errorf("a retry must carry a fresh id")
	}
}

func TestSubmitWhileInFlightIsRejected(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})

	tr := &fakeTransport{during: func() {
		close(entered)
		<-release
	}}
	ctrl, sel := setup(t, tr)

	done := make(chan error, 1)

	go func() {
		_, err := ctrl.Submit(context.Background(), validCustomer, sel.Clone())
		done <- err
	}()

	<-entered

	if _, err := ctrl.Submit(context.Background(), validCustomer, sel.Clone()); !errors.Is(err, ErrInFlight) {
		t.Errorf("expected ErrInFlight, got %v", err)
	}

	if err := ctrl.Reset(); !errors.Is(err, ErrInFlight) {
		t.Errorf("reset during a submission must be refused, got %v", err)
	}

	close(release)

	if err := <-done; err != nil {
		t.Fatalf("first submission failed: %v", err)
	}

	if tr.calls() != 1 {
		t.Errorf("expected exactly one request, got %d", tr.calls())
	}
}

func TestFormFields(t *testing.T) {
	c := catalog.MustDefault()
	sel := order.NewSelection(c)

	for _, id := range []string{"bike-rental", "airport-transfer", "pre-post-night"} {
		if err := sel.SetSelected(id, true); err != nil {
			t.Fatal(err)
		}
	}

	if err := sel.SetDateRange("bike-rental", catalog.Date(2026, time.September, 13), catalog.Date(2026, time.September, 17)); err != nil {
		t.Fatal(err)
	}

	got := FormFields(order.Customer{FullName: " Ada ", Email: "ada@example.org"}, sel)

	want := []formpost.Field{
		{Name: "fullName", Value: "Ada"},
		{Name: "email", Value: "ada@example.org"},
		{Name: "options", Value: "pre-post-night"},
		{Name: "options", Value: "airport-transfer"},
		{Name: "options", Value: "bike-rental"},
		{Name: "bike-rental_from", Value: "2026-09-13"},
		{Name: "bike-rental_to", Value: "2026-09-17"},
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d fields, got %d: %+v", len(want), len(got), got)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("field %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSubmitOutlivesCallerContext(t *testing.T) {
	_, sel := setup(t, &fakeTransport{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := catalog.MustDefault()
	builder := order.NewBuilder(nights.New(c), c.Currency(), uuidgen.New())
	ctrl := New(logger.Discard(), builder, &cancellingTransport{cancel: cancel})

	out, err := ctrl.Submit(ctx, validCustomer, sel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.State != StateSucceeded || ctrl.State() != StateSucceeded {
		t.Errorf("expected succeeded, got %s / %s", out.State, ctrl.State())
	}
}
