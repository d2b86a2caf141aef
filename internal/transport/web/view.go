package web

import (
	"time"

	"github.com/avstrong/orderform/internal/catalog"
	"github.com/avstrong/orderform/internal/form"
	"github.com/avstrong/orderform/internal/order"
	"github.com/avstrong/orderform/internal/picker"
)

type submitControl struct {
	Enabled bool   `json:"enabled"`
	Label   string `json:"label"`
}

type pickerView struct {
	Mode             picker.Mode `json:"mode"`
	MinDate          *string     `json:"minDate"`
	MaxDate          *string     `json:"maxDate"`
	DisabledDates    []string    `json:"disabledDates"`
	HighlightedDates []string    `json:"highlightedDates"`
	OpenMonth        string      `json:"openMonth"`
}

type optionView struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	PricePerNight *float64    `json:"pricePerNight"`
	FlatPrice     float64     `json:"flatPrice"`
	Selected      bool        `json:"selected"`
	DateFrom      *string     `json:"dateFrom"`
	DateTo        *string     `json:"dateTo"`
	Picker        *pickerView `json:"picker"`
}

type formView struct {
	View        form.View           `json:"view"`
	State       string              `json:"state"`
	Submit      submitControl       `json:"submit"`
	Customer    order.Customer      `json:"customer"`
	Options     []optionView        `json:"options"`
	Summary     order.Summary       `json:"summary"`
	FieldErrors map[string][]string `json:"fieldErrors,omitempty"`
	Failure     string              `json:"failure,omitempty"`
}

type rangeRequest struct {
	From *string `json:"from"`
	To   *string `json:"to"`
}

type toggleRequest struct {
	Selected *bool `json:"selected"`
}

type submitResponse struct {
	ID      string               `json:"id"`
	View    form.View            `json:"view"`
	Summary order.PayloadSummary `json:"summary"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func newFormView(snap form.Snapshot) formView {
	options := make([]optionView, 0, len(snap.Options))

	for _, opt := range snap.Options {
		options = append(options, optionView{
			ID:            opt.Option.ID,
			Name:          opt.Option.Name,
			PricePerNight: opt.Option.PricePerNight,
			FlatPrice:     opt.Option.FlatPrice,
			Selected:      opt.Selected,
			DateFrom:      formatDate(opt.Range.From),
			DateTo:        formatDate(opt.Range.To),
			Picker:        newPickerView(opt.Picker),
		})
	}

	return formView{
		View:  snap.View,
		State: string(snap.State),
		Submit: submitControl{
			Enabled: snap.SubmitEnabled,
			Label:   snap.SubmitLabel,
		},
		Customer:    snap.Customer,
		Options:     options,
		Summary:     snap.Summary,
		FieldErrors: snap.FieldErrors,
		Failure:     snap.Failure,
	}
}

func newPickerView(conf *picker.Config) *pickerView {
	if conf == nil {
		return nil
	}

	return &pickerView{
		Mode:             conf.Mode,
		MinDate:          formatDate(conf.MinDate),
		MaxDate:          formatDate(conf.MaxDate),
		DisabledDates:    formatDates(conf.DisabledDates),
		HighlightedDates: formatDates(conf.HighlightedDates),
		OpenMonth:        time.Date(conf.OpenYear, conf.OpenMonth, 1, 0, 0, 0, 0, time.UTC).Format("2006-01"),
	}
}

func formatDate(d time.Time) *string {
	if d.IsZero() {
		return nil
	}

	s := d.Format(catalog.DateLayout)

	return &s
}

func formatDates(dates []time.Time) []string {
	out := make([]string, 0, len(dates))

	for _, d := range dates {
		out = append(out, d.Format(catalog.DateLayout))
	}

	return out
}

// parseDate accepts null or an empty string as "no date yet".
func parseDate(value *string) (time.Time, error) {
	if value == nil || *value == "" {
		return time.Time{}, nil
	}

	return time.Parse(catalog.DateLayout, *value)
}
