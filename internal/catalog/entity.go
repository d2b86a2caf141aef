package catalog

import "time"

// DateLayout is the calendar date format used on the wire and in config files.
const DateLayout = "2006-01-02"

// Option is a static catalog entry. A nil PricePerNight marks a flat option
// charged once per selection.
type Option struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	PricePerNight *float64 `json:"pricePerNight"`
	FlatPrice     float64  `json:"flatPrice,omitempty"`
	// ExcludesIncludedWindow makes nights inside the included window free of charge.
	ExcludesIncludedWindow bool `json:"excludesIncludedWindow,omitempty"`
}

func (o Option) PerNight() bool {
	return o.PricePerNight != nil
}

func (o Option) clone() Option {
	if o.PricePerNight != nil {
		o.PricePerNight = Price(*o.PricePerNight)
	}

	return o
}

// NightPrice returns the nightly price, 0 for flat options.
func (o Option) NightPrice() float64 {
	if o.PricePerNight == nil {
		return 0
	}

	return *o.PricePerNight
}

// Window is a closed calendar interval [From, To].
type Window struct {
	From time.Time
	To   time.Time
}

func (w Window) Contains(d time.Time) bool {
	d = Midnight(d)

	return !d.Before(w.From) && !d.After(w.To)
}

// Dates lists every calendar day of the window.
func (w Window) Dates() []time.Time {
	var dates []time.Time

	for d := w.From; !d.After(w.To); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}

	return dates
}

// Midnight drops the time of day and the zone, keeping the calendar date as seen in t's location.
func Midnight(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}

	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date is a shortcut for a UTC midnight value.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func Price(v float64) *float64 {
	return &v
}
