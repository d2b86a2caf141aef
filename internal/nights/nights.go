// Package nights computes billable nights for add-on options.
//
// Every function here treats a missing or inverted range as "nothing selected
// yet" and returns zero instead of an error.
package nights

import (
	"time"

	"github.com/avstrong/orderform/internal/catalog"
)

type optionCatalog interface {
	Option(id string) (catalog.Option, bool)
	IncludedWindow() catalog.Window
}

type Engine struct {
	catalog optionCatalog
}

func New(c optionCatalog) *Engine {
	return &Engine{catalog: c}
}

const secondsPerDay = 24 * 60 * 60

// CountNights is the inclusive number of calendar days in [from, to].
func CountNights(from, to time.Time) int {
	if from.IsZero() || to.IsZero() {
		return 0
	}

	from, to = catalog.Midnight(from), catalog.Midnight(to)
	if to.Before(from) {
		return 0
	}

	// Both ends are UTC midnights.
	return int((to.Unix()-from.Unix())/secondsPerDay) + 1
}

func (e *Engine) IsIncludedNight(d time.Time) bool {
	if d.IsZero() {
		return false
	}

	return e.catalog.IncludedWindow().Contains(d)
}

// ChargeableNights resolves the option by id. Unknown ids and flat options charge no nights.
func (e *Engine) ChargeableNights(optionID string, from, to time.Time) int {
	opt, ok := e.catalog.Option(optionID)
	if !ok {
		return 0
	}

	return e.OptionNights(opt, from, to)
}

func (e *Engine) OptionNights(opt catalog.Option, from, to time.Time) int {
	if !opt.PerNight() {
		return 0
	}

	if !opt.ExcludesIncludedWindow {
		return CountNights(from, to)
	}

	if CountNights(from, to) == 0 {
		return 0
	}

	var nights int

	for d := catalog.Midnight(from); !d.After(catalog.Midnight(to)); d = d.AddDate(0, 0, 1) {
		if e.IsIncludedNight(d) {
			continue
		}

		nights++
	}

	return nights
}

// LineTotal prices a complete range. Flat options are charged their unit price.
func (e *Engine) LineTotal(opt catalog.Option, from, to time.Time) float64 {
	if !opt.PerNight() {
		return opt.FlatPrice
	}

	return float64(e.OptionNights(opt, from, to)) * opt.NightPrice()
}
