package picker

import (
	"fmt"
	"sync"
	"time"

	"github.com/avstrong/orderform/internal/catalog"
)

type Mode string

const ModeRange Mode = "range"

type Config struct {
	Mode             Mode        `json:"mode"`
	MinDate          time.Time   `json:"minDate"`
	MaxDate          time.Time   `json:"maxDate"`
	DisabledDates    []time.Time `json:"disabledDates,omitempty"`
	HighlightedDates []time.Time `json:"highlightedDates,omitempty"`
	OpenYear         int         `json:"openYear"`
	OpenMonth        time.Month  `json:"openMonth"`
}

type pickerCatalog interface {
	IncludedWindow() catalog.Window
	Bounds() (time.Time, time.Time)
	OpenMonth() (int, time.Month)
}

// ConfigFor derives the picker configuration of a per-night option.
// Included nights are highlighted for every option and disabled for those excluding them.
func ConfigFor(c pickerCatalog, opt catalog.Option) Config {
	minDate, maxDate := c.Bounds()
	year, month := c.OpenMonth()
	included := c.IncludedWindow().Dates()

	conf := Config{
		Mode:             ModeRange,
		MinDate:          minDate,
		MaxDate:          maxDate,
		HighlightedDates: included,
		OpenYear:         year,
		OpenMonth:        month,
	}

	if opt.ExcludesIncludedWindow {
		conf.DisabledDates = append([]time.Time(nil), included...)
	}

	return conf
}

// Picker is the calendar resource owned by one selected option.
type Picker struct {
	mu            sync.Mutex
	optionID      string
	conf          Config
	onRangeChange func(from, to time.Time) error
	destroyed     bool
}

func New(optionID string, conf Config, onRangeChange func(from, to time.Time) error) *Picker {
	//nolint:exhaustruct
	return &Picker{
		optionID:      optionID,
		conf:          conf,
		onRangeChange: onRangeChange,
	}
}

func (p *Picker) OptionID() string {
	return p.optionID
}

func (p *Picker) Config() Config {
	return p.conf
}

// Pick forwards a user selection to the owner. Either endpoint may be zero while the range is being built.
func (p *Picker) Pick(from, to time.Time) error {
	p.mu.Lock()
	destroyed, onRangeChange := p.destroyed, p.onRangeChange
	p.mu.Unlock()

	if destroyed {
		return fmt.Errorf("picker for option %q: %w", p.optionID, ErrDestroyed)
	}

	if err := p.check(from, to); err != nil {
		return err
	}

	if onRangeChange == nil {
		return nil
	}

	return onRangeChange(catalog.Midnight(from), catalog.Midnight(to))
}

func (p *Picker) check(from, to time.Time) error {
	outOfRange := NewDateError()

	for _, d := range []time.Time{from, to} {
		if d.IsZero() {
			continue
		}

		d = catalog.Midnight(d)

		if (!p.conf.MinDate.IsZero() && d.Before(p.conf.MinDate)) ||
			(!p.conf.MaxDate.IsZero() && d.After(p.conf.MaxDate)) {
			outOfRange.add(d, "outside the selectable range")

			continue
		}

		for _, disabled := range p.conf.DisabledDates {
			if disabled.Equal(d) {
				outOfRange.add(d, "already included in the package")

				break
			}
		}
	}

	if outOfRange.count() > 0 {
		return outOfRange
	}

	return nil
}

// Destroy releases the picker. It is safe to call more than once.
func (p *Picker) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.destroyed = true
	p.onRangeChange = nil
}

func (p *Picker) Destroyed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.destroyed
}
