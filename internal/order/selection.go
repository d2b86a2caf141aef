package order

import (
	"fmt"
	"time"

	"github.com/avstrong/orderform/internal/catalog"
	"github.com/avstrong/orderform/internal/picker"
)

type selectionCatalog interface {
	Options() []catalog.Option
	Option(id string) (catalog.Option, bool)
	IncludedWindow() catalog.Window
	Bounds() (time.Time, time.Time)
	OpenMonth() (int, time.Month)
}

type entry struct {
	rng    DateRange
	picker *picker.Picker
}

// Selected is one chosen option with its current range.
type Selected struct {
	Option catalog.Option
	Range  DateRange
}

// Selection tracks which add-ons are chosen and the date range of each per-night one.
// Selected per-night options own a picker for as long as they stay selected.
type Selection struct {
	catalog  selectionCatalog
	entries  map[string]*entry
	detached bool
}

func NewSelection(c selectionCatalog) *Selection {
	//nolint:exhaustruct
	return &Selection{
		catalog: c,
		entries: make(map[string]*entry),
	}
}

func (s *Selection) SetSelected(optionID string, selected bool) error {
	opt, ok := s.catalog.Option(optionID)
	if !ok {
		return fmt.Errorf("select %q: %w", optionID, ErrUnknownOption)
	}

	current, isSelected := s.entries[optionID]

	switch {
	case selected && isSelected, !selected && !isSelected:
		return nil
	case !selected:
		if current.picker != nil {
			current.picker.Destroy()
		}

		delete(s.entries, optionID)

		return nil
	}

	//nolint:exhaustruct
	e := &entry{}

	if opt.PerNight() && !s.detached {
		e.picker = picker.New(opt.ID, picker.ConfigFor(s.catalog, opt), func(from, to time.Time) error {
			return s.SetDateRange(opt.ID, from, to)
		})
	}

	s.entries[optionID] = e

	return nil
}

// SetDateRange stores a complete range. A range missing an endpoint clears the stored one.
func (s *Selection) SetDateRange(optionID string, from, to time.Time) error {
	opt, ok := s.catalog.Option(optionID)
	if !ok {
		return fmt.Errorf("set range of %q: %w", optionID, ErrUnknownOption)
	}

	e, selected := s.entries[optionID]
	if !selected {
		return fmt.Errorf("set range of %q: %w", optionID, ErrNotSelected)
	}

	if !opt.PerNight() {
		return fmt.Errorf("set range of %q: %w", optionID, ErrNotPerNight)
	}

	rng := DateRange{From: catalog.Midnight(from), To: catalog.Midnight(to)}

	if !rng.Complete() {
		e.rng = DateRange{}

		return nil
	}

	if rng.To.Before(rng.From) {
		return fmt.Errorf(
			"set range of %q to %v..%v: %w",
			optionID,
			rng.From.Format(catalog.DateLayout),
			rng.To.Format(catalog.DateLayout),
			ErrInvertedRange,
		)
	}

	e.rng = rng

	return nil
}

func (s *Selection) IsSelected(optionID string) bool {
	_, ok := s.entries[optionID]

	return ok
}

// Range returns the stored range and whether it is complete.
func (s *Selection) Range(optionID string) (DateRange, bool) {
	e, ok := s.entries[optionID]
	if !ok {
		return DateRange{}, false
	}

	return e.rng, e.rng.Complete()
}

// Picker returns the calendar resource of a selected per-night option, nil otherwise.
func (s *Selection) Picker(optionID string) *picker.Picker {
	e, ok := s.entries[optionID]
	if !ok {
		return nil
	}

	return e.picker
}

// SelectedOptionIDs lists selections in catalog order, not in click order.
func (s *Selection) SelectedOptionIDs() []string {
	ids := make([]string, 0, len(s.entries))

	for _, opt := range s.catalog.Options() {
		if _, ok := s.entries[opt.ID]; ok {
			ids = append(ids, opt.ID)
		}
	}

	return ids
}

// Selected returns the chosen options in catalog order together with their ranges.
func (s *Selection) Selected() []Selected {
	out := make([]Selected, 0, len(s.entries))

	for _, opt := range s.catalog.Options() {
		if e, ok := s.entries[opt.ID]; ok {
			out = append(out, Selected{Option: opt, Range: e.rng})
		}
	}

	return out
}

func (s *Selection) Empty() bool {
	return len(s.entries) == 0
}

// Clear drops every selection and destroys the pickers.
func (s *Selection) Clear() {
	for id, e := range s.entries {
		if e.picker != nil {
			e.picker.Destroy()
		}

		delete(s.entries, id)
	}
}

// Clone copies selections and ranges. The copy owns no pickers.
func (s *Selection) Clone() *Selection {
	c := &Selection{
		catalog:  s.catalog,
		entries:  make(map[string]*entry, len(s.entries)),
		detached: true,
	}

	for id, e := range s.entries {
		//nolint:exhaustruct
		c.entries[id] = &entry{rng: e.rng}
	}

	return c
}
