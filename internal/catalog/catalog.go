package catalog

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

type Conf struct {
	Options        []Option
	IncludedWindow Window
	Currency       string
	MinDate        time.Time
	MaxDate        time.Time
	OpenYear       int
	OpenMonth      time.Month
}

// Catalog is the immutable option configuration shared by the whole session.
type Catalog struct {
	options  []Option
	index    map[string]int
	window   Window
	currency string
	minDate  time.Time
	maxDate  time.Time
	openYear int
	openMon  time.Month
}

// Default returns the production catalog: four add-ons around a five day package.
func Default() Conf {
	return Conf{
		Options: []Option{
			{
				ID:                     "pre-post-night",
				Name:                   "Pre/post night",
				PricePerNight:          Price(360), //nolint:gomnd
				ExcludesIncludedWindow: true,
			},
			{
				ID:   "airport-transfer",
				Name: "Airport transfer",
			},
			{
				ID:            "bike-rental",
				Name:          "Bike rental",
				PricePerNight: Price(80), //nolint:gomnd
			},
			{
				ID:   "travel-insurance",
				Name: "Travel insurance",
			},
		},
		IncludedWindow: Window{
			From: Date(2026, time.September, 13), //nolint:gomnd
			To:   Date(2026, time.September, 17), //nolint:gomnd
		},
		Currency:  "EUR",
		MinDate:   Date(2026, time.September, 1),  //nolint:gomnd
		MaxDate:   Date(2026, time.September, 30), //nolint:gomnd
		OpenYear:  2026,                           //nolint:gomnd
		OpenMonth: time.September,
	}
}

func New(conf Conf) (*Catalog, error) {
	if err := conf.validate(); err != nil {
		return nil, err
	}

	options := make([]Option, len(conf.Options))
	index := make(map[string]int, len(conf.Options))

	for i, opt := range conf.Options {
		options[i] = opt.clone()
		index[opt.ID] = i
	}

	return &Catalog{
		options:  options,
		index:    index,
		window:   Window{From: Midnight(conf.IncludedWindow.From), To: Midnight(conf.IncludedWindow.To)},
		currency: conf.Currency,
		minDate:  Midnight(conf.MinDate),
		maxDate:  Midnight(conf.MaxDate),
		openYear: conf.OpenYear,
		openMon:  conf.OpenMonth,
	}, nil
}

// MustDefault builds the default catalog and panics if it is broken.
func MustDefault() *Catalog {
	c, err := New(Default())
	if err != nil {
		panic(err)
	}

	return c
}

func (c Conf) validate() error {
	if len(c.Options) == 0 {
		return fmt.Errorf("catalog has no options: %w", ErrInvalidCatalog)
	}

	seen := make(map[string]struct{}, len(c.Options))

	for _, opt := range c.Options {
		if strings.TrimSpace(opt.ID) == "" {
			return fmt.Errorf("option with empty id: %w", ErrInvalidCatalog)
		}

		if _, ok := seen[opt.ID]; ok {
			return fmt.Errorf("duplicate option id %q: %w", opt.ID, ErrInvalidCatalog)
		}

		seen[opt.ID] = struct{}{}

		if opt.NightPrice() < 0 || opt.FlatPrice < 0 {
			return fmt.Errorf("option %q has a negative price: %w", opt.ID, ErrInvalidCatalog)
		}

		if !opt.PerNight() && opt.ExcludesIncludedWindow {
			return fmt.Errorf("flat option %q cannot exclude the included window: %w", opt.ID, ErrInvalidCatalog)
		}
	}

	if c.IncludedWindow.From.IsZero() || c.IncludedWindow.To.IsZero() ||
		Midnight(c.IncludedWindow.To).Before(Midnight(c.IncludedWindow.From)) {
		return fmt.Errorf("included window %v..%v: %w", c.IncludedWindow.From, c.IncludedWindow.To, ErrInvalidCatalog)
	}

	if !c.MinDate.IsZero() && !c.MaxDate.IsZero() && c.MaxDate.Before(c.MinDate) {
		return fmt.Errorf("picker bounds %v..%v: %w", c.MinDate, c.MaxDate, ErrInvalidCatalog)
	}

	if strings.TrimSpace(c.Currency) == "" {
		return fmt.Errorf("currency is required: %w", ErrInvalidCatalog)
	}

	return nil
}

// Options returns the entries in declaration order.
func (c *Catalog) Options() []Option {
	out := make([]Option, len(c.options))
	for i, opt := range c.options {
		out[i] = opt.clone()
	}

	return out
}

func (c *Catalog) Option(id string) (Option, bool) {
	i, ok := c.index[id]
	if !ok {
		return Option{}, false
	}

	return c.options[i].clone(), true
}

// Position is the declaration index of an option, -1 if unknown.
func (c *Catalog) Position(id string) int {
	i, ok := c.index[id]
	if !ok {
		return -1
	}

	return i
}

func (c *Catalog) IncludedWindow() Window {
	return c.window
}

func (c *Catalog) Currency() string {
	return c.currency
}

// Bounds returns the selectable date range. Zero values mean unbounded.
func (c *Catalog) Bounds() (time.Time, time.Time) {
	return c.minDate, c.maxDate
}

// OpenMonth is the month every picker opens on.
func (c *Catalog) OpenMonth() (int, time.Month) {
	if c.openYear == 0 {
		return c.window.From.Year(), c.window.From.Month()
	}

	return c.openYear, c.openMon
}

type fileWindow struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type fileConf struct {
	Options        []Option   `json:"options"`
	IncludedWindow fileWindow `json:"includedWindow"`
	Currency       string     `json:"currency"`
	MinDate        string     `json:"minDate"`
	MaxDate        string     `json:"maxDate"`
	OpenMonth      string     `json:"openMonth"`
}

// Load reads a catalog from a JSON file. Missing optional keys fall back to Default.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file %s: %w", path, err)
	}

	return Parse(raw)
}

func Parse(raw []byte) (*Catalog, error) {
	var fc fileConf

	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	conf := Default()
	conf.Options = fc.Options

	if fc.Currency != "" {
		conf.Currency = fc.Currency
	}

	var err error

	if conf.IncludedWindow.From, err = parseDate("includedWindow.from", fc.IncludedWindow.From); err != nil {
		return nil, err
	}

	if conf.IncludedWindow.To, err = parseDate("includedWindow.to", fc.IncludedWindow.To); err != nil {
		return nil, err
	}

	if fc.MinDate != "" {
		if conf.MinDate, err = parseDate("minDate", fc.MinDate); err != nil {
			return nil, err
		}
	}

	if fc.MaxDate != "" {
		if conf.MaxDate, err = parseDate("maxDate", fc.MaxDate); err != nil {
			return nil, err
		}
	}

	if fc.OpenMonth != "" {
		month, err := time.Parse("2006-01", fc.OpenMonth)
		if err != nil {
			return nil, fmt.Errorf("openMonth %q: %w", fc.OpenMonth, ErrInvalidCatalog)
		}

		conf.OpenYear, conf.OpenMonth = month.Year(), month.Month()
	}

	return New(conf)
}

func parseDate(field, value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s %q: %w", field, value, ErrInvalidCatalog)
	}

	return d, nil
}
