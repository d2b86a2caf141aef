package order

import "time"

type Customer struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,basicemail"`
}

// DateRange is either complete or empty. Partial ranges are never stored.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) Complete() bool {
	return !r.From.IsZero() && !r.To.IsZero()
}

type SummaryLine struct {
	OptionID  string  `json:"optionId"`
	Name      string  `json:"name"`
	Nights    *int    `json:"nights"`
	LineTotal float64 `json:"lineTotal"`
	// NeedsDates is set on per-night lines still waiting for a complete range.
	NeedsDates bool `json:"needsDates,omitempty"`
}

type Summary struct {
	Lines      []SummaryLine `json:"lines"`
	Total      float64       `json:"total"`
	Currency   string        `json:"currency"`
	NeedsDates bool          `json:"needsDates"`
	// Empty means nothing is selected, which renders differently from a zero total.
	Empty bool `json:"empty"`
}

type PayloadCustomer struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

type PayloadOption struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	PricePerNight *float64 `json:"pricePerNight"`
	DateFrom      *string  `json:"dateFrom"`
	DateTo        *string  `json:"dateTo"`
	Nights        *int     `json:"nights"`
	Total         float64  `json:"total"`
}

type PayloadSummary struct {
	TotalAmount float64 `json:"totalAmount"`
	Currency    string  `json:"currency"`
}

// Payload is the submission snapshot. It is never modified once built.
type Payload struct {
	ID          string          `json:"id"`
	Customer    PayloadCustomer `json:"customer"`
	Options     []PayloadOption `json:"options"`
	Summary     PayloadSummary  `json:"summary"`
	SubmittedAt string          `json:"submittedAt"`
}
