package order

import (
	"time"

	"github.com/avstrong/orderform/internal/catalog"
)

type nightEngine interface {
	OptionNights(opt catalog.Option, from, to time.Time) int
	LineTotal(opt catalog.Option, from, to time.Time) float64
}

type Projector struct {
	engine   nightEngine
	currency string
}

func NewProjector(engine nightEngine, currency string) *Projector {
	return &Projector{
		engine:   engine,
		currency: currency,
	}
}

// Project derives the order summary. It never mutates the selection.
func (p *Projector) Project(sel *Selection) Summary {
	selected := sel.Selected()

	if len(selected) == 0 {
		//nolint:exhaustruct
		return Summary{
			Currency: p.currency,
			Empty:    true,
		}
	}

	summary := Summary{
		Lines:    make([]SummaryLine, 0, len(selected)),
		Currency: p.currency,
	}

	for _, item := range selected {
		line := p.line(item)

		summary.Lines = append(summary.Lines, line)
		summary.Total += line.LineTotal
		summary.NeedsDates = summary.NeedsDates || line.NeedsDates
	}

	return summary
}

func (p *Projector) line(item Selected) SummaryLine {
	//nolint:exhaustruct
	line := SummaryLine{
		OptionID: item.Option.ID,
		Name:     item.Option.Name,
	}

	if !item.Option.PerNight() {
		line.LineTotal = item.Option.FlatPrice

		return line
	}

	if !item.Range.Complete() {
		line.Nights = intPtr(0)
		line.NeedsDates = true

		return line
	}

	line.Nights = intPtr(p.engine.OptionNights(item.Option, item.Range.From, item.Range.To))
	line.LineTotal = p.engine.LineTotal(item.Option, item.Range.From, item.Range.To)

	return line
}

func intPtr(v int) *int {
	return &v
}
