package app

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/avstrong/orderform/internal/catalog"
	"github.com/avstrong/orderform/internal/nights"
	"github.com/avstrong/orderform/internal/order"
)

// Quote prints the summary for option specs of the form "id" or "id:YYYY-MM-DD:YYYY-MM-DD".
func Quote(w io.Writer, c *catalog.Catalog, specs []string) (order.Summary, error) {
	sel := order.NewSelection(c)

	for _, spec := range specs {
		if err := applySpec(sel, spec); err != nil {
			return order.Summary{}, err
		}
	}

	summary := order.NewProjector(nights.New(c), c.Currency()).Project(sel)

	if summary.Empty {
		_, err := fmt.Fprintln(w, "Nothing selected.")

		return summary, err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0) //nolint:gomnd

	if _, err := fmt.Fprintln(tw, "OPTION\tNIGHTS\tTOTAL"); err != nil {
		return summary, err
	}

	for _, line := range summary.Lines {
		nightsCol := "-"

		switch {
		case line.NeedsDates:
			nightsCol = "dates needed"
		case line.Nights != nil:
			nightsCol = fmt.Sprint(*line.Nights)
		}

		if _, err := fmt.Fprintf(tw, "%s\t%s\t%.2f %s\n", line.Name, nightsCol, line.LineTotal, summary.Currency); err != nil {
			return summary, err
		}
	}

	if _, err := fmt.Fprintf(tw, "TOTAL\t\t%.2f %s\n", summary.Total, summary.Currency); err != nil {
		return summary, err
	}

	return summary, tw.Flush()
}

func applySpec(sel *order.Selection, spec string) error {
	parts := strings.Split(spec, ":")

	if err := sel.SetSelected(parts[0], true); err != nil {
		return err
	}

	switch len(parts) {
	case 1:
		return nil
	case 3: //nolint:gomnd
	default:
		return fmt.Errorf("option spec %q: %w", spec, ErrBadSpec)
	}

	from, err := time.Parse(catalog.DateLayout, parts[1])
	if err != nil {
		return fmt.Errorf("option spec %q: %w", spec, ErrBadSpec)
	}

	to, err := time.Parse(catalog.DateLayout, parts[2])
	if err != nil {
		return fmt.Errorf("option spec %q: %w", spec, ErrBadSpec)
	}

	p := sel.Picker(parts[0])
	if p == nil {
		return sel.SetDateRange(parts[0], from, to)
	}

	return p.Pick(from, to)
}
