package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/bobmcallan/vire-tracker/internal/common"
	"github.com/bobmcallan/vire-tracker/internal/models"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
}

func renderImport(w io.Writer, rows []models.NormalizedTransaction) {
	tw := newTable(w)
	fmt.Fprintln(tw, "DATE\tTYPE\tSYMBOL\tQTY\tPRICE\tTOTAL\tSTATUS\t")
	valid := 0
	for _, r := range rows {
		status := "ok"
		if r.Valid {
			valid++
		} else {
			status = r.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.Date, r.Type, r.Symbol,
			common.FormatQuantity(r.Quantity),
			common.FormatMoney(r.Price),
			common.FormatMoney(r.Total),
			status)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d of %d rows valid\n", valid, len(rows))
}

func renderHoldings(w io.Writer, hs []models.Holding) {
	if len(hs) == 0 {
		fmt.Fprintln(w, "no open positions")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "SYMBOL\tQTY\tAVG COST\tCOST\t")
	for _, h := range hs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n",
			h.Symbol,
			common.FormatQuantity(h.Quantity),
			common.FormatMoney(h.AvgCost),
			common.FormatMoney(h.TotalCost))
	}
	tw.Flush()
}

func renderValuation(w io.Writer, v *models.PortfolioValuation) {
	renderHoldings(w, v.Holdings)

	s := v.Summary
	fmt.Fprintln(w)
	tw := newTable(w)
	fmt.Fprintf(tw, "Value\t%s\t\n", common.FormatMoney(s.TotalValue))
	fmt.Fprintf(tw, "Cost\t%s\t\n", common.FormatMoney(s.TotalCost))
	fmt.Fprintf(tw, "Day\t%s\t%s\t\n", common.FormatSignedMoney(s.DayChange), common.FormatSignedPct(s.DayChangePercent))
	fmt.Fprintf(tw, "Gain\t%s\t%s\t\n", common.FormatSignedMoney(s.TotalGain), common.FormatSignedPct(s.TotalGainPercent))
	tw.Flush()

	if len(v.MissingQuotes) > 0 {
		fmt.Fprintf(w, "\nvalued at cost (no quote): %v\n", v.MissingQuotes)
	}
	if v.Stale {
		fmt.Fprintln(w, "quotes are stale")
	}
}
