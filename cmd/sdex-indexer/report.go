package main

import (
	"io"
	"time"

	"sdexindex/internal/core/offer"
	"sdexindex/internal/services/ingest/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

func printReport(w io.Writer, rep domain.Report) {
	if rep.Skipped {
		printer.Fprintf(w, "run %s skipped: lease held by another indexer\n", rep.RunID)
		return
	}
	printer.Fprintf(w, "run %s\n", rep.RunID)
	printer.Fprintf(w, "  pages     %d\n", rep.Pages)
	printer.Fprintf(w, "  fetched   %d\n", rep.Fetched)
	printer.Fprintf(w, "  accepted  %d\n", rep.Accepted)
	printer.Fprintf(w, "  rejected  %d\n", rep.Rejected)
	printer.Fprintf(w, "  cursor    %s\n", orDash(rep.Cursor))
	printer.Fprintf(w, "  elapsed   %s\n", rep.Elapsed.Round(time.Millisecond))
	if rep.More {
		printer.Fprintf(w, "  more pages remain, run again to continue\n")
	}
}

type fetchSummary struct {
	Source   string
	Cursor   string
	Next     string
	Offers   []offer.Offer
	Errors   []error
	Duration time.Duration
}

func printFetch(w io.Writer, s fetchSummary) {
	printer.Fprintf(w, "%s/offers after %s in %s\n", s.Source, orDash(s.Cursor), s.Duration.Round(time.Millisecond))
	printer.Fprintf(w, "  accepted  %d\n", len(s.Offers))
	printer.Fprintf(w, "  rejected  %d\n", len(s.Errors))
	for _, err := range s.Errors {
		r := domain.RejectionFrom(err)
		printer.Fprintf(w, "    %s %s: %s\n", orDash(r.RawID), r.Kind, r.Reason)
	}
	printer.Fprintf(w, "  next      %s\n", orDash(s.Next))
}

func printStatus(w io.Writer, s domain.Status, now time.Time) {
	printer.Fprintf(w, "stream      %s\n", s.Stream)
	printer.Fprintf(w, "cursor      %s\n", orDash(s.Cursor))
	if s.UpdatedAt != nil {
		printer.Fprintf(w, "updated     %s (%s ago)\n", s.UpdatedAt.UTC().Format(time.RFC3339), now.Sub(*s.UpdatedAt).Round(time.Second))
	}
	printer.Fprintf(w, "offers      %d\n", s.Offers)
	printer.Fprintf(w, "assets      %d\n", s.Assets)
	printer.Fprintf(w, "rejections  %d\n", s.Rejections)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
