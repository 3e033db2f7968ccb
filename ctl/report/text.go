package report

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WriteText renders the snapshot as a human-readable report. Byte counts
// are digit-grouped (1,234,567) via the message printer.
func (s *Snapshot) WriteText(w io.Writer) error {
	p := message.NewPrinter(language.English)

	if _, err := p.Fprintf(w, "allocator version %s, epoch %d\n", s.Version, s.Epoch); err != nil {
		return err
	}
	rows := []struct {
		label string
		value uint64
	}{
		{"allocated", s.Allocated},
		{"active", s.Active},
		{"metadata", s.Metadata},
		{"resident", s.Resident},
		{"mapped", s.Mapped},
		{"retained", s.Retained},
	}
	for _, row := range rows {
		if _, err := p.Fprintf(w, "  %-9s %15d bytes\n", row.label, row.value); err != nil {
			return err
		}
	}
	for _, a := range s.Arenas {
		_, err := p.Fprintf(w,
			"arena %d: small %d, large %d, mapped %d, resident %d, pages %d active / %d dirty / %d muzzy, threads %d\n",
			a.Index, a.SmallAllocated, a.LargeAllocated, a.Mapped, a.Resident,
			a.PActive, a.PDirty, a.PMuzzy, a.Threads)
		if err != nil {
			return err
		}
	}
	return nil
}
