package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/rl1809/stockroom/internal/core/service"
)

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

func (f *OutputFormatter) json(v any) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (f *OutputFormatter) Items(rows []service.ItemRow, o *RootOptions) error {
	if f.Format == "json" {
		return f.json(rows)
	}
	now := o.now()
	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tITEM\tQTY\tOUT\tAVAIL\tLOCATION\tUPDATED")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			r.ID, r.Name, r.Quantity, r.Outstanding, r.Available,
			service.LocationText(r.Location), service.FormatUpdatedAt(r.UpdatedAt, now))
	}
	return tw.Flush()
}

func (f *OutputFormatter) Issuances(rows []service.IssuanceRow) error {
	if f.Format == "json" {
		return f.json(rows)
	}
	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tITEM\tISSUED TO\tISSUED\tQTY\tRETURNED\tRETURN DATE\tOUT")
	for _, r := range rows {
		returned := service.Placeholder
		if r.ReturnDate != nil {
			returned = r.ReturnDate.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\t%d\n",
			r.ID, r.DisplayName(), r.IssuedTo, r.IssuedAt, r.QuantityIssued,
			r.ReturnQuantity, returned, r.Outstanding)
	}
	return tw.Flush()
}

type outstandingRow struct {
	ItemID      string `json:"item_id"`
	Item        string `json:"item"`
	Outstanding int    `json:"outstanding"`
}

// Outstanding prints the non-zero totals sorted by item name.
func (f *OutputFormatter) Outstanding(counts map[string]int, names map[string]string) error {
	rows := make([]outstandingRow, 0, len(counts))
	for id, n := range counts {
		if n == 0 {
			continue
		}
		name, ok := names[id]
		if !ok {
			name = service.UnresolvedItemName
		}
		rows = append(rows, outstandingRow{ItemID: id, Item: name, Outstanding: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Item != rows[j].Item {
			return rows[i].Item < rows[j].Item
		}
		return rows[i].ItemID < rows[j].ItemID
	})

	if f.Format == "json" {
		return f.json(rows)
	}
	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tITEM\tOUTSTANDING")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ItemID, r.Item, strconv.Itoa(r.Outstanding))
	}
	return tw.Flush()
}

// Created prints the ID of a new or updated record.
func (f *OutputFormatter) Created(id string) error {
	if f.Format == "json" {
		return f.json(map[string]string{"id": id})
	}
	_, err := fmt.Fprintln(f.Writer, id)
	return err
}
