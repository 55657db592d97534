package cmd

import (
	"fmt"
	"io"
	"strconv"

	"pipetune/internal/engine"
	"pipetune/internal/registry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderParameters prints the current parameter model as a table, in
// declaration order.
func renderParameters(out io.Writer, reg *registry.Registry, set registry.ParameterSet) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Parameter", "Value", "Stored", "Range", "Store"})

	for _, p := range reg.All() {
		v := set[p.Key]
		stored := displayStored(p, v)
		t.AppendRow(table.Row{
			p.Key,
			strconv.FormatFloat(v, 'f', -1, 64),
			stored,
			fmt.Sprintf("%s-%s",
				strconv.FormatFloat(p.Min, 'f', -1, 64),
				strconv.FormatFloat(p.Max, 'f', -1, 64)),
			string(p.Store),
		})
	}
	t.Render()
}

// displayStored renders the value as it will appear in the store.
func displayStored(p registry.Parameter, v float64) string {
	stored := p.ToStored(v)
	if p.Kind == registry.KindInt && !p.Scale {
		return strconv.FormatFloat(stored, 'f', -1, 64)
	}
	return strconv.FormatFloat(stored, 'f', 2, 64)
}

// renderReport prints the write-back results, marking failures.
func renderReport(out io.Writer, report engine.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Parameter", "Result", "Detail"})

	for _, res := range report.Results {
		status := text.FgGreen.Sprint("ok")
		if !res.Succeeded {
			status = text.FgRed.Sprint("failed")
		}
		t.AppendRow(table.Row{res.Key, status, res.Detail})
	}
	t.Render()

	if failed := report.Failed(); len(failed) > 0 {
		fmt.Fprintf(out, "%s\n", text.FgRed.Sprintf("%d of %d parameter writes failed (session %s)",
			len(failed), len(report.Results), report.SessionID))
	} else {
		fmt.Fprintf(out, "All %d parameters written (session %s)\n",
			len(report.Results), report.SessionID)
	}
}
