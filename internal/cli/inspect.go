package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/smtk-dev/smtk/pkg/sm/expr"
	"github.com/smtk-dev/smtk/pkg/sm/link"
	"github.com/smtk-dev/smtk/pkg/sm/symtab"
)

type symRow struct {
	name  string
	value string
	unit  string
}

// snapshotSyms renders every merged symbol into display rows, sorted by
// name. Constant-folded values print as $HEX via exprString; anything still
// carrying an unresolved label atom prints as "<unresolved>" rather than
// guessing - WriteSymFile already owns the real resolved-address view.
func snapshotSyms(ln *link.Linker) []symRow {
	var rows []symRow
	ln.Syms.Each(func(s symtab.Sym[expr.View]) {
		rows = append(rows, symRow{
			name:  s.Lbl.String(),
			value: exprString(s.Value),
			unit:  s.Unit.String(),
		})
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].name < rows[j].name })
	return rows
}

func exprString(v expr.View) string {
	if len(v) == 1 && v[0].Kind == expr.Const {
		return fmt.Sprintf("$%04X", uint32(v[0].Num))
	}
	return "<unresolved>"
}

// runInspect opens an interactive browser over the just-linked symbol table
// and section placement, for `smtk link --inspect`: a left-hand list of
// every configured section with its placed base address, and a right-hand
// table of every merged symbol, filterable by typing into the search field.
func runInspect(ln *link.Linker) error {
	app := tview.NewApplication()

	sectionList := tview.NewList().ShowSecondaryText(false)
	sectionList.SetBorder(true).SetTitle(" sections ")
	for _, spec := range ln.Cfg.Sections {
		name := spec.Name.String()
		base, _ := ln.Base(name)
		sectionList.AddItem(fmt.Sprintf("%-16s $%04X", name, base), "", 0, nil)
	}

	rows := snapshotSyms(ln)
	symTable := tview.NewTable().SetBorders(false).SetSelectable(true, false)
	symTable.SetBorder(true).SetTitle(" symbols ")
	renderSymTable(symTable, rows, "")

	search := tview.NewInputField().SetLabel("filter: ")
	search.SetChangedFunc(func(text string) {
		renderSymTable(symTable, rows, text)
	})

	root := tview.NewFlex().
		AddItem(sectionList, 32, 0, true).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(search, 1, 0, false).
			AddItem(symTable, 0, 1, false), 0, 2, false)

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape || event.Rune() == 'q' {
			app.Stop()
			return nil
		}
		return event
	})

	return app.SetRoot(root, true).SetFocus(sectionList).Run()
}

func renderSymTable(t *tview.Table, rows []symRow, filter string) {
	t.Clear()
	t.SetCell(0, 0, tview.NewTableCell("symbol").SetSelectable(false).SetTextColor(tcell.ColorYellow))
	t.SetCell(0, 1, tview.NewTableCell("value").SetSelectable(false).SetTextColor(tcell.ColorYellow))
	t.SetCell(0, 2, tview.NewTableCell("unit").SetSelectable(false).SetTextColor(tcell.ColorYellow))

	row := 1
	for _, r := range rows {
		if filter != "" && !strings.Contains(r.name, filter) {
			continue
		}
		t.SetCell(row, 0, tview.NewTableCell(r.name))
		t.SetCell(row, 1, tview.NewTableCell(r.value))
		t.SetCell(row, 2, tview.NewTableCell(r.unit))
		row++
	}
}
