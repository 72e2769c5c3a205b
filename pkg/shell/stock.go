package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/marcus/partman/internal/partsclient"
	"github.com/marcus/partman/internal/settings"
)

var (
	errNotANumber    = errors.New("must be a whole number")
	errNegativeStock = errors.New("stock would drop below zero")
)

// StockForm edits the stock and bin of one part. Diff is added to the
// current stock; the bin fields start at the part's current cell.
type StockForm struct {
	Form   *huh.Form
	Part   partsclient.PartWithStock
	Diff   string
	Row    string
	Column string
	Layer  string
}

// NewStockForm builds the stock dialog for part inside a grid of shape dims.
func NewStockForm(part partsclient.PartWithStock, dims settings.Grid) *StockForm {
	sf := &StockForm{
		Part:   part,
		Row:    strconv.Itoa(part.Row),
		Column: strconv.Itoa(part.Column),
		Layer:  strconv.Itoa(part.Z),
	}
	sf.Form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Change (now %d)", part.Stock)).
				Value(&sf.Diff).
				Placeholder("+10 or -3").
				Validate(validateDiff(part.Stock)),
			huh.NewInput().
				Title(fmt.Sprintf("Row (0-%d)", dims.Rows-1)).
				Value(&sf.Row).
				Validate(validateCoord(dims.Rows)),
			huh.NewInput().
				Title(fmt.Sprintf("Column (0-%d)", dims.Columns-1)).
				Value(&sf.Column).
				Validate(validateCoord(dims.Columns)),
			huh.NewInput().
				Title(fmt.Sprintf("Layer (0-%d)", dims.Zs-1)).
				Value(&sf.Layer).
				Validate(validateCoord(dims.Zs)),
		).Title("Stock · "+part.Name),
	).WithShowHelp(false).WithWidth(40)
	sf.Form.WithTheme(huh.ThemeDracula())
	return sf
}

func validateDiff(current int64) func(string) error {
	return func(s string) error {
		d, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return errNotANumber
		}
		if current+d < 0 {
			return errNegativeStock
		}
		return nil
	}
}

func validateCoord(limit int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return errNotANumber
		}
		if n < 0 || n >= limit {
			return fmt.Errorf("must be between 0 and %d", limit-1)
		}
		return nil
	}
}

// values parses the form fields into the new stock level and target cell.
func (sf *StockForm) values() (int64, Cell, error) {
	diff, err := strconv.ParseInt(strings.TrimSpace(sf.Diff), 10, 64)
	if err != nil {
		return 0, Cell{}, fmt.Errorf("change: %w", errNotANumber)
	}
	var cell Cell
	for _, f := range []struct {
		name string
		text string
		dst  *int
	}{
		{"row", sf.Row, &cell.Row},
		{"column", sf.Column, &cell.Column},
		{"layer", sf.Layer, &cell.Z},
	} {
		n, err := strconv.Atoi(strings.TrimSpace(f.text))
		if err != nil {
			return 0, Cell{}, fmt.Errorf("%s: %w", f.name, errNotANumber)
		}
		*f.dst = n
	}
	stock := sf.Part.Stock + diff
	if stock < 0 {
		return 0, Cell{}, errNegativeStock
	}
	return stock, cell, nil
}

// openStock opens the stock dialog for the selected search result. Stock
// belongs to a profile, so one must be selected first.
func (m Model) openStock() (tea.Model, tea.Cmd) {
	p := m.search.selected()
	if p == nil {
		return m, nil
	}
	if m.activeProfile() == nil {
		cmd := m.setStatus(m.profileHint(), true)
		return m, cmd
	}
	m.stock = NewStockForm(*p, m.grid.dims)
	m.Modal = ModalStock
	return m, m.stock.Form.Init()
}

// profileHint names the chord bound to SelectProfile, if any.
func (m Model) profileHint() string {
	chords := m.config().Keyboard.ChordsFor(settings.ActionSelectProfile)
	if len(chords) == 0 {
		return "No profile selected"
	}
	return "No profile selected (press " + chords[0].String() + ")"
}

// updateStockForm forwards msg to the stock dialog and submits it once
// complete.
func (m Model) updateStockForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.stock == nil {
		return m, nil
	}
	form, cmd := m.stock.Form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.stock.Form = f
	}
	switch m.stock.Form.State {
	case huh.StateCompleted:
		return m.submitStock()
	case huh.StateAborted:
		m.closeModal()
		return m, nil
	}
	return m, cmd
}

// submitStock closes the dialog and sends the new stock level.
func (m Model) submitStock() (tea.Model, tea.Cmd) {
	sf := m.stock
	m.closeModal()
	if sf == nil || m.client == nil {
		return m, nil
	}
	stock, cell, err := sf.values()
	if err == nil && !m.grid.contains(cell) {
		err = fmt.Errorf("bin %d,%d,%d is outside the grid", cell.Row, cell.Column, cell.Z)
	}
	if err != nil {
		cmd := m.setStatus("Stock not changed: "+err.Error(), true)
		return m, cmd
	}

	client := m.client
	part := sf.Part
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.StockPart(ctx, part.ID, stock, cell.Row, cell.Column, cell.Z)
		return StockChangedMsg{PartID: part.ID, Name: part.Name, Stock: stock, Cell: cell, Err: err}
	}
}

func (m Model) handleStockChanged(msg StockChangedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		slog.Warn("shell: stock part", "part", msg.PartID, "err", msg.Err)
		cmd := m.setStatus("Stock update failed: "+msg.Err.Error(), true)
		return m, cmd
	}
	slog.Info("shell: stock changed", "part", msg.PartID, "stock", msg.Stock,
		"row", msg.Cell.Row, "column", msg.Cell.Column, "z", msg.Cell.Z)
	m.search.loading = true
	text := fmt.Sprintf("%s: %d in bin %d,%d,%d", msg.Name, msg.Stock, msg.Cell.Row, msg.Cell.Column, msg.Cell.Z)
	cmd := tea.Batch(m.setStatus(text, false), m.fetchParts())
	return m, cmd
}
