package shell

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/marcus/partman/internal/partsclient"
	"github.com/sahilm/fuzzy"
)

// searchState backs the search tab: a query box over the parts fetched from
// the server, narrowed locally with fuzzy matching.
type searchState struct {
	input   textinput.Model
	all     []partsclient.PartWithStock
	results []searchResult
	cursor  int
	loading bool
	err     error
}

type searchResult struct {
	part    partsclient.PartWithStock
	matched []int // byte offsets into partSource text
}

func newSearchState() searchState {
	ti := textinput.New()
	ti.Placeholder = "search parts"
	ti.Prompt = "› "
	ti.CharLimit = 200
	ti.Focus()
	return searchState{input: ti}
}

// partSource adapts parts for the fuzzy library. Each part is searchable as
// "name description".
type partSource []partsclient.PartWithStock

func (s partSource) String(i int) string {
	return s[i].Name + " " + s[i].Description
}

func (s partSource) Len() int {
	return len(s)
}

// filter recomputes results for the current query. An empty query lists
// every part in server order.
func (s *searchState) filter() {
	query := strings.TrimSpace(s.input.Value())
	s.results = nil
	if query == "" {
		for _, p := range s.all {
			s.results = append(s.results, searchResult{part: p})
		}
	} else {
		// FindFrom ranks best match first.
		matches := fuzzy.FindFrom(query, partSource(s.all))
		for _, m := range matches {
			s.results = append(s.results, searchResult{part: s.all[m.Index], matched: m.MatchedIndexes})
		}
	}
	s.clampCursor()
}

func (s *searchState) clampCursor() {
	if s.cursor >= len(s.results) {
		s.cursor = len(s.results) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *searchState) moveCursor(delta int) {
	s.cursor += delta
	s.clampCursor()
}

// selected returns the highlighted result, or nil.
func (s searchState) selected() *partsclient.PartWithStock {
	if s.cursor < 0 || s.cursor >= len(s.results) {
		return nil
	}
	p := s.results[s.cursor].part
	return &p
}

// fetchParts loads the full part list from the server.
func (m Model) fetchParts() tea.Cmd {
	client := m.client
	if client == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		parts, err := client.ListParts(ctx, "", "")
		if err != nil {
			slog.Warn("shell: list parts", "err", err)
		}
		return PartsMsg{Parts: parts, Err: err}
	}
}

// handleSearchKey handles keys on the search tab that the key table did
// not claim.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		m.search.moveCursor(-1)
		m.followSelection()
		return m, nil
	case tea.KeyDown:
		m.search.moveCursor(1)
		m.followSelection()
		return m, nil
	case tea.KeyEnter:
		if m.search.selected() != nil {
			return m.openStock()
		}
		m.search.loading = true
		return m, m.fetchParts()
	case tea.KeyCtrlR:
		m.search.loading = true
		return m, m.fetchParts()
	case tea.KeyEsc:
		m.search.input.SetValue("")
		m.search.filter()
		return m, nil
	}

	before := m.search.input.Value()
	var cmd tea.Cmd
	m.search.input, cmd = m.search.input.Update(msg)
	if m.search.input.Value() != before {
		m.search.cursor = 0
		m.search.filter()
		m.followSelection()
	}
	return m, cmd
}

// followSelection shows the grid layer of the selected part.
func (m *Model) followSelection() {
	if p := m.search.selected(); p != nil {
		m.grid.show(Cell{Row: p.Row, Column: p.Column, Z: p.Z})
	}
}

// highlights maps grid cells to the names of matching parts. When a cell
// holds several matches the best-ranked one wins.
func (s searchState) highlights() map[Cell]string {
	out := make(map[Cell]string, len(s.results))
	for i := len(s.results) - 1; i >= 0; i-- {
		p := s.results[i].part
		out[Cell{Row: p.Row, Column: p.Column, Z: p.Z}] = p.Name
	}
	return out
}

// renderResults draws up to height result rows within width.
func (s searchState) renderResults(width, height int) string {
	if s.loading {
		return subtleStyle.Render("Loading parts…")
	}
	if s.err != nil {
		return errorStyle.Render(cellbuf.Wrap("Search failed: "+s.err.Error(), width, " /:"))
	}
	if len(s.results) == 0 {
		if len(s.all) == 0 {
			return subtleStyle.Render("No parts loaded. Press enter to fetch.")
		}
		return subtleStyle.Render("No matches.")
	}

	start := 0
	if height > 0 && s.cursor >= height {
		start = s.cursor - height + 1
	}
	end := len(s.results)
	if height > 0 && end > start+height {
		end = start + height
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		r := s.results[i]
		line := highlightMatches(partSource{r.part}.String(0), r.matched)
		stock := subtleStyle.Render(" ×" + strconv.FormatInt(r.part.Stock, 10))
		line = ansi.Truncate(line+stock, width, "…")
		if i == s.cursor {
			line = selectedRowStyle.Render(ansi.Strip(line))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// highlightMatches styles the runes of text starting at the given byte offsets.
func highlightMatches(text string, matched []int) string {
	if len(matched) == 0 {
		return text
	}
	set := make(map[int]bool, len(matched))
	for _, i := range matched {
		set[i] = true
	}
	var sb strings.Builder
	for i, r := range text {
		if set[i] {
			sb.WriteString(matchStyle.Render(string(r)))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
