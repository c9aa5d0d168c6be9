// Package tui implements the interactive search browser using Bubble Tea.
// It drives the search plugin from a text input, lists results with a
// seed health bar, and can hand magnet links to qBittorrent.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/litescript/tpb-search/internal/config"
	"github.com/litescript/tpb-search/internal/scraper"
	"github.com/litescript/tpb-search/internal/theme"
	"github.com/litescript/tpb-search/internal/version"
)

// Searcher is the part of the search plugin the browser needs.
type Searcher interface {
	Search(ctx context.Context, query, category string, page int) []scraper.Result
	FetchMagnet(ctx context.Context, r *scraper.Result) error
}

// Sender hands a magnet link to a torrent client.
type Sender interface {
	IsConnected(ctx context.Context) bool
	AddMagnet(ctx context.Context, magnet, savePath string) error
}

// ErrUnreachable is shown when the torrent client does not answer.
var ErrUnreachable = errors.New("qBittorrent unreachable")

type sortMode int

const (
	sortSite sortMode = iota
	sortSeeds
	sortSize
)

func (s sortMode) String() string {
	switch s {
	case sortSeeds:
		return "seeds"
	case sortSize:
		return "size"
	}
	return "site"
}

// Model is the browser state
type Model struct {
	cfg      config.Config
	searcher Searcher
	sender   Sender

	input   textinput.Model
	spinner spinner.Model

	category int // index into scraper.Categories
	query    string
	page     int
	sort     sortMode

	siteOrder []scraper.Result // results as the site returned them
	results   []scraper.Result // siteOrder after sorting
	cursor    int
	sent      map[string]bool

	searching bool
	busy      bool // magnet lookup or send in flight
	status    string
	err       error

	width  int
	height int
}

// Messages
type searchResultMsg struct {
	query    string
	category scraper.Category
	page     int
	results  []scraper.Result
}

type magnetMsg struct {
	url    string
	magnet string
	err    error
}

type sentMsg struct {
	url    string
	title  string
	magnet string
	err    error
}

// ThemeChangedMsg asks the browser to re-render with refreshed styles.
type ThemeChangedMsg struct{}

// NewModel creates the initial model
func NewModel(cfg config.Config, searcher Searcher, sender Sender) Model {
	ti := textinput.New()
	ti.Placeholder = "Search The Pirate Bay..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.CurrentPalette().Accent))

	return Model{
		cfg:      cfg,
		searcher: searcher,
		sender:   sender,
		input:    ti,
		spinner:  sp,
		page:     1,
		sent:     make(map[string]bool),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Category returns the selected category label.
func (m Model) Category() scraper.Category {
	return scraper.Categories[m.category]
}

// Results returns the displayed results in display order.
func (m Model) Results() []scraper.Result {
	return m.results
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-30, 10)
		return m, nil

	case spinner.TickMsg:
		if m.searching || m.busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case searchResultMsg:
		// Drop responses for searches that were superseded
		if msg.query != m.query || msg.category != m.Category() || msg.page != m.page {
			return m, nil
		}
		m.searching = false
		m.siteOrder = msg.results
		m.applySort()
		m.cursor = 0
		if len(msg.results) == 0 {
			m.status = fmt.Sprintf("No results for %q (page %d)", msg.query, msg.page)
		} else {
			m.status = fmt.Sprintf("%d results for %q (page %d)", len(msg.results), msg.query, msg.page)
			m.input.Blur()
		}
		return m, nil

	case magnetMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.setMagnet(msg.url, msg.magnet)
		m.status = "Magnet link loaded"
		return m, nil

	case sentMsg:
		m.busy = false
		if msg.magnet != "" {
			m.setMagnet(msg.url, msg.magnet)
		}
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.sent[msg.url] = true
		m.status = "Sent to qBittorrent: " + msg.title
		return m, nil

	case ThemeChangedMsg:
		m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.CurrentPalette().Accent))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	// Any key clears the last error
	m.err = nil

	if m.input.Focused() {
		switch key {
		case "enter":
			query := strings.TrimSpace(m.input.Value())
			if query == "" {
				return m, nil
			}
			return m.startSearch(query, 1)
		case "tab":
			m.nextCategory()
			return m, nil
		case "esc":
			if len(m.results) > 0 {
				m.input.Blur()
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "/", "i":
		return m, m.input.Focus()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.results)-1 {
			m.cursor++
		}
	case "tab":
		m.nextCategory()
		if m.query != "" {
			return m.startSearch(m.query, 1)
		}
	case "n":
		if m.query != "" && !m.searching {
			return m.startSearch(m.query, m.page+1)
		}
	case "p":
		if m.query != "" && !m.searching && m.page > 1 {
			return m.startSearch(m.query, m.page-1)
		}
	case "s":
		m.sort = (m.sort + 1) % 3
		m.applySort()
		m.cursor = 0
		m.status = "Sorted by " + m.sort.String()
	case "m":
		return m.fetchMagnet()
	case "d", "enter":
		return m.sendSelected()
	}
	return m, nil
}

func (m *Model) nextCategory() {
	m.category = (m.category + 1) % len(scraper.Categories)
}

func (m Model) startSearch(query string, page int) (tea.Model, tea.Cmd) {
	m.query = query
	m.page = page
	m.searching = true
	m.status = ""
	return m, tea.Batch(m.spinner.Tick, m.doSearch())
}

func (m *Model) applySort() {
	m.results = make([]scraper.Result, len(m.siteOrder))
	copy(m.results, m.siteOrder)
	switch m.sort {
	case sortSeeds:
		scraper.SortBySeeds(m.results)
	case sortSize:
		scraper.SortBySize(m.results)
	}
}

func (m *Model) setMagnet(url, magnet string) {
	for i := range m.siteOrder {
		if m.siteOrder[i].URL == url {
			m.siteOrder[i].MagnetLink = magnet
		}
	}
	for i := range m.results {
		if m.results[i].URL == url {
			m.results[i].MagnetLink = magnet
		}
	}
}

func (m Model) selected() (scraper.Result, bool) {
	if m.cursor < 0 || m.cursor >= len(m.results) {
		return scraper.Result{}, false
	}
	return m.results[m.cursor], true
}

// Commands
func (m Model) doSearch() tea.Cmd {
	searcher := m.searcher
	query, page := m.query, m.page
	category := m.Category()

	return func() tea.Msg {
		results := searcher.Search(context.Background(), query, string(category), page)
		return searchResultMsg{query: query, category: category, page: page, results: results}
	}
}

func (m Model) fetchMagnet() (tea.Model, tea.Cmd) {
	r, ok := m.selected()
	if !ok || m.busy {
		return m, nil
	}
	if r.MagnetLink != "" {
		m.status = "Magnet link already known"
		return m, nil
	}

	m.busy = true
	searcher := m.searcher
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		err := searcher.FetchMagnet(context.Background(), &r)
		return magnetMsg{url: r.URL, magnet: r.MagnetLink, err: err}
	})
}

func (m Model) sendSelected() (tea.Model, tea.Cmd) {
	r, ok := m.selected()
	if !ok || m.busy {
		return m, nil
	}
	if m.sender == nil {
		m.err = fmt.Errorf("qBittorrent is not configured")
		return m, nil
	}

	m.busy = true
	searcher, sender := m.searcher, m.sender
	savePath := m.cfg.Downloads.Path
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx := context.Background()
		if !sender.IsConnected(ctx) {
			return sentMsg{url: r.URL, title: r.Title, err: ErrUnreachable}
		}
		if r.MagnetLink == "" {
			if err := searcher.FetchMagnet(ctx, &r); err != nil {
				return sentMsg{url: r.URL, title: r.Title, err: err}
			}
		}
		err := sender.AddMagnet(ctx, r.MagnetLink, savePath)
		return sentMsg{url: r.URL, title: r.Title, magnet: r.MagnetLink, err: err}
	})
}

// View renders the UI
func (m Model) View() string {
	styles := theme.Current()
	var b strings.Builder

	b.WriteString(styles.Header.Render(fmt.Sprintf("%s search", scraper.DisplayName)))
	b.WriteString(styles.Muted.Render(" v" + version.Version))
	b.WriteString("\n\n")

	b.WriteString(styles.Category.Render(fmt.Sprintf("[%s]", m.Category())))
	b.WriteString(" ")
	b.WriteString(styles.SearchInput.Render(m.input.View()))
	b.WriteString("\n")

	switch {
	case m.searching:
		b.WriteString(m.spinner.View() + " Searching...")
	case m.busy:
		b.WriteString(m.spinner.View() + " Working...")
	case m.err != nil:
		b.WriteString(styles.Error.Render("Error: " + m.err.Error()))
	default:
		b.WriteString(styles.Muted.Render(m.status))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderResults(styles))
	if r, ok := m.selected(); ok {
		// Full title, the table column truncates it
		b.WriteString("\n" + styles.Title.Render(r.Title) + " " + styles.Muted.Render(r.URL))
	}
	b.WriteString("\n")
	b.WriteString(m.renderHelp(styles))
	return b.String()
}

func (m Model) renderResults(styles theme.Styles) string {
	if len(m.results) == 0 {
		return styles.Muted.Render("  No results")
	}

	nameWidth := 50
	if m.width > 0 {
		nameWidth = max(m.width-50, 20)
	}

	var b strings.Builder
	header := "  " + PadRight("Name", nameWidth) + " " + PadLeft("Size", 10) + " " +
		PadLeft("SE", 6) + " " + PadLeft("LE", 6) + "  " + PadRight("Health", 8) + " Cat"
	b.WriteString(styles.TableHeader.Render(header))
	b.WriteString("\n")

	visible := len(m.results)
	if m.height > 0 {
		visible = max(m.height-12, 3)
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(start+visible, len(m.results))

	for i := start; i < end; i++ {
		r := m.results[i]
		marker := "  "
		if m.sent[r.URL] {
			marker = "✓ "
		}
		line := marker + PadRight(TruncateString(r.Title, nameWidth), nameWidth) + " " +
			PadLeft(r.Size, 10) + " " +
			PadLeft(fmt.Sprint(r.Seeds), 6) + " " +
			PadLeft(fmt.Sprint(r.Leechs), 6) + "  "

		rowStyle := styles.TableRow
		if i == m.cursor {
			rowStyle = styles.Selected
		}
		b.WriteString(rowStyle.Render(line))
		b.WriteString(HealthBar(r.Health(), 8))
		b.WriteString(" " + styles.Muted.Render(string(r.Category)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderHelp(styles theme.Styles) string {
	var pairs [][2]string
	if m.input.Focused() {
		pairs = [][2]string{{"enter", "search"}, {"tab", "category"}, {"esc", "results"}, {"ctrl+c", "quit"}}
	} else {
		pairs = [][2]string{
			{"j/k", "move"}, {"n/p", "page"}, {"tab", "category"}, {"s", "sort:" + m.sort.String()},
			{"m", "magnet"}, {"d", "send"}, {"/", "search"}, {"q", "quit"},
		}
	}

	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, styles.HelpKey.Render(p[0])+" "+styles.HelpDesc.Render(p[1]))
	}
	return styles.StatusBar.Render(strings.Join(parts, "  ") + fmt.Sprintf("  page %d", m.page))
}
