package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dotforge/dotkit/precommit"
	"github.com/dotforge/dotkit/tui"
	"github.com/dotforge/dotkit/tui/components"
	"github.com/dotforge/dotkit/tui/theme"
	"github.com/dotforge/dotkit/tui/utils/scrollbar"
	"github.com/spf13/cobra"
)

// browseFocus tracks which pane has focus.
type browseFocus int

const (
	browseListPane browseFocus = iota
	browseDetailPane
)

// hookEntry is one hook row in the browser list.
type hookEntry struct {
	repo string
	rev  string
	hook precommit.Hook
}

// repoShortName reduces a repo URL to its last path segment for display.
func repoShortName(repo string) string {
	trimmed := strings.TrimSuffix(repo, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// Repo color management - uses theme's AccentColors palette
var (
	repoColorMap   = make(map[string]lipgloss.Style)
	repoColorIndex = 0
)

func getRepoStyle(repo string) lipgloss.Style {
	if style, ok := repoColorMap[repo]; ok {
		return style
	}

	color := theme.DefaultTheme.AccentColors[repoColorIndex%len(theme.DefaultTheme.AccentColors)]
	style := lipgloss.NewStyle().Foreground(color).Bold(true)
	repoColorMap[repo] = style
	repoColorIndex++

	return style
}

// Implement list.Item interface
func (e hookEntry) Title() string {
	repoStyle := getRepoStyle(e.repo)
	idStyle := theme.DefaultTheme.Bold
	nameStyle := theme.DefaultTheme.Muted

	name := ""
	if e.hook.Name != "" && e.hook.Name != e.hook.ID {
		name = " " + nameStyle.Render(e.hook.Name)
	}

	return fmt.Sprintf("%s %s%s",
		repoStyle.Render(fmt.Sprintf("[%s]", repoShortName(e.repo))),
		idStyle.Render(e.hook.ID),
		name,
	)
}

func (e hookEntry) Description() string {
	// Details are shown in the viewport pane instead.
	return ""
}

func (e hookEntry) FilterValue() string {
	return e.hook.ID + " " + repoShortName(e.repo)
}

// FormatDetails returns the full hook entry for the details viewport.
func (e hookEntry) FormatDetails() string {
	t := theme.DefaultTheme
	var lines []string

	lines = append(lines, components.RenderHeader("Hook Details"))
	lines = append(lines, "")

	repoStyle := getRepoStyle(e.repo)
	lines = append(lines, fmt.Sprintf("Repo:       %s", repoStyle.Render(e.repo)))
	if e.rev != "" {
		lines = append(lines, fmt.Sprintf("Rev:        %s", t.Code.Render(e.rev)))
	}
	lines = append(lines, fmt.Sprintf("ID:         %s", t.Bold.Render(e.hook.ID)))
	if e.hook.Name != "" {
		lines = append(lines, fmt.Sprintf("Name:       %s", e.hook.Name))
	}
	if e.hook.Alias != "" {
		lines = append(lines, fmt.Sprintf("Alias:      %s", e.hook.Alias))
	}
	if e.hook.IsLocal() {
		lines = append(lines, fmt.Sprintf("Entry:      %s", t.Code.Render(e.hook.Entry)))
		if e.hook.Language != "" {
			lines = append(lines, fmt.Sprintf("Language:   %s", e.hook.Language))
		}
	}
	lines = append(lines, "")

	fields := hookFieldLines(e.hook)
	if len(fields) > 0 {
		border := t.Muted
		lines = append(lines, border.Render("┌─ Fields:"))
		for i, field := range fields {
			prefix := "├─"
			if i == len(fields)-1 {
				prefix = "└─"
			}
			lines = append(lines, border.Render(fmt.Sprintf("%s %s", prefix, field)))
		}
	}

	return strings.Join(lines, "\n")
}

// hookFieldLines flattens the optional hook fields into display rows.
func hookFieldLines(h precommit.Hook) []string {
	var fields []string
	add := func(key string, value string) {
		if value != "" {
			fields = append(fields, fmt.Sprintf("%-25s %s", key+":", value))
		}
	}

	add("args", strings.Join(h.Args, " "))
	add("files", h.Files)
	add("exclude", h.Exclude)
	add("types", strings.Join(h.Types, ", "))
	add("types_or", strings.Join(h.TypesOr, ", "))
	add("exclude_types", strings.Join(h.ExcludeTypes, ", "))
	add("stages", strings.Join(h.Stages, ", "))
	add("additional_dependencies", strings.Join(h.AdditionalDependencies, ", "))
	if h.AlwaysRun {
		add("always_run", "true")
	}
	if h.PassFilenames != nil {
		add("pass_filenames", fmt.Sprintf("%t", *h.PassFilenames))
	}

	// Untyped keys, sorted for stable display.
	extraKeys := make([]string, 0, len(h.Extra))
	for k := range h.Extra {
		extraKeys = append(extraKeys, k)
	}
	sort.Strings(extraKeys)
	for _, k := range extraKeys {
		add(k, fmt.Sprintf("%v", h.Extra[k]))
	}

	return fields
}

// Custom item delegate for rendering
type hookDelegate struct {
	model *browseModel
}

func (d hookDelegate) Height() int                               { return 1 }
func (d hookDelegate) Spacing() int                              { return 0 }
func (d hookDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d hookDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	e, ok := item.(hookEntry)
	if !ok {
		return
	}

	str := e.Title()

	isSelected := index == m.Index()
	isFocused := d.model == nil || d.model.focus == browseListPane

	if isSelected && isFocused {
		str = theme.DefaultTheme.Selected.Render(str)
	} else if isSelected && !isFocused {
		str = theme.DefaultTheme.SelectedUnfocused.Render(str)
	}

	fmt.Fprint(w, str)
}

// browseKeyMap defines the key bindings for the hook browser.
type browseKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	GotoTop     key.Binding
	GotoEnd     key.Binding
	Search      key.Binding
	Clear       key.Binding
	SwitchFocus key.Binding
	Help        key.Binding
	Quit        key.Binding
}

var browseKeys = browseKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	GotoTop: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "go to top"),
	),
	GotoEnd: key.NewBinding(
		key.WithKeys("G"),
		key.WithHelp("G", "go to end"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Clear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear search"),
	),
	SwitchFocus: key.NewBinding(
		key.WithKeys("tab", "enter"),
		key.WithHelp("tab", "switch focus"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// helpBindings is the order keys appear in the help overlay.
var helpBindings = []key.Binding{
	browseKeys.Up,
	browseKeys.Down,
	browseKeys.GotoTop,
	browseKeys.GotoEnd,
	browseKeys.Search,
	browseKeys.Clear,
	browseKeys.SwitchFocus,
	browseKeys.Help,
	browseKeys.Quit,
}

// Main TUI model
type browseModel struct {
	list     list.Model
	items    []hookEntry
	keys     browseKeyMap
	viewport viewport.Model
	width    int
	height   int
	ready    bool
	focus    browseFocus
	showHelp bool
	source   string
}

func (m *browseModel) Init() tea.Cmd {
	return nil
}

// syncViewport loads the selected hook's details into the viewport.
func (m *browseModel) syncViewport() {
	if selectedItem := m.list.SelectedItem(); selectedItem != nil {
		if entry, ok := selectedItem.(hookEntry); ok {
			m.viewport.SetContent(entry.FormatDetails())
			m.viewport.GotoTop()
		}
	}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Help overlay swallows everything except quit and dismiss.
	if m.showHelp {
		if msg, ok := msg.(tea.KeyMsg); ok {
			if key.Matches(msg, m.keys.Quit) {
				return m, tea.Quit
			}
			if key.Matches(msg, m.keys.Clear) || key.Matches(msg, m.keys.Help) {
				m.showHelp = false
			}
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			switch {
			case key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c":
				return m, tea.Quit
			case key.Matches(msg, m.keys.Clear):
				m.list.ResetFilter()
				return m, nil
			}
			// The list consumes other keys while filtering.
		} else {
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m, tea.Quit

			case key.Matches(msg, m.keys.Help):
				m.showHelp = true
				return m, nil

			case key.Matches(msg, m.keys.SwitchFocus):
				if m.focus == browseListPane {
					m.focus = browseDetailPane
					m.viewport.Height = m.height - 3
				} else {
					m.focus = browseListPane
					listHeight := m.height / 2
					m.viewport.Height = m.height - listHeight - 3
				}
				return m, nil
			}

			if m.focus == browseDetailPane {
				if key.Matches(msg, m.keys.Clear) {
					m.focus = browseListPane
					listHeight := m.height / 2
					m.viewport.Height = m.height - listHeight - 3
					return m, nil
				}

				// h/l step through hooks without leaving the details pane.
				if msg.String() == "h" || msg.String() == "l" {
					index := m.list.Index()
					if msg.String() == "h" && index > 0 {
						m.list.Select(index - 1)
					}
					if msg.String() == "l" && index < len(m.list.VisibleItems())-1 {
						m.list.Select(index + 1)
					}
					m.syncViewport()
					return m, nil
				}

				var cmd tea.Cmd
				m.viewport, cmd = m.viewport.Update(msg)
				return m, cmd
			}

			if key.Matches(msg, m.keys.GotoTop) {
				m.list.Select(0)
				m.syncViewport()
				return m, nil
			}
			if key.Matches(msg, m.keys.GotoEnd) {
				if n := len(m.list.VisibleItems()); n > 0 {
					m.list.Select(n - 1)
					m.syncViewport()
				}
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Split the view: 1/2 for list, 1/2 for details
		listHeight := m.height / 2
		viewportHeight := m.height - listHeight - 3 // -3 for borders and status line

		m.list.SetSize(msg.Width, listHeight)

		// Account for border, padding, and the scrollbar column.
		viewportWidth := msg.Width - 12
		if !m.ready {
			m.viewport = viewport.New(viewportWidth, viewportHeight)
			m.viewport.YPosition = listHeight + 1
			m.ready = true
			m.syncViewport()
		} else {
			m.viewport.Width = viewportWidth
			m.viewport.Height = viewportHeight
		}

		return m, nil
	}

	prevIndex := m.list.Index()
	newListModel, cmd := m.list.Update(msg)
	m.list = newListModel
	cmds = append(cmds, cmd)

	if m.list.Index() != prevIndex {
		m.syncViewport()
	}

	return m, tea.Batch(cmds...)
}

func (m *browseModel) View() string {
	if m.showHelp {
		return m.helpView()
	}

	if !m.ready {
		return "Initializing..."
	}

	statusStyle := theme.DefaultTheme.Muted
	searchStyle := theme.DefaultTheme.Warning

	filterIndicator := ""
	if m.list.FilterState() == list.Filtering {
		filterTerm := m.list.FilterValue()
		if filterTerm == "" {
			filterIndicator = " [SEARCHING: type to filter]"
		} else {
			filterIndicator = fmt.Sprintf(" [SEARCHING: %s]", searchStyle.Render(filterTerm))
		}
	} else if m.list.FilterState() == list.FilterApplied {
		filterIndicator = fmt.Sprintf(" [FILTERED: %s]", searchStyle.Render(m.list.FilterValue()))
	}

	modeIndicator := ""
	if m.focus == browseDetailPane {
		modeIndicator = " [SCROLLING - tab to return]"
	}

	visibleItems := len(m.list.VisibleItems())
	currentIndex := m.list.Index()
	if currentIndex < 0 {
		currentIndex = 0
	}
	position := "0/0"
	if visibleItems > 0 {
		position = fmt.Sprintf("%d/%d", currentIndex+1, visibleItems)
		if m.list.FilterState() != list.Unfiltered && visibleItems < len(m.items) {
			position = fmt.Sprintf("%d/%d (of %d)", currentIndex+1, visibleItems, len(m.items))
		}
	}

	status := statusStyle.Render(fmt.Sprintf(" %s: %s%s%s | ? for help | q to quit",
		m.source, position, filterIndicator, modeIndicator))

	// Full-screen details view when the details pane is focused
	if m.focus == browseDetailPane {
		detailsStyle := theme.DefaultTheme.DetailsBox.Copy().
			Padding(0, 2).
			BorderForeground(theme.DefaultTheme.Highlight.GetForeground())

		detailsView := detailsStyle.Render(scrollbar.Overlay(&m.viewport))

		return lipgloss.JoinVertical(
			lipgloss.Left,
			detailsView,
			status,
		)
	}

	detailsStyle := theme.DefaultTheme.DetailsBox.Copy().
		Padding(0, 2).
		MarginLeft(1).
		Width(m.width - 3)

	detailsView := detailsStyle.Render(scrollbar.Overlay(&m.viewport))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.list.View(),
		detailsView,
		status,
	)
}

func (m *browseModel) helpView() string {
	t := theme.DefaultTheme
	var b strings.Builder

	b.WriteString(components.RenderHeader("Hook Browser Keys"))
	b.WriteString("\n\n")
	for _, binding := range helpBindings {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			t.Bold.Render(fmt.Sprintf("%-8s", binding.Help().Key)),
			t.Muted.Render(binding.Help().Desc)))
	}
	b.WriteString("\n")
	b.WriteString(t.Muted.Render("  esc to close"))

	return b.String()
}

func newHooksBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [FILE]",
		Short: "Browse configured hooks interactively",
		Long: `Opens an interactive browser over the hook config: a searchable hook
list on top and the full entry of the selected hook below. Tab moves focus
to the details pane for scrolling.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := hooksConfigPath(cmd, args)
			if err != nil {
				return err
			}
			cfg, err := precommit.Load(path)
			if err != nil {
				return err
			}
			return runHooksBrowse(path, cfg)
		},
	}
}

// runHooksBrowse starts the hook browser TUI over a loaded config.
func runHooksBrowse(path string, cfg *precommit.Config) error {
	tui.InitializeTUI()

	entries := make([]hookEntry, 0, cfg.HookCount())
	items := make([]list.Item, 0, cfg.HookCount())
	for _, repo := range cfg.Repos {
		for _, hook := range repo.Hooks {
			entry := hookEntry{repo: repo.Repo, rev: repo.Rev, hook: hook}
			entries = append(entries, entry)
			items = append(items, entry)
		}
	}

	l := list.New(items, hookDelegate{}, 0, 0)
	l.SetShowStatusBar(false)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowPagination(true)
	l.InfiniteScrolling = false
	l.DisableQuitKeybindings()
	l.Styles.PaginationStyle = theme.DefaultTheme.Muted.Copy().
		PaddingLeft(2)

	model := &browseModel{
		list:   l,
		items:  entries,
		keys:   browseKeys,
		source: repoShortName(path),
	}

	l.SetDelegate(hookDelegate{model: model})
	model.list = l

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
