// internal/tui/picker.go
//
// Picker is the project browser. It owns a selection.Engine and translates
// bubbletea key messages into engine keys; everything about ranking and cursor
// movement lives in the engine.

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/kingrea/dex/internal/languages"
	"github.com/kingrea/dex/internal/project"
	"github.com/kingrea/dex/internal/selection"
	"github.com/kingrea/dex/internal/session"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// header box (3) + list border (2) + footer (1)
	chromeHeight = 6
)

// PickerOption customizes Picker construction for tests and alternate runtimes.
type PickerOption func(*Picker)

// WithLauncher sets the collaborator invoked on commit.
func WithLauncher(l session.Launcher) PickerOption {
	return func(p *Picker) {
		p.launcher = l
	}
}

// WithLanguages overrides the icon table.
func WithLanguages(t *languages.Table) PickerOption {
	return func(p *Picker) {
		if t != nil {
			p.languages = t
		}
	}
}

// WithHomeDir shortens paths under home to ~.
func WithHomeDir(home string) PickerOption {
	return func(p *Picker) {
		p.home = strings.TrimRight(home, "/")
	}
}

// WithContext sets the context passed to the launcher.
func WithContext(ctx context.Context) PickerOption {
	return func(p *Picker) {
		if ctx != nil {
			p.ctx = ctx
		}
	}
}

type launchResultMsg struct {
	err error
}

type pickerKeys struct {
	Up     key.Binding
	Down   key.Binding
	Search key.Binding
	Open   key.Binding
	Quit   key.Binding
	Cancel key.Binding
}

func newPickerKeys() pickerKeys {
	return pickerKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k pickerKeys) navigating() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Search, k.Open, k.Quit}
}

func (k pickerKeys) searching() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Cancel}
}

// Picker is the bubbletea model for the project browser.
type Picker struct {
	engine    *selection.Engine
	launcher  session.Launcher
	languages *languages.Table
	home      string
	ctx       context.Context

	keys   pickerKeys
	help   help.Model
	search textinput.Model

	width  int
	height int
	offset int

	selected *project.Record
	err      error
	quitting bool
}

// NewPicker builds a picker over engine.
func NewPicker(engine *selection.Engine, opts ...PickerOption) *Picker {
	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "type to filter"
	p := &Picker{
		engine:    engine,
		languages: languages.Default(),
		ctx:       context.Background(),
		keys:      newPickerKeys(),
		help:      help.New(),
		search:    search,
		width:     defaultWidth,
		height:    defaultHeight,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Selected returns the committed project, if any.
func (p *Picker) Selected() (project.Record, bool) {
	if p.selected == nil {
		return project.Record{}, false
	}
	return *p.selected, true
}

// Err returns the launch error, if the launch failed.
func (p *Picker) Err() error {
	return p.err
}

// Init implements tea.Model.
func (p *Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.help.Width = clampWidth(msg.Width) - 4
		p.scrollToCursor()
		return p, nil
	case tea.KeyMsg:
		return p, p.handleKey(msg)
	case launchResultMsg:
		p.err = msg.err
		p.quitting = true
		return p, tea.Quit
	}
	return p, nil
}

func (p *Picker) handleKey(msg tea.KeyMsg) tea.Cmd {
	// A commit is final; keys that arrive while the launch runs are dropped.
	if p.selected != nil {
		return nil
	}
	for _, k := range translateKey(msg) {
		effect := p.engine.Handle(k)
		switch effect {
		case selection.EffectQuit:
			p.quitting = true
			return tea.Quit
		case selection.EffectCommit:
			rec, ok := p.engine.Commit()
			if !ok {
				continue
			}
			p.selected = &rec
			return p.launch(rec)
		}
	}
	p.syncSearch()
	p.scrollToCursor()
	return nil
}

func (p *Picker) launch(rec project.Record) tea.Cmd {
	if p.launcher == nil {
		p.quitting = true
		return tea.Quit
	}
	launcher, ctx := p.launcher, p.ctx
	return func() tea.Msg {
		return launchResultMsg{err: launcher.Launch(ctx, rec.Directory)}
	}
}

func (p *Picker) syncSearch() {
	if p.engine.Searching() {
		p.search.Focus()
	} else {
		p.search.Blur()
	}
	p.search.SetValue(p.engine.Query())
	p.search.CursorEnd()
}

// translateKey maps a terminal key to engine keys. Pasted text arrives as one
// message with several runes.
func translateKey(msg tea.KeyMsg) []selection.Key {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []selection.Key{{Kind: selection.KeyInterrupt}}
	case tea.KeyUp:
		return []selection.Key{{Kind: selection.KeyUp}}
	case tea.KeyDown:
		return []selection.Key{{Kind: selection.KeyDown}}
	case tea.KeyEnter:
		return []selection.Key{{Kind: selection.KeyEnter}}
	case tea.KeyEsc:
		return []selection.Key{{Kind: selection.KeyEsc}}
	case tea.KeyBackspace:
		return []selection.Key{{Kind: selection.KeyBackspace}}
	case tea.KeySpace:
		return []selection.Key{{Kind: selection.KeyRune, Rune: ' '}}
	case tea.KeyRunes:
		if msg.Alt {
			return nil
		}
		keys := make([]selection.Key, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			keys = append(keys, selection.Key{Kind: selection.KeyRune, Rune: r})
		}
		return keys
	}
	return nil
}

func (p *Picker) visibleRows() int {
	return max(1, p.height-chromeHeight)
}

// scrollToCursor keeps the cursor row inside the visible window.
func (p *Picker) scrollToCursor() {
	pos := p.engine.CursorPosition()
	if pos < 0 {
		p.offset = 0
		return
	}
	rows := p.visibleRows()
	if pos < p.offset {
		p.offset = pos
	}
	if pos >= p.offset+rows {
		p.offset = pos - rows + 1
	}
	if maxOffset := max(0, len(p.engine.Filtered())-rows); p.offset > maxOffset {
		p.offset = maxOffset
	}
}

// View implements tea.Model.
func (p *Picker) View() string {
	if p.quitting {
		return ""
	}
	width := clampWidth(p.width)
	inner := width - 2

	var header string
	if p.engine.Searching() {
		header = p.search.View() + "  " + p.help.ShortHelpView(p.keys.searching())
	} else {
		header = titleStyle.Render("Project Browser") + "  " + p.help.ShortHelpView(p.keys.navigating())
	}
	headerBox := boxStyle.Width(inner).Align(lipgloss.Center).Render(header)

	listBox := boxStyle.Width(inner).Render(p.renderRows(inner))

	footer := dimStyle.Render(fmt.Sprintf("%d/%d projects", len(p.engine.Filtered()), p.engine.Len()))
	if p.err != nil {
		footer = warningStyle.Render(p.err.Error())
	}

	block := lipgloss.JoinVertical(lipgloss.Left, headerBox, listBox, footer)
	return lipgloss.PlaceHorizontal(max(p.width, width), lipgloss.Center, block)
}

func (p *Picker) renderRows(width int) string {
	if p.engine.Len() == 0 {
		return dimStyle.Render("No projects found")
	}
	filtered := p.engine.Filtered()
	if len(filtered) == 0 {
		return dimStyle.Render("No matches")
	}

	available := max(width-3, 10)
	const iconWidth = 2
	nameWidth := int(float64(available-iconWidth) * nameColumnRatio)
	pathWidth := available - iconWidth - nameWidth

	end := min(len(filtered), p.offset+p.visibleRows())
	lines := make([]string, 0, end-p.offset)
	for _, idx := range filtered[p.offset:end] {
		rec := p.engine.Project(idx)
		style := rowStyle
		if idx == p.engine.Cursor() {
			style = cursorStyle
		}
		name := runewidth.Truncate(rec.Name, nameWidth, "…")
		matched := visibleMatches(rec.Name, name, p.engine.MatchedIndexes(idx))
		path := runewidth.Truncate(p.prettyPath(rec.Directory), pathWidth, "…")
		line := style.Render(runewidth.FillRight(p.languages.Icon(rec.Language), iconWidth)+" ") +
			highlight(name, matched, style) +
			style.Render(strings.Repeat(" ", max(0, nameWidth-runewidth.StringWidth(name)))+" ") +
			style.Render(path)
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// visibleMatches keeps the match offsets that fall on characters still shown
// after full was truncated to shown.
func visibleMatches(full, shown string, offsets []int) map[int]struct{} {
	limit := len(shown)
	if shown != full {
		limit = len(strings.TrimSuffix(shown, "…"))
	}
	matched := make(map[int]struct{}, len(offsets))
	for _, offset := range offsets {
		if offset < limit {
			matched[offset] = struct{}{}
		}
	}
	return matched
}

// highlight renders the runes of s whose byte offsets are in matched with the
// match style layered over base.
func highlight(s string, matched map[int]struct{}, base lipgloss.Style) string {
	if len(matched) == 0 {
		return base.Render(s)
	}
	emphasis := base.Inherit(matchStyle)
	var b strings.Builder
	var plain strings.Builder
	flush := func() {
		if plain.Len() > 0 {
			b.WriteString(base.Render(plain.String()))
			plain.Reset()
		}
	}
	for i, r := range s {
		if _, ok := matched[i]; ok {
			flush()
			b.WriteString(emphasis.Render(string(r)))
			continue
		}
		plain.WriteRune(r)
	}
	flush()
	return b.String()
}

func (p *Picker) prettyPath(dir string) string {
	if p.home == "" {
		return dir
	}
	if dir == p.home {
		return "~"
	}
	if strings.HasPrefix(dir, p.home+"/") {
		return "~" + dir[len(p.home):]
	}
	return dir
}
