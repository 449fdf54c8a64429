package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/dex/internal/languages"
	"github.com/kingrea/dex/internal/project"
)

const formWidth = 60

type formField int

const (
	fieldName formField = iota
	fieldLanguage
)

// CreateForm collects a project name and language for a new manifest.
type CreateForm struct {
	name     textinput.Model
	language textinput.Model
	focus    formField

	options  []string
	filtered []string

	width     int
	height    int
	done      bool
	cancelled bool
}

// NewCreateForm starts the form with defaultName in the name field. The
// language choices are table's canonical names plus UNKNOWN.
func NewCreateForm(defaultName string, table *languages.Table) *CreateForm {
	if table == nil {
		table = languages.Default()
	}
	name := textinput.New()
	name.Prompt = ""
	name.SetValue(defaultName)
	name.Focus()

	language := textinput.New()
	language.Prompt = ""
	language.Placeholder = "type to filter"

	options := append(table.Names(), project.UnknownLanguage)
	f := &CreateForm{
		name:     name,
		language: language,
		options:  options,
		width:    defaultWidth,
		height:   defaultHeight,
	}
	f.refilter()
	return f
}

// Result returns the manifest fields once the form was accepted.
func (f *CreateForm) Result() (project.Manifest, bool) {
	if !f.done || f.cancelled {
		return project.Manifest{}, false
	}
	return project.Manifest{
		Name:     strings.TrimSpace(f.name.Value()),
		Language: strings.TrimSpace(f.language.Value()),
	}, true
}

// Cancelled reports whether the user left with Esc or Ctrl-C.
func (f *CreateForm) Cancelled() bool {
	return f.cancelled
}

// Filtered returns the language choices matching the language field.
func (f *CreateForm) Filtered() []string {
	return f.filtered
}

// Init implements tea.Model.
func (f *CreateForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (f *CreateForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		f.width = msg.Width
		f.height = msg.Height
		return f, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			f.cancelled = true
			return f, tea.Quit
		case tea.KeyTab, tea.KeyShiftTab:
			if f.focus == fieldName {
				f.setFocus(fieldLanguage)
			} else {
				f.setFocus(fieldName)
			}
			return f, nil
		case tea.KeyEnter:
			if f.focus == fieldName {
				f.setFocus(fieldLanguage)
				return f, nil
			}
			if f.accept() {
				f.done = true
				return f, tea.Quit
			}
			return f, nil
		}
	}

	var cmd tea.Cmd
	if f.focus == fieldName {
		f.name, cmd = f.name.Update(msg)
		return f, cmd
	}
	before := f.language.Value()
	f.language, cmd = f.language.Update(msg)
	if f.language.Value() != before {
		f.refilter()
	}
	return f, cmd
}

// accept allows Enter when exactly one language is left, which then becomes
// the field value, or when the field reads UNKNOWN.
func (f *CreateForm) accept() bool {
	if len(f.filtered) == 1 {
		f.language.SetValue(f.filtered[0])
		return true
	}
	return strings.TrimSpace(f.language.Value()) == project.UnknownLanguage
}

func (f *CreateForm) setFocus(field formField) {
	f.focus = field
	if field == fieldName {
		f.language.Blur()
		f.name.Focus()
		return
	}
	f.name.Blur()
	f.language.Focus()
}

func (f *CreateForm) refilter() {
	query := strings.ToLower(strings.TrimSpace(f.language.Value()))
	f.filtered = f.filtered[:0]
	for _, option := range f.options {
		if strings.Contains(strings.ToLower(option), query) {
			f.filtered = append(f.filtered, option)
		}
	}
}

// View implements tea.Model.
func (f *CreateForm) View() string {
	if f.done || f.cancelled {
		return ""
	}
	inner := formWidth - 2

	field := func(title string, input textinput.Model, focused bool) string {
		style := boxStyle
		if focused {
			style = focusedBoxStyle
		}
		return style.Width(inner).Render(titleStyle.Render(title) + "\n" + input.View())
	}

	sections := []string{
		field("Project Name", f.name, f.focus == fieldName),
		field("Language", f.language, f.focus == fieldLanguage),
	}
	if f.focus == fieldLanguage {
		choices := dimStyle.Render("no matching language")
		if len(f.filtered) > 0 {
			choices = strings.Join(f.filtered, "\n")
		}
		sections = append(sections, boxStyle.Width(inner).Render(titleStyle.Render("Available Languages")+"\n"+choices))
	}

	var hint string
	switch {
	case f.focus == fieldName:
		hint = "tab/enter: language · esc: quit"
	case len(f.filtered) == 1:
		hint = "enter: select " + f.filtered[0] + " · esc: quit"
	default:
		hint = "type to filter · enter when one remains · esc: quit"
	}
	sections = append(sections, dimStyle.Render(hint))

	block := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.Place(max(f.width, formWidth), max(f.height, lipgloss.Height(block)), lipgloss.Center, lipgloss.Center, block)
}
