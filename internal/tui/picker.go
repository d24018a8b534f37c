// ABOUTME: Interactive entry picker for per-entry edit and delete.
// ABOUTME: Wraps a bubbles list of entries and reports the chosen one.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/daily/internal/models"
)

const (
	pickerWidth  = 72
	pickerHeight = 20
)

type entryItem struct {
	entry models.Entry
}

func (i entryItem) Title() string {
	line, _, _ := strings.Cut(i.entry.Content, "\n")
	return fmt.Sprintf("%d: %s", i.entry.ID, line)
}

func (i entryItem) Description() string {
	if i.entry.Tag != "" {
		return fmt.Sprintf("%s [%s]", i.entry.Date, i.entry.Tag)
	}
	return i.entry.Date.String()
}

func (i entryItem) FilterValue() string {
	return i.entry.Content
}

// PickerModel lets the user choose one entry from a list.
type PickerModel struct {
	list     list.Model
	chosen   *models.Entry
	quitting bool
}

// NewPickerModel builds a picker over entries.
func NewPickerModel(title string, entries []models.Entry) PickerModel {
	items := make([]list.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, entryItem{entry: e})
	}

	l := list.New(items, list.NewDefaultDelegate(), pickerWidth, pickerHeight)
	l.Title = title
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)

	return PickerModel{list: l}
}

// Init implements tea.Model.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-1)
		return m, nil

	case tea.KeyMsg:
		// Keys belong to the filter input while the user is typing a filter.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			if item, ok := m.list.SelectedItem().(entryItem); ok {
				e := item.entry
				m.chosen = &e
			}
			return m, tea.Quit
		}
		if msg.String() == "q" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m PickerModel) View() string {
	if m.chosen != nil || m.quitting {
		return ""
	}
	return m.list.View()
}

// Selected returns the chosen entry, if any.
func (m PickerModel) Selected() (models.Entry, bool) {
	if m.chosen == nil {
		return models.Entry{}, false
	}
	return *m.chosen, true
}

// PickEntry runs the picker and returns the chosen entry. ok is false when the
// user quits without choosing.
func PickEntry(in io.Reader, out io.Writer, title string, entries []models.Entry) (models.Entry, bool, error) {
	if len(entries) == 0 {
		return models.Entry{}, false, nil
	}

	p := tea.NewProgram(NewPickerModel(title, entries), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return models.Entry{}, false, fmt.Errorf("failed to run entry picker: %w", err)
	}
	m, ok := final.(PickerModel)
	if !ok {
		return models.Entry{}, false, nil
	}
	e, chosen := m.Selected()
	return e, chosen, nil
}
