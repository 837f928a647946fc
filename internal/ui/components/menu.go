package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/tanmay/resona/internal/ui/theme"
)

// MenuItem is one selectable choice. Action returns the command to run
// when the item is activated.
type MenuItem struct {
	Label  string
	Action func() tea.Cmd
}

// Menu is a small vertical choice list driven by the arrow keys.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	return Menu{Items: items}
}

func (m Menu) Init() tea.Cmd {
	return nil
}

// Update moves the selection and activates the selected item on enter.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Items)-1 {
			m.Selected++
		}
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			if act := m.Items[m.Selected].Action; act != nil {
				return m, act()
			}
		}
	}

	return m, nil
}

func (m Menu) View() string {
	var s string
	for i, item := range m.Items {
		if i == m.Selected {
			s += theme.Selected.Render("  ▸ "+item.Label) + "\n"
		} else {
			s += theme.Unselected.Render("    "+item.Label) + "\n"
		}
	}
	return s
}
