package application

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// errQuit is returned by the quit action to end the session.
var errQuit = errors.New("quit")

/* ----------------------------------------
	MENU TREE
---------------------------------------- */

// MenuItem is one selectable action. Key is matched case-insensitively.
type MenuItem struct {
	Key    string
	Label  string
	Action func(ctx context.Context) error
}

type Menu struct {
	Title string
	Items []MenuItem
}

// Find returns the item whose key matches choice.
func (m *Menu) Find(choice string) (MenuItem, bool) {
	choice = strings.ToLower(strings.TrimSpace(choice))
	for _, item := range m.Items {
		if item.Key == choice {
			return item, true
		}
	}
	return MenuItem{}, false
}

// Keys returns the item keys in menu order.
func (m *Menu) Keys() []string {
	keys := make([]string, len(m.Items))
	for i, item := range m.Items {
		keys[i] = item.Key
	}
	return keys
}

/* ----------------------------------------
	MENU TREE DEFINITION
---------------------------------------- */

func buildMenu(s *Session) *Menu {
	return &Menu{
		Title: "STORE INVENTORY",
		Items: []MenuItem{
			{Key: "v", Label: "view a product", Action: s.viewProduct},
			{Key: "a", Label: "add a new product", Action: s.addProduct},
			{Key: "b", Label: "make a backup of the database", Action: s.backup},
			{Key: "q", Label: "exit", Action: s.quit},
		},
	}
}

/* ----------------------------------------
	RENDERING
---------------------------------------- */

type styles struct {
	title  lipgloss.Style
	key    lipgloss.Style
	label  lipgloss.Style
	field  lipgloss.Style
	notice lipgloss.Style
	err    lipgloss.Style
}

// newStyles binds styles to r so color is only emitted when the session
// writes to a terminal.
func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#005FAF", Dark: "#5FAFFF"}),
		key:    r.NewStyle().Bold(true),
		label:  r.NewStyle(),
		field:  r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#585858", Dark: "#A8A8A8"}),
		notice: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#008700", Dark: "#5FD75F"}),
		err:    r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}),
	}
}

func (m *Menu) render(st styles) string {
	rule := strings.Repeat("-", 7)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(st.title.Render(rule + " " + m.Title + " " + rule))
	b.WriteString("\n")
	for i, item := range m.Items {
		b.WriteString(st.label.Render(strconv.Itoa(i+1) + ") Enter '"))
		b.WriteString(st.key.Render(item.Key))
		b.WriteString(st.label.Render("' to " + item.Label))
		b.WriteString("\n")
	}
	b.WriteString(st.title.Render(strings.Repeat("-", len(m.Title)+2*len(rule)+2)))
	b.WriteString("\n")
	return b.String()
}

// renderLines styles each line of text on its own, so multi-line messages
// are not padded to a common width.
func renderLines(st lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = st.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
