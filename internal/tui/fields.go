package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// fieldForm is a column of labelled text inputs with one focused.
type fieldForm struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newFieldForm(labels []string, values []string) *fieldForm {
	f := &fieldForm{labels: labels}
	width := 0
	for _, l := range labels {
		if len(l) > width {
			width = len(l)
		}
	}
	for i, l := range labels {
		inp := textinput.New()
		inp.Prompt = l + strings.Repeat(" ", width-len(l)) + ": "
		inp.CharLimit = 120
		if i < len(values) {
			inp.SetValue(values[i])
		}
		f.inputs = append(f.inputs, inp)
	}
	f.inputs[0].Focus()
	return f
}

func (f *fieldForm) value(i int) string { return strings.TrimSpace(f.inputs[i].Value()) }

func (f *fieldForm) set(i int, v string) { f.inputs[i].SetValue(v) }

// move shifts focus by dir, wrapping around.
func (f *fieldForm) move(dir int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + dir + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

// focusOn moves focus to field i.
func (f *fieldForm) focusOn(i int) tea.Cmd {
	return f.move(i - f.focus)
}

// update handles navigation keys and forwards the rest to the focused input.
func (f *fieldForm) update(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "tab", "down":
			return f.move(1)
		case "shift+tab", "up":
			return f.move(-1)
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *fieldForm) view() string {
	lines := make([]string, 0, len(f.inputs))
	for _, in := range f.inputs {
		lines = append(lines, in.View())
	}
	return strings.Join(lines, "\n")
}
