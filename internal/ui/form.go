package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// option is one choice of a picker field.
type option struct {
	label string
	value string
}

// field is a labelled text input, a multi-line text area, or a picker when options is non-nil.
//
// The input widgets rewrite some characters (tabs, and newlines in single-line inputs), so a field that
// still shows what it was opened with reports its initial value rather than the widget's.
type field struct {
	label       string
	input       textinput.Model
	area        textarea.Model
	multiline   bool
	options     []option
	choice      int // index into options; -1 when nothing is chosen
	placeholder string
	initial     string
	shown       string
}

func textField(label, value, placeholder string) field {
	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = placeholder
	in.SetValue(value)
	return field{label: label, input: in, choice: -1, initial: value, shown: in.Value()}
}

func areaField(label, value, placeholder string) field {
	area := textarea.New()
	area.Placeholder = placeholder
	area.ShowLineNumbers = false
	area.CharLimit = 0
	area.SetWidth(60)
	area.SetHeight(4)
	area.SetValue(value)
	return field{label: label, area: area, multiline: true, choice: -1, initial: value, shown: area.Value()}
}

func passwordField(label string) field {
	f := textField(label, "", "")
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '•'
	return f
}

func pickerField(label, placeholder string, options []option) field {
	return field{label: label, options: options, choice: -1, placeholder: placeholder}
}

func (f field) isPicker() bool { return f.options != nil }

func (f field) value() string {
	if f.isPicker() {
		if f.choice < 0 || f.choice >= len(f.options) {
			return ""
		}
		return f.options[f.choice].value
	}

	v := f.input.Value()
	if f.multiline {
		v = f.area.Value()
	}
	if v == f.shown {
		return f.initial
	}
	return v
}

// form is a vertical stack of fields with one focused at a time.
type form struct {
	fields []field
	focus  int
}

func newForm(fields ...field) form {
	f := form{fields: fields}
	f.setFocus(0)
	return f
}

// Value returns the value of the i-th field.
func (f *form) Value(i int) string {
	if i < 0 || i >= len(f.fields) {
		return ""
	}
	return f.fields[i].value()
}

// Last reports whether the focused field is the final one.
func (f *form) Last() bool { return f.focus == len(f.fields)-1 }

func (f *form) setFocus(i int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	i = (i + len(f.fields)) % len(f.fields)

	var cmd tea.Cmd
	for idx := range f.fields {
		fld := &f.fields[idx]
		switch {
		case fld.isPicker():
		case fld.multiline && idx == i:
			cmd = fld.area.Focus()
		case fld.multiline:
			fld.area.Blur()
		case idx == i:
			cmd = fld.input.Focus()
		default:
			fld.input.Blur()
		}
	}
	f.focus = i
	return cmd
}

func (f *form) Next() tea.Cmd { return f.setFocus(f.focus + 1) }
func (f *form) Prev() tea.Cmd { return f.setFocus(f.focus - 1) }

// Cycle moves the focused picker's choice by delta; it is a no-op on text fields.
func (f *form) Cycle(delta int) bool {
	fld := &f.fields[f.focus]
	if !fld.isPicker() || len(fld.options) == 0 {
		return false
	}
	if fld.choice < 0 {
		if delta > 0 {
			fld.choice = 0
		} else {
			fld.choice = len(fld.options) - 1
		}
		return true
	}
	fld.choice = (fld.choice + delta + len(fld.options)) % len(fld.options)
	return true
}

// FocusedPicker reports whether the focused field is a picker.
func (f *form) FocusedPicker() bool {
	return len(f.fields) > 0 && f.fields[f.focus].isPicker()
}

// FocusedMultiline reports whether the focused field is a text area.
func (f *form) FocusedMultiline() bool {
	return len(f.fields) > 0 && f.fields[f.focus].multiline
}

// Update forwards msg to the focused text input or area.
func (f *form) Update(msg tea.Msg) tea.Cmd {
	if len(f.fields) == 0 || f.FocusedPicker() {
		return nil
	}
	fld := &f.fields[f.focus]
	var cmd tea.Cmd
	if fld.multiline {
		fld.area, cmd = fld.area.Update(msg)
	} else {
		fld.input, cmd = fld.input.Update(msg)
	}
	return cmd
}

func (f *form) View() string {
	var b strings.Builder
	for i, fld := range f.fields {
		label := styles.label.Render(fld.label)
		if i == f.focus {
			label = styles.brand.Render(fld.label)
		}
		b.WriteString(label)
		b.WriteByte('\n')

		if fld.isPicker() {
			text := fld.placeholder
			if fld.choice >= 0 && fld.choice < len(fld.options) {
				text = fld.options[fld.choice].label
			}
			fmt.Fprintf(&b, "< %s >", text)
		} else if fld.multiline {
			b.WriteString(fld.area.View())
		} else {
			b.WriteString(fld.input.View())
		}
		b.WriteString("\n\n")
	}
	return b.String()
}
