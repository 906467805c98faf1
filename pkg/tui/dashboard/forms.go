package dashboard

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/plantdash/pkg/api"
	"tableflip.dev/plantdash/pkg/garden"
	"tableflip.dev/plantdash/pkg/tui/render"
	"tableflip.dev/plantdash/pkg/tui/session"
)

const newTypeChoice = "New type…"

const (
	fieldName        = "name"
	fieldType        = "type"
	fieldNextWater   = "next"
	fieldTypeName    = "type_name"
	fieldSummerWeeks = "summer"
	fieldWinterWeeks = "winter"
	fieldFrequency   = "frequency"
)

// field is a text input, or a choice list cycled with left/right when
// choices is set.
type field struct {
	key     string
	label   string
	input   textinput.Model
	choices []string
	choice  int
	hidden  bool
}

func (f *field) value() string {
	if f.choices != nil {
		if f.choice < 0 || f.choice >= len(f.choices) {
			return ""
		}
		return f.choices[f.choice]
	}
	return strings.TrimSpace(f.input.Value())
}

func (f *field) number() int {
	n, err := strconv.Atoi(f.value())
	if err != nil {
		return 0
	}
	return n
}

func (f *field) view() string {
	if f.choices != nil {
		return "‹ " + f.value() + " ›"
	}
	return f.input.View()
}

func newTextField(key, label, placeholder, value string) field {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 60
	ti.Styles.Cursor.Color = lipgloss.Color("218")
	if value != "" {
		ti.SetValue(value)
		ti.CursorEnd()
	}
	return field{key: key, label: label, input: ti}
}

func newChoiceField(key, label string, choices []string, choice int) field {
	return field{key: key, label: label, choices: choices, choice: choice}
}

// form is an open add/edit modal. The modal kind lives in the session.
type form struct {
	title  string
	submit string
	target garden.ID
	fields []field
	focus  int
	busy   bool
	err    string
	note   string
	// matched is the rule key last prefilled into the types form.
	matched string
}

func (f *form) field(key string) *field {
	for i := range f.fields {
		if f.fields[i].key == key {
			return &f.fields[i]
		}
	}
	return nil
}

func (f *form) focused() *field {
	if f.focus < 0 || f.focus >= len(f.fields) {
		return nil
	}
	return &f.fields[f.focus]
}

// move shifts focus by delta, skipping hidden fields, and focuses the input
// that gains it.
func (f *form) move(delta int) tea.Cmd {
	n := len(f.fields)
	if n == 0 {
		return nil
	}
	if cur := f.focused(); cur != nil && cur.choices == nil {
		cur.input.Blur()
	}
	next := f.focus
	for i := 0; i < n; i++ {
		next = (next + delta + n) % n
		if !f.fields[next].hidden {
			break
		}
	}
	f.focus = next
	return f.focusInput()
}

func (f *form) focusInput() tea.Cmd {
	cur := f.focused()
	if cur == nil || cur.choices != nil {
		return nil
	}
	return cur.input.Focus()
}

func (f *form) view() render.FormView {
	v := render.FormView{Title: f.title, Submit: f.submit, Busy: f.busy, Error: f.err, Note: f.note}
	for i := range f.fields {
		fl := &f.fields[i]
		v.Fields = append(v.Fields, render.Field{
			Label:   fl.label,
			Input:   fl.view(),
			Focused: i == f.focus,
			Hidden:  fl.hidden,
		})
	}
	return v
}

type formSavedMsg struct {
	modal session.Modal
	title string
	err   error
}

func (m *Model) openForm(modal session.Modal, f *form, cmds *[]tea.Cmd) {
	m.form = f
	m.session.OpenModal(modal)
	m.syncForm()
	if cmd := f.focusInput(); cmd != nil {
		*cmds = append(*cmds, cmd)
	}
	*cmds = append(*cmds, textinput.Blink)
}

func (m *Model) closeForm() {
	if m.form != nil {
		if cur := m.form.focused(); cur != nil && cur.choices == nil {
			cur.input.Blur()
		}
	}
	m.form = nil
	m.session.CloseModal()
}

func (m *Model) typeChoices() []string {
	choices := make([]string, 0, len(m.types)+1)
	for _, t := range m.types {
		choices = append(choices, t.Name)
	}
	return append(choices, newTypeChoice)
}

func (m *Model) beginAddPlant(cmds *[]tea.Cmd) {
	f := &form{
		title:  "Add plant",
		submit: "Add",
		fields: []field{
			newTextField(fieldName, "Name", "Monstera", ""),
			newChoiceField(fieldType, "Type", m.typeChoices(), 0),
			newTextField(fieldNextWater, "Next watering", "YYYY-MM-DD (optional)", ""),
			newTextField(fieldTypeName, "Type name", "Calathea", ""),
			newTextField(fieldSummerWeeks, "Summer weeks", "1", ""),
			newTextField(fieldWinterWeeks, "Winter weeks", "2", ""),
		},
	}
	m.openForm(session.ModalAddPlant, f, cmds)
}

func (m *Model) beginEditPlant(p garden.Plant, cmds *[]tea.Cmd) {
	choices := make([]string, 0, len(m.types))
	choice := 0
	for i, t := range m.types {
		choices = append(choices, t.Name)
		if t.ID == p.TypeID || (p.TypeID == "" && t.Name == p.TypeName) {
			choice = i
		}
	}
	fields := []field{newTextField(fieldName, "Name", "", p.Name)}
	if len(choices) > 0 {
		fields = append(fields, newChoiceField(fieldType, "Type", choices, choice))
	} else {
		fields = append(fields, newTextField(fieldType, "Type", "type id", p.TypeID.String()))
	}
	f := &form{title: "Edit " + p.Name, submit: "Save", target: p.ID, fields: fields}
	m.openForm(session.ModalEditPlant, f, cmds)
}

func (m *Model) beginAddTask(cmds *[]tea.Cmd) {
	f := &form{
		title:  "Add task",
		submit: "Add",
		fields: []field{
			newTextField(fieldName, "Task", "Clean the windows", ""),
			newTextField(fieldFrequency, "Every (days)", "7", ""),
		},
	}
	m.openForm(session.ModalAddTask, f, cmds)
}

func (m *Model) beginManageTypes(cmds *[]tea.Cmd) {
	names := make([]string, 0, len(m.types))
	for _, t := range m.types {
		names = append(names, t.Name)
	}
	note := "No types yet."
	if len(names) > 0 {
		note = "Existing: " + strings.Join(names, ", ")
	}
	f := &form{
		title:  "Plant types",
		submit: "Create",
		note:   note,
		fields: []field{
			newTextField(fieldName, "Type name", "Ficus", ""),
			newTextField(fieldSummerWeeks, "Summer weeks", "1", ""),
			newTextField(fieldWinterWeeks, "Winter weeks", "2", ""),
		},
	}
	m.openForm(session.ModalManageTypes, f, cmds)
}

// syncForm applies the dependent-field rules after any change: the new type
// fields only show for a new type, and a known type name switches the types
// form to an update prefilled from the rule table.
func (m *Model) syncForm() {
	f := m.form
	if f == nil {
		return
	}
	switch m.session.Modal() {
	case session.ModalAddPlant:
		isNew := f.field(fieldType).value() == newTypeChoice
		for _, key := range []string{fieldTypeName, fieldSummerWeeks, fieldWinterWeeks} {
			f.field(key).hidden = !isNew
		}
	case session.ModalManageTypes:
		name := f.field(fieldName).value()
		rule, ok := m.rules.Lookup(name)
		if !ok {
			f.submit, f.matched = "Create", ""
			return
		}
		if key := garden.RuleKey(name); f.matched != key {
			f.field(fieldSummerWeeks).input.SetValue(strconv.Itoa(rule.SummerWeeks))
			f.field(fieldWinterWeeks).input.SetValue(strconv.Itoa(rule.WinterWeeks))
			f.matched = key
		}
		f.submit = "Update"
	}
}

func (m *Model) handleFormKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	f := m.form
	if f == nil {
		m.session.CloseModal()
		return true
	}
	if f.busy {
		return true
	}
	switch msg.String() {
	case "esc":
		m.setStatus(f.title + " cancelled")
		m.closeForm()
		return true
	case "tab", "down":
		if cmd := f.move(1); cmd != nil {
			*cmds = append(*cmds, cmd)
		}
		return true
	case "shift+tab", "up":
		if cmd := f.move(-1); cmd != nil {
			*cmds = append(*cmds, cmd)
		}
		return true
	case "enter":
		m.submitForm(cmds)
		return true
	}
	cur := f.focused()
	if cur == nil {
		return true
	}
	if cur.choices != nil {
		switch msg.String() {
		case "left", "h":
			cur.choice = (cur.choice - 1 + len(cur.choices)) % len(cur.choices)
		case "right", "l", "space", " ":
			cur.choice = (cur.choice + 1) % len(cur.choices)
		}
		m.syncForm()
		return true
	}
	var cmd tea.Cmd
	cur.input, cmd = cur.input.Update(msg)
	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
	m.syncForm()
	return true
}

// submitForm validates locally and only then sends the request. While it is
// in flight the form ignores input.
func (m *Model) submitForm(cmds *[]tea.Cmd) {
	f := m.form
	modal := m.session.Modal()
	svc, ctx := m.svc, m.ctx

	var (
		validate func() error
		save     func() error
	)
	switch modal {
	case session.ModalAddPlant:
		p := garden.NewPlant{
			Name:         f.field(fieldName).value(),
			NextWatering: f.field(fieldNextWater).value(),
		}
		if tf := f.field(fieldType); tf.value() == newTypeChoice {
			p.IsNewType = true
			p.TypeName = f.field(fieldTypeName).value()
			p.SummerWeeks = f.field(fieldSummerWeeks).number()
			p.WinterWeeks = f.field(fieldWinterWeeks).number()
		} else if tf.choice < len(m.types) {
			p.TypeID = m.types[tf.choice].ID
			p.TypeName = m.types[tf.choice].Name
		}
		validate = p.Validate
		save = func() error { _, err := svc.AddPlant(ctx, p); return err }
	case session.ModalEditPlant:
		u := garden.PlantUpdate{Name: f.field(fieldName).value()}
		if tf := f.field(fieldType); tf.choices != nil {
			if tf.choice < len(m.types) {
				u.Type = m.types[tf.choice].ID
			}
		} else {
			u.Type = garden.ID(tf.value())
		}
		id := f.target
		validate = func() error {
			if u.Name == "" {
				return errNameRequired
			}
			return nil
		}
		save = func() error { _, err := svc.UpdatePlant(ctx, id, u); return err }
	case session.ModalAddTask:
		t := garden.NewTask{Name: f.field(fieldName).value(), FrequencyDays: f.field(fieldFrequency).number()}
		validate = t.Validate
		save = func() error { _, err := svc.AddTask(ctx, t); return err }
	case session.ModalManageTypes:
		r := garden.TypeRule{
			Name:        f.field(fieldName).value(),
			SummerWeeks: f.field(fieldSummerWeeks).number(),
			WinterWeeks: f.field(fieldWinterWeeks).number(),
		}
		validate = r.Validate
		save = func() error { _, err := svc.SavePlantType(ctx, r); return err }
	default:
		return
	}

	if err := validate(); err != nil {
		f.err = err.Error()
		return
	}
	f.err = ""
	f.busy = true
	title := f.title
	*cmds = append(*cmds, func() tea.Msg {
		return formSavedMsg{modal: modal, title: title, err: save()}
	})
}

func (m *Model) onFormSaved(msg formSavedMsg, cmds *[]tea.Cmd) {
	if m.form != nil && m.session.Modal() == msg.modal {
		m.form.busy = false
		if msg.err != nil {
			m.form.err = api.Message(msg.err)
			return
		}
		m.closeForm()
	} else if msg.err != nil {
		m.setError(msg.title + " failed: " + api.Message(msg.err))
		return
	}
	switch msg.modal {
	case session.ModalAddPlant:
		m.setStatus("Plant added")
		*cmds = append(*cmds, m.loadGarden(), m.loadRecommendation())
	case session.ModalEditPlant:
		m.setStatus("Plant saved")
		*cmds = append(*cmds, m.loadGarden())
	case session.ModalAddTask:
		m.setStatus("Task added")
		*cmds = append(*cmds, m.loadTasks(), m.loadRecommendation())
	case session.ModalManageTypes:
		m.setStatus("Type saved")
		*cmds = append(*cmds, m.loadGarden())
	}
}
