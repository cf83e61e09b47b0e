// Package teaui hosts the Bubble Tea program for the crosscal terminal UI.
package teaui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/crosscal/pkg/app"
	"tableflip.dev/crosscal/pkg/drag"
	"tableflip.dev/crosscal/pkg/marks"
	"tableflip.dev/crosscal/pkg/store"
	"tableflip.dev/crosscal/pkg/task"
	"tableflip.dev/crosscal/pkg/tui/components/calendar"
	"tableflip.dev/crosscal/pkg/tui/components/tasklist"
	"tableflip.dev/crosscal/pkg/tui/theme"
)

type focus int

const (
	focusCalendar focus = iota
	focusTasks
)

// Model states
type mode int

const (
	modeNormal mode = iota
	modeAddTask
	modeAddSection
	modeSections
	modeEdit
	modeConfirm
	modeHelp
)

type confirmation struct {
	prompt string
	yes    func()
	// back is the mode to return to when the answer is no.
	back mode
}

// Model contains UI state
type Model struct {
	state       *app.State
	persistence store.Persistence
	ctx         context.Context
	now         func() time.Time
	theme       theme.Theme
	keys        keyMap

	width  int
	height int

	focus focus
	mode  mode

	month marks.Month
	day   time.Time

	cursor     int64
	sectionIdx int

	input     textinput.Model
	title     textinput.Model
	desc      textarea.Model
	editing   int64
	editField int

	confirm *confirmation

	drag    drag.Controller
	dragged bool

	status string

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc
}

// Option customises New.
type Option func(*Model)

// WithClock overrides the time source used for "today".
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// New builds the model over a loaded state. p may be nil, in which case
// changes made by other processes are not picked up.
func New(ctx context.Context, st *app.State, p store.Persistence, opts ...Option) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	input := textinput.New()
	input.CharLimit = 200

	title := textinput.New()
	title.Prompt = "Title: "
	title.CharLimit = 200

	desc := textarea.New()
	desc.Placeholder = "Description"
	desc.ShowLineNumbers = false
	desc.SetHeight(4)

	m := &Model{
		state:       st,
		persistence: p,
		ctx:         ctx,
		now:         time.Now,
		theme:       theme.Default(),
		keys:        defaultKeyMap(),
		focus:       focusCalendar,
		input:       input,
		title:       title,
		desc:        desc,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.day = m.today()
	m.month = marks.MonthOf(m.day)
	return m
}

// Run launches the Bubble Tea UI and blocks until it exits.
func Run(ctx context.Context, st *app.State, p store.Persistence) error {
	m := New(ctx, st, p)
	defer m.stopWatch()
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return startWatchCmd(m.ctx, m.persistence)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.desc.SetWidth(max(20, m.width-8))
		m.title.Width = max(20, m.width-16)
		return m, nil

	case watchStartedMsg:
		if msg.err != nil {
			m.status = "not watching for changes: " + msg.err.Error()
			return m, nil
		}
		m.watchCh, m.watchCancel = msg.ch, msg.cancel
		return m, m.waitForWatch()

	case watchEventMsg:
		m.handleWatchEvent(msg.event)
		return m, m.waitForWatch()

	case watchStoppedMsg:
		m.stopWatch()
		return m, nil

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, m.updateInputs(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		m.stopWatch()
		return m, tea.Quit
	}

	switch m.mode {
	case modeAddTask, modeAddSection:
		return m, m.handleInputKey(msg)
	case modeEdit:
		return m, m.handleEditKey(msg)
	case modeSections:
		return m, m.handleSectionsKey(msg)
	case modeConfirm:
		m.handleConfirmKey(msg)
		return m, nil
	case modeHelp:
		m.mode = modeNormal
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.stopWatch()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Switch):
		m.drag.Cancel()
		if m.focus == focusCalendar {
			m.focus = focusTasks
		} else {
			m.focus = focusCalendar
		}
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
		return m, nil
	}

	if m.focus == focusCalendar {
		return m, m.handleCalendarKey(msg)
	}
	return m, m.handleTasksKey(msg)
}

// --- Calendar

func (m *Model) today() time.Time {
	now := m.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func (m *Model) setDay(day time.Time) {
	m.day = day
	m.month = marks.MonthOf(day)
}

func (m *Model) setMonth(month marks.Month) {
	day := min(m.day.Day(), month.Days())
	m.month = month
	m.day = month.Date(day)
}

func (m *Model) handleCalendarKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Left):
		m.setDay(m.day.AddDate(0, 0, -1))
	case key.Matches(msg, m.keys.Right):
		m.setDay(m.day.AddDate(0, 0, 1))
	case key.Matches(msg, m.keys.Up):
		m.setDay(m.day.AddDate(0, 0, -7))
	case key.Matches(msg, m.keys.Down):
		m.setDay(m.day.AddDate(0, 0, 7))
	case key.Matches(msg, m.keys.PrevMonth):
		m.setMonth(m.month.Prev())
	case key.Matches(msg, m.keys.NextMonth):
		m.setMonth(m.month.Next())
	case key.Matches(msg, m.keys.Today):
		m.setDay(m.today())
	case key.Matches(msg, m.keys.Mark):
		m.toggleMark(marks.Key(m.day))
	case key.Matches(msg, m.keys.ClearMarks):
		m.ask("Clear all marks? (y/n)", modeNormal, func() {
			m.state.ClearMarks()
			m.status = "Marks cleared"
		})
	}
	return nil
}

func (m *Model) toggleMark(date string) {
	on, err := m.state.ToggleMark(date)
	if err != nil {
		m.status = err.Error()
		return
	}
	if on {
		m.status = date + " marked"
	} else {
		m.status = date + " unmarked"
	}
}

// --- Tasks

func (m *Model) current() string {
	return m.state.CurrentSection()
}

func (m *Model) rowIDs() []int64 {
	rows := m.state.Projection().Rows()
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

// cursorIndex keeps the cursor on an existing row, falling back to the first.
func (m *Model) cursorIndex() int {
	ids := m.rowIDs()
	for i, id := range ids {
		if id == m.cursor {
			return i
		}
	}
	if len(ids) > 0 {
		m.cursor = ids[0]
	} else {
		m.cursor = 0
	}
	return 0
}

func (m *Model) moveCursor(delta int) {
	ids := m.rowIDs()
	if len(ids) == 0 {
		m.cursor = 0
		return
	}
	i := m.cursorIndex() + delta
	i = max(0, min(i, len(ids)-1))
	m.cursor = ids[i]
}

func (m *Model) hasCursor() bool {
	m.cursorIndex()
	return m.cursor != 0
}

func (m *Model) handleTasksKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Toggle):
		if m.hasCursor() {
			m.toggleTask(m.cursor)
		}
	case key.Matches(msg, m.keys.Edit):
		if m.hasCursor() {
			return m.openEditor(m.cursor)
		}
	case key.Matches(msg, m.keys.Add):
		return m.openInput(modeAddTask, "New task: ")
	case key.Matches(msg, m.keys.Delete):
		if m.hasCursor() {
			id := m.cursor
			t, err := m.state.Task(m.current(), id)
			if err != nil {
				m.report(err)
				return nil
			}
			m.ask(fmt.Sprintf("Delete %q? (y/n)", t.Text), modeNormal, func() {
				m.report(m.state.DeleteTask(m.current(), id))
				m.moveCursor(0)
			})
		}
	case key.Matches(msg, m.keys.MoveUp):
		if m.hasCursor() {
			m.report(m.state.MovePending(m.current(), m.cursor, -1))
		}
	case key.Matches(msg, m.keys.MoveDown):
		if m.hasCursor() {
			m.report(m.state.MovePending(m.current(), m.cursor, 1))
		}
	case key.Matches(msg, m.keys.Sections):
		m.openSections()
	case key.Matches(msg, m.keys.NewSection):
		return m.openInput(modeAddSection, "New section: ")
	case key.Matches(msg, m.keys.DeleteSection):
		m.askDeleteSection(m.current(), modeNormal)
	}
	return nil
}

func (m *Model) toggleTask(id int64) {
	done, err := m.state.ToggleCompleted(m.current(), id)
	if err != nil {
		m.report(err)
		return
	}
	if done {
		m.status = "Completed"
	} else {
		m.status = "Reopened"
	}
}

// report shows rejections in the status line and clears it otherwise.
func (m *Model) report(err error) {
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = ""
}

// --- Text input

func (m *Model) openInput(next mode, prompt string) tea.Cmd {
	m.mode = next
	m.input.Reset()
	m.input.Prompt = prompt
	return m.input.Focus()
}

func (m *Model) closeInput() {
	m.input.Blur()
	m.input.Reset()
	m.mode = modeNormal
}

func (m *Model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeInput()
		return nil
	case key.Matches(msg, m.keys.Submit):
		value := m.input.Value()
		if m.mode == modeAddTask {
			t, err := m.state.AddTask(m.current(), value)
			if err != nil {
				m.report(err)
				return nil
			}
			m.cursor = t.ID
			m.status = "Added"
		} else {
			if err := m.state.AddSection(value); err != nil {
				m.report(err)
				return nil
			}
			m.status = "Section " + strings.TrimSpace(value) + " added"
			m.focus = focusTasks
		}
		m.closeInput()
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// --- Edit surface

func (m *Model) openEditor(id int64) tea.Cmd {
	t, err := m.state.Task(m.current(), id)
	if err != nil {
		m.report(err)
		return nil
	}
	m.editing = id
	m.cursor = id
	m.editField = 0
	m.title.SetValue(t.Text)
	m.desc.SetValue(t.Desc)
	m.desc.Blur()
	m.mode = modeEdit
	return m.title.Focus()
}

func (m *Model) closeEditor() {
	m.title.Blur()
	m.desc.Blur()
	m.editing = 0
	m.mode = modeNormal
}

func (m *Model) handleEditKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeEditor()
		return nil
	case key.Matches(msg, m.keys.Save):
		m.report(m.state.EditTask(m.current(), m.editing, m.title.Value(), m.desc.Value()))
		m.closeEditor()
		return nil
	case key.Matches(msg, m.keys.Remove):
		id := m.editing
		m.ask("Delete this task? (y/n)", modeEdit, func() {
			m.report(m.state.DeleteTask(m.current(), id))
			m.closeEditor()
			m.moveCursor(0)
		})
		return nil
	case key.Matches(msg, m.keys.Field):
		if m.editField == 0 {
			m.editField = 1
			m.title.Blur()
			return m.desc.Focus()
		}
		m.editField = 0
		m.desc.Blur()
		return m.title.Focus()
	}
	var cmd tea.Cmd
	if m.editField == 0 {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.desc, cmd = m.desc.Update(msg)
	}
	return cmd
}

// --- Sections

func (m *Model) openSections() {
	m.mode = modeSections
	m.sectionIdx = 0
	for i, s := range m.state.Sections() {
		if s.Active {
			m.sectionIdx = i
		}
	}
}

func (m *Model) handleSectionsKey(msg tea.KeyMsg) tea.Cmd {
	sections := m.state.Sections()
	switch {
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Sections):
		m.mode = modeNormal
	case key.Matches(msg, m.keys.Up):
		m.sectionIdx = max(0, m.sectionIdx-1)
	case key.Matches(msg, m.keys.Down):
		m.sectionIdx = min(len(sections)-1, m.sectionIdx+1)
	case key.Matches(msg, m.keys.Submit):
		if m.sectionIdx < len(sections) {
			m.state.Select(sections[m.sectionIdx].Name)
			m.cursor = 0
			m.focus = focusTasks
		}
		m.mode = modeNormal
	case key.Matches(msg, m.keys.NewSection):
		return m.openInput(modeAddSection, "New section: ")
	case key.Matches(msg, m.keys.DeleteSection):
		if m.sectionIdx < len(sections) {
			m.askDeleteSection(sections[m.sectionIdx].Name, modeSections)
		}
	}
	return nil
}

func (m *Model) askDeleteSection(name string, back mode) {
	if task.IsAll(name) {
		m.status = "Choose a section to delete"
		return
	}
	m.ask(fmt.Sprintf("Delete section %q and its tasks? (y/n)", name), back, func() {
		m.report(m.state.DeleteSection(name))
		m.sectionIdx = 0
		m.cursor = 0
	})
}

// --- Confirmation

func (m *Model) ask(prompt string, back mode, yes func()) {
	m.confirm = &confirmation{prompt: prompt, yes: yes, back: back}
	m.mode = modeConfirm
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) {
	c := m.confirm
	if c == nil {
		m.mode = modeNormal
		return
	}
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.confirm = nil
		m.mode = modeNormal
		c.yes()
	case key.Matches(msg, m.keys.Deny):
		m.confirm = nil
		m.mode = c.back
	}
}

func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.mode {
	case modeAddTask, modeAddSection:
		m.input, cmd = m.input.Update(msg)
	case modeEdit:
		if m.editField == 0 {
			m.title, cmd = m.title.Update(msg)
		} else {
			m.desc, cmd = m.desc.Update(msg)
		}
	}
	return cmd
}

// --- View

// Content of the body panel starts after the header line, the frame border
// and its padding.
const (
	bodyX = 2
	bodyY = 2
)

func (m *Model) View() string {
	th := m.theme

	header := th.Header.Render("crosscal")
	if m.focus == focusCalendar {
		header += "  " + th.Panel.Title.Render("Calendar")
	} else {
		header += "  " + th.Panel.Title.Render(m.state.Projection().Heading)
	}

	var body string
	switch m.mode {
	case modeNormal:
		body = th.Panel.Frame.Render(m.panelView())
	default:
		body = th.Modal.Frame.Render(m.overlayView())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.footerView())
}

func (m *Model) panelView() string {
	if m.focus == focusCalendar {
		return m.calendarView()
	}
	out, _ := m.tasksView()
	return out
}

func (m *Model) calendarView() string {
	return calendar.Render(m.month, m.state.Marks(), m.now(), calendar.Options{
		Theme:  m.theme.Calendar,
		Cursor: marks.Key(m.day),
	})
}

func (m *Model) tasksView() (string, tasklist.Layout) {
	opts := tasklist.Options{
		Theme:  m.theme.Tasks,
		Cursor: m.cursor,
		Width:  m.width - 2*bodyX,
	}
	if m.drag.State() != drag.Idle {
		opts.Dragging = m.drag.Source()
		opts.Order = m.drag.Preview()
	}
	return tasklist.Render(m.state.Projection(), opts)
}

func (m *Model) overlayView() string {
	th := m.theme.Modal
	switch m.mode {
	case modeAddTask:
		return th.Title.Render("Add to "+m.state.Projection().Heading) + "\n\n" + m.input.View()
	case modeAddSection:
		return th.Title.Render("New section") + "\n\n" + m.input.View()
	case modeEdit:
		return th.Title.Render("Edit task") + "\n\n" + m.title.View() + "\n\n" + m.desc.View()
	case modeSections:
		lines := []string{th.Title.Render("Sections"), ""}
		for i, s := range m.state.Sections() {
			line := fmt.Sprintf("%-20s %3d", s.Name, s.Count)
			if s.Active {
				line += " •"
			}
			if i == m.sectionIdx {
				line = th.Active.Render(line)
			}
			lines = append(lines, line)
		}
		return strings.Join(lines, "\n")
	case modeConfirm:
		if m.confirm != nil {
			return th.Body.Render(m.confirm.prompt)
		}
	case modeHelp:
		return th.Title.Render("Keys") + "\n\n" + m.helpView()
	}
	return ""
}

func (m *Model) helpView() string {
	k := m.keys
	groups := [][]key.Binding{
		{k.Switch, k.Help, k.Quit},
		{k.Left, k.Right, k.Up, k.Down, k.PrevMonth, k.NextMonth, k.Today, k.Mark, k.ClearMarks},
		{k.Toggle, k.Edit, k.Add, k.Delete, k.MoveUp, k.MoveDown, k.Sections, k.NewSection, k.DeleteSection},
		{k.Save, k.Remove, k.Field, k.Cancel},
	}
	lines := make([]string, 0, len(groups))
	for _, g := range groups {
		lines = append(lines, helpLine(g...))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) footerView() string {
	th := m.theme.Footer
	status := th.Status.Render(m.status)
	if err := m.state.StorageErr(); err != nil {
		status = th.Warning.Render("Changes not saved: " + err.Error())
	}

	k := m.keys
	var help string
	switch {
	case m.mode == modeEdit:
		help = helpLine(k.Save, k.Remove, k.Field, k.Cancel)
	case m.mode == modeConfirm:
		help = helpLine(k.Confirm, k.Deny)
	case m.mode == modeSections:
		help = helpLine(k.Up, k.Down, k.Submit, k.NewSection, k.DeleteSection, k.Cancel)
	case m.mode != modeNormal:
		help = helpLine(k.Submit, k.Cancel)
	case m.focus == focusCalendar:
		help = helpLine(k.Mark, k.PrevMonth, k.NextMonth, k.Today, k.ClearMarks, k.Switch, k.Help, k.Quit)
	default:
		help = helpLine(k.Add, k.Toggle, k.Edit, k.MoveUp, k.MoveDown, k.Sections, k.Switch, k.Help, k.Quit)
	}
	return status + "\n" + th.Help.Render(help)
}
