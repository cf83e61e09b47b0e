package teaui

import (
	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/crosscal/pkg/drag"
	"tableflip.dev/crosscal/pkg/marks"
	"tableflip.dev/crosscal/pkg/tui/components/calendar"
	"tableflip.dev/crosscal/pkg/tui/components/tasklist"
)

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.mode != modeNormal {
		return nil
	}
	x, y := msg.X-bodyX, msg.Y-bodyY

	if m.focus == focusCalendar {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if date, ok := calendar.DayAt(m.month, x, y); ok {
				if day, err := marks.ParseKey(date); err == nil {
					m.setDay(day)
				}
				m.toggleMark(date)
			}
		}
		return nil
	}
	return m.handleTasksMouse(msg, x, y)
}

// handleTasksMouse drives the drag controller. A press on a pending row
// starts a gesture; a release without any reordering is treated as a click.
func (m *Model) handleTasksMouse(msg tea.MouseMsg, x, y int) tea.Cmd {
	_, layout := m.tasksView()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		row, ok := layout.RowAt(y)
		if !ok {
			return nil
		}
		m.cursor = row.ID
		if x >= tasklist.CheckboxStart && x <= tasklist.CheckboxEnd {
			m.toggleTask(row.ID)
			return nil
		}
		if !row.Draggable {
			return m.openEditor(row.ID)
		}
		if err := m.drag.Begin(layout.Items(), row.ID); err != nil {
			m.drag.Cancel()
			return nil
		}
		m.dragged = false

	case tea.MouseActionMotion:
		if m.drag.State() != drag.Dragging {
			return nil
		}
		if m.drag.Move(float64(y)+0.5, layout.Boxes()) {
			m.dragged = true
		}

	case tea.MouseActionRelease:
		if m.drag.State() != drag.Dragging {
			return nil
		}
		source := m.drag.Source()
		if !m.dragged {
			m.drag.Cancel()
			return m.openEditor(source)
		}
		if err := m.drag.Release(layout.InPending(y)); err != nil {
			m.drag.Cancel()
			return nil
		}
		if m.drag.State() != drag.DropPending {
			m.status = "Drag cancelled"
			return nil
		}
		ref := m.current()
		m.report(m.drag.Commit(func(order []int64) error {
			return m.state.Reorder(ref, order)
		}))
		m.cursor = source
	}
	return nil
}
