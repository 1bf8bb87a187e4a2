package tui

import "debatehub/internal/session"

// layout is the screen geometry for one view. The questionnaire widens the
// side panel for its option rows; the debate room narrows it so the
// transcript gets the space.
type layout struct {
	compact bool
	content int
	side    int
	log     int
	panelH  int
}

func computeLayout(width, height int, view session.View) layout {
	if width < 76 || height < 18 {
		return layout{compact: true, content: maxInt(20, width-4), panelH: maxInt(5, height-6)}
	}

	content := maxInt(54, width-2)
	side := minInt(48, maxInt(32, content/3))
	switch view {
	case session.ViewQuestionnaire:
		side = minInt(56, maxInt(40, content*2/5))
	case session.ViewDebate:
		side = minInt(40, maxInt(30, content/4))
	}
	return layout{
		content: content,
		side:    side,
		log:     maxInt(36, content-side-1),
		panelH:  maxInt(10, height-12),
	}
}

func (m model) layout() layout {
	return computeLayout(m.width, m.height, m.sess.View())
}

// resizeLayout fits the input and transcript viewport to the current view.
func (m *model) resizeLayout() {
	m.input.Width = maxInt(22, m.width-12)

	l := m.layout()
	if l.compact {
		m.logViewport.Width = l.content
		m.logViewport.Height = l.panelH
	} else {
		m.logViewport.Width = maxInt(22, l.log-4)
		m.logViewport.Height = maxInt(5, l.panelH-4)
	}
	if m.logViewport.Width != m.wrappedWidth {
		m.refreshLogViewport()
	} else if m.autoFollow {
		m.logViewport.GotoBottom()
	}
}
