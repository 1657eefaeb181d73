package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/hsbacot/bysykkel/client"
	"github.com/hsbacot/bysykkel/link"
	"github.com/hsbacot/bysykkel/loader"
)

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg { return loader.RenderedMsg{First: true} },
	)
}

// Update handles messages and state transitions
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab", "shift+tab":
			if m.page == pageBysykler {
				m.page = pageLuftkvalitet
			} else {
				m.page = pageBysykler
			}
			return m, nil
		}

		if m.page == pageBysykler {
			switch msg.String() {
			case "a":
				var cmd tea.Cmd
				m.showOverview = true
				m.overview, cmd = m.overview.LoadAll(m.systems.Options())
				return m, cmd
			case "esc":
				m.showOverview = false
				return m, nil
			}
			var cmd tea.Cmd
			m.systems, cmd = m.systems.Update(msg)
			return m, cmd
		}

		var cmd tea.Cmd
		m.areas, cmd = m.areas.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		var c1, c2 tea.Cmd
		m.systems, c1 = m.systems.Update(msg)
		m.areas, c2 = m.areas.Update(msg)
		return m, tea.Batch(c1, c2)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loader.RenderedMsg:
		var c1, c2 tea.Cmd
		m.systemInfo, c1 = m.systemInfo.Rendered(msg.First)
		m.airQuality, c2 = m.airQuality.Rendered(msg.First)
		return m, tea.Batch(c1, c2)

	case loader.SelectMsg:
		m.logger.Debug("Selection changed", "loader", msg.Name, "id", msg.ID)
		var cmd tea.Cmd
		switch msg.Name {
		case systemInfoName:
			m.showOverview = false
			m.systemInfo, cmd = m.systemInfo.Update(msg)
		case airQualityName:
			m.airQuality, cmd = m.airQuality.Update(msg)
		}
		return m, cmd

	case loader.StateMsg[client.SystemInfo]:
		m.logger.Debug("Fetch completed", "loader", msg.Name, "id", msg.ID, "status", msg.State.Status())
		m.systemInfo, _ = m.systemInfo.Update(msg)
		m.overview, _ = m.overview.Update(msg)
		return m, nil

	case loader.StateMsg[[]client.Reading]:
		m.logger.Debug("Fetch completed", "loader", msg.Name, "id", msg.ID, "status", msg.State.Status())
		m.airQuality, _ = m.airQuality.Update(msg)
		return m, nil

	case link.BatchMsg:
		return link.Apply(m, msg, updateModel)
	}

	return m, nil
}

func updateModel(m Model, msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}
