package tui

import (
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/hsbacot/bysykkel/client"
	"github.com/hsbacot/bysykkel/link"
	"github.com/hsbacot/bysykkel/loader"
	"github.com/hsbacot/bysykkel/selector"
)

// Options contains configuration for the Model
type Options struct {
	Systems []string
	System  string
	Areas   []string
	Area    string
	Logger  *log.Logger
	Client  *client.Client
}

// Model is the Bubble Tea model for bysykkel
type Model struct {
	page   page
	width  int
	logger *log.Logger
	link   *link.Link

	// Bysykler
	systems      selector.Model[string]
	systemInfo   loader.Loader[client.SystemInfo]
	overview     loader.Group[client.SystemInfo]
	showOverview bool

	// Luftkvalitet
	areas      selector.Model[string]
	airQuality loader.Loader[[]client.Reading]

	// UI Components
	spinner spinner.Model
}

// NewModel creates a new Bubble Tea model
func NewModel(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c := opts.Client
	if c == nil {
		c = client.NewClient(client.WithLogger(logger))
	}
	links := link.New(logger)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := Model{
		page:       pageBysykler,
		logger:     logger,
		link:       links,
		systemInfo: loader.New(systemInfoName, links, c.FetchSystemInfo),
		overview:   loader.NewGroup(overviewName, links, c.FetchSystemInfo),
		airQuality: loader.New(airQualityName, links, c.FetchAirQuality),
		spinner:    s,
	}

	var system, area *string
	if opts.System != "" {
		system = &opts.System
		m.systemInfo = m.systemInfo.WithSelection(opts.System)
	}
	if opts.Area != "" {
		area = &opts.Area
		m.airQuality = m.airQuality.WithSelection(opts.Area)
	}

	m.systems = selector.New(selector.Config[string]{
		Title:    "Velg et bysykkelsystem",
		Options:  opts.Systems,
		Selected: system,
		OnChange: func(id string) tea.Msg { return loader.SelectMsg{Name: systemInfoName, ID: id} },
	})
	m.areas = selector.New(selector.Config[string]{
		Title:    "Velg et område",
		Options:  opts.Areas,
		Selected: area,
		OnChange: func(id string) tea.Msg { return loader.SelectMsg{Name: airQualityName, ID: id} },
	})

	return m
}

// SystemInfo returns the fetch state of the selected system
func (m Model) SystemInfo() loader.Loader[client.SystemInfo] {
	return m.systemInfo
}

// AirQuality returns the fetch state of the selected area
func (m Model) AirQuality() loader.Loader[[]client.Reading] {
	return m.airQuality
}

// Overview returns the all-systems overview
func (m Model) Overview() loader.Group[client.SystemInfo] {
	return m.overview
}
