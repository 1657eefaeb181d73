package tui

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hsbacot/bysykkel/client"
	"github.com/hsbacot/bysykkel/fetch"
	"github.com/hsbacot/bysykkel/link"
	"github.com/hsbacot/bysykkel/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var systems = []string{"oslobysykkel.no", "bergenbysykkel.no", "trondheimbysykkel.no"}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oslobysykkel.no/system_information.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"last_updated": 1600000000, "ttl": 10, "data": {"system_id": "oslo", "language": "nb", "name": "Oslo Bysykkel", "operator": "UIP Oslo Bysykkel AS", "timezone": "Europe/Oslo", "phone_number": "+4791589700", "email": "post@oslobysykkel.no"}}`))
	})
	mux.HandleFunc("/bergenbysykkel.no/system_information.json", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})
	mux.HandleFunc("/trondheimbysykkel.no/system_information.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})
	mux.HandleFunc("/aq/utd", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"area": "Oslo", "station": "Smestad", "component": "PM10", "value": 12.5, "unit": "µg/m³"}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	srv := newServer(t)
	opts.Client = client.NewClient(client.WithGBFSBaseURL(srv.URL), client.WithAirQualityBaseURL(srv.URL))
	if opts.Systems == nil {
		opts.Systems = systems
	}
	if opts.Areas == nil {
		opts.Areas = []string{"Oslo", "Bergen"}
	}
	return NewModel(opts)
}

// helper to send a message through Update and return the updated model.
func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// choose presses enter on the selector and delivers the selection message,
// returning the command that carries the fetch.
func choose(t *testing.T, m Model) (Model, tea.Cmd) {
	t.Helper()
	m, cmd := update(m, key("enter"))
	require.NotNil(t, cmd)
	sel, ok := cmd().(loader.SelectMsg)
	require.True(t, ok)
	return update(m, sel)
}

func TestSelectionFetchesOslo(t *testing.T) {
	m := newTestModel(t, Options{})
	assert.True(t, m.SystemInfo().State().IsNotFetching())

	m, fetchCmd := choose(t, m)
	assert.True(t, m.SystemInfo().State().IsFetching())
	assert.Contains(t, m.View(), "Henter data ...")

	m, _ = update(m, fetchCmd())
	info, ok := m.SystemInfo().State().Value()
	require.True(t, ok)
	assert.Equal(t, "oslo", info.Data.SystemID)

	view := m.View()
	assert.Contains(t, view, "System-ID: oslo")
	assert.Contains(t, view, "Operatør: UIP Oslo Bysykkel AS")
}

func TestSelectionTransportFailure(t *testing.T) {
	m := newTestModel(t, Options{})

	m, _ = update(m, key("down"))
	m, fetchCmd := choose(t, m)
	sel, _ := m.SystemInfo().Selection()
	require.Equal(t, "bergenbysykkel.no", sel)

	m, _ = update(m, fetchCmd())
	state := m.SystemInfo().State()
	require.True(t, state.IsFailed())
	assert.Equal(t, fetch.KindTransport, state.Err().Kind)
	assert.Contains(t, m.View(), "Transport {")
}

func TestSelectionSerializationFailure(t *testing.T) {
	m := newTestModel(t, Options{})

	m, _ = update(m, key("down"))
	m, _ = update(m, key("down"))
	m, fetchCmd := choose(t, m)

	m, _ = update(m, fetchCmd())
	state := m.SystemInfo().State()
	require.True(t, state.IsFailed())
	assert.Equal(t, fetch.KindSerialization, state.Err().Kind)
}

func TestIdleRendersNoFetchState(t *testing.T) {
	m := newTestModel(t, Options{})
	view := m.View()
	assert.NotContains(t, view, "Henter data")
	assert.NotContains(t, view, "Failed!")
	assert.NotContains(t, view, "Systeminformasjon")
}

func TestInitFetchesPresetSelectionOnce(t *testing.T) {
	m := newTestModel(t, Options{System: "oslobysykkel.no", Area: "Oslo"})
	require.NotNil(t, m.Init())

	m, cmd := update(m, loader.RenderedMsg{First: true})
	require.NotNil(t, cmd)
	assert.True(t, m.SystemInfo().State().IsFetching())
	assert.True(t, m.AirQuality().State().IsFetching())

	m, cmd = update(m, loader.RenderedMsg{First: true})
	assert.Nil(t, cmd)
}

func TestInitWithoutPresetStaysIdle(t *testing.T) {
	m := newTestModel(t, Options{})
	m, cmd := update(m, loader.RenderedMsg{First: true})
	assert.Nil(t, cmd)
	assert.True(t, m.SystemInfo().State().IsNotFetching())
}

func TestTabSwitchesToAirQuality(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = update(m, key("tab"))
	assert.Contains(t, m.View(), "Velg et område")

	m, fetchCmd := choose(t, m)
	assert.True(t, m.AirQuality().State().IsFetching())
	assert.True(t, m.SystemInfo().State().IsNotFetching())

	m, _ = update(m, fetchCmd())
	readings, ok := m.AirQuality().State().Value()
	require.True(t, ok)
	require.Len(t, readings, 1)
	assert.Contains(t, m.View(), "Smestad")
}

func TestOverviewLoadsAllSystemsInOneBatch(t *testing.T) {
	m := newTestModel(t, Options{})

	m, cmd := update(m, key("a"))
	require.NotNil(t, cmd)
	for _, id := range systems {
		assert.True(t, m.Overview().State(id).IsFetching(), id)
	}

	batch, ok := cmd().(link.BatchMsg)
	require.True(t, ok)
	require.Len(t, batch, len(systems))

	m, _ = update(m, batch)
	assert.True(t, m.Overview().State("oslobysykkel.no").IsSuccess())
	assert.True(t, fetch.IsTransport(m.Overview().State("bergenbysykkel.no").Err()))
	assert.True(t, fetch.IsSerialization(m.Overview().State("trondheimbysykkel.no").Err()))
	assert.True(t, m.SystemInfo().State().IsNotFetching(), "overview does not touch the selected system")

	view := m.View()
	assert.Contains(t, view, "Alle systemer")
	assert.Contains(t, view, "Oslo Bysykkel")
}

func TestStaleCompletionDeterminesFinalState(t *testing.T) {
	m := newTestModel(t, Options{})

	m, fetchOslo := choose(t, m)
	m, _ = update(m, key("down"))
	m, fetchBergen := choose(t, m)

	bergen := fetchBergen()
	oslo := fetchOslo()

	m, _ = update(m, bergen)
	require.True(t, m.SystemInfo().State().IsFailed())

	m, _ = update(m, oslo)
	info, ok := m.SystemInfo().State().Value()
	require.True(t, ok, "the completion that lands last wins, even for a superseded selection")
	assert.Equal(t, "oslo", info.Data.SystemID)

	sel, _ := m.SystemInfo().Selection()
	assert.Equal(t, "bergenbysykkel.no", sel)
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, Options{})
	_, cmd := update(m, key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestFormatLastUpdatedUsesZone(t *testing.T) {
	ts := time.Date(2020, 9, 13, 12, 26, 40, 0, time.UTC)

	oslo := client.SystemInformation{Timezone: "Europe/Oslo"}.Location()
	assert.True(t, strings.HasPrefix(FormatLastUpdated(ts, oslo), "2020-09-13 14:26:40 CEST"))

	broken := client.SystemInformation{Timezone: "Not/A_Zone"}.Location()
	assert.True(t, strings.HasPrefix(FormatLastUpdated(ts, broken), "2020-09-13 12:26:40 UTC"))

	assert.Equal(t, "ukjent", FormatLastUpdated(time.Time{}, time.UTC))
}

func TestSystemLinesWithUnparsableTimezone(t *testing.T) {
	info := client.SystemInfo{
		LastUpdated: client.Timestamp{Time: time.Unix(1600000000, 0).UTC()},
		Data:        client.SystemInformation{SystemID: "x", Timezone: "garbage"},
	}

	lines := systemLines(info)
	require.Len(t, lines, 8)
	assert.Contains(t, lines[7], "UTC")
}

func TestRenderState(t *testing.T) {
	success := func(s string) string { return "ok:" + s }

	assert.Equal(t, "", renderState(fetch.NotFetching[string](), "*", success))
	assert.Contains(t, renderState(fetch.Fetching[string](), "*", success), "Henter data ...")
	assert.Equal(t, "ok:v", renderState(fetch.Success("v"), "*", success))
	assert.Contains(t, renderState(fetch.Failed[string](fetch.Transport(nil, "down")), "*", success), "Failed!")
}
