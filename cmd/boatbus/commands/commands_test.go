package commands

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telnet2/go-practice/go-boatbus/internal/boatdata"
	"github.com/telnet2/go-practice/go-boatbus/internal/event"
	"github.com/telnet2/go-practice/go-boatbus/internal/server"
	"github.com/telnet2/go-practice/go-boatbus/internal/sseclient"
	"github.com/telnet2/go-practice/go-boatbus/internal/storage"
	"github.com/telnet2/go-practice/go-boatbus/pkg/types"
)

const testSeed = `
boatTypes:
  - {id: sail, name: Sailboat}
  - {id: motor, name: Motorboat}
boats:
  - {id: b1, name: Sea Breeze, boatTypeID: sail, price: 200, length: 30}
  - {id: b2, name: Thunder, boatTypeID: motor, price: 500, length: 26}
`

func startServer(t *testing.T) (*httptest.Server, *event.Bus) {
	t.Helper()

	store := boatdata.NewStore(storage.NewMemory())
	seed, err := boatdata.ParseSeed([]byte(testSeed))
	require.NoError(t, err)
	_, err = boatdata.ApplySeed(context.Background(), store, seed)
	require.NoError(t, err)

	bus := event.NewBus()
	srv, err := server.New(server.DefaultConfig(), bus, store)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
		bus.Close()
	})
	return ts, bus
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSelect_PublishesBoatMessage(t *testing.T) {
	ts, bus := startServer(t)

	var got []event.BoatMessage
	_, err := event.On(bus, event.Broad(), func(m event.BoatMessage) { got = append(got, m) })
	require.NoError(t, err)

	out, err := execute(t, "select", "thunder", "--server", ts.URL)
	require.NoError(t, err)

	assert.Contains(t, out, "Selected Thunder (b2)")
	assert.Equal(t, []event.BoatMessage{{RecordID: "b2"}}, got)
}

func TestSelect_SuggestsCloseNames(t *testing.T) {
	ts, _ := startServer(t)

	_, err := execute(t, "select", "See", "Breez", "--server", ts.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no boat "See Breez", did you mean: Sea Breeze?`)
}

func TestSelect_UnknownWithoutSuggestions(t *testing.T) {
	ts, _ := startServer(t)

	_, err := execute(t, "select", "zzzzzzzzzzzz", "--server", ts.URL)
	require.Error(t, err)
	assert.Equal(t, `no boat "zzzzzzzzzzzz"`, err.Error())
}

func TestRunJQ(t *testing.T) {
	boats := []types.Boat{
		{ID: "b1", Name: "Sea Breeze", Price: 200},
		{ID: "b2", Name: "Thunder", Price: 500},
	}

	var out bytes.Buffer
	require.NoError(t, runJQ(&out, `.[] | select(.price > 300) | .name`, boats))
	assert.Equal(t, "\"Thunder\"\n", out.String())

	out.Reset()
	require.NoError(t, runJQ(&out, `map(.id)`, boats))
	assert.Equal(t, "[\"b1\",\"b2\"]\n", out.String())
}

func TestRunJQ_Errors(t *testing.T) {
	var out bytes.Buffer
	err := runJQ(&out, `.[`, []types.Boat{})
	assert.ErrorContains(t, err, "filter parse error")

	err = runJQ(&out, `.[] | error("bad")`, []types.Boat{{ID: "b1"}})
	assert.ErrorContains(t, err, "execution error")
}

func TestPrintBoats(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printBoats(&out, []types.Boat{
		{ID: "b1", Name: "Sea Breeze", BoatTypeName: "Sailboat", Price: 200, Length: 30},
	}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "Sea Breeze")
	assert.Contains(t, lines[1], "200.00")
}

func TestWatchPath(t *testing.T) {
	assert.Equal(t, "/event", watchPath(nil))
	assert.Equal(t, "/event?channels=boat.search.%2A%2Cboat.message", watchPath([]string{"boat.search.*", "boat.message"}))
}

func TestPrintEvent(t *testing.T) {
	var out bytes.Buffer
	printEvent(&out, sseclient.Event{Type: sseclient.HeartbeatEvent})
	assert.Empty(t, out.String())

	printEvent(&out, sseclient.Event{Type: "boat.message", Data: []byte(`{"recordId":"b1"}`)})
	assert.Contains(t, out.String(), "boat.message")
	assert.Contains(t, out.String(), `{"recordId":"b1"}`)
}
