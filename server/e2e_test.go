// File: server/e2e_test.go
package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bubblepop/bubblepop/bollywood"
	"github.com/bubblepop/bubblepop/game"
	"github.com/bubblepop/bubblepop/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

type e2eSetup struct {
	Engine     *bollywood.Engine
	ManagerPID *bollywood.PID
	Server     *httptest.Server
	WsURL      string
	Origin     string
	Cfg        utils.Config
}

func e2eTestConfig() utils.Config {
	cfg := utils.DefaultConfig()
	cfg.InitialDescentInterval = 24 * time.Hour
	cfg.MinDescentInterval = 24 * time.Hour
	return cfg
}

func setupE2E(t *testing.T, cfg utils.Config) e2eSetup {
	t.Helper()

	engine := bollywood.NewEngine()
	managerPID := engine.Spawn(bollywood.NewProps(game.NewSessionManagerProducer(engine, cfg)))
	require.NotNil(t, managerPID, "manager PID should not be nil")
	time.Sleep(100 * time.Millisecond)

	wsServer := New(engine, managerPID, cfg)
	mux := http.NewServeMux()
	mux.Handle("/controller", websocket.Handler(wsServer.HandleController()))
	mux.Handle("/watch", websocket.Handler(wsServer.HandleWatch()))
	mux.HandleFunc("/highscores", wsServer.HandleHighScores())
	mux.HandleFunc("/status", wsServer.HandleStatus())
	s := httptest.NewServer(mux)

	return e2eSetup{
		Engine:     engine,
		ManagerPID: managerPID,
		Server:     s,
		WsURL:      "ws" + strings.TrimPrefix(s.URL, "http"),
		Origin:     "http://localhost/",
		Cfg:        cfg,
	}
}

func teardownE2E(t *testing.T, setup e2eSetup) {
	t.Helper()
	if setup.Server != nil {
		setup.Server.Close()
	}
	if setup.Engine != nil {
		setup.Engine.Shutdown(2 * time.Second)
	}
}

// readUntilMessageType drains a websocket until a message with the wanted
// messageType arrives, returning its raw JSON.
func readUntilMessageType(t *testing.T, ws *websocket.Conn, wanted string, timeout time.Duration) (map[string]json.RawMessage, bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		_ = ws.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
		var raw map[string]json.RawMessage
		if err := websocket.JSON.Receive(ws, &raw); err != nil {
			continue
		}
		var messageType string
		if typeField, ok := raw["messageType"]; ok {
			_ = json.Unmarshal(typeField, &messageType)
		}
		if messageType == wanted {
			return raw, true
		}
	}
	return nil, false
}

func TestE2E_ControllerGetsSessionAndWatcherGetsSnapshot(t *testing.T) {
	setup := setupE2E(t, e2eTestConfig())
	defer teardownE2E(t, setup)

	controller, err := websocket.Dial(setup.WsURL+"/controller", "", setup.Origin)
	require.NoError(t, err, "controller should connect")
	defer controller.Close()

	// The controller gets the priming snapshot as soon as it is bound.
	_, found := readUntilMessageType(t, controller, "gridSnapshot", 5*time.Second)
	assert.True(t, found, "controller should receive the initial grid snapshot")

	watcher, err := websocket.Dial(setup.WsURL+"/watch", "", setup.Origin)
	require.NoError(t, err, "watcher should connect")
	defer watcher.Close()

	_, found = readUntilMessageType(t, watcher, "gridSnapshot", 5*time.Second)
	assert.True(t, found, "watcher should be primed with the grid snapshot")
}

func TestE2E_AimProducesPreviewForWatcher(t *testing.T) {
	setup := setupE2E(t, e2eTestConfig())
	defer teardownE2E(t, setup)

	controller, err := websocket.Dial(setup.WsURL+"/controller", "", setup.Origin)
	require.NoError(t, err)
	defer controller.Close()

	watcher, err := websocket.Dial(setup.WsURL+"/watch", "", setup.Origin)
	require.NoError(t, err)
	defer watcher.Close()

	_, found := readUntilMessageType(t, watcher, "gridSnapshot", 5*time.Second)
	require.True(t, found, "watcher must attach before aiming")

	err = websocket.JSON.Send(controller, game.ControllerInput{MessageType: "aim", Angle: 75})
	require.NoError(t, err)

	raw, found := readUntilMessageType(t, watcher, "previewUpdate", 5*time.Second)
	require.True(t, found, "watcher should see the aim preview")

	var angle float64
	require.NoError(t, json.Unmarshal(raw["angle"], &angle))
	assert.InDelta(t, 75.0, angle, 1e-9)
}

func TestE2E_ShootReachesTheGrid(t *testing.T) {
	setup := setupE2E(t, e2eTestConfig())
	defer teardownE2E(t, setup)

	controller, err := websocket.Dial(setup.WsURL+"/controller", "", setup.Origin)
	require.NoError(t, err)
	defer controller.Close()

	watcher, err := websocket.Dial(setup.WsURL+"/watch", "", setup.Origin)
	require.NoError(t, err)
	defer watcher.Close()

	_, found := readUntilMessageType(t, watcher, "gridSnapshot", 5*time.Second)
	require.True(t, found)

	err = websocket.JSON.Send(controller, game.ControllerInput{MessageType: "shoot", Angle: 90})
	require.NoError(t, err)

	_, found = readUntilMessageType(t, watcher, "shotFired", 5*time.Second)
	assert.True(t, found, "watcher should see the launch event")

	_, found = readUntilMessageType(t, watcher, "bubbleSettled", 10*time.Second)
	assert.True(t, found, "watcher should see the shot settle")
}

func TestE2E_ControllerDisconnectPausesSession(t *testing.T) {
	setup := setupE2E(t, e2eTestConfig())
	defer teardownE2E(t, setup)

	controller, err := websocket.Dial(setup.WsURL+"/controller", "", setup.Origin)
	require.NoError(t, err)

	watcher, err := websocket.Dial(setup.WsURL+"/watch", "", setup.Origin)
	require.NoError(t, err)
	defer watcher.Close()

	_, found := readUntilMessageType(t, watcher, "gridSnapshot", 5*time.Second)
	require.True(t, found)

	require.NoError(t, controller.Close())

	_, found = readUntilMessageType(t, watcher, "sessionPaused", 5*time.Second)
	assert.True(t, found, "losing the controller should pause the session")
}

func TestE2E_StatusEndpointListsSessions(t *testing.T) {
	setup := setupE2E(t, e2eTestConfig())
	defer teardownE2E(t, setup)

	resp, err := http.Get(setup.Server.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list game.SessionListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Empty(t, list.Sessions, "no controllers connected yet")

	controller, err := websocket.Dial(setup.WsURL+"/controller", "", setup.Origin)
	require.NoError(t, err)
	defer controller.Close()

	assert.Eventually(t, func() bool {
		resp, err := http.Get(setup.Server.URL + "/status")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var list game.SessionListResponse
		if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
			return false
		}
		return len(list.Sessions) == 1
	}, 5*time.Second, 100*time.Millisecond, "connected controller should show up in the status list")
}

func TestE2E_HighScoresEndpointStartsEmpty(t *testing.T) {
	setup := setupE2E(t, e2eTestConfig())
	defer teardownE2E(t, setup)

	resp, err := http.Get(setup.Server.URL + "/highscores")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list game.HighScoreList
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Equal(t, "highScores", list.MessageType)
	assert.Empty(t, list.Entries)
}
