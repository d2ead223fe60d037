package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"bomberman/server/game"
	"bomberman/server/messages"
	"bomberman/server/models"
	"bomberman/server/network"
	"bomberman/server/persistence"
	"bomberman/server/services"
)

type testServer struct {
	arena   *services.ArenaService
	clients *ClientManager
	url     string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store, err := persistence.NewJSONStore(filepath.Join(t.TempDir(), "db.json"))
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	level, err := game.NewLevel(models.DefaultMapLayout())
	if err != nil {
		t.Fatalf("NewLevel: %v", err)
	}
	arena := services.NewArenaService(level, nil, 60, 64)
	players := services.NewPlayerService(store)
	clients := NewClientManager()
	arena.OnTick(clients.BroadcastTick)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		codec, err := network.CodecByName(r.URL.Query().Get("codec"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		HandleClientConnection(conn, codec, players, arena, clients)
	}))
	t.Cleanup(srv.Close)
	return &testServer{arena: arena, clients: clients, url: "ws" + strings.TrimPrefix(srv.URL, "http")}
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

type envelope struct {
	Type    messages.MessageType `json:"type"`
	Payload json.RawMessage      `json:"payload"`
}

func sendJSON(t *testing.T, conn *websocket.Conn, typ messages.MessageType, payload interface{}) {
	t.Helper()
	if err := conn.WriteJSON(messages.BaseMessage{Type: typ, Payload: payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func readJSON(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	return env
}

func expectError(t *testing.T, env envelope, code string) {
	t.Helper()
	if env.Type != messages.MessageTypeError {
		t.Fatalf("expected error %s, got %s: %s", code, env.Type, env.Payload)
	}
	var em messages.ErrorMessage
	if err := json.Unmarshal(env.Payload, &em); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if em.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, em.Code, em.Message)
	}
}

func TestLoginJoinCommandRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts.url)

	sendJSON(t, conn, messages.MessageTypeLogin, messages.LoginMessage{Nickname: "alice"})
	env := readJSON(t, conn)
	if env.Type != messages.MessageTypeLoginSuccess {
		t.Fatalf("expected login_success, got %s: %s", env.Type, env.Payload)
	}
	var login messages.LoginSuccessMessage
	json.Unmarshal(env.Payload, &login)
	if login.PlayerID == "" {
		t.Fatalf("expected a player id")
	}
	if n := ts.clients.Count(); n != 1 {
		t.Fatalf("expected 1 registered client, got %d", n)
	}

	sendJSON(t, conn, messages.MessageTypeJoin, nil)
	env = readJSON(t, conn)
	if env.Type != messages.MessageTypeJoined {
		t.Fatalf("expected joined, got %s: %s", env.Type, env.Payload)
	}
	var joined messages.JoinedMessage
	if err := json.Unmarshal(env.Payload, &joined); err != nil {
		t.Fatalf("decode joined: %v", err)
	}
	if joined.Col != 0 || joined.Row != 0 || joined.X != 50 || joined.Y != 50 || joined.Scale != 1 {
		t.Fatalf("unexpected spawn %+v", joined)
	}

	sendJSON(t, conn, messages.MessageTypeCommand, messages.KeyCommand(game.KeyDown, game.KeyCodeRight))
	// Messages are handled in order, so the error reply means the command
	// was queued.
	sendJSON(t, conn, "ping", nil)
	expectError(t, readJSON(t, conn), messages.CodeUnknownMessageType)

	ts.arena.Step(time.Second / 60)

	env = readJSON(t, conn)
	if env.Type != messages.MessageTypeUpdate {
		t.Fatalf("expected update, got %s: %s", env.Type, env.Payload)
	}
	var update messages.Command
	if err := json.Unmarshal(env.Payload, &update); err != nil {
		t.Fatalf("decode update: %v", err)
	}
	if update.Name != messages.CommandUpdate || len(update.Args) != 2 || update.Args[0] != login.PlayerID {
		t.Fatalf("unexpected update %+v", update)
	}

	env = readJSON(t, conn)
	if env.Type != messages.MessageTypeState {
		t.Fatalf("expected state, got %s", env.Type)
	}
	var state messages.StateMessage
	if err := json.Unmarshal(env.Payload, &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if len(state.State.Characters) != 1 {
		t.Fatalf("expected one character, got %+v", state.State.Characters)
	}
	if x := state.State.Characters[0].X; x <= 50 {
		t.Fatalf("expected character to move right, x = %v", x)
	}
}

func TestCommandsRequireLogin(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts.url)

	sendJSON(t, conn, messages.MessageTypeCommand, messages.KeyCommand(game.KeyDown, game.KeyCodeUp))
	expectError(t, readJSON(t, conn), messages.CodeNotLoggedIn)

	sendJSON(t, conn, messages.MessageTypeJoin, nil)
	expectError(t, readJSON(t, conn), messages.CodeNotLoggedIn)

	sendJSON(t, conn, messages.MessageTypeLogin, messages.LoginMessage{Nickname: "  "})
	expectError(t, readJSON(t, conn), messages.CodeLoginFailed)
}

func TestNicknameUniqueAmongConnected(t *testing.T) {
	ts := newTestServer(t)
	first := dial(t, ts.url)
	second := dial(t, ts.url)

	sendJSON(t, first, messages.MessageTypeLogin, messages.LoginMessage{Nickname: "bob"})
	if env := readJSON(t, first); env.Type != messages.MessageTypeLoginSuccess {
		t.Fatalf("expected login_success, got %s", env.Type)
	}
	sendJSON(t, second, messages.MessageTypeLogin, messages.LoginMessage{Nickname: "bob"})
	expectError(t, readJSON(t, second), messages.CodeLoginFailed)
}

func TestRejectsCommandBeforeJoin(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts.url)

	sendJSON(t, conn, messages.MessageTypeLogin, messages.LoginMessage{Nickname: "carol"})
	readJSON(t, conn)
	sendJSON(t, conn, messages.MessageTypeCommand, messages.KeyCommand(game.KeyDown, game.KeyCodeUp))
	expectError(t, readJSON(t, conn), messages.CodeCommandRejected)

	sendJSON(t, conn, messages.MessageTypeCommand, messages.Command{Name: "dance", Args: []interface{}{"down", 1}})
	expectError(t, readJSON(t, conn), messages.CodeCommandRejected)
}

func TestMsgpackCodecLogin(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts.url+"?codec=msgpack")
	codec := network.MsgpackCodec{}

	data, err := codec.Marshal(messages.BaseMessage{
		Type:    messages.MessageTypeLogin,
		Payload: messages.LoginMessage{Nickname: "dave"},
	})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		t.Fatalf("write: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	frame, reply, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if frame != websocket.BinaryMessage {
		t.Fatalf("expected binary frame, got %d", frame)
	}
	var base messages.BaseMessage
	if err := codec.Unmarshal(reply, &base); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if base.Type != messages.MessageTypeLoginSuccess {
		t.Fatalf("expected login_success, got %s", base.Type)
	}
	var login messages.LoginSuccessMessage
	if err := network.Convert(codec, base.Payload, &login); err != nil || login.PlayerID == "" {
		t.Fatalf("Convert = %+v, %v", login, err)
	}
}
