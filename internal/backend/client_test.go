package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{}

// newTestBackend starts a websocket server running handler on each
// connection and returns a ws:// URL for it.
func newTestBackend(t *testing.T, handler func(conn *websocket.Conn)) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func readRequest(t *testing.T, conn *websocket.Conn) requestObject {
	t.Helper()
	var req requestObject
	if err := conn.ReadJSON(&req); err != nil {
		t.Errorf("read request: %v", err)
	}
	return req
}

func writeResult(t *testing.T, conn *websocket.Conn, req requestObject, result any) {
	t.Helper()
	raw, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	resp := responseObject{JSONRPC: jsonRPCVersion, ID: *req.ID, Result: raw}
	if err := conn.WriteJSON(resp); err != nil {
		t.Errorf("write response: %v", err)
	}
}

func TestClient_CallRoundtrip(t *testing.T) {
	url := newTestBackend(t, func(conn *websocket.Conn) {
		req := readRequest(t, conn)
		if req.Method != MethodCheckIsInstalled {
			t.Errorf("method = %q, want %q", req.Method, MethodCheckIsInstalled)
		}
		var params struct {
			Version string `json:"version"`
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			t.Errorf("decode params: %v", err)
		}
		if params.Version != "1.20.1" {
			t.Errorf("params.version = %q, want 1.20.1", params.Version)
		}
		writeResult(t, conn, req, true)
	})

	c, err := Connect(context.Background(), url)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer c.Close()

	installed, err := c.CheckIsInstalled(context.Background(), "1.20.1")
	if err != nil {
		t.Fatalf("CheckIsInstalled: %v", err)
	}
	if !installed {
		t.Error("CheckIsInstalled = false, want true")
	}
}

func TestClient_CommandError(t *testing.T) {
	url := newTestBackend(t, func(conn *websocket.Conn) {
		req := readRequest(t, conn)
		resp := struct {
			JSONRPC string       `json:"jsonrpc"`
			ID      any          `json:"id"`
			Error   *errorObject `json:"error"`
		}{jsonRPCVersion, req.ID, &errorObject{Code: 500, Message: "disk full"}}
		if err := conn.WriteJSON(resp); err != nil {
			t.Errorf("write response: %v", err)
		}
	})

	c, err := Connect(context.Background(), url)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer c.Close()

	err = c.InstallGame(context.Background(), "p1", "1.20.1")
	if err == nil {
		t.Fatal("InstallGame succeeded, want error")
	}
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("error type = %T, want *CommandError", err)
	}
	if cmdErr.Message != "disk full" || cmdErr.Method != MethodInstallGame {
		t.Errorf("CommandError = %+v", cmdErr)
	}
}

func TestClient_OutOfOrderResponses(t *testing.T) {
	url := newTestBackend(t, func(conn *websocket.Conn) {
		first := readRequest(t, conn)
		second := readRequest(t, conn)
		// Answer in reverse order; correlation is by ID, not arrival.
		writeResult(t, conn, second, false)
		writeResult(t, conn, first, true)
	})

	c, err := Connect(context.Background(), url)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer c.Close()

	var wg sync.WaitGroup
	results := make([]bool, 2)
	errs := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = c.CheckBlacklist(context.Background(), "Steve")
	}()
	// Give the first call a moment to hit the wire first.
	time.Sleep(50 * time.Millisecond)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], errs[1] = c.CheckPremiumName(context.Background(), "Steve")
	}()
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if !results[0] || results[1] {
		t.Errorf("results = %v, want [true false]", results)
	}
}

func TestClient_EventsPreserveOrder(t *testing.T) {
	lines := []string{"[INFO] starting", "[ERR] oh no", "[INFO] recovered"}
	url := newTestBackend(t, func(conn *websocket.Conn) {
		for _, line := range lines {
			raw, _ := json.Marshal(line)
			note := requestObject{JSONRPC: jsonRPCVersion, Method: EventGameConsole, Params: raw}
			if err := conn.WriteJSON(note); err != nil {
				t.Errorf("write notification: %v", err)
			}
		}
		// Keep the connection open until the client hangs up.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	c, err := Connect(context.Background(), url)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer c.Close()

	for i, want := range lines {
		select {
		case ev := <-c.Events():
			if ev.Method != EventGameConsole {
				t.Errorf("event %d method = %q", i, ev.Method)
			}
			if ev.Payload != want {
				t.Errorf("event %d payload = %q, want %q", i, ev.Payload, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}
}

func TestClient_CloseFailsPendingCalls(t *testing.T) {
	url := newTestBackend(t, func(conn *websocket.Conn) {
		// Swallow the request and never answer.
		readRequest(t, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	c, err := Connect(context.Background(), url)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- c.DeleteCache(context.Background())
	}()

	time.Sleep(50 * time.Millisecond)
	c.Close()

	select {
	case err := <-done:
		if err == nil {
			t.Error("pending call succeeded after Close")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pending call did not fail after Close")
	}
}
