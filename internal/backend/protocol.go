// Package backend is the typed facade over the launcher backend service.
// All installation, game execution and credential exchange happens on the
// other side of a single websocket carrying JSON-RPC 2.0: requests with IDs
// get matched responses, requests without IDs are unsolicited events.
package backend

import (
	"encoding/json"

	"github.com/google/uuid"
)

const jsonRPCVersion = "2.0"

type requestObject struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *uuid.UUID      `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type errorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type responseObject struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uuid.UUID       `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *errorObject    `json:"error,omitempty"`
}

// wireMessage is what the read loop decodes first to tell responses from
// event notifications: both arrive interleaved on the same socket.
type wireMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *uuid.UUID      `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *errorObject    `json:"error,omitempty"`
}

// Command method names understood by the backend.
const (
	MethodGetProfiles          = "get_profiles"
	MethodCheckIsInstalled     = "check_is_installed"
	MethodInstallGame          = "install_game"
	MethodLaunchGame           = "launch_game"
	MethodCheckBlacklist       = "check_blacklist"
	MethodCheckPremiumName     = "check_premium_name"
	MethodStartMicrosoftLogin  = "start_microsoft_login"
	MethodFinishMicrosoftLogin = "finish_microsoft_login"
	MethodOpenURL              = "open_url"
	MethodDeleteCache          = "delete_cache"
)

// Event notification method names pushed by the backend.
const (
	EventGameConsole = "game-console"
	EventGameCrashed = "game-crashed"
	EventGameStatus  = "game-status"
)
