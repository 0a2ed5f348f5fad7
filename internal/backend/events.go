package backend

// Event is one unsolicited notification from the backend: a game console
// line, a status label, or a crash diagnostic. Payloads are opaque text.
type Event struct {
	Method  string
	Payload string
}
