package session

// TokenSource issues monotonically increasing tokens. Tokens tag in-flight
// operations (slot holds, auth attempts) so that a result arriving after
// the operation was abandoned can be detected and dropped. The zero value
// is ready to use; the first token is 1, so 0 never matches anything.
type TokenSource struct {
	n uint64
}

// Next returns a token that has never been issued before.
func (t *TokenSource) Next() uint64 {
	t.n++
	return t.n
}

// Slot is the exclusive install/launch slot. At most one operation holds it
// at a time, system-wide, regardless of profile. It replaces a bare
// nullable active-profile field with an explicit try-acquire/release
// contract.
type Slot struct {
	profileID string
	token     uint64
}

func (s *Slot) acquire(profileID string, token uint64) {
	s.profileID = profileID
	s.token = token
}

// Release frees the slot. Releasing a free slot is a no-op.
func (s *Slot) Release() {
	s.profileID = ""
	s.token = 0
}

// Held reports whether an operation currently owns the slot.
func (s *Slot) Held() bool { return s.token != 0 }

// ProfileID returns the profile of the holding operation, or empty.
func (s *Slot) ProfileID() string { return s.profileID }

// Matches reports whether token belongs to the holding operation.
func (s *Slot) Matches(token uint64) bool { return s.token != 0 && s.token == token }
