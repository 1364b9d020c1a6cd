package session

import (
	"encoding/json"
	"time"
)

// Kind tags the result of resolving a persisted session value.
type Kind int

const (
	// KindAbsent means no session value exists or it could not be parsed.
	KindAbsent Kind = iota
	// KindExpired means a well-formed session has passed its expiry.
	KindExpired
	// KindValid means the session is usable; State.Token carries the
	// access token unmodified.
	KindValid
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindExpired:
		return "expired"
	case KindValid:
		return "valid"
	default:
		return "unknown"
	}
}

// Stored is the persisted session shape written by the login flow:
// an opaque access token and an epoch-millisecond expiry. The cookie
// carries this JSON percent-encoded, since quotes and commas are illegal
// in a cookie value; the HTTP layer unescapes it before Resolve sees it.
type Stored struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"`
}

// State is the tagged result of resolving a session. Token is only set
// for KindValid.
type State struct {
	Kind      Kind
	Token     string
	ExpiresAt time.Time
}

// Valid reports whether the session can authenticate upstream calls.
func (s State) Valid() bool {
	return s.Kind == KindValid
}

// Resolve parses a raw persisted session value and checks it against now.
// A missing or unparseable value is treated as absent, never as an error;
// the guard redirects in both cases without surfacing anything.
func Resolve(raw string, now time.Time) State {
	if raw == "" {
		return State{Kind: KindAbsent}
	}

	var stored Stored
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return State{Kind: KindAbsent}
	}
	if stored.Token == "" {
		return State{Kind: KindAbsent}
	}

	expiresAt := time.UnixMilli(stored.Expiry)
	if now.After(expiresAt) {
		return State{Kind: KindExpired, ExpiresAt: expiresAt}
	}

	return State{Kind: KindValid, Token: stored.Token, ExpiresAt: expiresAt}
}
