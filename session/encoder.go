package session

import (
	"encoding/json"
	"errors"
)

// recordVersionCurrent is bumped whenever the persisted layout changes in a
// way old readers cannot survive. Decoders reject versions they don't know.
const recordVersionCurrent = 1

// ErrRecordCorrupt is returned by Decode when the persisted blob cannot be
// trusted: unparseable JSON, an unknown schema version, or a record that
// violates the all-or-nothing invariant.
var ErrRecordCorrupt = errors.New("session record corrupt")

type record struct {
	Version      int    `json:"v"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"current_user,omitempty"`
}

// Encode serializes s into the versioned persistence record.
func Encode(s Session) ([]byte, error) {
	return json.Marshal(record{
		Version:      recordVersionCurrent,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		User:         s.User,
	})
}

// Decode parses a persisted record. A record carrying an access token
// without a user (or the reverse) is treated as corrupt rather than
// partially honored — callers should discard it and start empty.
func Decode(data []byte) (Session, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return Session{}, ErrRecordCorrupt
	}
	if r.Version != recordVersionCurrent {
		return Session{}, ErrRecordCorrupt
	}
	if (r.AccessToken != "") != (r.User != nil) {
		return Session{}, ErrRecordCorrupt
	}
	if r.AccessToken == "" && r.RefreshToken != "" {
		return Session{}, ErrRecordCorrupt
	}
	return Session{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		User:         r.User,
	}, nil
}
