package session

import (
	"errors"
	"testing"
)

func TestDecodeRejectsPartialRecords(t *testing.T) {
	cases := map[string]string{
		"token without user":   `{"v":1,"access_token":"a","refresh_token":"r"}`,
		"user without token":   `{"v":1,"current_user":{"id":1,"username":"u","role":"user"}}`,
		"refresh without pair": `{"v":1,"refresh_token":"r"}`,
		"unknown version":      `{"v":2,"access_token":"a"}`,
		"not json":             `garbage`,
	}

	for name, blob := range cases {
		if _, err := Decode([]byte(blob)); !errors.Is(err, ErrRecordCorrupt) {
			t.Fatalf("%s: expected ErrRecordCorrupt, got %v", name, err)
		}
	}
}

func TestEncodeDecodeEmptySession(t *testing.T) {
	data, err := Encode(Session{})
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if got != (Session{}) {
		t.Fatalf("empty session changed across codec: %+v", got)
	}
}
