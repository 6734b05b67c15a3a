package server

import (
	"encoding/base64"
	"errors"
	"testing"
)

func TestDecodeDataURL(t *testing.T) {
	payload := "100000.0\t1.5\n"
	encoded := base64.StdEncoding.EncodeToString([]byte(payload))

	// the browser FileReader convention
	raw, err := decodeDataURL("data:text/plain;base64,"+encoded, 0)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if string(raw) != payload {
		t.Errorf("decoded %q, want %q", raw, payload)
	}

	// any prefix before the comma is ignored
	raw, err = decodeDataURL("whatever,"+encoded, 0)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if string(raw) != payload {
		t.Errorf("decoded %q, want %q", raw, payload)
	}
}

func TestDecodeDataURL_Malformed(t *testing.T) {
	if _, err := decodeDataURL("no separator here", 0); err == nil {
		t.Error("expected error for missing comma")
	}
	if _, err := decodeDataURL("data:text/plain;base64,!!!", 0); err == nil {
		t.Error("expected error for invalid base64")
	}
}

func TestDecodeDataURL_SizeCap(t *testing.T) {
	// "abc" encodes without padding, so the decoded-length estimate is
	// exact and the boundary is sharp.
	encoded := base64.StdEncoding.EncodeToString([]byte("abc"))

	if _, err := decodeDataURL("data:text/plain;base64,"+encoded, 3); err != nil {
		t.Errorf("payload at the cap should pass: %v", err)
	}

	_, err := decodeDataURL("data:text/plain;base64,"+encoded, 2)
	if !errors.Is(err, errTooLarge) {
		t.Errorf("expected errTooLarge, got %v", err)
	}

	// cap disabled
	if _, err := decodeDataURL("data:text/plain;base64,"+encoded, 0); err != nil {
		t.Errorf("uncapped decode failed: %v", err)
	}
}
