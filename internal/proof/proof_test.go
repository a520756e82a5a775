package proof

import (
	"encoding/base64"
	"testing"
	"time"
)

func TestTimestamp_NonZeroPaddedDay(t *testing.T) {
	ts := time.Date(2024, time.April, 9, 7, 4, 32, 0, time.UTC)

	got := Timestamp(ts)
	want := "Tue Apr 9 07:04:32 UTC 2024"

	if got != want {
		t.Errorf("Timestamp() = %q, want %q", got, want)
	}
}

func TestTimestamp_TwoDigitDayUnaffected(t *testing.T) {
	ts := time.Date(2024, time.April, 23, 7, 4, 32, 0, time.UTC)

	got := Timestamp(ts)
	want := "Tue Apr 23 07:04:32 UTC 2024"

	if got != want {
		t.Errorf("Timestamp() = %q, want %q", got, want)
	}
}

func TestTimestamp_ConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("PDT", -7*60*60)
	ts := time.Date(2024, time.April, 9, 0, 4, 32, 0, loc) // == 07:04:32 UTC

	got := Timestamp(ts)
	want := "Tue Apr 9 07:04:32 UTC 2024"

	if got != want {
		t.Errorf("Timestamp() = %q, want %q", got, want)
	}
}

// TestBuild_KnownVector fixes a known HKDF key, realm, identifier, secret
// block and timestamp and checks the resulting signature against a value
// pinned out-of-band (computed once with Python's hmac/hashlib over the
// documented byte layout, independent of this package), per the
// boundary-behaviour requirement that a PASSWORD_VERIFIER proof computed
// from known inputs must reproduce a known signature byte-for-byte.
func TestBuild_KnownVector(t *testing.T) {
	hkdfKey := []byte("0123456789abcdef") // 16 bytes, fixed for the fixture
	realmID := "abcdef123"
	identifier := "alice"
	secretBlock := []byte("opaque-secret-block-bytes")
	ts := time.Date(2024, time.April, 9, 7, 4, 32, 0, time.UTC)

	const wantSig = "M7umFon05wV15Wluvqz0z+RjotUZ25r8MSlM3kyBvAA="

	sig, timestamp := Build(hkdfKey, realmID, identifier, secretBlock, ts)

	if timestamp != "Tue Apr 9 07:04:32 UTC 2024" {
		t.Fatalf("unexpected timestamp: %q", timestamp)
	}
	if sig != wantSig {
		t.Errorf("Build() signature = %q, want %q", sig, wantSig)
	}

	if _, err := base64.StdEncoding.DecodeString(sig); err != nil {
		t.Errorf("signature is not valid base64: %v", err)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	hkdfKey := []byte("0123456789abcdef")
	ts := time.Date(2024, time.April, 9, 7, 4, 32, 0, time.UTC)

	sig1, _ := Build(hkdfKey, "realm", "bob", []byte("block"), ts)
	sig2, _ := Build(hkdfKey, "realm", "bob", []byte("block"), ts)

	if sig1 != sig2 {
		t.Error("Build() is not deterministic for identical inputs")
	}
}

func TestBuild_DiffersOnIdentifier(t *testing.T) {
	hkdfKey := []byte("0123456789abcdef")
	ts := time.Date(2024, time.April, 9, 7, 4, 32, 0, time.UTC)

	sig1, _ := Build(hkdfKey, "realm", "alice", []byte("block"), ts)
	sig2, _ := Build(hkdfKey, "realm", "bob", []byte("block"), ts)

	if sig1 == sig2 {
		t.Error("expected different signatures for different identifiers")
	}
}
