package cogauth

import "testing"

func TestComputeSecretHash_DeterministicAndDistinct(t *testing.T) {
	h1 := computeSecretHash("user", "client", "secret")
	h2 := computeSecretHash("user", "client", "secret")
	if h1 != h2 {
		t.Error("same inputs should produce same hash")
	}

	h3 := computeSecretHash("user2", "client", "secret")
	if h1 == h3 {
		t.Error("different inputs should produce different hashes")
	}

	h4 := computeSecretHash("user", "client", "othersecret")
	if h1 == h4 {
		t.Error("different secrets should produce different hashes")
	}
}

func TestComputeSecretHash_EmptyUsername(t *testing.T) {
	if computeSecretHash("", "client", "secret") == "" {
		t.Error("expected non-empty hash even for empty username")
	}
}
