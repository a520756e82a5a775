package cogauth

import (
	"errors"
	"testing"
)

func TestNewPool_DerivesRealmFromSuffix(t *testing.T) {
	p, err := NewPool(PoolConfig{
		UserPoolID: "us-west-2_abcdef123",
		ClientID:   "client1",
		Facade:     &fakeFacade{},
	})
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}
	if p.realmID != "abcdef123" {
		t.Errorf("realmID = %q, want %q", p.realmID, "abcdef123")
	}
}

func TestNewPool_DefaultsParanoia(t *testing.T) {
	p, err := NewPool(PoolConfig{
		UserPoolID: "us-west-2_abcdef123",
		ClientID:   "client1",
		Facade:     &fakeFacade{},
	})
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}
	if p.paranoia != defaultParanoia {
		t.Errorf("paranoia = %d, want %d", p.paranoia, defaultParanoia)
	}
}

func TestNewPool_RejectsOutOfRangeParanoia(t *testing.T) {
	for _, paranoia := range []int{-1, 11} {
		paranoia := paranoia
		_, err := NewPool(PoolConfig{
			UserPoolID: "us-west-2_abcdef123",
			ClientID:   "client1",
			Facade:     &fakeFacade{},
			Paranoia:   &paranoia,
		})
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("paranoia=%d: NewPool() error = %v, want ErrInvalidArgument", paranoia, err)
		}
	}
}

// TestNewPool_ExplicitZeroParanoiaIsHonored verifies that Paranoia(0) is a
// legitimate, distinct configuration — not a sentinel silently promoted to
// the default of 7 — by distinguishing a nil Paranoia from a pointer to 0.
func TestNewPool_ExplicitZeroParanoiaIsHonored(t *testing.T) {
	zero := 0
	p, err := NewPool(PoolConfig{
		UserPoolID: "us-west-2_abcdef123",
		ClientID:   "client1",
		Facade:     &fakeFacade{},
		Paranoia:   &zero,
	})
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}
	if p.paranoia != 0 {
		t.Errorf("paranoia = %d, want 0", p.paranoia)
	}
}

func TestNewPool_RequiresFacade(t *testing.T) {
	_, err := NewPool(PoolConfig{UserPoolID: "us-west-2_abcdef123", ClientID: "client1"})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("NewPool() error = %v, want ErrInvalidArgument", err)
	}
}

func TestNewPool_SecretHashOnlyWhenConfigured(t *testing.T) {
	noSecret, _ := NewPool(PoolConfig{UserPoolID: "us-west-2_a", ClientID: "c", Facade: &fakeFacade{}})
	if noSecret.secretHash("alice") != "" {
		t.Error("expected empty secret hash when no client secret configured")
	}

	withSecret, _ := NewPool(PoolConfig{UserPoolID: "us-west-2_a", ClientID: "c", ClientSecret: "s", Facade: &fakeFacade{}})
	if withSecret.secretHash("alice") == "" {
		t.Error("expected non-empty secret hash when client secret configured")
	}
}

func TestPool_NewUser_RequiresUsername(t *testing.T) {
	p, _ := NewPool(PoolConfig{UserPoolID: "us-west-2_a", ClientID: "c", Facade: &fakeFacade{}})
	if _, err := p.NewUser(""); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("NewUser(\"\") error = %v, want ErrInvalidArgument", err)
	}
}

