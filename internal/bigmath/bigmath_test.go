package bigmath_test

import (
	"math/big"
	"testing"

	"github.com/kwpark/cogauth/internal/bigmath"
)

func TestModPow(t *testing.T) {
	base := big.NewInt(4)
	exp := big.NewInt(13)
	mod := big.NewInt(497)

	got := bigmath.ModPow(base, exp, mod)
	want := big.NewInt(445) // 4^13 mod 497 == 445

	if got.Cmp(want) != 0 {
		t.Errorf("ModPow() = %s, want %s", got, want)
	}
}

func TestModSub_NonNegative(t *testing.T) {
	mod := big.NewInt(11)

	tests := []struct {
		a, b, want int64
	}{
		{5, 3, 2},
		{3, 5, 9}, // -2 mod 11 == 9
		{0, 0, 0},
		{10, 10, 0},
	}

	for _, tt := range tests {
		got := bigmath.ModSub(big.NewInt(tt.a), big.NewInt(tt.b), mod)
		want := big.NewInt(tt.want)
		if got.Cmp(want) != 0 {
			t.Errorf("ModSub(%d,%d,%d) = %s, want %s", tt.a, tt.b, mod, got, want)
		}
		if got.Sign() < 0 {
			t.Errorf("ModSub(%d,%d,%d) returned negative value %s", tt.a, tt.b, mod, got)
		}
	}
}

func TestRandomInRange_Bounds(t *testing.T) {
	mod, _ := new(big.Int).SetString(
		"FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD1", 16)

	for i := 0; i < 50; i++ {
		got, err := bigmath.RandomInRange(mod, 7)
		if err != nil {
			t.Fatalf("RandomInRange() error = %v", err)
		}
		if got.Sign() <= 0 {
			t.Fatalf("RandomInRange() returned non-positive value %s", got)
		}
		if got.Cmp(mod) >= 0 {
			t.Fatalf("RandomInRange() returned value >= modulus: %s", got)
		}
	}
}

func TestRandomInRange_InvalidParanoia(t *testing.T) {
	mod := big.NewInt(97)

	if _, err := bigmath.RandomInRange(mod, -1); err == nil {
		t.Error("expected error for negative paranoia")
	}
	if _, err := bigmath.RandomInRange(mod, 11); err == nil {
		t.Error("expected error for paranoia > 10")
	}
}
