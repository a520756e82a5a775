// Package srp implements the client half of SRP-6a as the remote identity
// service expects it: a fixed 3072-bit MODP group, g=2, SHA-256 throughout,
// and a 16-byte HKDF-SHA256 derived session key. It is used both for the
// primary username/password handshake and, with a different realm
// identifier, for the device-SRP sub-handshake.
package srp

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"math/big"
	"sync"

	"golang.org/x/crypto/hkdf"

	"github.com/kwpark/cogauth/internal/bigmath"
)

// bigK is H(pad(N) || pad(g)), the SRP multiplier constant. It depends only
// on the fixed group parameters so it is computed once for the package.
var bigK = computeK()

func computeK() *big.Int {
	h := sha256.Sum256(append(pad(bigN), pad(bigG)...))
	return new(big.Int).SetBytes(h[:])
}

// pad left-zero-pads the big-endian byte representation of x to the byte
// width of N, matching the wire-visible padding the server expects when
// hashing A, B, S and u together.
func pad(x *big.Int) []byte {
	return x.FillBytes(make([]byte, nWidth))
}

// DeviceVerifier is the result of generating a fresh device-SRP verifier:
// the salt and verifier to hand to confirmDevice, and the random password
// the device must remember (alongside its deviceKey) to authenticate with
// DEVICE_SRP_AUTH on every subsequent login.
type DeviceVerifier struct {
	SaltDevices     *big.Int
	VerifierDevices *big.Int
	RandomPassword  string
}

// Engine is a single-use SRP-6a client handshake, scoped to one realm
// identifier (the user pool's id suffix for a primary login, or a device
// group key for a device-SRP login).
type Engine struct {
	realmID  string
	paranoia int

	mu   sync.Mutex
	a    *big.Int
	bigA *big.Int
}

// NewEngine constructs an Engine for the given realm. paranoia controls the
// extra randomness mixed into the private exponent and must be in [0, 10].
func NewEngine(realmID string, paranoia int) (*Engine, error) {
	if paranoia < 0 || paranoia > 10 {
		return nil, fmt.Errorf("srp: paranoia out of range [0,10]: %d", paranoia)
	}
	return &Engine{realmID: realmID, paranoia: paranoia}, nil
}

// LargeAValue returns the client's public SRP value A = g^a mod N,
// generating and memoising the private exponent a on first call.
func (e *Engine) LargeAValue() (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.bigA != nil {
		return e.bigA, nil
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		a, err := bigmath.RandomInRange(bigN, e.paranoia)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRngFailure, err)
		}

		A := bigmath.ModPow(bigG, a, bigN)
		if new(big.Int).Mod(A, bigN).Sign() != 0 {
			e.a, e.bigA = a, A
			return A, nil
		}
		lastErr = ErrZeroScalar
	}

	return nil, lastErr
}

// PasswordAuthenticationKey derives the 16-byte HKDF session key from the
// server's challenge values. identifier is the canonical SRP username
// (USER_ID_FOR_SRP for a primary login, the device key for a device-SRP
// login); password is the user's password or, for device-SRP, the random
// device password generated at confirm-device time.
func (e *Engine) PasswordAuthenticationKey(identifier, password string, serverB, salt *big.Int) ([]byte, error) {
	bigA, err := e.LargeAValue()
	if err != nil {
		return nil, err
	}

	uHash := sha256.Sum256(append(pad(bigA), pad(serverB)...))
	u := new(big.Int).SetBytes(uHash[:])
	if u.Sign() == 0 {
		return nil, ErrZeroScalar
	}

	innerHash := sha256.Sum256([]byte(e.realmID + ":" + identifier + ":" + password))
	xHash := sha256.Sum256(append(salt.Bytes(), innerHash[:]...))
	x := new(big.Int).SetBytes(xHash[:])

	gModPowX := bigmath.ModPow(bigG, x, bigN)
	kgx := new(big.Int).Mul(bigK, gModPowX)
	kgx.Mod(kgx, bigN)

	base := bigmath.ModSub(serverB, kgx, bigN)

	exp := new(big.Int).Mul(u, x)
	exp.Add(exp, e.a)

	s := bigmath.ModPow(base, exp, bigN)

	key := make([]byte, hkdfKeyLen)
	kdf := hkdf.New(sha256.New, pad(s), pad(u), []byte(infoBits))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("%w: hkdf: %v", ErrArithFailure, err)
	}

	return key, nil
}

// GenerateHashDevice creates a fresh device-SRP verifier for a newly
// registered device: a random 40-byte password, a random 16-byte salt, and
// the verifier g^x mod N derived from them the same way the primary
// handshake derives x from a user's password.
func GenerateHashDevice(deviceGroupKey, deviceKey string) (DeviceVerifier, error) {
	randomPasswordBytes := make([]byte, devicePasswordLen)
	if _, err := rand.Read(randomPasswordBytes); err != nil {
		return DeviceVerifier{}, fmt.Errorf("%w: %v", ErrRngFailure, err)
	}
	randomPassword := base64.StdEncoding.EncodeToString(randomPasswordBytes)

	saltBytes := make([]byte, deviceSaltLen)
	if _, err := rand.Read(saltBytes); err != nil {
		return DeviceVerifier{}, fmt.Errorf("%w: %v", ErrRngFailure, err)
	}
	saltDevices := new(big.Int).SetBytes(saltBytes)

	innerHash := sha256.Sum256([]byte(deviceGroupKey + deviceKey + ":" + randomPassword))
	xHash := sha256.Sum256(append(saltBytes, innerHash[:]...))
	xDev := new(big.Int).SetBytes(xHash[:])

	verifierDevices := bigmath.ModPow(bigG, xDev, bigN)

	return DeviceVerifier{
		SaltDevices:     saltDevices,
		VerifierDevices: verifierDevices,
		RandomPassword:  randomPassword,
	}, nil
}
