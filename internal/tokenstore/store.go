// Package tokenstore persists cached tokens and device secrets under a
// deterministic, string-keyed schema. The actual backing medium is
// injected: MemoryStore for tests, FileStore for a standalone process,
// PostgresStore for deployments that share a cache across processes.
package tokenstore

import (
	"context"
	"fmt"
)

// Store is a trusted, string-keyed key/value persistence layer. No
// encryption happens at this layer; callers that need encryption at rest
// must wrap a Store or encrypt values before Put.
type Store interface {
	Put(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, bool, error)
	Remove(ctx context.Context, key string) error
}

const keyPrefix = "CognitoIdentityServiceProvider"

// Keys holds the deterministic key schema for a given (clientID, username)
// pair.
type Keys struct {
	ClientID string
	Username string
}

func (k Keys) idToken() string      { return fmt.Sprintf("%s.%s.%s.idToken", keyPrefix, k.ClientID, k.Username) }
func (k Keys) accessToken() string  { return fmt.Sprintf("%s.%s.%s.accessToken", keyPrefix, k.ClientID, k.Username) }
func (k Keys) refreshToken() string { return fmt.Sprintf("%s.%s.%s.refreshToken", keyPrefix, k.ClientID, k.Username) }
func (k Keys) deviceKey() string    { return fmt.Sprintf("%s.%s.%s.deviceKey", keyPrefix, k.ClientID, k.Username) }
func (k Keys) deviceGroupKey() string {
	return fmt.Sprintf("%s.%s.%s.deviceGroupKey", keyPrefix, k.ClientID, k.Username)
}
func (k Keys) randomPasswordKey() string {
	return fmt.Sprintf("%s.%s.%s.randomPasswordKey", keyPrefix, k.ClientID, k.Username)
}

// LastAuthUserKey returns the key under which the most recently
// authenticated username for a client is recorded.
func LastAuthUserKey(clientID string) string {
	return fmt.Sprintf("%s.%s.LastAuthUser", keyPrefix, clientID)
}

// CachedTokens is the (id, access, refresh) tuple as read back from a
// Store.
type CachedTokens struct {
	IDToken      string
	AccessToken  string
	RefreshToken string
}

// PutTokens writes the three session tokens and records the username as
// the client's LastAuthUser.
func PutTokens(ctx context.Context, s Store, keys Keys, tokens CachedTokens) error {
	writes := []struct {
		key, value string
	}{
		{keys.idToken(), tokens.IDToken},
		{keys.accessToken(), tokens.AccessToken},
		{keys.refreshToken(), tokens.RefreshToken},
		{LastAuthUserKey(keys.ClientID), keys.Username},
	}
	for _, w := range writes {
		if err := s.Put(ctx, w.key, w.value); err != nil {
			return fmt.Errorf("tokenstore: put %s: %w", w.key, err)
		}
	}
	return nil
}

// GetTokens reads back the three session tokens. ok is false if none of
// the three keys were present.
func GetTokens(ctx context.Context, s Store, keys Keys) (tokens CachedTokens, ok bool, err error) {
	id, idOK, err := s.Get(ctx, keys.idToken())
	if err != nil {
		return CachedTokens{}, false, fmt.Errorf("tokenstore: get idToken: %w", err)
	}
	access, accessOK, err := s.Get(ctx, keys.accessToken())
	if err != nil {
		return CachedTokens{}, false, fmt.Errorf("tokenstore: get accessToken: %w", err)
	}
	refresh, refreshOK, err := s.Get(ctx, keys.refreshToken())
	if err != nil {
		return CachedTokens{}, false, fmt.Errorf("tokenstore: get refreshToken: %w", err)
	}

	if !idOK && !accessOK && !refreshOK {
		return CachedTokens{}, false, nil
	}

	return CachedTokens{IDToken: id, AccessToken: access, RefreshToken: refresh}, true, nil
}

// RemoveTokens removes all three session token keys (used by sign-out).
func RemoveTokens(ctx context.Context, s Store, keys Keys) error {
	for _, key := range []string{keys.idToken(), keys.accessToken(), keys.refreshToken()} {
		if err := s.Remove(ctx, key); err != nil {
			return fmt.Errorf("tokenstore: remove %s: %w", key, err)
		}
	}
	return nil
}

// CachedDevice is the device material persisted after a successful
// confirm-device ceremony.
type CachedDevice struct {
	DeviceKey      string
	DeviceGroupKey string
	RandomPassword string
}

// PutDevice persists device material under keys.
func PutDevice(ctx context.Context, s Store, keys Keys, device CachedDevice) error {
	writes := []struct {
		key, value string
	}{
		{keys.deviceKey(), device.DeviceKey},
		{keys.deviceGroupKey(), device.DeviceGroupKey},
		{keys.randomPasswordKey(), device.RandomPassword},
	}
	for _, w := range writes {
		if err := s.Put(ctx, w.key, w.value); err != nil {
			return fmt.Errorf("tokenstore: put %s: %w", w.key, err)
		}
	}
	return nil
}

// GetDevice reads back persisted device material. ok is false if no device
// key is present.
func GetDevice(ctx context.Context, s Store, keys Keys) (device CachedDevice, ok bool, err error) {
	deviceKey, ok, err := s.Get(ctx, keys.deviceKey())
	if err != nil {
		return CachedDevice{}, false, fmt.Errorf("tokenstore: get deviceKey: %w", err)
	}
	if !ok {
		return CachedDevice{}, false, nil
	}

	groupKey, _, err := s.Get(ctx, keys.deviceGroupKey())
	if err != nil {
		return CachedDevice{}, false, fmt.Errorf("tokenstore: get deviceGroupKey: %w", err)
	}
	password, _, err := s.Get(ctx, keys.randomPasswordKey())
	if err != nil {
		return CachedDevice{}, false, fmt.Errorf("tokenstore: get randomPasswordKey: %w", err)
	}

	return CachedDevice{DeviceKey: deviceKey, DeviceGroupKey: groupKey, RandomPassword: password}, true, nil
}

// RemoveDevice clears persisted device material (used by forget-device).
func RemoveDevice(ctx context.Context, s Store, keys Keys) error {
	for _, key := range []string{keys.deviceKey(), keys.deviceGroupKey(), keys.randomPasswordKey()} {
		if err := s.Remove(ctx, key); err != nil {
			return fmt.Errorf("tokenstore: remove %s: %w", key, err)
		}
	}
	return nil
}
