package cogauth

import (
	"fmt"
	"strings"

	"github.com/kwpark/cogauth/internal/rpc"
	"github.com/kwpark/cogauth/internal/tokenstore"
)

const defaultParanoia = 7

// Pool is the immutable configuration shared by every User created
// against the same identity-provider app client.
type Pool struct {
	userPoolID   string
	realmID      string
	clientID     string
	clientSecret string
	paranoia     int

	facade rpc.Facade
	store  tokenstore.Store
}

// PoolConfig is the input to NewPool.
type PoolConfig struct {
	// UserPoolID is of the form "<region>_<suffix>"; the suffix is used
	// as the SRP realm identifier.
	UserPoolID string
	ClientID   string
	// ClientSecret is only required for app clients configured with a
	// client secret; when set, every facade call that accepts a
	// SECRET_HASH parameter includes one.
	ClientSecret string
	// Paranoia controls RNG strength for SRP blinding, in [0, 10]. A nil
	// value means "use the default of 7"; Paranoia(0) is itself a valid,
	// distinct configuration (weakest RNG blinding), not a sentinel.
	Paranoia *int

	Facade rpc.Facade
	Store  tokenstore.Store
}

// NewPool validates cfg and returns a ready-to-use Pool. Paranoia values
// outside [0, 10] are rejected here rather than deferred to the first SRP
// handshake.
func NewPool(cfg PoolConfig) (*Pool, error) {
	if cfg.UserPoolID == "" {
		return nil, fmt.Errorf("%w: user pool id is required", ErrInvalidArgument)
	}
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: client id is required", ErrInvalidArgument)
	}
	if cfg.Facade == nil {
		return nil, fmt.Errorf("%w: facade is required", ErrInvalidArgument)
	}

	realmID := cfg.UserPoolID
	if idx := strings.IndexByte(cfg.UserPoolID, '_'); idx >= 0 {
		realmID = cfg.UserPoolID[idx+1:]
	}

	paranoia := defaultParanoia
	if cfg.Paranoia != nil {
		paranoia = *cfg.Paranoia
	}
	if paranoia < 0 || paranoia > 10 {
		return nil, fmt.Errorf("%w: paranoia must be in [0, 10], got %d", ErrInvalidArgument, paranoia)
	}

	store := cfg.Store
	if store == nil {
		store = tokenstore.NewMemoryStore()
	}

	return &Pool{
		userPoolID:   cfg.UserPoolID,
		realmID:      realmID,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		paranoia:     paranoia,
		facade:       cfg.Facade,
		store:        store,
	}, nil
}

// UserPoolID returns the configured user pool id.
func (p *Pool) UserPoolID() string { return p.userPoolID }

// ClientID returns the configured app client id.
func (p *Pool) ClientID() string { return p.clientID }

// secretHash computes the SECRET_HASH parameter for username, or returns
// "" if the pool has no client secret configured. Grounded directly on
// the teacher's ComputeSecretHash helper.
func (p *Pool) secretHash(username string) string {
	if p.clientSecret == "" {
		return ""
	}
	return computeSecretHash(username, p.clientID, p.clientSecret)
}

// NewUser constructs a User bound to this pool.
func (p *Pool) NewUser(username string) (*User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidArgument)
	}
	return &User{username: username, pool: p}, nil
}
