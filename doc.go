// Package cogauth is a client-side SRP-6a authentication core for Amazon
// Cognito User Pools: it drives the SRP handshake, the device-SRP
// sub-handshake, the multi-step challenge loop (MFA, custom-auth,
// new-password-required), and the resulting token lifecycle (cache,
// refresh, invalidate).
//
// The algorithmic pieces live under internal/ (bigmath, srp, proof,
// tokenstore, rpc, config); this package is the public surface: Pool,
// User, Session, and the ChallengeRequired variants.
package cogauth
