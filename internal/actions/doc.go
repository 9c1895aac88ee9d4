// Package actions provides the network-facing operations of gittasks.
//
// Each subpackage is one operation (sync, pull, push) and orchestrates the
// git, merge and sanitize packages.
//
// Key patterns:
//   - Actions accept runtime.Context which provides the Repo, Splog and config
//   - Actions are stateless; serialization is the caller's concern (see session)
//   - Credentials are translated once, at the boundary, by Transport
package actions
