// Package integration runs the gittasks binary against real repositories
// standing in for several devices that share one remote.
package integration
