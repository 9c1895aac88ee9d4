// Package runtime provides the execution context for gittasks operations.
//
// It encapsulates shared dependencies needed by actions, such as the open
// repository, logger, and per-repository configuration.
package runtime
