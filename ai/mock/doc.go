// Package mock provides deterministic test doubles for the ai package's
// interfaces, so indexing and query pipelines can be tested without a
// running model server.
package mock
