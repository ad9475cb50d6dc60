// Package types defines the Taskbook entities, the repository interfaces the
// storage backend satisfies, the seeded-flag and error-reporting capabilities
// consumed by the seed lifecycle, and the standard error types.
//
// Entity identities are assigned by the store on first insert. An identity of
// zero means the entity has not been persisted yet.
package types
