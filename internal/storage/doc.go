// Package storage defines the filesystem primitives the cache engine is built
// on: existence checks, whole-file reads, exclusive atomic writes (temp file +
// rename under an advisory lock), deletes, mtime reads, directory listing and
// idempotent directory creation. The engine only talks to the Backend
// interface so tests and alternative layouts can inject their own primitives.
package storage
