// Package cache implements the file-backed key/value cache engine.
//
// Every identifier is hashed into a fixed-length CacheKey. The first ShardDepth
// characters of the key become nested one-character directories under the
// root, so an entry lives at
//
//	<Root>/<k0>/<k1>/.../<key><Extension>
//
// Each file holds a single codec-encoded envelope {version, data, info}. Age is
// never persisted: it is derived from the file mtime on demand. A per-engine
// memo keeps decoded envelopes around for the life of the Engine so repeated
// reads skip the disk; Reset hands out a fresh Engine with an empty memo.
//
// Expiration is advisory. Get and GetInfo always return what is on disk (or in
// the memo); only DeleteExpired removes entries whose age exceeds their
// duration.
package cache
