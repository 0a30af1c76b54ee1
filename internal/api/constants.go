package api

// Request limits.
const (
	// DefaultMaxUploadBytes is the page upload limit when none is configured (32 MB).
	DefaultMaxUploadBytes = 32 << 20

	// multipartMemory is how much of an upload is held in memory before
	// spilling to temporary files.
	multipartMemory = 8 << 20
)

// Cache-Control header values.
const (
	CacheOneDay  = "public, max-age=86400"
	CacheNoStore = "no-store"
)
