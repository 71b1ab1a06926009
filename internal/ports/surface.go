package ports

// Surface is a request-serving frontend over the detection engine, such as
// the HTTP API or the mail filter. Surfaces are started at boot and stopped
// on shutdown; everything in between is their own concern.
type Surface interface {
	// Start begins serving. It must not block.
	Start() error

	// Stop shuts the surface down and releases its resources.
	Stop() error
}
