package swr

// ContextOption configures a Context during creation.
// Use functional options to customize Context behavior.
//
// Example:
//
//	// Default configuration (one worker per CPU)
//	ctx := swr.NewContext(1920, 1080)
//
//	// Custom binner (dependency injection)
//	ctx := swr.NewContext(1920, 1080, swr.WithBinner(myBinner))
type ContextOption func(*contextOptions)

// contextOptions holds optional configuration for Context creation.
type contextOptions struct {
	workers          int
	tileMgr          TileManager
	binner           Binner
	maxDrawsInFlight int
}

// defaultOptions returns the default context options.
func defaultOptions() contextOptions {
	return contextOptions{
		workers:          0, // GOMAXPROCS if 0
		tileMgr:          nil,
		binner:           nil,
		maxDrawsInFlight: defaultMaxDrawsInFlight,
	}
}

// WithWorkers sets the number of front-end worker goroutines.
// Values below one select one worker per available CPU.
//
// Example:
//
//	ctx := swr.NewContext(1920, 1080, swr.WithWorkers(4))
func WithWorkers(n int) ContextOption {
	return func(o *contextOptions) {
		o.workers = n
	}
}

// WithTileManager sets the macrotile work queue that receives back-end
// work: binned primitives plus sync, clear, store and invalidate items.
// Without one, back-end work is silently dropped, which is useful when
// only the geometry front end is being exercised.
//
// Example:
//
//	ctx := swr.NewContext(1920, 1080, swr.WithTileManager(mgr))
func WithTileManager(m TileManager) ContextOption {
	return func(o *contextOptions) {
		o.tileMgr = m
	}
}

// WithBinner sets the clip/bin stage that receives assembled primitives
// from the front end. Without one, primitives are counted for statistics
// and then discarded.
//
// Example:
//
//	ctx := swr.NewContext(1920, 1080, swr.WithBinner(b))
func WithBinner(b Binner) ContextOption {
	return func(o *contextOptions) {
		o.binner = b
	}
}

// WithMaxDrawsInFlight bounds how many draws may be queued or executing
// at once. Submitting a draw beyond the bound blocks until an older draw
// retires, which caps scratch memory held by the draw context pool.
func WithMaxDrawsInFlight(n int) ContextOption {
	return func(o *contextOptions) {
		if n > 0 {
			o.maxDrawsInFlight = n
		}
	}
}
