package rng

import "go.uber.org/zap"

// Drawer wraps a Source and logs every draw at debug level.
type Drawer struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedDrawer creates a Drawer that draws from src and logs to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedDrawer(src Source, logger *zap.Logger) *Drawer {
	return &Drawer{src: src, logger: logger}
}

// Intn draws from the wrapped source and logs the bound and result.
func (d *Drawer) Intn(n int) int {
	v := d.src.Intn(n)
	d.logger.Debug("rng draw",
		zap.Int("n", n),
		zap.Int("value", v),
	)
	return v
}
