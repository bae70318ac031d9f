package photopages

import (
	"time"

	"github.com/tsawler/photopages/assemble"
	"github.com/tsawler/photopages/observability"
	"github.com/tsawler/photopages/raster"
)

// Option configures a Project.
type Option func(*Project)

// WithLogger sets the logger passed to the assembler. The default discards
// everything.
func WithLogger(l observability.Logger) Option {
	return func(p *Project) {
		p.log = observability.OrNop(l)
	}
}

// WithDecoder replaces the file decoder. Sources are then opaque to the
// project and handed to dec unchanged.
func WithDecoder(dec raster.Decoder) Option {
	return func(p *Project) {
		p.dec = dec
	}
}

// WithDescriber sets the alt-text source for embedded pictures. It takes
// precedence over the ocr setting of the configuration.
func WithDescriber(d assemble.Describer) Option {
	return func(p *Project) {
		p.describer = d
	}
}

// WithClock sets the time source for document creation dates.
func WithClock(now func() time.Time) Option {
	return func(p *Project) {
		if now != nil {
			p.now = now
		}
	}
}
