package tracetm

import (
	_ "embed"
)

// Version is the release of the tracer, read from the VERSION file.
//
//go:embed VERSION
var Version string
