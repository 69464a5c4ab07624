package interfaces

import (
	"context"
	"stock-trend/src/models"
	"time"
)

// -----------------------------------------------------------------------------
// IDataSource supplies daily price history for a symbol.
// -----------------------------------------------------------------------------

type IDataSource interface {

	// Name returns the unique identifier of the source
	Name() string

	// -----------------------------------------------------------------------------

	// Fetch returns the bars of symbol between start and end, both inclusive.
	// An unknown symbol or an empty range yields a series with no bars and a nil error;
	// any other failure is returned as an error.
	Fetch(ctx context.Context, symbol string, start, end time.Time) (models.MPriceSeries, error)
}

// -----------------------------------------------------------------------------
// ISourceProvider routes a fetch to a named source.
// -----------------------------------------------------------------------------

type ISourceProvider interface {

	// Fetch uses the named source, or the default one when name is empty.
	Fetch(ctx context.Context, name, symbol string, start, end time.Time) (models.MPriceSeries, error)

	// -----------------------------------------------------------------------------

	// Names lists the configured sources, default first.
	Names() []string
}
