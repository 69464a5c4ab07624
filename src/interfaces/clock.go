package interfaces

import "time"

// -----------------------------------------------------------------------------
// IReferenceClock supplies "today" for default dates and range bounds.
// -----------------------------------------------------------------------------

type IReferenceClock interface {
	Now() time.Time
	Today() time.Time
	Yesterday() time.Time
}
