package models

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// MDateRange is an inclusive pair of calendar dates.
type MDateRange struct {
	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

// MRangeResponse is the wire shape of a resolved quick range.
type MRangeResponse struct {
	Preset string `json:"preset"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// -----------------------------------------------------------------------------

func (r MDateRange) StartString() string {
	return r.Start.Format(DateLayout)
}

// -----------------------------------------------------------------------------

func (r MDateRange) EndString() string {
	return r.End.Format(DateLayout)
}
