package daterange

import (
	"fmt"
	"stock-trend/src/helpers"
	"stock-trend/src/models"
	"strings"
	"time"
)

// Preset is a quick-range button.
type Preset int

const (
	PresetNone Preset = iota
	Preset1M
	Preset6M
	Preset1Y
	Preset5Y
)

// Priority is the order used to break ties between presets activated at the same instant.
var Priority = []Preset{Preset1M, Preset6M, Preset1Y, Preset5Y}

// Calendar-day offsets, counted back from the reference date (not from yesterday).
var presetDays = map[Preset]int{
	Preset1M: 31,
	Preset6M: 181,
	Preset1Y: 366,
	Preset5Y: 1826,
}

// -----------------------------------------------------------------------------

func (p Preset) String() string {
	switch p {
	case Preset1M:
		return "1M"
	case Preset6M:
		return "6M"
	case Preset1Y:
		return "1Y"
	case Preset5Y:
		return "5Y"
	default:
		return "NONE"
	}
}

// -----------------------------------------------------------------------------

// Days returns the offset of the preset. NONE uses the 6M offset.
func (p Preset) Days() int {
	if d, ok := presetDays[p]; ok {
		return d
	}
	return presetDays[Preset6M]
}

// -----------------------------------------------------------------------------

// ParsePreset accepts "1m", "6M", "1y", "5Y", "none" or empty.
func ParsePreset(s string) (Preset, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NONE":
		return PresetNone, nil
	case "1M":
		return Preset1M, nil
	case "6M":
		return Preset6M, nil
	case "1Y":
		return Preset1Y, nil
	case "5Y":
		return Preset5Y, nil
	}
	return PresetNone, helpers.NewValidationError(fmt.Sprintf("unknown preset %q", s), nil)
}

// -----------------------------------------------------------------------------

// ResolveRange maps a preset to a range ending the day before ref.
// The start is ref minus the preset's offset; NONE behaves like 6M.
// Nothing is clamped here.
func ResolveRange(p Preset, ref time.Time) models.MDateRange {
	ref = dateOf(ref)
	return models.MDateRange{
		Start: ref.AddDate(0, 0, -p.Days()),
		End:   ref.AddDate(0, 0, -1),
	}
}

// -----------------------------------------------------------------------------

// SelectPreset picks the most recently activated preset.
// Zero timestamps mean "never activated"; if all are zero the result is NONE.
// Equal timestamps go to the earlier preset in Priority.
func SelectPreset(activations map[Preset]int64) Preset {
	var latest int64
	for _, p := range Priority {
		if ts := activations[p]; ts > latest {
			latest = ts
		}
	}
	if latest == 0 {
		return PresetNone
	}

	for _, p := range Priority {
		if activations[p] == latest {
			return p
		}
	}
	return PresetNone
}

// -----------------------------------------------------------------------------

// Resolve combines SelectPreset and ResolveRange
func Resolve(activations map[Preset]int64, ref time.Time) (Preset, models.MDateRange) {
	p := SelectPreset(activations)
	return p, ResolveRange(p, ref)
}

// -----------------------------------------------------------------------------

// ParseActivations reads wire keys ("1m", "6M", ...) into a preset map
func ParseActivations(raw map[string]int64) (map[Preset]int64, error) {
	out := make(map[Preset]int64, len(raw))
	for k, v := range raw {
		p, err := ParsePreset(k)
		if err != nil {
			return nil, err
		}
		if p == PresetNone {
			continue
		}
		out[p] = v
	}
	return out, nil
}

// -----------------------------------------------------------------------------

// Response renders a resolved range in wire form
func Response(p Preset, r models.MDateRange) models.MRangeResponse {
	return models.MRangeResponse{
		Preset: p.String(),
		Start:  r.StartString(),
		End:    r.EndString(),
	}
}

// -----------------------------------------------------------------------------

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
