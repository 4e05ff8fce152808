package catalog

import (
	"math"

	"github.com/AnyUserName/imgvariant/internal/profile"
)

// Match says what a Selection resolved to.
type Match int

const (
	// MatchUntyped: the image type is unknown; render the raw image.
	MatchUntyped Match = iota
	// MatchType: the type has no profiles; its own variant is the only one.
	MatchType
	// MatchProfile: Profile is the closest linked profile.
	MatchProfile
	// MatchNone: no profile is closer than the type's own variant.
	MatchNone
)

func (m Match) String() string {
	switch m {
	case MatchUntyped:
		return "untyped"
	case MatchType:
		return "type"
	case MatchProfile:
		return "profile"
	case MatchNone:
		return "none"
	}
	return "unknown"
}

func (m Match) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// Selection is the result of picking a display variant.
type Selection struct {
	Match   Match
	Type    *TypeEntry
	Profile *profile.ImageProfile
}

// SelectProfile resolves typeID and picks the profile closest to the
// requested size. Zero width and height mean "no size hint".
func (ix *Index) SelectProfile(typeID string, width, height int) Selection {
	t, ok := ix.TypeByID(typeID)
	if !ok {
		return Selection{Match: MatchUntyped}
	}
	return Select(t, width, height)
}

// Select picks the linked profile whose estimated area is closest to the
// requested one. Webp profiles are alternates and never the primary pick.
// Profiles are compared in link order with a strict less-than, so the
// earlier profile wins a tie.
func Select(t *TypeEntry, width, height int) Selection {
	if t == nil {
		return Selection{Match: MatchUntyped}
	}
	if len(t.Profiles) == 0 {
		return Selection{Match: MatchType, Type: t}
	}
	if width == 0 && height == 0 {
		return Selection{Match: MatchProfile, Type: t, Profile: t.Profiles[0]}
	}

	targetArea := profile.EstimateArea(profile.Dimensions{Width: width, Height: height})
	bestDelta := math.Abs(t.Dimensions.Area() - targetArea)

	var best *profile.ImageProfile
	for _, p := range t.Profiles {
		if p.FileType == profile.WebP {
			continue
		}
		delta := math.Abs(p.Dimensions.Area() - targetArea)
		if delta < bestDelta {
			bestDelta = delta
			best = p
		}
	}

	if best == nil {
		return Selection{Match: MatchNone, Type: t}
	}
	return Selection{Match: MatchProfile, Type: t, Profile: best}
}
