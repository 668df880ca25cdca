package game

import (
	"strconv"
	"strings"
)

// BonusKind tags the variant held in a Bonus.
type BonusKind uint8

const (
	BonusNone          BonusKind = iota
	BonusPoints                  // Value is the number of points
	BonusTechResearch            // Value is the level the axis is raised to
	BonusNewTech                 // unlocks an axis from 0 to 1
	BonusEnergyCore              // grants an extra action
	BonusAlienArtifact
	BonusUnknown // Raw keeps the unrecognised tag
)

const (
	tagNone          = "NONE"
	tagPoints        = "POINTS_"
	tagTechResearch  = "TECH_RESEARCH_"
	tagNewTech       = "NEW_TECH"
	tagEnergyCore    = "ENERGY_CORE"
	tagAlienArtifact = "ALIEN_ARTIFACT"
)

// Bonus is a planet reward or an inventory item, parsed once from its wire tag.
type Bonus struct {
	Kind  BonusKind
	Value int
	Raw   string
}

// ParseBonus turns a wire tag such as "POINTS_3" into a Bonus. Tags it does
// not understand, including numeric tags with a bad suffix, become
// BonusUnknown and carry no value.
func ParseBonus(tag string) Bonus {
	switch {
	case tag == "" || tag == tagNone:
		return Bonus{Kind: BonusNone}
	case tag == tagNewTech:
		return Bonus{Kind: BonusNewTech}
	case tag == tagEnergyCore:
		return Bonus{Kind: BonusEnergyCore}
	case tag == tagAlienArtifact:
		return Bonus{Kind: BonusAlienArtifact}
	case strings.HasPrefix(tag, tagPoints):
		if v, ok := suffixValue(tag, tagPoints); ok {
			return Bonus{Kind: BonusPoints, Value: v}
		}
	case strings.HasPrefix(tag, tagTechResearch):
		if v, ok := suffixValue(tag, tagTechResearch); ok {
			return Bonus{Kind: BonusTechResearch, Value: v}
		}
	}
	return Bonus{Kind: BonusUnknown, Raw: tag}
}

func suffixValue(tag, prefix string) (int, bool) {
	v, err := strconv.Atoi(tag[len(prefix):])
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// Points returns the points value if b is a points bonus.
func (b Bonus) Points() (int, bool) {
	if b.Kind != BonusPoints {
		return 0, false
	}
	return b.Value, true
}

// String returns the wire tag.
func (b Bonus) String() string {
	switch b.Kind {
	case BonusPoints:
		return tagPoints + strconv.Itoa(b.Value)
	case BonusTechResearch:
		return tagTechResearch + strconv.Itoa(b.Value)
	case BonusNewTech:
		return tagNewTech
	case BonusEnergyCore:
		return tagEnergyCore
	case BonusAlienArtifact:
		return tagAlienArtifact
	case BonusUnknown:
		return b.Raw
	default:
		return tagNone
	}
}

// MarshalText encodes the bonus as its wire tag.
func (b Bonus) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText parses a wire tag.
func (b *Bonus) UnmarshalText(text []byte) error {
	*b = ParseBonus(string(text))
	return nil
}
