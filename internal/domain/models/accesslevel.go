// internal/domain/models/accesslevel.go
package models

import "strings"

// AccessLevel is the single internal vocabulary for case access.
//
// The hierarchy is a strict total order: basic < advanced < admin.
// Earlier releases stored the two-tier values "read" and "full"; those are
// accepted by ParseAccessLevel and mapped onto the current scheme, but they
// never appear past the parse boundary. Stores and the resolver only ever
// see the three current values.
type AccessLevel string

const (
	LevelBasic    AccessLevel = "basic"
	LevelAdvanced AccessLevel = "advanced"
	LevelAdmin    AccessLevel = "admin"
)

// AllAccessLevels lists the valid levels in ascending order.
var AllAccessLevels = []AccessLevel{LevelBasic, LevelAdvanced, LevelAdmin}

// levelRank orders the hierarchy. Unknown levels rank 0, below basic,
// so comparisons against them always fail closed.
var levelRank = map[AccessLevel]int{
	LevelBasic:    1,
	LevelAdvanced: 2,
	LevelAdmin:    3,
}

// IsValid reports whether l is one of the three current levels.
func (l AccessLevel) IsValid() bool {
	_, ok := levelRank[l]
	return ok
}

// Rank returns the position of l in the hierarchy (basic=1 … admin=3).
// Unknown levels return 0.
func (l AccessLevel) Rank() int {
	return levelRank[l]
}

// AtLeast reports whether l meets or exceeds min in the hierarchy.
// An invalid l never satisfies any minimum.
func (l AccessLevel) AtLeast(min AccessLevel) bool {
	lr, ok := levelRank[l]
	if !ok {
		return false
	}
	return lr >= levelRank[min]
}

// ParseAccessLevel normalizes a stored or submitted level value.
// It accepts the current three-tier values plus the legacy two-tier
// vocabulary ("read" and "full"). The second return is false for anything
// else; callers must treat that as "no level", never as a default.
func ParseAccessLevel(s string) (AccessLevel, bool) {
	switch AccessLevel(strings.ToLower(strings.TrimSpace(s))) {
	case LevelBasic:
		return LevelBasic, true
	case LevelAdvanced:
		return LevelAdvanced, true
	case LevelAdmin:
		return LevelAdmin, true
	case "read": // legacy two-tier scheme
		return LevelBasic, true
	case "full": // legacy two-tier scheme
		return LevelAdmin, true
	}
	return "", false
}
