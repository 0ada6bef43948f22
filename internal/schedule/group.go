package schedule

import "strings"

// Group identifies one of the twelve fixed outage groups ("GPV" groups).
// The zero value is not a valid group; use ParseGroup or the constants.
type Group string

const (
	Group11 Group = "GPV1.1"
	Group12 Group = "GPV1.2"
	Group21 Group = "GPV2.1"
	Group22 Group = "GPV2.2"
	Group31 Group = "GPV3.1"
	Group32 Group = "GPV3.2"
	Group41 Group = "GPV4.1"
	Group42 Group = "GPV4.2"
	Group51 Group = "GPV5.1"
	Group52 Group = "GPV5.2"
	Group61 Group = "GPV6.1"
	Group62 Group = "GPV6.2"
)

// groupPrefix is stripped from the identifier for display purposes.
const groupPrefix = "GPV"

// groupIndexes maps every group to its stable storage index (1..12).
// The mapping is total and fixed; loading-flag keys are derived from it.
var groupIndexes = map[Group]int{
	Group11: 1, Group12: 2,
	Group21: 3, Group22: 4,
	Group31: 5, Group32: 6,
	Group41: 7, Group42: 8,
	Group51: 9, Group52: 10,
	Group61: 11, Group62: 12,
}

// AllGroups returns the twelve groups in index order.
func AllGroups() []Group {
	return []Group{
		Group11, Group12,
		Group21, Group22,
		Group31, Group32,
		Group41, Group42,
		Group51, Group52,
		Group61, Group62,
	}
}

// Index returns the storage index for the group. Unmapped groups fall
// back to index 1; this mirrors the persisted-data contract and is not
// an error.
func (g Group) Index() int {
	if idx, ok := groupIndexes[g]; ok {
		return idx
	}
	return 1
}

// Valid reports whether g is one of the twelve known groups.
func (g Group) Valid() bool {
	_, ok := groupIndexes[g]
	return ok
}

// Label returns the short display form of the group, e.g. "1.1".
func (g Group) Label() string {
	return strings.TrimPrefix(string(g), groupPrefix)
}

// DisplayName returns the full user-facing group name, e.g. "Група 1.1".
func (g Group) DisplayName() string {
	return "Група " + g.Label()
}

// ParseGroup resolves a group from either the full identifier ("GPV1.1")
// or the short label ("1.1").
func ParseGroup(s string) (Group, bool) {
	g := Group(s)
	if g.Valid() {
		return g, true
	}
	g = Group(groupPrefix + s)
	if g.Valid() {
		return g, true
	}
	return "", false
}
