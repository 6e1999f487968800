package models

import "strings"

// Badges is the bitset of badges shown on a user's profile.
type Badges uint32

const (
	BadgeDeveloper Badges = 1 << iota
	BadgeTranslator
	BadgeSupporter
	BadgeResponsibleDisclosure
	BadgeFounder
	BadgePlatformModeration
	BadgeActiveSupporter
	BadgePaw
	BadgeEarlyAdopter
	BadgeReservedRelevantJokeBadge1
)

var badgeNames = []string{
	"developer",
	"translator",
	"supporter",
	"responsible_disclosure",
	"founder",
	"platform_moderation",
	"active_supporter",
	"paw",
	"early_adopter",
	"reserved_relevant_joke_badge_1",
}

// Has reports whether every bit of flag is set.
func (b Badges) Has(flag Badges) bool { return flag != 0 && b&flag == flag }

// Set returns b with flag set.
func (b Badges) Set(flag Badges) Badges { return b | flag }

// Clear returns b with flag cleared.
func (b Badges) Clear(flag Badges) Badges { return b &^ flag }

// Names lists the set badges in bit order.
func (b Badges) Names() []string { return names(uint32(b), badgeNames) }

func (b Badges) String() string { return strings.Join(b.Names(), "|") }

// UserFlags marks account state.
type UserFlags uint32

const (
	UserSuspended UserFlags = 1 << iota
	UserDeleted
	UserBanned
)

var userFlagNames = []string{"suspended", "deleted", "banned"}

// Has reports whether every bit of flag is set.
func (f UserFlags) Has(flag UserFlags) bool { return flag != 0 && f&flag == flag }

// Set returns f with flag set.
func (f UserFlags) Set(flag UserFlags) UserFlags { return f | flag }

// Clear returns f with flag cleared.
func (f UserFlags) Clear(flag UserFlags) UserFlags { return f &^ flag }

// Names lists the set flags in bit order.
func (f UserFlags) Names() []string { return names(uint32(f), userFlagNames) }

func (f UserFlags) String() string { return strings.Join(f.Names(), "|") }

func names(v uint32, table []string) []string {
	var out []string
	for i, name := range table {
		if v&(1<<i) != 0 {
			out = append(out, name)
		}
	}
	return out
}
