package milsims

import (
	"strconv"
	"strings"
)

const (
	maxFacetsPerKind  = 4
	maxFacetsDescribe = 6
)

// Description summarises a listing for search engines and link previews
func Description(m *Milsim) string {
	if m == nil {
		return "Verified BF2 milsim directory entry."
	}

	parts := []string{m.Name + " is a verified BF2 milsim community."}

	if len(m.Platforms) > 0 {
		parts = append(parts, "Platforms: "+strings.Join(m.Platforms, ", ")+".")
	}

	var facets []string
	facets = append(facets, first(m.Factions, maxFacetsPerKind)...)
	facets = append(facets, first(m.Tags, maxFacetsPerKind)...)
	if len(facets) > 0 {
		parts = append(parts, "Focus: "+strings.Join(first(facets, maxFacetsDescribe), ", ")+".")
	}

	var stats []string
	if m.MembersCount != nil {
		stats = append(stats, strconv.Itoa(*m.MembersCount)+" members")
	}
	if m.OnlineCount != nil {
		stats = append(stats, strconv.Itoa(*m.OnlineCount)+" online")
	}
	if len(stats) > 0 {
		parts = append(parts, "Discord stats: "+strings.Join(stats, ", ")+".")
	}

	if m.Status == StatusPrivate {
		parts = append(parts, "Invite link is private.")
	}

	return strings.Join(parts, " ")
}

func first(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}
