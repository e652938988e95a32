package roadmap

import "strings"

// Section is a status column of the roadmap page
type Section struct {
	Status Status
	Title  string
	Hint   string
	Items  []Item
}

var sectionOrder = []Section{
	{Status: StatusInProgress, Title: "In progress", Hint: "Actively being worked on"},
	{Status: StatusPlanned, Title: "Planned", Hint: "Planned requests"},
	{Status: StatusBlocked, Title: "Blocked", Hint: "Rejected requests"},
	{Status: StatusDone, Title: "Done", Hint: "Completed requests"},
}

// Sections groups items by status keeping their order, items with an
// unknown status are listed as planned
func Sections(items []Item) []Section {
	sections := make([]Section, len(sectionOrder))
	copy(sections, sectionOrder)

	index := make(map[Status]int, len(sections))
	for i, section := range sections {
		index[section.Status] = i
	}

	for _, item := range items {
		i, ok := index[item.Status]
		if !ok {
			i = index[StatusPlanned]
		}
		sections[i].Items = append(sections[i].Items, item)
	}

	return sections
}

// Label renders a category for display, "discord_sync" becomes "discord sync"
func (c Category) Label() string {
	return strings.Replace(string(c), "_", " ", -1)
}

// Label renders a priority for display, unknown priorities count as medium
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityHigh:
		return "High"
	case PriorityCritical:
		return "Critical"
	default:
		return "Medium"
	}
}
