package roadmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSections(t *testing.T) {
	items := []Item{
		{Title: "Discord sync", Status: StatusDone},
		{Title: "Hall of fame", Status: StatusInProgress},
		{Title: "Search", Status: StatusPlanned},
		{Title: "Mystery", Status: Status("someday")},
		{Title: "Filters", Status: StatusPlanned},
	}

	sections := Sections(items)
	require.Len(t, sections, 4)

	assert.Equal(t, StatusInProgress, sections[0].Status)
	assert.Equal(t, StatusPlanned, sections[1].Status)
	assert.Equal(t, StatusBlocked, sections[2].Status)
	assert.Equal(t, StatusDone, sections[3].Status)

	titles := func(section Section) []string {
		var result []string
		for _, item := range section.Items {
			result = append(result, item.Title)
		}
		return result
	}

	assert.Equal(t, []string{"Hall of fame"}, titles(sections[0]))
	assert.Equal(t, []string{"Search", "Mystery", "Filters"}, titles(sections[1]))
	assert.Empty(t, sections[2].Items)
	assert.Equal(t, []string{"Discord sync"}, titles(sections[3]))

	// the section template is not modified
	assert.Empty(t, Sections(nil)[0].Items)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "discord sync", CategoryDiscordSync.Label())
	assert.Equal(t, "ui ux", CategoryUIUX.Label())
	assert.Equal(t, "Critical", PriorityCritical.Label())
	assert.Equal(t, "Medium", Priority("").Label())
}
