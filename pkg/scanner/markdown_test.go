package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `# Software Design Document

Intro paragraph.

## Architecture

The system uses three layers.

### Data Layer

Postgres with GORM.

## 3.1 Components

- AuthService
- SessionStore
`

func TestSectionIndex(t *testing.T) {
	sections := SectionIndex([]byte(sampleDoc))
	require.Len(t, sections, 4)

	assert.Equal(t, 1, sections[0].Level)
	assert.Equal(t, "Software Design Document", sections[0].Title)
	assert.Equal(t, "Intro paragraph.", sections[0].Content)

	assert.Equal(t, 2, sections[1].Level)
	assert.Equal(t, "Architecture", sections[1].Title)
	assert.Equal(t, "The system uses three layers.", sections[1].Content)

	assert.Equal(t, 3, sections[2].Level)
	assert.Equal(t, "Data Layer", sections[2].Title)

	assert.Equal(t, "3.1 Components", sections[3].Title)
	assert.Contains(t, sections[3].Content, "AuthService")
}

func TestSectionIndexEmptyDocument(t *testing.T) {
	assert.Empty(t, SectionIndex([]byte("plain text, no headings")))
}

func TestFindSection(t *testing.T) {
	sections := SectionIndex([]byte(sampleDoc))

	s := FindSection(sections, "architecture")
	require.NotNil(t, s)
	assert.Equal(t, 2, s.Level)

	// A section number resolves the numbered heading.
	s = FindSection(sections, "3.1")
	require.NotNil(t, s)
	assert.Equal(t, "3.1 Components", s.Title)

	assert.Nil(t, FindSection(sections, "Deployment"))
	assert.Nil(t, FindSection(sections, ""))
}
