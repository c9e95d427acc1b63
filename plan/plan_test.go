package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetSection_EmptyDocument(t *testing.T) {
	got := SetSection("", "Overview", "  hello  ")
	assert.Equal(t, "## Overview\nhello\n", got)
}

func TestSetSection_ReplaceLastSection(t *testing.T) {
	doc := "## Overview\nOld text\n## Risks\nOld risk\n"
	got := SetSection(doc, "Risks", "New risk text")
	assert.Equal(t, "## Overview\nOld text\n## Risks\nNew risk text\n", got)
}

func TestSetSection_ReplaceMiddleSectionLeavesNeighborsIntact(t *testing.T) {
	doc := "## A\nalpha\n## B\nbeta\n## C\ngamma\n"
	got := SetSection(doc, "B", "updated")
	assert.Equal(t, "## A\nalpha\n## B\nupdated\n## C\ngamma\n", got)
}

func TestSetSection_AppendWhenMissing(t *testing.T) {
	doc := "## Overview\nhello\n"
	got := SetSection(doc, "Risks", "watch out")
	assert.Equal(t, "## Overview\nhello\n## Risks\nwatch out\n", got)
}

func TestSetSection_AppendAddsMissingNewlineFirst(t *testing.T) {
	doc := "## Overview\nhello"
	got := SetSection(doc, "Risks", "watch out")
	assert.Equal(t, "## Overview\nhello\n## Risks\nwatch out\n", got)
}

func TestSetSection_Idempotent(t *testing.T) {
	doc := "## Overview\nOld text\n## Risks\nOld risk\n"
	once := SetSection(doc, "Risks", "stable body")
	twice := SetSection(once, "Risks", "stable body")
	assert.Equal(t, once, twice)
}

func TestSetSection_CaseSensitiveNames(t *testing.T) {
	doc := "## Risks\nexisting\n"
	got := SetSection(doc, "risks", "lowercase variant")
	// Different name: original section untouched, new one appended.
	assert.Equal(t, "## Risks\nexisting\n## risks\nlowercase variant\n", got)
}

func TestSetSection_DeeperHeadingsStayInBody(t *testing.T) {
	doc := "## A\nintro\n### detail\nmore\n## B\nbeta\n"
	got := SetSection(doc, "A", "replaced")
	assert.Equal(t, "## A\nreplaced\n## B\nbeta\n", got)
}

func TestSetSection_LevelOneHeadingTerminatesBody(t *testing.T) {
	doc := "## A\nintro\n# Title\ntrailing\n"
	got := SetSection(doc, "A", "replaced")
	assert.Equal(t, "## A\nreplaced\n# Title\ntrailing\n", got)
}

func TestSetSection_MultilineBodyTrimmed(t *testing.T) {
	doc := "## A\nold\n## B\nbeta\n"
	got := SetSection(doc, "A", "\n\nline one\nline two\n\n")
	assert.Equal(t, "## A\nline one\nline two\n## B\nbeta\n", got)
}

func TestSetSection_EmptySectionNameIsAccepted(t *testing.T) {
	got := SetSection("", "", "body")
	assert.Equal(t, "## \nbody\n", got)
}

func TestSetSection_PrefaceTextPreserved(t *testing.T) {
	doc := "# Account Plan\nintro text\n## A\nalpha\n"
	got := SetSection(doc, "A", "updated")
	assert.Equal(t, "# Account Plan\nintro text\n## A\nupdated\n", got)
}

func TestSections(t *testing.T) {
	doc := "# Title\n## A\nalpha\nmore\n## B\n\nbeta\n"
	sections := Sections(doc)

	require.Len(t, sections, 2)
	assert.Equal(t, Section{Name: "A", Body: "alpha\nmore"}, sections[0])
	assert.Equal(t, Section{Name: "B", Body: "beta"}, sections[1])
}

func TestSections_Empty(t *testing.T) {
	assert.Empty(t, Sections(""))
	assert.Empty(t, Sections("no headings here\n"))
}

func TestSetSection_ReparseContainsExactlyExpectedSections(t *testing.T) {
	doc := "## A\nalpha\n## B\nbeta\n"
	got := SetSection(doc, "C", "gamma")

	var names []string
	for _, s := range Sections(got) {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"A", "B", "C"}, names)
}

func TestMissing(t *testing.T) {
	doc := ""
	for _, name := range RequiredSections[:5] {
		doc = SetSection(doc, name, "tbd")
	}

	missing := Missing(doc)
	assert.Equal(t, RequiredSections[5:], missing)

	for _, name := range RequiredSections[5:] {
		doc = SetSection(doc, name, "tbd")
	}
	assert.Empty(t, Missing(doc))
}
