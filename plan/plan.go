// Package plan maintains structured account-plan documents: plain text with
// level-2 markdown headings, edited one named section at a time. All
// operations are pure functions over document values; nothing is persisted.
package plan

import "strings"

// RequiredSections lists the headings a complete account plan carries, in
// order. SetSection itself is name-agnostic; this contract is relied on by
// the assistant instruction and by Missing.
var RequiredSections = []string{
	"Company Overview",
	"Key Products and Services",
	"Industry and Market Position",
	"Recent News and Strategic Moves",
	"Key Challenges and Risks",
	"Opportunities for Our Company",
	"Recommended Next Steps",
}

// Section is a named, heading-delimited block within a document.
type Section struct {
	Name string
	Body string
}

// headingName parses a markdown heading line. ok is false for non-heading
// lines. Level-3 and deeper headings report ok=false for level<=2 callers via
// the returned level.
func headingName(line string) (level int, name string, ok bool) {
	i := 0
	for i < len(line) && line[i] == '#' {
		i++
	}
	if i == 0 || i > 2 {
		return 0, "", false
	}
	if i >= len(line) || (line[i] != ' ' && line[i] != '\t') {
		return 0, "", false
	}
	return i, strings.TrimSpace(line[i:]), true
}

// formatSection renders a single heading plus trimmed body, newline terminated.
func formatSection(name, body string) string {
	out := "## " + name + "\n"
	if body != "" {
		out += body + "\n"
	}
	return out
}

// SetSection returns document with the named level-2 section's body replaced
// by newBody, or with the section appended if absent. It is a total,
// idempotent, order-preserving, single-section mutation:
//
//   - Section names match exactly (case-sensitive) against the text after
//     the "## " marker, with surrounding whitespace trimmed.
//   - The located body spans from after the heading line up to the next
//     level-1 or level-2 heading, or end of document. Deeper headings
//     ("###") belong to the body.
//   - Everything outside the replaced span is preserved byte for byte.
//   - newBody is trimmed of leading/trailing whitespace before insertion;
//     body whitespace is normalized on write (single newline separation).
//
// There is no rejection path: any sectionName/newBody combination succeeds.
// An empty sectionName produces a heading with an empty label, preserving
// the permissiveness of the source behavior.
func SetSection(document, sectionName, newBody string) string {
	body := strings.TrimSpace(newBody)

	if document == "" {
		return formatSection(sectionName, body)
	}

	lines := strings.Split(document, "\n")

	target := -1
	for i, line := range lines {
		if level, name, ok := headingName(line); ok && level == 2 && name == sectionName {
			target = i
			break
		}
	}

	if target == -1 {
		if !strings.HasSuffix(document, "\n") {
			document += "\n"
		}
		return document + formatSection(sectionName, body)
	}

	var bodyLines []string
	if body != "" {
		bodyLines = strings.Split(body, "\n")
	}

	// End of the body span: next level-1/level-2 heading or end of document.
	next := -1
	for j := target + 1; j < len(lines); j++ {
		if level, _, ok := headingName(lines[j]); ok && level <= 2 {
			next = j
			break
		}
	}

	out := make([]string, 0, len(lines))
	out = append(out, lines[:target+1]...)
	out = append(out, bodyLines...)
	if next == -1 {
		return strings.Join(out, "\n") + "\n"
	}
	out = append(out, lines[next:]...)

	return strings.Join(out, "\n")
}

// Sections parses a document into its ordered level-2 sections. Bodies are
// trimmed of surrounding whitespace. Text before the first heading is ignored.
func Sections(document string) []Section {
	var sections []Section
	var current *Section
	var body []string

	flush := func() {
		if current != nil {
			current.Body = strings.TrimSpace(strings.Join(body, "\n"))
			sections = append(sections, *current)
		}
		current = nil
		body = nil
	}

	for _, line := range strings.Split(document, "\n") {
		level, name, ok := headingName(line)
		if ok && level <= 2 {
			flush()
			if level == 2 {
				current = &Section{Name: name}
			}
			continue
		}
		if current != nil {
			body = append(body, line)
		}
	}
	flush()

	return sections
}

// Missing reports which required sections are absent from the document, in
// RequiredSections order. An empty result means the plan is complete.
func Missing(document string) []string {
	present := map[string]bool{}
	for _, s := range Sections(document) {
		present[s.Name] = true
	}

	var missing []string
	for _, name := range RequiredSections {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	return missing
}
