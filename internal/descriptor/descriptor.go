// Package descriptor parses the save-descriptor strings (spec §4.1) that
// name, for a single insert/update/delete call, which tables are involved,
// how child tables reference their parent, and which of the three DML
// operations apply.
//
// Grammar (PCRE-equivalent):
//
//	tables (options)? (" " alias)?
//	tables  := table("#"table)*
//	table   := ident(":"ident)*
//	ident   := [^:\[\]\s#]+
//	options := "[" ( "+"? "-"? "="? ) "]"
package descriptor

import (
	"fmt"
	"regexp"
	"strings"
)

// TableLink is one table segment of a descriptor: the table name plus any
// explicitly pinned foreign-key column names. Refs is empty when the link
// relies on inferred foreign keys.
type TableLink struct {
	Table string
	Refs  []string
}

// Property is the parsed form of a descriptor string.
type Property struct {
	Tables []TableLink // size >= 1; head is the primary table
	Insert bool
	Update bool
	Delete bool
	Alias  string // applies to the primary table only; "" when absent
}

// Primary returns the head TableLink.
func (p Property) Primary() TableLink { return p.Tables[0] }

// ErrBadDescriptor is returned when a descriptor string does not match the
// grammar end-to-end.
type ErrBadDescriptor struct{ Descriptor string }

func (e *ErrBadDescriptor) Error() string {
	return fmt.Sprintf("descriptor: %q does not match the save-descriptor grammar", e.Descriptor)
}

var descriptorPattern = regexp.MustCompile(
	`^(?P<tables>[^:\[\]\s#]+(?::[^:\[\]\s#]+)*(?:#[^:\[\]\s#]+(?::[^:\[\]\s#]+)*)*)` +
		`(?P<options>\[\+?-?=?\])?` +
		`(?: (?P<alias>[^\s\[\]]+))?$`,
)

// Parse parses a descriptor string into a Property, or returns
// *ErrBadDescriptor when it doesn't match the grammar.
func Parse(name string) (Property, error) {
	m := descriptorPattern.FindStringSubmatch(name)
	if m == nil {
		return Property{}, &ErrBadDescriptor{Descriptor: name}
	}

	idx := descriptorPattern.SubexpNames()
	groups := make(map[string]string, len(idx))
	for i, n := range idx {
		if n != "" {
			groups[n] = m[i]
		}
	}

	tables, err := parseTables(groups["tables"])
	if err != nil {
		return Property{}, err
	}

	insert, update, del := parseOptions(groups["options"])

	return Property{
		Tables: tables,
		Insert: insert,
		Update: update,
		Delete: del,
		Alias:  groups["alias"],
	}, nil
}

func parseTables(s string) ([]TableLink, error) {
	segments := strings.Split(s, "#")
	links := make([]TableLink, 0, len(segments))
	for _, seg := range segments {
		idents := strings.Split(seg, ":")
		if idents[0] == "" {
			return nil, &ErrBadDescriptor{Descriptor: s}
		}
		link := TableLink{Table: idents[0]}
		if len(idents) > 1 {
			link.Refs = append(link.Refs, idents[1:]...)
		}
		links = append(links, link)
	}
	return links, nil
}

// parseOptions returns (insert, update, delete) from the bracketed options
// group (brackets included), defaulting to {true, false, true} when the
// bracket group is absent; otherwise each flag is the literal presence of
// +, =, - respectively.
func parseOptions(raw string) (insert, update, del bool) {
	if raw == "" {
		return true, false, true
	}
	return strings.ContainsRune(raw, '+'),
		strings.ContainsRune(raw, '='),
		strings.ContainsRune(raw, '-')
}

// Render re-serializes a Property back into descriptor-string form. Used to
// check the round-trip property (spec §8.6): Parse(Render(p)) should yield
// an equivalent Property.
func Render(p Property) string {
	var b strings.Builder
	for i, t := range p.Tables {
		if i > 0 {
			b.WriteByte('#')
		}
		b.WriteString(t.Table)
		for _, r := range t.Refs {
			b.WriteByte(':')
			b.WriteString(r)
		}
	}

	if !(p.Insert && !p.Update && p.Delete) {
		b.WriteByte('[')
		if p.Insert {
			b.WriteByte('+')
		}
		if p.Delete {
			b.WriteByte('-')
		}
		if p.Update {
			b.WriteByte('=')
		}
		b.WriteByte(']')
	}

	if p.Alias != "" {
		b.WriteByte(' ')
		b.WriteString(p.Alias)
	}

	return b.String()
}
