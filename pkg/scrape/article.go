// Package scrape turns rendered site HTML into article records. Each site has
// its own parser registered by name; parsers share an output contract, not an
// algorithm. All field extraction is best-effort: a missing field degrades to
// a documented default instead of an error, and a candidate without both a
// title and an absolute link is silently dropped.
package scrape

// Field is one labeled value pulled from a structured listing block,
// e.g. "Artist: Iron Maiden". Order of appearance is preserved.
type Field struct {
	Label string
	Value string
}

// Article is a single extracted record. Link is the stable identifier, used
// for dedup within one parse pass and as the feed entry guid. Date stays
// textual; the feed assembler owns the format fallback chain.
type Article struct {
	Title       string
	Link        string
	Description string
	Date        string
	Category    string
	Author      string
	Image       string
	Fields      []Field
}

// FieldValue returns the value for a label, empty when absent.
func (a *Article) FieldValue(label string) string {
	for _, f := range a.Fields {
		if f.Label == label {
			return f.Value
		}
	}
	return ""
}
