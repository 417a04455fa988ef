package preprocess

import (
	"sort"
	"strings"

	"github.com/skylens-io/skylens/pkg/skylens/config"
)

// Dictionary maps airline aliases and handles to canonical names.
// Matching runs against the raw lowercased text, since handles only
// survive there; cleaning strips mentions entirely.
type Dictionary struct {
	aliases    map[string]string // alias -> canonical
	canonicals []string
}

// DefaultDictionary covers the six airlines of the original dataset.
// The americanair handle is folded into usairways, which had absorbed
// American's social presence during the collection period.
func DefaultDictionary() *Dictionary {
	return NewDictionary([]config.AirlineEntry{
		{Canonical: "southwestair", Aliases: []string{"southwestair", "southwest air", "southwest airlines"}},
		{Canonical: "united", Aliases: []string{"united"}},
		{Canonical: "delta", Aliases: []string{"delta"}},
		{Canonical: "jetblue", Aliases: []string{"jetblue", "jet blue"}},
		{Canonical: "usairways", Aliases: []string{"usairways", "us airways", "americanair", "american air"}},
		{Canonical: "virginamerica", Aliases: []string{"virginamerica", "virgin america"}},
	})
}

// NewDictionary builds a dictionary from config entries. The canonical
// name always counts as its own alias.
func NewDictionary(entries []config.AirlineEntry) *Dictionary {
	d := &Dictionary{aliases: make(map[string]string)}
	for _, e := range entries {
		canonical := strings.ToLower(strings.TrimSpace(e.Canonical))
		if canonical == "" {
			continue
		}
		d.canonicals = append(d.canonicals, canonical)
		d.aliases[canonical] = canonical
		for _, a := range e.Aliases {
			alias := strings.ToLower(strings.TrimSpace(a))
			if alias != "" {
				d.aliases[alias] = canonical
			}
		}
	}
	sort.Strings(d.canonicals)
	return d
}

// Canonicals returns the sorted canonical airline names.
func (d *Dictionary) Canonicals() []string {
	out := make([]string, len(d.canonicals))
	copy(out, d.canonicals)
	return out
}

// Extract returns the sorted, duplicate-free set of canonical airlines
// mentioned in the text. A text may match zero, one, or many airlines.
func (d *Dictionary) Extract(text string) []string {
	lower := strings.ToLower(text)
	seen := make(map[string]struct{})
	for alias, canonical := range d.aliases {
		if strings.Contains(lower, alias) {
			seen[canonical] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}

	found := make([]string, 0, len(seen))
	for c := range seen {
		found = append(found, c)
	}
	sort.Strings(found)
	return found
}
