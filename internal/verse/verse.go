// Package verse provides the static devotional verse catalog used for card
// creation and the public lookup endpoint.
package verse

import "strings"

// Verse is one catalog entry.
type Verse struct {
	Ref   string `json:"ref"`
	Text  string `json:"text"`
	Theme string `json:"theme"`
}

// catalog is the built-in selection offered by the card editor. References
// are matched case-insensitively with collapsed whitespace.
var catalog = map[string]Verse{
	"john 3:16": {
		Ref:   "John 3:16",
		Text:  "For God so loved the world that he gave his one and only Son, that whoever believes in him shall not perish but have eternal life.",
		Theme: "love",
	},
	"psalm 23:1": {
		Ref:   "Psalm 23:1",
		Text:  "The Lord is my shepherd, I lack nothing.",
		Theme: "comfort",
	},
	"philippians 4:13": {
		Ref:   "Philippians 4:13",
		Text:  "I can do all this through him who gives me strength.",
		Theme: "strength",
	},
	"jeremiah 29:11": {
		Ref:   "Jeremiah 29:11",
		Text:  "For I know the plans I have for you, declares the Lord, plans to prosper you and not to harm you, plans to give you hope and a future.",
		Theme: "hope",
	},
	"proverbs 3:5": {
		Ref:   "Proverbs 3:5",
		Text:  "Trust in the Lord with all your heart and lean not on your own understanding.",
		Theme: "trust",
	},
	"isaiah 41:10": {
		Ref:   "Isaiah 41:10",
		Text:  "So do not fear, for I am with you; do not be dismayed, for I am your God.",
		Theme: "courage",
	},
	"romans 8:28": {
		Ref:   "Romans 8:28",
		Text:  "And we know that in all things God works for the good of those who love him, who have been called according to his purpose.",
		Theme: "hope",
	},
	"1 corinthians 13:4": {
		Ref:   "1 Corinthians 13:4",
		Text:  "Love is patient, love is kind. It does not envy, it does not boast, it is not proud.",
		Theme: "love",
	},
}

// Catalog is the read-only verse lookup service.
type Catalog struct{}

func NewCatalog() *Catalog {
	return &Catalog{}
}

// Lookup resolves a verse reference to its text.
func (c *Catalog) Lookup(ref string) (string, bool) {
	v, ok := catalog[normalizeRef(ref)]
	if !ok {
		return "", false
	}
	return v.Text, true
}

// Get returns the full catalog entry for a reference.
func (c *Catalog) Get(ref string) (Verse, bool) {
	v, ok := catalog[normalizeRef(ref)]
	return v, ok
}

// All returns every catalog entry. Order is unspecified.
func (c *Catalog) All() []Verse {
	verses := make([]Verse, 0, len(catalog))
	for _, v := range catalog {
		verses = append(verses, v)
	}
	return verses
}

func normalizeRef(ref string) string {
	return strings.ToLower(strings.Join(strings.Fields(ref), " "))
}
