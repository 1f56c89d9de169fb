package interpreter

import "strings"

// DefaultCategory is used when no candidate word survives the stripping pass.
const DefaultCategory = "other"

// Classifier maps a keyword to a category using a static bilingual table.
type Classifier struct {
	order    []string
	keywords map[string]map[string]struct{}
}

func NewClassifier(tables []CategoryTable) *Classifier {
	c := &Classifier{keywords: make(map[string]map[string]struct{})}
	for _, t := range tables {
		set := make(map[string]struct{}, len(t.Keywords))
		for _, kw := range t.Keywords {
			set[strings.ToLower(kw)] = struct{}{}
		}
		c.order = append(c.order, t.Name)
		c.keywords[t.Name] = set
	}
	return c
}

// Classify returns the first category whose keyword set contains word,
// checked in table declaration order. A word with no match becomes its own
// category label, so unknown spends still show up named in reports.
func (c *Classifier) Classify(word string) string {
	w := strings.ToLower(word)
	for _, cat := range c.order {
		if _, ok := c.keywords[cat][w]; ok {
			return cat
		}
	}
	return w
}
