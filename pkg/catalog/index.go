package catalog

import (
	"strings"

	"github.com/opflow/opflow-cli/pkg/models"
)

// Entry is one category of the picker together with the operators that
// belong to it.
type Entry struct {
	models.Category
	Operators []models.NormalizedOperator
}

// Group is one enriched level of the category tree.
type Group struct {
	ID      string
	Name    string
	Entries []Entry
}

// Index is the in-memory lookup feeding the picker: the category tree
// enriched with per-category operator lists, a flat id -> category map
// for O(1) label lookup, and the normalized operator list itself.
// An Index is purely derived from its two inputs and never mutated.
type Index struct {
	Groups     []Group
	Categories map[string]models.Category
	Operators  []models.NormalizedOperator

	byOperatorID map[string]models.NormalizedOperator
}

// BuildIndex derives the picker index from the category tree and the
// normalized operator list. An operator belongs to a category when its
// facet named after the group equals the category name, or when the
// category id appears in the operator's category id list. Rebuilding from
// the same inputs yields a deep-equal index.
func BuildIndex(groups []models.CategoryGroup, operators []models.NormalizedOperator) *Index {
	idx := &Index{
		Categories:   make(map[string]models.Category),
		Operators:    operators,
		byOperatorID: make(map[string]models.NormalizedOperator, len(operators)),
	}
	for _, op := range operators {
		idx.byOperatorID[op.ID] = op
	}

	for _, group := range groups {
		g := Group{ID: group.ID, Name: group.Name}
		for _, cat := range group.Categories {
			cat.GroupType = group.Name
			idx.Categories[cat.ID] = cat

			entry := Entry{Category: cat}
			for _, op := range operators {
				if op.Facets[group.Name] == cat.Name || containsString(op.OperatorDefinition.Categories, cat.ID) {
					entry.Operators = append(entry.Operators, op)
				}
			}
			entry.Count = len(entry.Operators)
			g.Entries = append(g.Entries, entry)
		}
		idx.Groups = append(idx.Groups, g)
	}
	return idx
}

// Operator returns the normalized operator for an id.
func (idx *Index) Operator(id string) (models.NormalizedOperator, bool) {
	op, ok := idx.byOperatorID[id]
	return op, ok
}

// CategoryName returns the display label for a category id, or the id
// itself while the tree has not arrived yet.
func (idx *Index) CategoryName(id string) string {
	if cat, ok := idx.Categories[id]; ok {
		return cat.Name
	}
	return id
}

// Filter returns the operators matching a case-insensitive name substring,
// an optional category id set (an operator must match every selected
// category), and an optional starred-only flag.
func (idx *Index) Filter(query string, categoryIDs []string, starredOnly bool) []models.NormalizedOperator {
	query = strings.ToLower(strings.TrimSpace(query))

	var out []models.NormalizedOperator
	for _, op := range idx.Operators {
		if query != "" && !strings.Contains(strings.ToLower(op.Name), query) {
			continue
		}
		if starredOnly && !op.Starred {
			continue
		}
		if !idx.matchesAll(op, categoryIDs) {
			continue
		}
		out = append(out, op)
	}
	return out
}

func (idx *Index) matchesAll(op models.NormalizedOperator, categoryIDs []string) bool {
	for _, id := range categoryIDs {
		cat, ok := idx.Categories[id]
		if !ok {
			return false
		}
		if op.Facets[cat.GroupType] == cat.Name || containsString(op.OperatorDefinition.Categories, id) {
			continue
		}
		return false
	}
	return true
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
