package catalog

import (
	"fmt"
	"strings"

	"github.com/akshay-gocharting/gocharting-sdk-demo/internal/model"
)

// NotFoundError is returned by Resolve for symbols outside the catalog
type NotFoundError struct {
	Symbol string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unknown symbol %q", e.Symbol)
}

// DefaultSearchLimit bounds the number of matches Search returns when the
// caller does not specify a limit.
const DefaultSearchLimit = 30

// Catalog is a static, read-only symbol catalog built once at startup.
// It is passed explicitly to whatever needs it rather than held as
// package-level state so the datafeed stays testable in isolation.
type Catalog struct {
	symbols []model.SymbolInfo
	byName  map[string]model.SymbolInfo // upper-cased name -> info
}

// New builds a catalog from the given entries. Duplicate names keep the
// first occurrence.
func New(symbols []model.SymbolInfo) *Catalog {
	c := &Catalog{
		symbols: make([]model.SymbolInfo, 0, len(symbols)),
		byName:  make(map[string]model.SymbolInfo, len(symbols)),
	}
	for _, s := range symbols {
		key := strings.ToUpper(s.Name)
		if _, exists := c.byName[key]; exists {
			continue
		}
		c.byName[key] = s
		c.symbols = append(c.symbols, s)
	}
	return c
}

// Resolve looks up a symbol by name, case-insensitively. Unknown symbols
// yield a NotFoundError carrying a human-readable reason.
func (c *Catalog) Resolve(name string) (model.SymbolInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.SymbolInfo{}, &NotFoundError{Symbol: name}
	}
	info, ok := c.byName[strings.ToUpper(name)]
	if !ok {
		return model.SymbolInfo{}, &NotFoundError{Symbol: name}
	}
	return info, nil
}

// Search returns up to limit symbols whose name, full name, or description
// contains the query, case-insensitively. An empty query or no match returns
// an empty slice, never an error.
func (c *Catalog) Search(query string, limit int) []model.SymbolInfo {
	if limit <= 0 || limit > DefaultSearchLimit {
		limit = DefaultSearchLimit
	}

	query = strings.ToUpper(strings.TrimSpace(query))
	matches := []model.SymbolInfo{}
	if query == "" {
		return matches
	}

	for _, s := range c.symbols {
		if strings.Contains(strings.ToUpper(s.Name), query) ||
			strings.Contains(strings.ToUpper(s.FullName), query) ||
			strings.Contains(strings.ToUpper(s.Description), query) {
			matches = append(matches, s)
			if len(matches) >= limit {
				break
			}
		}
	}
	return matches
}

// Symbols returns a copy of every catalog entry in insertion order.
func (c *Catalog) Symbols() []model.SymbolInfo {
	out := make([]model.SymbolInfo, len(c.symbols))
	copy(out, c.symbols)
	return out
}
