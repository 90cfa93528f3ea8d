// Package catalog holds the in-memory mock collections backing the
// marketplace, housing, food, and groups screens. Items live in ordered
// per-section lists seeded with fixtures at startup; user-created items are
// prepended; nothing is ever deleted. The store is purely demonstrational:
// it survives only for the lifetime of the process.
package catalog

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nkarpov/go-superapp-backend/internal/search"
)

// Section names one of the catalog collections.
type Section string

const (
	SectionProducts Section = "products"
	SectionHousing  Section = "housing"
	SectionFood     Section = "food"
	SectionGroups   Section = "groups"
)

// ParseSection validates a request path segment into a Section.
func ParseSection(s string) (Section, bool) {
	switch Section(strings.ToLower(strings.TrimSpace(s))) {
	case SectionProducts:
		return SectionProducts, true
	case SectionHousing:
		return SectionHousing, true
	case SectionFood:
		return SectionFood, true
	case SectionGroups:
		return SectionGroups, true
	default:
		return "", false
	}
}

// Item is one catalog record. IDs are UUIDs rather than creation
// timestamps so that rapid successive creations can never collide.
type Item struct {
	ID          string    `json:"id"`
	Section     Section   `json:"section"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Price       float64   `json:"price,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Query narrows and orders a section listing. The zero value returns the
// whole section in insertion order (newest first).
type Query struct {
	// Category keeps only items with an exactly matching category.
	Category string
	// Text ranks items by free-text relevance; non-matching items are
	// dropped.
	Text string
	// SortPrice is "asc" or "desc"; empty keeps insertion order. Ignored
	// when Text is set (relevance order wins).
	SortPrice string
}

// Store holds all sections. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	items map[Section][]Item
}

// NewStore returns a store seeded with the demo fixtures.
func NewStore() *Store {
	s := &Store{items: make(map[Section][]Item)}
	for _, it := range seedItems() {
		s.items[it.Section] = append(s.items[it.Section], it)
	}
	return s
}

// Create inserts a new item at position 0 of its section and returns the
// stored record with ID and timestamp filled in.
func (s *Store) Create(section Section, title, description, category string, price float64) Item {
	it := Item{
		ID:          uuid.NewString(),
		Section:     section,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Category:    strings.TrimSpace(category),
		Price:       price,
		CreatedAt:   time.Now().UTC(),
	}

	s.mu.Lock()
	s.items[section] = append([]Item{it}, s.items[section]...)
	s.mu.Unlock()
	return it
}

// Get returns an item by section and ID.
func (s *Store) Get(section Section, id string) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items[section] {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Count returns the number of items in a section.
func (s *Store) Count(section Section) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items[section])
}

// List applies q to a section and returns the matching items. The result
// is a copy; callers may not mutate stored items through it.
func (s *Store) List(section Section, q Query) []Item {
	s.mu.RLock()
	src := s.items[section]
	out := make([]Item, 0, len(src))
	for _, it := range src {
		if q.Category != "" && !strings.EqualFold(it.Category, q.Category) {
			continue
		}
		out = append(out, it)
	}
	s.mu.RUnlock()

	if text := strings.TrimSpace(q.Text); text != "" {
		return rankByText(out, text)
	}

	switch q.SortPrice {
	case "asc":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case "desc":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}
	return out
}

// rankByText orders items by Jaccard relevance of title+description,
// dropping items that share no token with the query. The index is rebuilt
// per call; sections are small fixture lists, so this stays cheap.
func rankByText(items []Item, text string) []Item {
	entries := make([]search.Entry, 0, len(items))
	byID := make(map[string]Item, len(items))
	for _, it := range items {
		entries = append(entries, search.Entry{ID: it.ID, Text: it.Title + " " + it.Description + " " + it.Category})
		byID[it.ID] = it
	}
	idx := search.NewIndex(entries)

	ranked := idx.TopK(text, len(items))
	out := make([]Item, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, byID[r.ID])
	}
	return out
}
