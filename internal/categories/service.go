package categories

import (
	"strings"

	"github.com/cleared-dev/tally/internal/model"
)

// Service provides read-only lookup over a category list.
type Service struct {
	categories []model.Category
	byID       map[string]model.Category
}

// NewService indexes a slice of categories. Later duplicates of an id win.
func NewService(categories []model.Category) *Service {
	byID := make(map[string]model.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	return &Service{categories: categories, byID: byID}
}

// All returns the categories in their original order.
func (s *Service) All() []model.Category {
	return s.categories
}

// Get returns a category by id.
func (s *Service) Get(id string) (model.Category, bool) {
	c, ok := s.byID[id]
	return c, ok
}

// Exists reports whether a category id exists.
func (s *Service) Exists(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// ByDirection returns the categories that classify the given direction.
func (s *Service) ByDirection(d model.Direction) []model.Category {
	var result []model.Category
	for _, c := range s.categories {
		if c.Direction == d {
			result = append(result, c)
		}
	}
	return result
}

// Find resolves a category by id first, then by case-insensitive name.
func (s *Service) Find(ref string) (model.Category, bool) {
	if c, ok := s.byID[ref]; ok {
		return c, true
	}
	for _, c := range s.categories {
		if strings.EqualFold(c.Name, ref) {
			return c, true
		}
	}
	return model.Category{}, false
}

// NameOf returns the category name, or the raw id when it does not resolve.
func (s *Service) NameOf(id string) string {
	if c, ok := s.byID[id]; ok {
		return c.Name
	}
	return id
}
