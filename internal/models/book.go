// book.go
package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Book describes one catalog entry. The catalog ships as a YAML file and is
// loaded once at startup; progress and attempt rows reference books by id.
type Book struct {
	ID           string   `yaml:"id"`
	Title        string   `yaml:"title"`
	Author       string   `yaml:"author"`
	TotalPages   int      `yaml:"total_pages"`
	ReadingLevel string   `yaml:"reading_level,omitempty"`
	Activities   []string `yaml:"activities"`
}

// Catalog holds every book available to classrooms.
type Catalog struct {
	Books []Book `yaml:"books"`

	byID map[string]Book
}

// LoadCatalog reads and parses the books YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read book catalog: %w", err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal book catalog YAML: %w", err)
	}

	catalog.byID = make(map[string]Book, len(catalog.Books))
	for _, book := range catalog.Books {
		catalog.byID[book.ID] = book
	}
	return &catalog, nil
}

// BookByID looks up a catalog entry.
func (c *Catalog) BookByID(id string) (Book, bool) {
	book, ok := c.byID[id]
	return book, ok
}
