package knowledge

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/symptom-checker-server/internal/domain"
)

// Catalog is the on-disk form of a knowledge base.
type Catalog struct {
	Conditions []domain.Condition `yaml:"conditions"`
	Synonyms   []Synonym          `yaml:"synonyms,omitempty"`
}

// Load decodes a YAML catalog and validates it. A catalog without a synonyms
// section uses the compiled-in synonym table.
func Load(r io.Reader) (*Base, error) {
	var catalog Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&catalog); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if len(catalog.Synonyms) == 0 {
		catalog.Synonyms = defaultSynonyms
	}

	b, err := New(catalog.Conditions, catalog.Synonyms)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return b, nil
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Base, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Resolve returns the catalog at path, or the compiled-in one when path is empty.
func Resolve(path string) (*Base, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// WriteYAML writes the base in the format Load accepts.
func (b *Base) WriteYAML(w io.Writer) error {
	catalog := Catalog{
		Conditions: make([]domain.Condition, 0, len(b.conditions)),
		Synonyms:   b.Synonyms(),
	}
	for _, c := range b.conditions {
		catalog.Conditions = append(catalog.Conditions, cloneCondition(*c))
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(catalog); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return enc.Close()
}
