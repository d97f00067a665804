// Package knowledge holds the immutable condition catalog and symptom synonym
// table the analysis engine scores against.
package knowledge

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/symptom-checker-server/internal/domain"
)

// Base is a validated, read-only knowledge base. It is safe for concurrent use.
type Base struct {
	conditions  []*domain.Condition
	byName      map[string]*domain.Condition
	synonyms    []Synonym
	keys        map[string]struct{}
	fingerprint string
}

var (
	defaultOnce sync.Once
	defaultBase *Base
)

// Default returns the compiled-in knowledge base. It panics if the compiled-in
// data breaks the integrity contract, which the package tests rule out.
func Default() *Base {
	defaultOnce.Do(func() {
		b, err := New(defaultConditions, defaultSynonyms)
		if err != nil {
			panic(fmt.Sprintf("knowledge: compiled-in catalog is invalid: %v", err))
		}
		defaultBase = b
	})
	return defaultBase
}

// New validates the given records and builds a Base from deep copies of them.
func New(conditions []domain.Condition, synonyms []Synonym) (*Base, error) {
	b := &Base{
		conditions: make([]*domain.Condition, 0, len(conditions)),
		byName:     make(map[string]*domain.Condition, len(conditions)),
		synonyms:   make([]Synonym, 0, len(synonyms)),
		keys:       make(map[string]struct{}, len(synonyms)),
	}

	for _, s := range synonyms {
		b.synonyms = append(b.synonyms, Synonym{Key: s.Key, Variants: slices.Clone(s.Variants)})
		b.keys[s.Key] = struct{}{}
	}
	for i := range conditions {
		c := cloneCondition(conditions[i])
		b.conditions = append(b.conditions, &c)
		b.byName[strings.ToLower(c.Name)] = &c
	}

	if err := b.validate(); err != nil {
		return nil, err
	}

	fp, err := fingerprint(conditions, synonyms)
	if err != nil {
		return nil, err
	}
	b.fingerprint = fp
	return b, nil
}

// validate enforces the integrity contract: unique named conditions with
// valid enumerations, and every condition symptom resolvable to a canonical key.
func (b *Base) validate() error {
	var errs []error

	if len(b.conditions) == 0 {
		errs = append(errs, errors.New("catalog has no conditions"))
	}

	seenKeys := make(map[string]bool, len(b.synonyms))
	for i, s := range b.synonyms {
		switch {
		case s.Key == "":
			errs = append(errs, fmt.Errorf("synonym %d: empty key", i))
		case s.Key != strings.ToLower(strings.TrimSpace(s.Key)):
			errs = append(errs, fmt.Errorf("synonym %q: key must be lower-case and trimmed", s.Key))
		case seenKeys[s.Key]:
			errs = append(errs, fmt.Errorf("synonym %q: duplicate key", s.Key))
		}
		seenKeys[s.Key] = true
		for _, v := range s.Variants {
			if strings.TrimSpace(v) == "" || v != strings.ToLower(v) {
				errs = append(errs, fmt.Errorf("synonym %q: variant %q must be non-empty and lower-case", s.Key, v))
			}
		}
	}

	seenNames := make(map[string]bool, len(b.conditions))
	for _, c := range b.conditions {
		name := strings.ToLower(c.Name)
		if strings.TrimSpace(c.Name) == "" {
			errs = append(errs, errors.New("condition with empty name"))
			continue
		}
		if seenNames[name] {
			errs = append(errs, fmt.Errorf("condition %q: duplicate name", c.Name))
		}
		seenNames[name] = true

		if !c.Urgency.IsValid() {
			errs = append(errs, fmt.Errorf("condition %q: %w: %q", c.Name, domain.ErrInvalidUrgency, c.Urgency))
		}
		if len(c.CommonSymptoms)+len(c.RareSymptoms) == 0 {
			errs = append(errs, fmt.Errorf("condition %q: no symptoms", c.Name))
		}
		for _, s := range c.ApplicableSeverities {
			if !s.IsValid() {
				errs = append(errs, fmt.Errorf("condition %q: %w: %q", c.Name, domain.ErrInvalidSeverity, s))
			}
		}
		for _, a := range append(slices.Clone(c.AgeAffinity.MorePrevalentIn), c.AgeAffinity.LessPrevalentIn...) {
			if !a.IsValid() {
				errs = append(errs, fmt.Errorf("condition %q: %w: %q", c.Name, domain.ErrInvalidAgeBracket, a))
			}
		}
		for _, sym := range append(slices.Clone(c.CommonSymptoms), c.RareSymptoms...) {
			if _, ok := b.keys[sym]; !ok {
				errs = append(errs, fmt.Errorf("condition %q: symptom %q is not a canonical key", c.Name, sym))
			}
		}
	}

	return errors.Join(errs...)
}

// Conditions returns the catalog in declaration order. The slice is a copy;
// the records it points to must not be modified.
func (b *Base) Conditions() []*domain.Condition {
	return slices.Clone(b.conditions)
}

// Condition looks a record up by name, ignoring case.
func (b *Base) Condition(name string) (*domain.Condition, bool) {
	c, ok := b.byName[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// ConditionsInCategory returns the records whose category matches, ignoring case.
func (b *Base) ConditionsInCategory(category string) []*domain.Condition {
	var out []*domain.Condition
	for _, c := range b.conditions {
		if strings.EqualFold(c.Category, strings.TrimSpace(category)) {
			out = append(out, c)
		}
	}
	return out
}

// Categories lists distinct categories in first-seen order.
func (b *Base) Categories() []string {
	var out []string
	for _, c := range b.conditions {
		if !slices.Contains(out, c.Category) {
			out = append(out, c.Category)
		}
	}
	return out
}

// Synonyms returns the synonym table in definition order.
func (b *Base) Synonyms() []Synonym {
	out := make([]Synonym, len(b.synonyms))
	for i, s := range b.synonyms {
		out[i] = Synonym{Key: s.Key, Variants: slices.Clone(s.Variants)}
	}
	return out
}

// EachSynonym calls fn for every synonym entry in definition order until fn
// returns false. The variants slice is shared and must not be modified.
func (b *Base) EachSynonym(fn func(key string, variants []string) bool) {
	for _, s := range b.synonyms {
		if !fn(s.Key, s.Variants) {
			return
		}
	}
}

// IsCanonical reports whether key is a canonical symptom key.
func (b *Base) IsCanonical(key string) bool {
	_, ok := b.keys[key]
	return ok
}

// QuickPicks returns the canonical keys offered as one-tap choices on the form.
func (b *Base) QuickPicks() []string {
	n := min(QuickPickCount, len(b.synonyms))
	out := make([]string, 0, n)
	for _, s := range b.synonyms[:n] {
		out = append(out, s.Key)
	}
	return out
}

// Fingerprint identifies the catalog contents. Two bases built from equal
// data have equal fingerprints.
func (b *Base) Fingerprint() string {
	return b.fingerprint
}

func fingerprint(conditions []domain.Condition, synonyms []Synonym) (string, error) {
	data, err := json.Marshal(struct {
		Conditions []domain.Condition `json:"conditions"`
		Synonyms   []Synonym          `json:"synonyms"`
	}{conditions, synonyms})
	if err != nil {
		return "", fmt.Errorf("failed to encode catalog: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:16]), nil
}

func cloneCondition(c domain.Condition) domain.Condition {
	c.CommonSymptoms = slices.Clone(c.CommonSymptoms)
	c.RareSymptoms = slices.Clone(c.RareSymptoms)
	c.AgeAffinity.MorePrevalentIn = slices.Clone(c.AgeAffinity.MorePrevalentIn)
	c.AgeAffinity.LessPrevalentIn = slices.Clone(c.AgeAffinity.LessPrevalentIn)
	c.GenderAffinity.MorePrevalentIn = slices.Clone(c.GenderAffinity.MorePrevalentIn)
	c.ApplicableSeverities = slices.Clone(c.ApplicableSeverities)
	return c
}
