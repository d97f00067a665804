package service

import (
	"strings"

	"github.com/symptom-checker-server/internal/knowledge"
)

// NormalizeSymptom maps a free-text symptom label to its canonical key.
//
// The label is lower-cased and trimmed. An exact canonical key wins; otherwise
// the synonym table is scanned in definition order and the first key with a
// variant that contains the label, or is contained in it, is returned. Labels
// that match nothing come back normalized but otherwise unchanged, and so
// never match a condition. Blank labels normalize to "".
func NormalizeSymptom(kb *knowledge.Base, label string) string {
	normalized := strings.ToLower(strings.TrimSpace(label))
	if normalized == "" {
		return ""
	}
	if kb.IsCanonical(normalized) {
		return normalized
	}

	match := normalized
	kb.EachSynonym(func(key string, variants []string) bool {
		for _, variant := range variants {
			if strings.Contains(variant, normalized) || strings.Contains(normalized, variant) {
				match = key
				return false
			}
		}
		return true
	})
	return match
}

// NormalizeSymptoms normalizes every label, keeping order and duplicates.
func NormalizeSymptoms(kb *knowledge.Base, labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		out = append(out, NormalizeSymptom(kb, label))
	}
	return out
}
