// Package grouping infers product groups, color variants and categories
// from image filenames.
package grouping

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"catalog-service/internal/models"
)

var (
	separators = regexp.MustCompile(`[-_.]`)
	spaces     = regexp.MustCompile(`\s+`)

	stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	// Lookup sets precomputed over normalized forms so accented table
	// entries match their stripped counterparts.
	colorSet       map[string]bool
	compoundSet    map[string]bool
	typeCategories map[string]string
)

func init() {
	colorSet = make(map[string]bool, len(colorWords))
	for _, c := range colorWords {
		colorSet[Normalize(c)] = true
	}
	compoundSet = make(map[string]bool, len(compoundColors))
	for _, c := range compoundColors {
		compoundSet[Normalize(c)] = true
	}
	typeCategories = make(map[string]string, len(productTypeToCategory))
	for t, category := range productTypeToCategory {
		typeCategories[Normalize(t)] = category
	}
}

// Normalize lowercases a name, strips diacritics and collapses the
// `-`, `_`, `.` separators and repeated whitespace into single spaces.
func Normalize(s string) string {
	s = strings.ToLower(s)
	if stripped, _, err := transform.String(stripAccents, s); err == nil {
		s = stripped
	}
	s = separators.ReplaceAllString(s, " ")
	s = spaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Capitalize upper-cases the first letter of every word.
func Capitalize(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// ExtractColor detects a color label anchored at the end of a filename.
// It tries two-word compound colors first, then a single trailing color,
// then a single color anywhere within the last three tokens. The matched
// tokens are removed to produce the base model name; when nothing matches
// the color is empty and the base name is the full normalized input.
func ExtractColor(fileName string) (baseName, color string) {
	normalized := Normalize(fileName)
	words := strings.Fields(normalized)

	if len(words) >= 2 {
		lastTwo := strings.Join(words[len(words)-2:], " ")
		if compoundSet[lastTwo] {
			base := strings.Join(words[:len(words)-2], " ")
			if base == "" {
				base = normalized
			}
			return base, Capitalize(lastTwo)
		}
	}

	if len(words) >= 1 {
		last := words[len(words)-1]
		if colorSet[last] {
			base := strings.Join(words[:len(words)-1], " ")
			if base == "" {
				base = normalized
			}
			return base, Capitalize(last)
		}
	}

	// Less precise: a color hidden among the last three tokens.
	limit := len(words) - 3
	if limit < 0 {
		limit = 0
	}
	for i := len(words) - 1; i >= limit; i-- {
		if colorSet[words[i]] {
			rest := make([]string, 0, len(words)-1)
			rest = append(rest, words[:i]...)
			rest = append(rest, words[i+1:]...)
			base := strings.Join(rest, " ")
			if base == "" {
				base = normalized
			}
			return base, Capitalize(words[i])
		}
	}

	return normalized, ""
}

// ExtractCategory infers a catalog category from a product display name,
// checking the first two tokens against the type→category table and
// otherwise pluralizing the first token.
func ExtractCategory(productName string) string {
	if productName == "" {
		return models.CategoryGeneral
	}

	words := strings.Fields(Normalize(productName))
	for i := 0; i < len(words) && i < 2; i++ {
		if category, ok := typeCategories[words[i]]; ok {
			return category
		}
	}

	if len(words) > 0 && len([]rune(words[0])) > 2 {
		first := words[0]
		last := first[len(first)-1]
		var plural string
		switch last {
		case 'a', 'e', 'i', 'o', 'u':
			plural = first + "s"
		default:
			plural = first + "es"
		}
		return Capitalize(plural)
	}

	return models.CategoryGeneral
}

// Options controls how images are merged into product groups.
type Options struct {
	// Smart merges same-model, different-color files into one group.
	// When disabled every image becomes its own single-variant group.
	Smart bool
	// CategoryOverride, when set, replaces the inferred category on every
	// group after grouping keys have been computed.
	CategoryOverride string
}

// GroupKey builds the smart-mode grouping key for a category/model pair.
func GroupKey(category, model string) string {
	key := strings.ToUpper(category + "-" + model)
	return spaces.ReplaceAllString(key, "_")
}

// Group merges extracted images into product groups keyed by category and
// base model name. The returned keys slice preserves first-seen order so
// downstream passes stay deterministic.
func Group(entries []models.ImageEntry, opts Options) (map[string]*models.ProductGroup, []string) {
	groups := make(map[string]*models.ProductGroup)
	keys := make([]string, 0)

	for i, entry := range entries {
		cleanName := strings.TrimSuffix(entry.FileName, pathExt(entry.FileName))

		var category, model, color string
		if opts.Smart {
			model, color = ExtractColor(cleanName)
			if color == "" {
				color = models.ColorUnique
			}

			if entry.Category != "" && entry.Category != models.CategoryUncategorized {
				category = entry.Category
			} else {
				displayName := strings.NewReplacer("-", " ", "_", " ").Replace(model)
				category = ExtractCategory(displayName)
			}
		} else {
			category = models.CategoryGeneral
			if entry.Category != models.CategoryUncategorized {
				category = entry.Category
			}
			model = cleanName
			color = models.ColorUnique
		}

		if opts.CategoryOverride != "" {
			category = opts.CategoryOverride
		}

		var key string
		if opts.Smart {
			key = GroupKey(category, model)
		} else {
			// Deterministic per-item token keeps every image in its own
			// group without the original's randomized keys.
			key = fmt.Sprintf("%s-%s-%d", category, model, i)
		}

		group, ok := groups[key]
		if !ok {
			group = &models.ProductGroup{
				Category: category,
				Model:    model,
				Variants: make([]*models.Variant, 0, 1),
			}
			groups[key] = group
			keys = append(keys, key)
		}

		group.Variants = append(group.Variants, &models.Variant{
			Color:     color,
			FileName:  entry.FileName,
			CleanName: cleanName,
			DataURI:   entry.DataURI,
		})
	}

	return groups, keys
}

// DisplayName converts a base model name into a human-facing product name.
func DisplayName(model string) string {
	name := strings.NewReplacer("-", " ", "_", " ").Replace(model)
	name = spaces.ReplaceAllString(name, " ")
	return Capitalize(strings.TrimSpace(name))
}

func pathExt(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx:]
	}
	return ""
}
