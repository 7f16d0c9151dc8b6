package ingest

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"catalog-service/internal/models"
)

// Store is the persistence surface the pipeline needs: category lookup and
// conditional insert, plus product creation during the saving phase.
type Store interface {
	ListCategories(ctx context.Context, tenantID string) ([]models.Category, error)
	CreateCategory(ctx context.Context, tenantID string, category *models.Category) error
	CreateProduct(ctx context.Context, tenantID string, product *models.Product) error
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9-]`)

// CategorySlug derives a URL slug from a category name.
func CategorySlug(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " ", "-")
	return nonSlugChars.ReplaceAllString(slug, "")
}

// ReconcileCategories makes sure every non-sentinel category inferred during
// grouping exists in the tenant's store, creating missing ones, and then
// rewrites each group's label to the canonical stored casing so near
// duplicates like "Zapatillas" vs "zapatillas" never appear side by side.
// Running it twice with the same input set creates nothing new.
func ReconcileCategories(ctx context.Context, store Store, tenantID string, groups map[string]*models.ProductGroup) error {
	inferred := make(map[string]string) // lower -> as inferred
	for _, group := range groups {
		if isSentinelCategory(group.Category) {
			continue
		}
		inferred[strings.ToLower(group.Category)] = group.Category
	}
	if len(inferred) == 0 {
		return nil
	}

	current, err := store.ListCategories(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}

	existing := make(map[string]bool, len(current))
	for _, c := range current {
		existing[strings.ToLower(c.Name)] = true
	}

	created := 0
	for lower, name := range inferred {
		if existing[lower] {
			continue
		}
		category := &models.Category{
			Name: name,
			Slug: CategorySlug(name),
		}
		if err := store.CreateCategory(ctx, tenantID, category); err != nil {
			return fmt.Errorf("failed to create category %q: %w", name, err)
		}
		created++
	}

	if created > 0 {
		current, err = store.ListCategories(ctx, tenantID)
		if err != nil {
			return fmt.Errorf("failed to reload categories: %w", err)
		}
	}

	canonical := make(map[string]string, len(current))
	for _, c := range current {
		canonical[strings.ToLower(c.Name)] = c.Name
	}

	for _, group := range groups {
		if isSentinelCategory(group.Category) {
			continue
		}
		if official, ok := canonical[strings.ToLower(group.Category)]; ok {
			group.Category = official
		}
	}

	return nil
}

func isSentinelCategory(name string) bool {
	return name == "" || name == models.CategoryUncategorized || name == models.CategoryGeneral
}
