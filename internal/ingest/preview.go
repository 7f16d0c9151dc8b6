package ingest

import (
	"sort"

	"catalog-service/internal/archive"
	"catalog-service/internal/grouping"
	"catalog-service/internal/models"
)

// Preview runs extraction and smart grouping only, producing a dry-run
// summary the caller can confirm before committing to the upload phase.
// Nothing is uploaded or persisted.
func Preview(data []byte) (*models.PreviewResponse, error) {
	result, err := archive.Extract(data)
	if err != nil {
		return nil, err
	}

	groups, keys := grouping.Group(result.Entries, grouping.Options{Smart: true})

	summaries := make([]models.GroupPreview, 0, len(groups))
	for _, key := range keys {
		group := groups[key]

		seen := make(map[string]bool)
		colors := make([]string, 0)
		for _, variant := range group.Variants {
			if variant.Color == "" || variant.Color == models.ColorUnique {
				continue
			}
			if !seen[variant.Color] {
				seen[variant.Color] = true
				colors = append(colors, variant.Color)
			}
		}

		firstImage := ""
		if len(group.Variants) > 0 {
			firstImage = group.Variants[0].FileName
		}

		summaries = append(summaries, models.GroupPreview{
			GroupKey:   key,
			Name:       grouping.DisplayName(group.Model),
			Category:   group.Category,
			ImageCount: len(group.Variants),
			Colors:     colors,
			FirstImage: firstImage,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Category != summaries[j].Category {
			return summaries[i].Category < summaries[j].Category
		}
		return summaries[i].Name < summaries[j].Name
	})

	return &models.PreviewResponse{
		Success:       true,
		TotalImages:   result.TotalImages,
		TotalProducts: len(summaries),
		Groups:        summaries,
	}, nil
}
