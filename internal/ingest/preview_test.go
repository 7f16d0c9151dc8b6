package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/archive"
)

func TestPreview_SummarizesGroups(t *testing.T) {
	data := testZip(t, "vestido_rojo.jpg", "vestido_azul.jpg", "zapatilla_negra.jpg")

	preview, err := Preview(data)
	require.NoError(t, err)

	assert.True(t, preview.Success)
	assert.Equal(t, 3, preview.TotalImages)
	assert.Equal(t, 2, preview.TotalProducts)
	require.Len(t, preview.Groups, 2)

	// Groups come back sorted by category, then name.
	first := preview.Groups[0]
	assert.Equal(t, "Vestidos", first.Category)
	assert.Equal(t, "Vestido", first.Name)
	assert.Equal(t, 2, first.ImageCount)
	assert.Equal(t, []string{"Rojo", "Azul"}, first.Colors)
	assert.Equal(t, "vestido_rojo.jpg", first.FirstImage)

	second := preview.Groups[1]
	assert.Equal(t, "Zapatillas", second.Category)
	assert.Equal(t, "Zapatilla", second.Name)
	assert.Equal(t, []string{"Negra"}, second.Colors)
}

func TestPreview_InvalidArchive(t *testing.T) {
	_, err := Preview([]byte("not a zip"))
	assert.ErrorIs(t, err, archive.ErrInvalidFormat)
}

func TestPreview_NoImages(t *testing.T) {
	// testZip with only unsupported entries yields a valid but empty archive.
	data := testZip(t, "readme.txt")
	_, err := Preview(data)
	assert.ErrorIs(t, err, archive.ErrNoImagesFound)
}
