package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/models"
)

func buildZip(t *testing.T, files map[string][]byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestValidate_RejectsNonZipPayloads(t *testing.T) {
	assert.ErrorIs(t, Validate([]byte("not a zip at all")), ErrInvalidFormat)
	assert.ErrorIs(t, Validate([]byte{0x50}), ErrInvalidFormat)
	assert.ErrorIs(t, Validate(nil), ErrInvalidFormat)
}

func TestValidate_AcceptsZipHeader(t *testing.T) {
	data := buildZip(t, map[string][]byte{"a.jpg": []byte("x")})
	assert.NoError(t, Validate(data))
}

func TestExtract_ReturnsImageEntries(t *testing.T) {
	data := buildZip(t, map[string][]byte{
		"camisa_azul.jpg": []byte("jpeg-bytes"),
	})

	result, err := Extract(data)
	require.NoError(t, err)
	require.Equal(t, 1, result.TotalImages)

	entry := result.Entries[0]
	assert.Equal(t, "camisa_azul.jpg", entry.FileName)
	assert.Equal(t, "", entry.Folder)
	assert.Equal(t, models.CategoryUncategorized, entry.Category)
	assert.Equal(t, "image/jpeg", entry.MimeType)
	assert.True(t, strings.HasPrefix(entry.DataURI, "data:image/jpeg;base64,"))
	assert.Equal(t, int64(len("jpeg-bytes")), entry.Size)
}

func TestExtract_FolderBecomesCategory(t *testing.T) {
	data := buildZip(t, map[string][]byte{
		"Vestidos/vestido_rojo.png": []byte("png-bytes"),
	})

	result, err := Extract(data)
	require.NoError(t, err)
	require.Equal(t, 1, result.TotalImages)

	entry := result.Entries[0]
	assert.Equal(t, "vestido_rojo.png", entry.FileName)
	assert.Equal(t, "Vestidos", entry.Folder)
	assert.Equal(t, "Vestidos", entry.Category)
	assert.Equal(t, "image/png", entry.MimeType)
}

func TestExtract_SkipsSystemArtifactsAndNonImages(t *testing.T) {
	data := buildZip(t, map[string][]byte{
		"camisa_azul.jpg":       []byte("ok"),
		"__MACOSX/._camisa.jpg": []byte("resource fork"),
		".DS_Store":             []byte("finder"),
		".hidden.jpg":           []byte("hidden"),
		"notas.txt":             []byte("text"),
		"catalogo.pdf":          []byte("pdf"),
	})

	result, err := Extract(data)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalImages)
	assert.Equal(t, "camisa_azul.jpg", result.Entries[0].FileName)
}

func TestExtract_SupportedExtensions(t *testing.T) {
	data := buildZip(t, map[string][]byte{
		"a.jpg":  []byte("1"),
		"b.jpeg": []byte("2"),
		"c.png":  []byte("3"),
		"d.webp": []byte("4"),
		"e.gif":  []byte("5"), // unsupported
	})

	result, err := Extract(data)
	require.NoError(t, err)
	assert.Equal(t, 4, result.TotalImages)
}

func TestExtract_NoImagesFound(t *testing.T) {
	data := buildZip(t, map[string][]byte{
		"readme.txt": []byte("nothing to see"),
	})

	_, err := Extract(data)
	assert.ErrorIs(t, err, ErrNoImagesFound)
}

func TestExtract_InvalidArchive(t *testing.T) {
	_, err := Extract([]byte("garbage payload"))
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestExtract_SkipsOversizedMembers(t *testing.T) {
	data := buildZip(t, map[string][]byte{
		"enorme.jpg": bytes.Repeat([]byte{0}, MaxFileSize+1),
		"normal.jpg": []byte("small"),
	})

	result, err := Extract(data)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalImages)
	assert.Equal(t, "normal.jpg", result.Entries[0].FileName)
}

func TestExtract_CapsAtMaxImages(t *testing.T) {
	files := make(map[string][]byte, MaxImages+10)
	for i := 0; i < MaxImages+10; i++ {
		files[fmt.Sprintf("img_%03d.jpg", i)] = []byte("img")
	}
	data := buildZip(t, files)

	result, err := Extract(data)
	require.NoError(t, err)
	assert.Equal(t, MaxImages, result.TotalImages)
}
