package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"catalog-service/internal/models"
)

// MockStore is a mock implementation of the Store interface
type MockStore struct {
	mock.Mock
}

var _ Store = (*MockStore)(nil)

func (m *MockStore) ListCategories(ctx context.Context, tenantID string) ([]models.Category, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockStore) CreateCategory(ctx context.Context, tenantID string, category *models.Category) error {
	args := m.Called(ctx, tenantID, category)
	return args.Error(0)
}

func (m *MockStore) CreateProduct(ctx context.Context, tenantID string, product *models.Product) error {
	args := m.Called(ctx, tenantID, product)
	return args.Error(0)
}

func TestCategorySlug(t *testing.T) {
	assert.Equal(t, "camisas", CategorySlug("Camisas"))
	assert.Equal(t, "ropa-de-verano", CategorySlug("Ropa de Verano"))
	assert.Equal(t, "sin-categora", CategorySlug("Sin Categoría"))
}

func TestReconcileCategories_CreatesMissing(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant-123"

	mockStore := new(MockStore)
	mockStore.On("ListCategories", ctx, tenantID).
		Return([]models.Category{{Name: "Camisas"}}, nil).Once()
	mockStore.On("CreateCategory", ctx, tenantID, mock.MatchedBy(func(c *models.Category) bool {
		return c.Name == "Vestidos" && c.Slug == "vestidos"
	})).Return(nil).Once()
	mockStore.On("ListCategories", ctx, tenantID).
		Return([]models.Category{{Name: "Camisas"}, {Name: "Vestidos"}}, nil).Once()

	groups := map[string]*models.ProductGroup{
		"k1": {Category: "Camisas", Model: "camisa"},
		"k2": {Category: "Vestidos", Model: "vestido"},
	}

	err := ReconcileCategories(ctx, mockStore, tenantID, groups)

	assert.NoError(t, err)
	mockStore.AssertExpectations(t)
}

func TestReconcileCategories_IdempotentWhenAllExist(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant-123"

	mockStore := new(MockStore)
	mockStore.On("ListCategories", ctx, tenantID).
		Return([]models.Category{{Name: "Camisas"}, {Name: "Vestidos"}}, nil).Once()

	groups := map[string]*models.ProductGroup{
		"k1": {Category: "Camisas"},
		"k2": {Category: "Vestidos"},
	}

	err := ReconcileCategories(ctx, mockStore, tenantID, groups)

	assert.NoError(t, err)
	mockStore.AssertNotCalled(t, "CreateCategory", mock.Anything, mock.Anything, mock.Anything)
	mockStore.AssertExpectations(t)
}

func TestReconcileCategories_CanonicalizesCasing(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant-123"

	mockStore := new(MockStore)
	mockStore.On("ListCategories", ctx, tenantID).
		Return([]models.Category{{Name: "Zapatillas"}}, nil).Once()

	groups := map[string]*models.ProductGroup{
		"k1": {Category: "zapatillas"},
	}

	err := ReconcileCategories(ctx, mockStore, tenantID, groups)

	assert.NoError(t, err)
	assert.Equal(t, "Zapatillas", groups["k1"].Category)
	mockStore.AssertNotCalled(t, "CreateCategory", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcileCategories_SkipsSentinels(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant-123"

	mockStore := new(MockStore)

	groups := map[string]*models.ProductGroup{
		"k1": {Category: models.CategoryGeneral},
		"k2": {Category: models.CategoryUncategorized},
		"k3": {Category: ""},
	}

	err := ReconcileCategories(ctx, mockStore, tenantID, groups)

	// Sentinel-only input never touches the store at all.
	assert.NoError(t, err)
	mockStore.AssertNotCalled(t, "ListCategories", mock.Anything, mock.Anything)
}

func TestReconcileCategories_PropagatesListError(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant-123"

	mockStore := new(MockStore)
	mockStore.On("ListCategories", ctx, tenantID).
		Return(nil, errors.New("db down")).Once()

	groups := map[string]*models.ProductGroup{
		"k1": {Category: "Camisas"},
	}

	err := ReconcileCategories(ctx, mockStore, tenantID, groups)
	assert.Error(t, err)
}
