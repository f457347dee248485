package fulfillment

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hieudt/brewstock/internal/availability"
	"github.com/hieudt/brewstock/internal/domain"
	"github.com/hieudt/brewstock/internal/ingredient"
	"github.com/hieudt/brewstock/internal/repository"
	"github.com/hieudt/brewstock/internal/storage"
)

// stubRecipes resolves recipes from a fixed product map.
type stubRecipes struct {
	byProduct map[string]domain.Recipe
}

func (s *stubRecipes) GetByProductID(ctx context.Context, productID string) (*domain.Recipe, error) {
	rec, ok := s.byProduct[productID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// newTestAdapter wires a fulfillment adapter over a real in-memory ledger so
// the tests observe actual stock movement.
func newTestAdapter(t *testing.T, ingredients []domain.Ingredient, recipes map[string]domain.Recipe) (Service, ingredient.Service) {
	t.Helper()
	store := storage.NewMemoryStore()
	ingredientRepo := repository.NewKVIngredient(store)
	require.NoError(t, ingredientRepo.ReplaceAll(context.Background(), ingredients))

	ledger := ingredient.NewService(ingredientRepo, repository.NewKVRecipe(store))
	resolver := &stubRecipes{byProduct: recipes}
	checker := availability.NewChecker(resolver, ledger)
	return NewService(resolver, ledger, checker), ledger
}

func stockOf(t *testing.T, ledger ingredient.Service, id string) decimal.Decimal {
	t.Helper()
	ing, err := ledger.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, ing)
	return ing.Stock
}

// scenarioFixture: A (stock 10) and B (stock 5), product p1 consuming
// 2 x A and 1 x B per unit.
func scenarioFixture(t *testing.T) (Service, ingredient.Service) {
	return newTestAdapter(t,
		[]domain.Ingredient{
			{ID: "ing-a", Name: "A", Unit: "g", Stock: dec("10"), Active: true},
			{ID: "ing-b", Name: "B", Unit: "ml", Stock: dec("5"), Active: true},
		},
		map[string]domain.Recipe{
			"p1": {ID: "r1", ProductID: "p1", Ingredients: []domain.RecipeLine{
				{IngredientID: "ing-a", Quantity: dec("2")},
				{IngredientID: "ing-b", Quantity: dec("1")},
			}},
		})
}

func TestExportOrderDeductsAllLines(t *testing.T) {
	svc, ledger := scenarioFixture(t)
	ctx := context.Background()

	result, err := svc.ExportOrder(ctx, []domain.LineItem{{ProductID: "p1", Quantity: 3}}, ModeBestEffort)
	require.NoError(t, err)
	assert.True(t, result.Success)

	assert.True(t, stockOf(t, ledger, "ing-a").Equal(dec("4")))
	assert.True(t, stockOf(t, ledger, "ing-b").Equal(dec("2")))
}

func TestExportOrderInsufficientStock(t *testing.T) {
	svc, ledger := scenarioFixture(t)
	ctx := context.Background()

	// Quantity 10 needs A:20 and B:10, both over stock.
	result, err := svc.ExportOrder(ctx, []domain.LineItem{{ProductID: "p1", Quantity: 10}}, ModeBestEffort)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "not enough stock")

	assert.True(t, stockOf(t, ledger, "ing-a").Equal(dec("10")))
	assert.True(t, stockOf(t, ledger, "ing-b").Equal(dec("5")))
}

// Each ingredient's deduction is evaluated independently in best-effort
// mode: when A covers the order but B does not, A is still deducted and
// stays deducted. Callers that need all-or-nothing use atomic mode.
func TestExportOrderPartialDeduction(t *testing.T) {
	svc, ledger := newTestAdapter(t,
		[]domain.Ingredient{
			{ID: "ing-a", Name: "A", Unit: "g", Stock: dec("10"), Active: true},
			{ID: "ing-b", Name: "B", Unit: "ml", Stock: dec("1"), Active: true},
		},
		map[string]domain.Recipe{
			"p1": {ID: "r1", ProductID: "p1", Ingredients: []domain.RecipeLine{
				{IngredientID: "ing-a", Quantity: dec("2")},
				{IngredientID: "ing-b", Quantity: dec("1")},
			}},
		})
	ctx := context.Background()

	// Quantity 2 needs A:4 (covered) and B:2 (short by one).
	result, err := svc.ExportOrder(ctx, []domain.LineItem{{ProductID: "p1", Quantity: 2}}, ModeBestEffort)
	require.NoError(t, err)
	assert.False(t, result.Success)

	assert.True(t, stockOf(t, ledger, "ing-a").Equal(dec("6")), "A is deducted even though B failed")
	assert.True(t, stockOf(t, ledger, "ing-b").Equal(dec("1")), "the failing line is untouched")
}

func TestExportOrderAtomicMode(t *testing.T) {
	svc, ledger := scenarioFixture(t)
	ctx := context.Background()

	result, err := svc.ExportOrder(ctx, []domain.LineItem{{ProductID: "p1", Quantity: 10}}, ModeAtomic)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "not enough stock")

	// The pre-check refused the order before any deduction.
	assert.True(t, stockOf(t, ledger, "ing-a").Equal(dec("10")))
	assert.True(t, stockOf(t, ledger, "ing-b").Equal(dec("5")))

	result, err = svc.ExportOrder(ctx, []domain.LineItem{{ProductID: "p1", Quantity: 3}}, ModeAtomic)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, stockOf(t, ledger, "ing-a").Equal(dec("4")))
}

func TestExportLineItemNoRecipe(t *testing.T) {
	svc, _ := scenarioFixture(t)

	result, err := svc.ExportLineItem(context.Background(), "gift-card", 2)
	require.NoError(t, err)
	assert.True(t, result.Success, "untracked products succeed trivially")
	assert.Contains(t, result.Message, "no recipe")
}

func TestExportLineItemDefaultsQuantityToOne(t *testing.T) {
	svc, ledger := scenarioFixture(t)

	result, err := svc.ExportLineItem(context.Background(), "p1", 0)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, stockOf(t, ledger, "ing-a").Equal(dec("8")), "zero quantity counts as one unit")
}

func TestExportLineItemLowStockWarning(t *testing.T) {
	svc, _ := newTestAdapter(t,
		[]domain.Ingredient{
			{ID: "ing-a", Name: "A", Unit: "g", Stock: dec("10"), MinStock: dec("8"), Active: true},
		},
		map[string]domain.Recipe{
			"p1": {ID: "r1", ProductID: "p1", Ingredients: []domain.RecipeLine{
				{IngredientID: "ing-a", Quantity: dec("3")},
			}},
		})

	result, err := svc.ExportLineItem(context.Background(), "p1", 1)
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "running low")
}

func TestExportOrderEmpty(t *testing.T) {
	svc, _ := scenarioFixture(t)

	result, err := svc.ExportOrder(context.Background(), nil, ModeBestEffort)
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestRestockOrder(t *testing.T) {
	svc, ledger := scenarioFixture(t)
	ctx := context.Background()

	result, err := svc.ExportOrder(ctx, []domain.LineItem{{ProductID: "p1", Quantity: 3}}, ModeBestEffort)
	require.NoError(t, err)
	require.True(t, result.Success)

	// Cancelling the order puts the consumption back.
	result, err = svc.RestockOrder(ctx, []domain.LineItem{{ProductID: "p1", Quantity: 3}})
	require.NoError(t, err)
	assert.True(t, result.Success)

	assert.True(t, stockOf(t, ledger, "ing-a").Equal(dec("10")))
	assert.True(t, stockOf(t, ledger, "ing-b").Equal(dec("5")))
}

func TestRestockOrderSkipsProductsWithoutRecipe(t *testing.T) {
	svc, _ := scenarioFixture(t)

	result, err := svc.RestockOrder(context.Background(), []domain.LineItem{
		{ProductID: "gift-card", Quantity: 1},
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
}
