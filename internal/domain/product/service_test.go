package product

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/ventilation-store/internal/domain/inventory"
	"github.com/your-org/ventilation-store/internal/domain/validation"
	"github.com/your-org/ventilation-store/internal/testutil"
)

func newTestService(t *testing.T) *Service {
	return NewService(testutil.NewDB(t, &Product{}, &inventory.Movement{}))
}

func validCreate() *CreateRequest {
	return &CreateRequest{
		Name:     "Ceiling fan LED",
		Category: "Ventiladores",
		Model:    "VT-52",
		Brand:    "Bosch",
		Price:    decimal.RequireFromString("1200.00"),
		Stock:    4,
	}
}

func TestCreateAndGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ceiling fan LED", got.Name)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("1200")))
	assert.Equal(t, 4, got.Stock)
}

func TestCreate_ValidationErrors(t *testing.T) {
	svc := newTestService(t)

	req := validCreate()
	req.Brand = " "
	req.Price = decimal.Zero
	req.Stock = -1

	_, err := svc.Create(context.Background(), req)

	var verr *validation.Errors
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "brand")
	assert.Contains(t, verr.Fields, "price")
	assert.Contains(t, verr.Fields, "stock")
	assert.NotContains(t, verr.Fields, "name")
}

func TestUpdate_Partial(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	stock := 10
	updated, err := svc.Update(ctx, created.ID, &UpdateRequest{Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Stock)
	assert.Equal(t, "Bosch", updated.Brand)

	negative := -3
	_, err = svc.Update(ctx, created.ID, &UpdateRequest{Stock: &negative})
	require.Error(t, err)
}

func TestGetAndDelete_NotFound(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, 99)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 99), ErrProductNotFound)
}

func TestList_FiltersAndPaginates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Wall extractor", "Bathroom extractor", "Pedestal fan"} {
		req := validCreate()
		req.Name = name
		if name == "Pedestal fan" {
			req.Category = "Ventiladores"
			req.Stock = 0
		} else {
			req.Category = "Extractores"
		}
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	res, err := svc.List(ctx, &ListRequest{Category: "extractores", Limit: 1, Page: 1})
	require.NoError(t, err)
	assert.Len(t, res.Products, 1)
	assert.Equal(t, int64(2), res.Pagination.Total)
	assert.True(t, res.Pagination.HasNext)

	res, err = svc.List(ctx, &ListRequest{Search: "FAN", InStock: true})
	require.NoError(t, err)
	assert.Empty(t, res.Products)

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestBuildOrderClause(t *testing.T) {
	assert.Equal(t, "price asc", buildOrderClause("price", "asc"))
	assert.Equal(t, "created_at desc", buildOrderClause("drop table", "sideways"))
}

func TestStockCeilingLowStockAndCategories(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i, stock := range []int{0, 2, 40} {
		req := validCreate()
		req.Name = []string{"Fan A", "Fan B", "Fan C"}[i]
		req.Category = []string{"Fans", "Fans", "Extractors"}[i]
		req.Stock = stock
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	ceiling, err := svc.StockCeiling(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, ceiling)

	_, err = svc.StockCeiling(ctx, 404)
	assert.ErrorIs(t, err, ErrProductNotFound)

	low, err := svc.LowStock(ctx, 5, 10)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "Fan A", low[0].Name)

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Extractors", "Fans"}, categories)
}

func TestStockChangesAreRecorded(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	stock := created.Stock + 4
	_, err = svc.Update(ctx, created.ID, &UpdateRequest{Stock: &stock})
	require.NoError(t, err)

	name := "Renamed"
	_, err = svc.Update(ctx, created.ID, &UpdateRequest{Name: &name})
	require.NoError(t, err)

	history, err := inventory.NewService(svc.db).History(ctx, created.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 2, "renames do not touch the ledger")
	assert.Equal(t, inventory.ReasonAdjustment, history[0].Reason)
	assert.Equal(t, 4, history[0].Delta())
	assert.Equal(t, stock, history[0].NewQuantity)
	assert.Equal(t, inventory.ReasonInitial, history[1].Reason)
}
