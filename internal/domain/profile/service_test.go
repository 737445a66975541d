package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/ventilation-store/internal/domain/validation"
	"github.com/your-org/ventilation-store/internal/pkg/logger"
	"github.com/your-org/ventilation-store/internal/testutil"
)

func newTestService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()

	db := testutil.NewDB(t, &Profile{})
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewService(db, client, time.Hour, logger.Discard()), mr
}

func validUpdate() *UpdateRequest {
	return &UpdateRequest{
		FirstNames: "Ana María",
		LastNames:  "Torres Núñez",
		NationalID: "12345678",
		BirthDate:  "1990-04-12",
		Phone:      "987654321",
		Email:      "Ana@Example.com",
	}
}

func TestUpdate_CreatesThenUpdates(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.Get(ctx, userID)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	p, err := svc.Update(ctx, userID, validUpdate())
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", p.Email)
	assert.Equal(t, RoleCustomer, p.Role)
	assert.True(t, mr.Exists("profile:"+userID.String()))

	req := validUpdate()
	req.Phone = "912345678"
	req.PreferredPayment = "PayPal"
	req.Address = AddressRequest{
		Street: "Av. Principal", Number: "123", Department: "Lima",
		City: "Lima", District: "Miraflores", PostalCode: "15074",
	}
	p, err = svc.Update(ctx, userID, req)
	require.NoError(t, err)
	assert.Equal(t, "912345678", p.Phone)
	assert.Equal(t, "paypal", p.PreferredPayment)
	assert.Equal(t, "Miraflores", p.Address.District)

	got, err := svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Ana María Torres Núñez", got.FullName())
}

func TestGet_ServesFromCache(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.Update(ctx, userID, validUpdate())
	require.NoError(t, err)

	// a stale row in the database is not visible while the cache entry lives
	require.NoError(t, svc.db.Model(&Profile{}).Where("user_id = ?", userID).Update("phone", "900000000").Error)

	p, err := svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "987654321", p.Phone)

	mr.FastForward(2 * time.Hour)

	p, err = svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "900000000", p.Phone)
}

func TestGetOrDefault(t *testing.T) {
	svc, _ := newTestService(t)
	userID := uuid.New()

	p, err := svc.GetOrDefault(context.Background(), userID, "New@Example.com")
	require.NoError(t, err)
	assert.Equal(t, userID, p.UserID)
	assert.Equal(t, "new@example.com", p.Email)
	assert.Equal(t, RoleCustomer, p.Role)
}

func TestUpdate_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	req := validUpdate()
	req.NationalID = "1234567"
	req.Address = AddressRequest{Street: "Av"}
	req.PreferredPayment = "cash"

	_, err := svc.Update(context.Background(), uuid.New(), req)

	var verrs *validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "National ID must have 8 digits", verrs.Fields["national_id"])
	assert.Contains(t, verrs.Fields, "street")
	assert.Contains(t, verrs.Fields, "district")
	assert.Contains(t, verrs.Fields, "preferred_payment")
	assert.NotContains(t, verrs.Fields, "reference")
}

func TestCustomers_ExcludeAdmins(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	customer := uuid.New()
	admin := uuid.New()
	require.NoError(t, svc.db.Create(&Profile{UserID: customer, FirstNames: "Ana", LastNames: "Torres", NationalID: "12345678"}).Error)
	require.NoError(t, svc.db.Create(&Profile{UserID: admin, FirstNames: "Root", Role: RoleAdmin}).Error)

	all, err := svc.ListCustomers(ctx, &ListCustomersRequest{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, customer, all[0].UserID)

	found, err := svc.ListCustomers(ctx, &ListCustomersRequest{Search: "1234"})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	count, err := svc.CountCustomers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = svc.UpdateCustomer(ctx, admin, validUpdate())
	assert.ErrorIs(t, err, ErrProfileNotFound)

	updated, err := svc.UpdateCustomer(ctx, customer, validUpdate())
	require.NoError(t, err)
	assert.Equal(t, "Ana María", updated.FirstNames)
}
