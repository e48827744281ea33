package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Kariqs/farmers-market-api/apperr"
	"github.com/Kariqs/farmers-market-api/models"
)

func registration(email, userType string) models.Registration {
	return models.Registration{
		Firstname: "Achieng",
		Lastname:  "Mwangi",
		Email:     email,
		PhoneNo:   "0711111111",
		Address:   "Nakuru",
		Password:  "password123",
		UserType:  userType,
	}
}

func TestAccountService_RegisterBuyer(t *testing.T) {
	db := setupDB(t)
	svc := NewAccountService(db, "admin@admin.com", bcrypt.MinCost)

	account, err := svc.Register(context.Background(), registration(" Achieng@Farm.test ", ""))
	require.NoError(t, err)

	assert.NotZero(t, account.ID)
	assert.Equal(t, "achieng@farm.test", account.Email)
	assert.Equal(t, models.RoleBuyer, account.Role)
	assert.Nil(t, account.SellerID)
	assert.NotEqual(t, "password123", account.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.Password), []byte("password123")))
}

func TestAccountService_RegisterSellerCreatesSeller(t *testing.T) {
	db := setupDB(t)
	svc := NewAccountService(db, "admin@admin.com", bcrypt.MinCost)

	account, err := svc.Register(context.Background(), registration("farmer@farm.test", "seller"))
	require.NoError(t, err)

	assert.Equal(t, models.RoleSeller, account.Role)
	require.NotNil(t, account.SellerID)

	var seller models.Seller
	require.NoError(t, db.First(&seller, *account.SellerID).Error)
	assert.Equal(t, "farmer@farm.test", seller.Email)
	assert.Equal(t, "Achieng", seller.Firstname)
}

func TestAccountService_RegisterAdminEmail(t *testing.T) {
	db := setupDB(t)
	svc := NewAccountService(db, "Admin@Admin.com", bcrypt.MinCost)

	account, err := svc.Register(context.Background(), registration("admin@admin.com", "SELLER"))
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, account.Role)
}

func TestAccountService_RegisterDuplicateEmail(t *testing.T) {
	db := setupDB(t)
	svc := NewAccountService(db, "admin@admin.com", bcrypt.MinCost)
	ctx := context.Background()

	_, err := svc.Register(ctx, registration("twice@farm.test", ""))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registration("TWICE@farm.test", "SELLER"))
	assert.ErrorIs(t, err, apperr.ErrConflict)

	var sellers int64
	require.NoError(t, db.Model(&models.Seller{}).Count(&sellers).Error)
	assert.Zero(t, sellers, "a rejected seller registration must not leave a seller row")
}

func TestAccountService_RegisterValidation(t *testing.T) {
	db := setupDB(t)
	svc := NewAccountService(db, "admin@admin.com", bcrypt.MinCost)

	tests := []struct {
		name   string
		mutate func(*models.Registration)
	}{
		{"missing first name", func(r *models.Registration) { r.Firstname = " " }},
		{"missing last name", func(r *models.Registration) { r.Lastname = "" }},
		{"missing email", func(r *models.Registration) { r.Email = "" }},
		{"bad email", func(r *models.Registration) { r.Email = "not-an-email" }},
		{"short password", func(r *models.Registration) { r.Password = "short" }},
		{"unknown role", func(r *models.Registration) { r.UserType = "ADMIN" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := registration("v@farm.test", "")
			tt.mutate(&in)
			_, err := svc.Register(context.Background(), in)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestAccountService_Authenticate(t *testing.T) {
	db := setupDB(t)
	svc := NewAccountService(db, "admin@admin.com", bcrypt.MinCost)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registration("login@farm.test", ""))
	require.NoError(t, err)

	account, err := svc.Authenticate(ctx, "LOGIN@farm.test", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, account.ID)

	_, err = svc.Authenticate(ctx, "login@farm.test", "wrong-password")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	assert.Equal(t, msgInvalidCredentials, apperr.Message(err))

	_, err = svc.Authenticate(ctx, "nobody@farm.test", "password123")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	assert.Equal(t, msgInvalidCredentials, apperr.Message(err))
}

func TestAccountService_Get(t *testing.T) {
	db := setupDB(t)
	svc := NewAccountService(db, "", bcrypt.MinCost)
	buyer := seedBuyer(t, db, "get@farm.test")

	got, err := svc.Get(context.Background(), buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, buyer.Email, got.Email)

	_, err = svc.Get(context.Background(), buyer.ID+100)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
