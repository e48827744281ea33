package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Kariqs/farmers-market-api/models"
	"github.com/Kariqs/farmers-market-api/testutil"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.OpenDB(t)
}

func seedSeller(t *testing.T, db *gorm.DB, email string) models.Seller {
	t.Helper()
	seller := models.Seller{Firstname: "Amina", Lastname: "Otieno", Email: email, PhoneNo: "0700000000"}
	require.NoError(t, db.Omit(clause.Associations).Create(&seller).Error)
	return seller
}

func seedProduct(t *testing.T, db *gorm.DB, sellerID uint, name string, price float64) models.StockItem {
	t.Helper()
	category, err := findOrCreateCategory(db, "Vegetables")
	require.NoError(t, err)

	item := models.StockItem{SellerID: sellerID, CategoryID: category.ID, Name: name, Quantity: 50, Price: price}
	require.NoError(t, db.Omit(clause.Associations).Create(&item).Error)
	return item
}

func seedBuyer(t *testing.T, db *gorm.DB, email string) models.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	account := models.Account{Firstname: "Juma", Lastname: "Kamau", Email: email, Password: string(hash), Role: models.RoleBuyer}
	require.NoError(t, db.Omit(clause.Associations).Create(&account).Error)
	return account
}
