package initializers

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/Kariqs/farmers-market-api/models"
)

// SyncDatabase migrates parents before children so foreign keys resolve.
func SyncDatabase(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Seller{},
		&models.Category{},
		&models.StockItem{},
		&models.Account{},
		&models.Order{},
		&models.OrderLine{},
	)
	if err != nil {
		return err
	}
	slog.Debug("database schema synced")
	return nil
}
