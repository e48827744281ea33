package models

import "time"

type Category struct {
	ID   uint   `json:"categoryId" gorm:"primaryKey"`
	Name string `json:"categoryName" gorm:"size:100;uniqueIndex;not null"`
}

type StockItem struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	SellerID   uint      `json:"farmerId" gorm:"index;not null"`
	CategoryID uint      `json:"-" gorm:"index;not null"`
	Category   Category  `json:"category" gorm:"constraint:OnDelete:RESTRICT"`
	Name       string    `json:"stockItem" gorm:"size:100;not null"`
	Quantity   int       `json:"quantity" gorm:"not null"`
	Price      float64   `json:"pricePerUnit" gorm:"not null"`
	ImagePath  string    `json:"imagePath"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type NewStockItem struct {
	Name         string  `json:"stockItem" binding:"required"`
	Quantity     int     `json:"quantity" binding:"gte=0"`
	Price        float64 `json:"pricePerUnit" binding:"required,gt=0"`
	CategoryName string  `json:"categoryName" binding:"required"`
	ImagePath    string  `json:"imagePath"`
}

// StockItemUpdate only overwrites the fields that are present.
type StockItemUpdate struct {
	Name         *string  `json:"stockItem" binding:"omitempty,min=1"`
	Quantity     *int     `json:"quantity" binding:"omitempty,gte=0"`
	Price        *float64 `json:"pricePerUnit" binding:"omitempty,gt=0"`
	CategoryName *string  `json:"categoryName" binding:"omitempty,min=1"`
	ImagePath    *string  `json:"imagePath"`
}
