package models

import (
	"time"

	"gorm.io/datatypes"
)

type Order struct {
	ID             uint           `json:"orderId" gorm:"primaryKey"`
	Reference      string         `json:"reference" gorm:"size:36;uniqueIndex;not null"`
	AccountID      uint           `json:"userId" gorm:"index;not null"`
	Account        Account        `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	PlacedAt       time.Time      `json:"placeOrderDate" gorm:"not null"`
	DeliveryDate   time.Time      `json:"deliveryDate" gorm:"not null"`
	PaymentStatus  bool           `json:"paymentStatus"`
	DeliveryStatus bool           `json:"deliveryStatus"`
	Total          float64        `json:"total"`
	PaymentDetails datatypes.JSON `json:"paymentDetails,omitempty"`
	Lines          []OrderLine    `json:"orderDetails" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderLine copies the item name and amount so that later catalog changes
// never alter it. ProductID is informational and carries no foreign key.
type OrderLine struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	OrderID   uint    `json:"orderId" gorm:"index;not null"`
	ProductID uint    `json:"productId"`
	Item      string  `json:"orderItem" gorm:"size:100;not null"`
	Quantity  int     `json:"quantity" gorm:"not null"`
	Amount    float64 `json:"amount" gorm:"not null"`
	SellerID  uint    `json:"farmerId" gorm:"index;not null"`
	Seller    Seller  `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
}
