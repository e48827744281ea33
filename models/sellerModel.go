package models

import "time"

type Seller struct {
	ID         uint        `json:"farmerId" gorm:"primaryKey"`
	Firstname  string      `json:"firstname" gorm:"size:100;not null"`
	Lastname   string      `json:"lastname" gorm:"size:100"`
	Email      string      `json:"email" gorm:"size:191;uniqueIndex;not null"`
	PhoneNo    string      `json:"phoneNo" gorm:"size:32"`
	Address    string      `json:"address"`
	StockItems []StockItem `json:"-" gorm:"foreignKey:SellerID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// SellerProfileUpdate only overwrites the fields that are present.
type SellerProfileUpdate struct {
	Firstname *string `json:"firstname" binding:"omitempty,min=1"`
	Lastname  *string `json:"lastname"`
	Email     *string `json:"email" binding:"omitempty,email"`
	PhoneNo   *string `json:"phoneNo"`
	Address   *string `json:"address"`
}

type SellerStats struct {
	TotalProducts     int64   `json:"totalProducts"`
	TotalOrders       int64   `json:"totalOrders"`
	TotalQuantitySold int64   `json:"totalQuantitySold"`
	TotalRevenue      float64 `json:"totalRevenue"`
	UniqueBuyers      int64   `json:"uniqueBuyers"`
}

// SaleLine is one order line sold by a seller, flattened with its order.
type SaleLine struct {
	ID             uint      `json:"id"`
	OrderID        uint      `json:"orderId"`
	OrderReference string    `json:"orderReference"`
	ProductID      uint      `json:"productId"`
	Item           string    `json:"item"`
	Quantity       int       `json:"quantity"`
	Amount         float64   `json:"amount"`
	BuyerID        uint      `json:"buyerId"`
	PlacedAt       time.Time `json:"placedAt"`
	DeliveryStatus bool      `json:"deliveryStatus"`
}
