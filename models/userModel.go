package models

import "time"

const (
	RoleBuyer  = "BUYER"
	RoleSeller = "SELLER"
	RoleAdmin  = "ADMIN"
)

type Account struct {
	ID        uint      `json:"userId" gorm:"primaryKey"`
	Firstname string    `json:"firstname" gorm:"size:100;not null"`
	Lastname  string    `json:"lastname" gorm:"size:100"`
	Email     string    `json:"email" gorm:"size:191;uniqueIndex;not null"`
	PhoneNo   string    `json:"phoneNo" gorm:"size:32"`
	Address   string    `json:"address"`
	Password  string    `json:"-" gorm:"not null"`
	Role      string    `json:"userType" gorm:"size:16;not null"`
	SellerID  *uint     `json:"farmerId,omitempty"`
	Seller    *Seller   `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Registration struct {
	Firstname string `json:"firstname" binding:"required"`
	Lastname  string `json:"lastname" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	PhoneNo   string `json:"phoneNo"`
	Address   string `json:"address"`
	Password  string `json:"password" binding:"required,min=8"`
	UserType  string `json:"userType" binding:"omitempty,oneof=BUYER SELLER buyer seller"`
}

type LoginData struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
