package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GuestCart is the cart of a visitor who has not signed in. Its id is the
// value carried in the signed guest cart cookie.
type GuestCart struct {
	ID        string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `gorm:"index" json:"updated_at"`
	Items     []GuestCartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
}

// GuestCartItem is one line of a guest cart. Position keeps the order in
// which variants were first added.
type GuestCartItem struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	CartID          string          `gorm:"type:varchar(36);not null;uniqueIndex:idx_guest_cart_items_cart_variant,priority:1" json:"cart_id"`
	Position        int             `gorm:"not null" json:"position"`
	VariantID       int64           `gorm:"not null;uniqueIndex:idx_guest_cart_items_cart_variant,priority:2" json:"variant_id"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	ProductID       int64           `json:"product_id"`
	ProductName     string          `gorm:"type:varchar(255)" json:"product_name"`
	ProductImageURL string          `gorm:"type:varchar(512)" json:"product_image_url"`
	Price           decimal.Decimal `gorm:"type:decimal(15,2)" json:"price"`
	Discount        int             `json:"discount"`
	Color           string          `gorm:"type:varchar(100)" json:"color"`
	Size            string          `gorm:"type:varchar(20)" json:"size"`
}
