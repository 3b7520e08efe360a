package model

import (
	"time"

	"github.com/shopspring/decimal"
)

var ALL_RESTAURANT_TABLES []interface{} = []interface{}{
	User{}, AuthToken{}, Customer{}, Table{}, MenuItem{}, Order{}, OrderItem{},
}

// User holds login credentials for API access. Password stores a bcrypt
// hash, never the plaintext.
type User struct {
	ID        uint      `json:"id" gorm:"auto_increment;primary_key"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"index;unique;not null"`
	Password  string    `json:"-" gorm:"not null"`
	CreatedAt time.Time `json:"createdTime"`
	UpdatedAt time.Time `json:"updatedTime"`
}

type AuthToken struct {
	ID        uint      `json:"id" gorm:"auto_increment;primary_key"`
	Token     string    `json:"token" gorm:"index;unique;not null"`
	UserId    uint      `json:"user_id" gorm:"index;not null"`
	User      *User     `json:"-" gorm:"foreignKey:UserId"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	Revoked   bool      `json:"revoked" gorm:"not null"`
	CreatedAt time.Time `json:"createdTime"`
	UpdatedAt time.Time `json:"updatedTime"`
}

type Customer struct {
	ID        uint      `json:"id" gorm:"auto_increment;primary_key"`
	Name      string    `json:"name" gorm:"index;not null"`
	Email     string    `json:"email" gorm:"index;unique;not null"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Orders    []Order   `json:"orders,omitempty" gorm:"foreignKey:CustomerId;constraint:OnDelete:SET NULL"`
	CreatedAt time.Time `json:"createdTime"`
	UpdatedAt time.Time `json:"updatedTime"`
}

type Table struct {
	ID          uint      `json:"id" gorm:"auto_increment;primary_key"`
	TableNumber string    `json:"table_number" gorm:"index;unique;not null"`
	Capacity    int       `json:"capacity" gorm:"not null"`
	Status      string    `json:"status" gorm:"type:varchar(20);not null;default:'available'"`
	Orders      []Order   `json:"orders,omitempty" gorm:"foreignKey:TableId"`
	CreatedAt   time.Time `json:"createdTime"`
	UpdatedAt   time.Time `json:"updatedTime"`
}

type MenuItem struct {
	ID          uint            `json:"id" gorm:"auto_increment;primary_key"`
	Name        string          `json:"name" gorm:"index;not null"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Category    string          `json:"category" gorm:"index;not null"`
	IsAvailable bool            `json:"is_available" gorm:"not null;default:true"`
	Image       *string         `json:"image,omitempty"`
	CreatedAt   time.Time       `json:"createdTime"`
	UpdatedAt   time.Time       `json:"updatedTime"`
}

// Order owns its OrderItems exclusively: items are created, replaced and
// deleted only through their parent order. TotalAmount is derived from the
// current item set and recomputed on every item change.
type Order struct {
	ID            uint            `json:"id" gorm:"auto_increment;primary_key"`
	CustomerId    *uint           `json:"customer_id" gorm:"index"`
	Customer      *Customer       `json:"customer,omitempty" gorm:"foreignKey:CustomerId"`
	TableId       *uint           `json:"table_id" gorm:"index"`
	Table         *Table          `json:"table,omitempty" gorm:"foreignKey:TableId"`
	Status        string          `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentStatus string          `json:"payment_status" gorm:"type:varchar(20);not null;default:'unpaid'"`
	Notes         *string         `json:"notes,omitempty"`
	TotalAmount   decimal.Decimal `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	OrderItems    []OrderItem     `json:"order_items,omitempty" gorm:"foreignKey:OrderId;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time       `json:"createdTime"`
	UpdatedAt     time.Time       `json:"updatedTime"`
}

// OrderItem snapshots the menu item's price at order time; later menu price
// changes do not affect existing orders.
type OrderItem struct {
	ID                  uint            `json:"id" gorm:"auto_increment;primary_key"`
	OrderId             uint            `json:"order_id" gorm:"index;not null"`
	MenuItemId          uint            `json:"menu_item_id" gorm:"index;not null"`
	MenuItem            *MenuItem       `json:"menu_item,omitempty" gorm:"foreignKey:MenuItemId"`
	Quantity            int             `json:"quantity" gorm:"not null"`
	Price               decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Subtotal            decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	SpecialInstructions *string         `json:"special_instructions,omitempty"`
	CreatedAt           time.Time       `json:"createdTime"`
	UpdatedAt           time.Time       `json:"updatedTime"`
}
