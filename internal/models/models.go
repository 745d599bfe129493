package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	GenderMale           = "Hombre"
	GenderFemale         = "Mujer"
	GenderPreferNotToSay = "Prefiero no decirlo"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"      json:"id"`
	Name      string    `gorm:"not null"                  json:"name"`
	Email     string    `gorm:"uniqueIndex;not null"      json:"email"`
	Gender    string    `gorm:"size:32"                   json:"gender"`
	CreatedAt time.Time `gorm:"not null"                  json:"created_at"`
}

type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"      json:"id"`
	Name        string          `gorm:"not null"                  json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Stock       uint            `json:"stock"`
	CreatedAt   time.Time       `gorm:"not null"                  json:"created_at"`
}

type Order struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"        json:"id"`
	UserID      *uuid.UUID      `gorm:"type:uuid;index"             json:"user_id"`
	User        *User           `gorm:"foreignKey:UserID"           json:"user,omitempty"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID"          json:"items,omitempty"`
	CreatedAt   time.Time       `gorm:"index;not null"              json:"created_at"`
}

type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"         json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null"     json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null"     json:"product_id"`
	Quantity  int       `gorm:"default:1;check:quantity>0"   json:"quantity"`
	CreatedAt time.Time `gorm:"index;not null"               json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (OrderItem) TableName() string {
	return "order_items"
}

// All lists the models in migration order.
func All() []any {
	return []any{&User{}, &Product{}, &Order{}, &OrderItem{}}
}
