package models

import (
	"fmt"
	"strings"
	"time"
)

// Cart is the mutable pre-purchase aggregate. A cart belongs to either a
// signed-in user or a guest session, never both. All mutation goes through
// the methods below so the (product_id, variant_id) uniqueness and the
// quantity/price rules cannot be bypassed.
type Cart struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uint   `gorm:"uniqueIndex"              json:"user_id,omitempty"`
	SessionID *string `gorm:"uniqueIndex"              json:"session_id,omitempty"`

	Items []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type CartItem struct {
	ID        uint  `gorm:"primaryKey;autoIncrement"                    json:"id"`
	CartID    uint  `gorm:"index;not null;uniqueIndex:ux_cart_line"     json:"cart_id"`
	ProductID uint  `gorm:"not null;uniqueIndex:ux_cart_line"           json:"product_id"`
	VariantID *uint `gorm:"uniqueIndex:ux_cart_line"                    json:"variant_id,omitempty"`

	// Snapshot taken at time of add. Quantity is the only mutable field.
	ProductName string  `gorm:"not null"                    json:"product_name"`
	VariantName *string `json:"variant_name,omitempty"`
	Price       float64 `gorm:"not null"                    json:"price"`
	Quantity    uint    `gorm:"not null;check:quantity > 0" json:"quantity"`

	CreatedAt time.Time `json:"created_at"`
}

func NewUserCart(userID uint) (*Cart, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	return &Cart{UserID: &userID}, nil
}

func NewGuestCart(sessionID string) (*Cart, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrValidation)
	}
	return &Cart{SessionID: &sessionID}, nil
}

// AddItem appends a new line or, when a line with the same
// (productID, variantID) key exists, adds to its quantity.
func (c *Cart) AddItem(productID uint, variantID *uint, productName string, variantName *string, price float64, quantity uint) error {
	if quantity == 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if strings.TrimSpace(productName) == "" {
		return fmt.Errorf("%w: product name is required", ErrValidation)
	}

	if existing := c.findLine(productID, variantID); existing != nil {
		existing.Quantity += quantity
	} else {
		c.Items = append(c.Items, CartItem{
			CartID:      c.ID,
			ProductID:   productID,
			VariantID:   variantID,
			ProductName: productName,
			VariantName: variantName,
			Price:       price,
			Quantity:    quantity,
		})
	}

	c.markUpdated()
	return nil
}

func (c *Cart) UpdateItemQuantity(productID uint, newQuantity uint) error {
	if newQuantity == 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = newQuantity
			c.markUpdated()
			return nil
		}
	}
	return fmt.Errorf("%w: product %d not in cart", ErrNotFound, productID)
}

func (c *Cart) RemoveItem(productID uint) error {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.markUpdated()
			return nil
		}
	}
	return fmt.Errorf("%w: product %d not in cart", ErrNotFound, productID)
}

func (c *Cart) Clear() {
	c.Items = nil
	c.markUpdated()
}

// MergeWith folds every line of other into this cart, quantities add up.
// Used when a guest cart meets an existing user cart at login.
func (c *Cart) MergeWith(other *Cart) error {
	if other == nil {
		return fmt.Errorf("%w: nothing to merge", ErrValidation)
	}
	if other == c || (other.ID != 0 && other.ID == c.ID) {
		return fmt.Errorf("%w: cannot merge cart with itself", ErrConflict)
	}

	for _, item := range other.Items {
		if err := c.AddItem(item.ProductID, item.VariantID, item.ProductName, item.VariantName, item.Price, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// ConvertToUserCart reassigns a guest cart to a user. Only legal while the
// cart has no user yet; the session key is dropped on success.
func (c *Cart) ConvertToUserCart(userID uint) error {
	if userID == 0 {
		return fmt.Errorf("%w: user id is required", ErrValidation)
	}
	if c.UserID != nil {
		return fmt.Errorf("%w: cart is already associated with a user", ErrConflict)
	}

	c.UserID = &userID
	c.SessionID = nil
	c.markUpdated()
	return nil
}

func (c *Cart) TotalAmount() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.SubTotal()
	}
	return total
}

func (c *Cart) ItemCount() uint {
	var n uint
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

func (c *Cart) UniqueProductCount() int {
	return len(c.Items)
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) ProductQuantity(productID uint) uint {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}

// ValidateForCheckout is defensive: the constructors should make the
// quantity and price cases unreachable.
func (c *Cart) ValidateForCheckout() error {
	if c.IsEmpty() {
		return fmt.Errorf("%w: cart is empty", ErrConflict)
	}
	for _, item := range c.Items {
		if item.Quantity == 0 {
			return fmt.Errorf("%w: cart contains items with invalid quantities", ErrConflict)
		}
		if item.Price < 0 {
			return fmt.Errorf("%w: cart contains items with invalid prices", ErrConflict)
		}
	}
	return nil
}

func (c *Cart) findLine(productID uint, variantID *uint) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID && sameVariant(c.Items[i].VariantID, variantID) {
			return &c.Items[i]
		}
	}
	return nil
}

func (c *Cart) markUpdated() {
	now := time.Now().UTC()
	c.UpdatedAt = &now
}

func (i CartItem) SubTotal() float64 {
	return i.Price * float64(i.Quantity)
}

func sameVariant(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
