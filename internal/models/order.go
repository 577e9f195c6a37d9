package models

import (
	"fmt"
	"strings"
	"time"
)

// Order is the immutable-after-creation snapshot of a purchase. Item
// contents can only change while the order is open, the status only moves
// through UpdateStatus, and every move lands in StatusHistory.
type Order struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      *uint  `gorm:"index"                    json:"user_id,omitempty"`
	OrderNumber string `gorm:"uniqueIndex;not null"     json:"order_number"`

	CustomerName    string  `gorm:"not null" json:"customer_name"`
	CustomerPhone   string  `gorm:"not null" json:"customer_phone"`
	CustomerEmail   *string `json:"customer_email,omitempty"`
	ShippingAddress string  `gorm:"not null" json:"shipping_address"`

	ShippingFee float64 `gorm:"not null;default:0" json:"shipping_fee"`
	Discount    float64 `gorm:"not null;default:0" json:"discount"`

	Status        OrderStatus   `gorm:"not null" json:"status"`
	PaymentMethod PaymentMethod `gorm:"not null" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"not null" json:"payment_status"`

	Notes *string `json:"notes,omitempty"`

	Items         []OrderItem          `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	StatusHistory []OrderStatusHistory `gorm:"constraint:OnDelete:CASCADE" json:"status_history,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// OrderItem freezes product name, SKU and price at checkout time. The
// snapshot survives later product edits and deletions.
type OrderItem struct {
	ID        uint  `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint  `gorm:"index;not null"           json:"order_id"`
	ProductID uint  `gorm:"not null"                 json:"product_id"`
	VariantID *uint `json:"variant_id,omitempty"`

	ProductName string  `gorm:"not null"                    json:"product_name"`
	VariantName *string `json:"variant_name,omitempty"`
	SKU         *string `json:"sku,omitempty"`
	Price       float64 `gorm:"not null"                    json:"price"`
	Quantity    uint    `gorm:"not null;check:quantity > 0" json:"quantity"`

	CreatedAt time.Time `json:"created_at"`
}

// OrderStatusHistory rows are append-only, one per successful transition
// plus the creation entry.
type OrderStatusHistory struct {
	ID             uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID        uint         `gorm:"index;not null"           json:"order_id"`
	PreviousStatus *OrderStatus `json:"previous_status,omitempty"`
	NewStatus      OrderStatus  `gorm:"not null"                 json:"new_status"`
	Note           *string      `json:"note,omitempty"`
	ChangedBy      *string      `json:"changed_by,omitempty"`
	ChangedAt      time.Time    `gorm:"not null"                 json:"changed_at"`
}

func NewOrder(orderNumber, customerName, customerPhone, shippingAddress string, paymentMethod PaymentMethod, userID *uint, customerEmail, notes *string) (*Order, error) {
	switch {
	case strings.TrimSpace(orderNumber) == "":
		return nil, fmt.Errorf("%w: order number is required", ErrValidation)
	case strings.TrimSpace(customerName) == "":
		return nil, fmt.Errorf("%w: customer name is required", ErrValidation)
	case strings.TrimSpace(customerPhone) == "":
		return nil, fmt.Errorf("%w: customer phone is required", ErrValidation)
	case strings.TrimSpace(shippingAddress) == "":
		return nil, fmt.Errorf("%w: shipping address is required", ErrValidation)
	case !paymentMethod.Valid():
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, paymentMethod)
	}

	note := "order created"
	order := &Order{
		OrderNumber:     orderNumber,
		CustomerName:    customerName,
		CustomerPhone:   customerPhone,
		CustomerEmail:   customerEmail,
		ShippingAddress: shippingAddress,
		PaymentMethod:   paymentMethod,
		UserID:          userID,
		Notes:           notes,
		Status:          StatusPending,
		PaymentStatus:   PaymentUnpaid,
	}
	order.StatusHistory = append(order.StatusHistory, OrderStatusHistory{
		NewStatus: StatusPending,
		Note:      &note,
		ChangedAt: time.Now().UTC(),
	})
	return order, nil
}

func (o *Order) AddItem(productID uint, productName string, sku *string, variantID *uint, variantName *string, price float64, quantity uint) error {
	if err := o.ensureOpen(); err != nil {
		return err
	}
	if quantity == 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if strings.TrimSpace(productName) == "" {
		return fmt.Errorf("%w: product name is required", ErrValidation)
	}

	for i := range o.Items {
		if o.Items[i].ProductID == productID && sameVariant(o.Items[i].VariantID, variantID) {
			o.Items[i].Quantity += quantity
			o.markUpdated()
			return nil
		}
	}

	o.Items = append(o.Items, OrderItem{
		OrderID:     o.ID,
		ProductID:   productID,
		VariantID:   variantID,
		ProductName: productName,
		VariantName: variantName,
		SKU:         sku,
		Price:       price,
		Quantity:    quantity,
	})
	o.markUpdated()
	return nil
}

func (o *Order) UpdateItemQuantity(productID uint, newQuantity uint) error {
	if err := o.ensureOpen(); err != nil {
		return err
	}
	if newQuantity == 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	for i := range o.Items {
		if o.Items[i].ProductID == productID {
			o.Items[i].Quantity = newQuantity
			o.markUpdated()
			return nil
		}
	}
	return fmt.Errorf("%w: product %d not in order", ErrNotFound, productID)
}

func (o *Order) RemoveItem(productID uint) error {
	if err := o.ensureOpen(); err != nil {
		return err
	}

	for i := range o.Items {
		if o.Items[i].ProductID == productID {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			o.markUpdated()
			return nil
		}
	}
	return fmt.Errorf("%w: product %d not in order", ErrNotFound, productID)
}

// UpdateStatus is the only way the status field moves. Completing a
// cash-on-delivery order settles it automatically.
func (o *Order) UpdateStatus(newStatus OrderStatus, note, changedBy *string) error {
	if err := validateTransition(o.Status, newStatus); err != nil {
		return err
	}

	previous := o.Status
	o.Status = newStatus
	o.StatusHistory = append(o.StatusHistory, OrderStatusHistory{
		OrderID:        o.ID,
		PreviousStatus: &previous,
		NewStatus:      newStatus,
		Note:           note,
		ChangedBy:      changedBy,
		ChangedAt:      time.Now().UTC(),
	})

	if newStatus == StatusCompleted && o.PaymentMethod == PaymentCOD && o.PaymentStatus == PaymentUnpaid {
		o.PaymentStatus = PaymentPaid
	}

	o.markUpdated()
	return nil
}

func (o *Order) MarkAsPaid() error {
	if o.Status == StatusCancelled {
		return fmt.Errorf("%w: cannot mark a cancelled order as paid", ErrConflict)
	}
	o.PaymentStatus = PaymentPaid
	o.markUpdated()
	return nil
}

func (o *Order) MarkAsUnpaid() error {
	if o.Status == StatusCompleted {
		return fmt.Errorf("%w: cannot mark a completed order as unpaid", ErrConflict)
	}
	o.PaymentStatus = PaymentUnpaid
	o.markUpdated()
	return nil
}

func (o *Order) UpdateShippingFee(fee float64) error {
	if fee < 0 {
		return fmt.Errorf("%w: shipping fee cannot be negative", ErrValidation)
	}
	if err := o.ensureOpen(); err != nil {
		return err
	}
	o.ShippingFee = fee
	o.markUpdated()
	return nil
}

func (o *Order) ApplyDiscount(amount float64) error {
	if amount < 0 {
		return fmt.Errorf("%w: discount cannot be negative", ErrValidation)
	}
	if err := o.ensureOpen(); err != nil {
		return err
	}
	o.Discount = amount
	o.markUpdated()
	return nil
}

// SubTotal and TotalAmount are always recomputed from the lines, never
// cached, so they cannot drift from the item snapshots.
func (o *Order) SubTotal() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.SubTotal()
	}
	return total
}

func (o *Order) TotalAmount() float64 {
	return o.SubTotal() + o.ShippingFee - o.Discount
}

func (o *Order) CanBeCancelled() bool {
	return o.Status == StatusPending || o.Status == StatusProcessing
}

func (o *Order) IsEmpty() bool {
	return len(o.Items) == 0
}

func (o *Order) ItemCount() uint {
	var n uint
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

func (o *Order) ValidateForCheckout() error {
	if o.IsEmpty() {
		return fmt.Errorf("%w: order has no items", ErrConflict)
	}
	for _, item := range o.Items {
		if item.Quantity == 0 {
			return fmt.Errorf("%w: order contains items with invalid quantities", ErrConflict)
		}
		if item.Price < 0 {
			return fmt.Errorf("%w: order contains items with invalid prices", ErrConflict)
		}
	}
	switch {
	case strings.TrimSpace(o.CustomerName) == "":
		return fmt.Errorf("%w: customer name is required", ErrValidation)
	case strings.TrimSpace(o.CustomerPhone) == "":
		return fmt.Errorf("%w: customer phone is required", ErrValidation)
	case strings.TrimSpace(o.ShippingAddress) == "":
		return fmt.Errorf("%w: shipping address is required", ErrValidation)
	}
	return nil
}

func (o *Order) ensureOpen() error {
	if o.Status.Terminal() {
		return fmt.Errorf("%w: cannot modify a %s order", ErrConflict, o.Status)
	}
	return nil
}

func (o *Order) markUpdated() {
	now := time.Now().UTC()
	o.UpdatedAt = &now
}

func (i OrderItem) SubTotal() float64 {
	return i.Price * float64(i.Quantity)
}
