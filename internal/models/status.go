package models

type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Dispatched reports whether goods have left the warehouse.
func (s OrderStatus) Dispatched() bool {
	return s == OrderShipped || s == OrderDelivered
}

type PaymentStatus string

const (
	PaymentPaid      PaymentStatus = "Paid"
	PaymentPending   PaymentStatus = "Pending"
	PaymentRefunded  PaymentStatus = "Refunded"
	PaymentFailed    PaymentStatus = "Failed"
	PaymentCancelled PaymentStatus = "Cancelled"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPaid, PaymentPending, PaymentRefunded, PaymentFailed, PaymentCancelled:
		return true
	}
	return false
}
