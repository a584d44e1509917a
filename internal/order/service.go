package order

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"teakspice-catalog/internal/apperr"
	"teakspice-catalog/internal/models"
	"teakspice-catalog/internal/remote"
	"teakspice-catalog/internal/session"
)

// Carts is the part of cart persistence an order needs.
type Carts interface {
	CartEntries(ctx context.Context, userID string) ([]models.CartEntry, error)
	ClearCart(ctx context.Context, userID string) error
}

// Inventory decrements and restores stock. Both calls are idempotent per key:
// reserving a key twice decrements once, releasing an unknown key does nothing.
// Settle drops the record of reservations whose goods have shipped.
type Inventory interface {
	Reserve(ctx context.Context, key, productID string, quantity int) error
	Release(ctx context.Context, key string) error
	Settle(ctx context.Context, keys []string) error
}

// releaseTimeout bounds returning stock after the caller has gone away.
const releaseTimeout = 30 * time.Second

type Store interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	Order(ctx context.Context, id string) (*models.Order, error)
	OrdersByUser(ctx context.Context, userID string) ([]models.Order, error)
	AllOrders(ctx context.Context, limit, offset int) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, payment models.PaymentStatus, at time.Time) error
}

// ReservationKey identifies the stock taken by one order line.
func ReservationKey(orderID, productID string) string {
	return orderID + ":" + productID
}

type Checkout struct {
	Contact         models.Contact `json:"contact"`
	ShippingAddress models.Address `json:"shippingAddress"`
}

func (c Checkout) validate() error {
	switch {
	case strings.TrimSpace(c.Contact.Name) == "":
		return apperr.Validation("contact name is required")
	case strings.TrimSpace(c.Contact.Email) == "" && strings.TrimSpace(c.Contact.Phone) == "":
		return apperr.Validation("an email address or phone number is required")
	case strings.TrimSpace(c.ShippingAddress.Line1) == "":
		return apperr.Validation("shipping address is required")
	case strings.TrimSpace(c.ShippingAddress.City) == "":
		return apperr.Validation("shipping city is required")
	case strings.TrimSpace(c.ShippingAddress.PostalCode) == "":
		return apperr.Validation("postal code is required")
	}
	return nil
}

type Service struct {
	calc      Calculator
	carts     Carts
	inventory Inventory
	orders    Store
	remote    remote.Policy
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

func NewService(calc Calculator, carts Carts, inventory Inventory, orders Store, policy remote.Policy, logger *zap.Logger) *Service {
	return &Service{
		calc:      calc,
		carts:     carts,
		inventory: inventory,
		orders:    orders,
		remote:    policy,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *Service) Calculator() Calculator {
	return s.calc
}

// PlaceOrder turns the caller's cart into an order. Stock for every line is
// reserved first; if any line cannot be reserved all reservations are undone
// and a *LineFailureError lists the failing lines. Totals are computed once
// here and stored with the order.
func (s *Service) PlaceOrder(ctx context.Context, sess session.Session, co Checkout) (*models.Order, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	if err := co.validate(); err != nil {
		return nil, err
	}

	var entries []models.CartEntry
	err := s.remote.Do(ctx, "load cart", func(ctx context.Context) error {
		var err error
		entries, err = s.carts.CartEntries(ctx, sess.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, apperr.Validation("your cart is empty")
	}

	lines := LinesFromCart(entries)
	orderID := s.newID()

	var attempted []string
	var failures []LineFailure
	for _, line := range lines {
		key := ReservationKey(orderID, line.ProductID)
		attempted = append(attempted, key)
		err := s.remote.Do(ctx, "reserve stock", func(ctx context.Context) error {
			return s.inventory.Reserve(ctx, key, line.ProductID, line.Quantity)
		})
		switch {
		case err == nil:
		case apperr.Is(err, apperr.KindOutOfStock), apperr.Is(err, apperr.KindNotFound):
			failures = append(failures, LineFailure{
				ProductID: line.ProductID,
				Name:      line.Name,
				Requested: line.Quantity,
				Reason:    err.Error(),
			})
		default:
			s.release(ctx, attempted)
			return nil, err
		}
	}
	if len(failures) > 0 {
		s.release(ctx, attempted)
		s.logger.Info("order rejected", zap.String("user_id", sess.UserID), zap.Int("failed_lines", len(failures)))
		return nil, &LineFailureError{Lines: failures}
	}

	totals := s.calc.Totals(lines)
	now := s.now()
	o := &models.Order{
		ID:              orderID,
		UserID:          sess.UserID,
		Lines:           lines,
		Subtotal:        totals.Subtotal,
		ShippingFee:     totals.ShippingFee,
		Total:           totals.Total,
		Status:          models.OrderPending,
		PaymentStatus:   models.PaymentPending,
		Contact:         co.Contact,
		ShippingAddress: co.ShippingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err = s.remote.Do(ctx, "create order", func(ctx context.Context) error {
		return s.orders.CreateOrder(ctx, o)
	})
	if err != nil {
		s.release(ctx, attempted)
		return nil, err
	}

	err = s.remote.Do(ctx, "clear cart", func(ctx context.Context) error {
		return s.carts.ClearCart(ctx, sess.UserID)
	})
	if err != nil {
		// The order stands; the shopper just sees a stale cart.
		s.logger.Warn("order placed but cart not cleared", zap.String("order_id", o.ID), zap.Error(err))
	}

	s.logger.Info("order placed",
		zap.String("order_id", o.ID),
		zap.String("user_id", sess.UserID),
		zap.Int("lines", len(o.Lines)),
		zap.Int64("total", o.Total))
	return o, nil
}

// release returns reserved stock. It runs detached from ctx's cancellation so
// a client that disconnects mid-placement does not strand reserved units.
func (s *Service) release(ctx context.Context, keys []string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	for _, key := range keys {
		err := s.remote.Do(ctx, "release stock", func(ctx context.Context) error {
			return s.inventory.Release(ctx, key)
		})
		if err != nil {
			s.logger.Error("failed to release stock reservation", zap.String("key", key), zap.Error(err))
		}
	}
}

func reservationKeys(o *models.Order) []string {
	keys := make([]string, 0, len(o.Lines))
	for _, l := range o.Lines {
		keys = append(keys, ReservationKey(o.ID, l.ProductID))
	}
	return keys
}

// Order returns one of the caller's orders. Admins can read any order.
func (s *Service) Order(ctx context.Context, sess session.Session, id string) (*models.Order, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	var o *models.Order
	err := s.remote.Do(ctx, "load order", func(ctx context.Context) error {
		var err error
		o, err = s.orders.Order(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if o.UserID != sess.UserID && !sess.IsAdmin() {
		return nil, apperr.NotFoundf("order %s not found", id)
	}
	return o, nil
}

func (s *Service) Orders(ctx context.Context, sess session.Session) ([]models.Order, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	var orders []models.Order
	err := s.remote.Do(ctx, "list orders", func(ctx context.Context) error {
		var err error
		orders, err = s.orders.OrdersByUser(ctx, sess.UserID)
		return err
	})
	return orders, err
}

func (s *Service) AllOrders(ctx context.Context, limit, offset int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	var orders []models.Order
	err := s.remote.Do(ctx, "list all orders", func(ctx context.Context) error {
		var err error
		orders, err = s.orders.AllOrders(ctx, limit, offset)
		return err
	})
	return orders, err
}

// UpdateStatus changes the workflow and payment status of an order. An empty
// value leaves that field as it is. Cancelling an order that has not shipped
// returns its stock.
func (s *Service) UpdateStatus(ctx context.Context, id string, status models.OrderStatus, payment models.PaymentStatus) (*models.Order, error) {
	if status == "" && payment == "" {
		return nil, apperr.Validation("status or payment status is required")
	}
	if status != "" && !status.Valid() {
		return nil, apperr.Validationf("unknown order status %q", status)
	}
	if payment != "" && !payment.Valid() {
		return nil, apperr.Validationf("unknown payment status %q", payment)
	}

	var o *models.Order
	err := s.remote.Do(ctx, "load order", func(ctx context.Context) error {
		var err error
		o, err = s.orders.Order(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if o.Status == models.OrderCancelled && status != "" && status != models.OrderCancelled {
		return nil, apperr.Validation("a cancelled order cannot be reopened")
	}

	prev := o.Status
	if status != "" {
		o.Status = status
	}
	if payment != "" {
		o.PaymentStatus = payment
	}
	o.UpdatedAt = s.now()
	err = s.remote.Do(ctx, "update order status", func(ctx context.Context) error {
		return s.orders.UpdateOrderStatus(ctx, o.ID, o.Status, o.PaymentStatus, o.UpdatedAt)
	})
	if err != nil {
		return nil, err
	}

	switch {
	case o.Status == models.OrderCancelled && prev != models.OrderCancelled && !prev.Dispatched():
		s.release(ctx, reservationKeys(o))
	case o.Status.Dispatched() && !prev.Dispatched():
		err := s.remote.Do(ctx, "settle stock", func(ctx context.Context) error {
			return s.inventory.Settle(ctx, reservationKeys(o))
		})
		if err != nil {
			s.logger.Warn("failed to settle stock reservations", zap.String("order_id", o.ID), zap.Error(err))
		}
	}
	s.logger.Info("order status updated",
		zap.String("order_id", o.ID),
		zap.String("status", string(o.Status)),
		zap.String("payment_status", string(o.PaymentStatus)))
	return o, nil
}
