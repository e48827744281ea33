package services

import (
	"context"
	"encoding/json"
	"errors"
	"hash/fnv"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Kariqs/farmers-market-api/apperr"
	"github.com/Kariqs/farmers-market-api/cartstore"
	"github.com/Kariqs/farmers-market-api/models"
	"github.com/Kariqs/farmers-market-api/payment"
	"github.com/Kariqs/farmers-market-api/receipts"
)

const (
	deliveryLeadDays = 3
	lockStripes      = 64

	ReceiptExported = "exported"
	ReceiptFailed   = "failed"
	ReceiptSkipped  = "skipped"
)

type ReceiptStatus struct {
	Status   string `json:"status"`
	Location string `json:"location,omitempty"`
	Error    string `json:"error,omitempty"`
}

// PlacedOrder is a committed order plus the outcome of its receipt export.
type PlacedOrder struct {
	Order   models.Order  `json:"order"`
	Receipt ReceiptStatus `json:"receipt"`
}

type OrderService struct {
	db       *gorm.DB
	carts    cartstore.Store
	payments payment.Gateway
	receipts receipts.Exporter
	log      *slog.Logger
	now      func() time.Time
	locks    [lockStripes]sync.Mutex
}

func NewOrderService(db *gorm.DB, carts cartstore.Store, payments payment.Gateway, exporter receipts.Exporter, log *slog.Logger) *OrderService {
	if log == nil {
		log = slog.Default()
	}
	return &OrderService{
		db:       db,
		carts:    carts,
		payments: payments,
		receipts: exporter,
		log:      log,
		now:      time.Now,
	}
}

// DeliveryDate is local midnight three calendar days after placement.
func DeliveryDate(placedAt time.Time) time.Time {
	y, m, d := placedAt.Date()
	return time.Date(y, m, d+deliveryLeadDays, 0, 0, 0, 0, placedAt.Location())
}

// PlaceOrder turns the session cart into an order. The cart is taken from
// the store atomically before charging, so concurrent calls on any replica
// cannot order it twice. The stripe lock only queues callers in this process.
// When the charge or the insert fails the lines go back into the cart, and a
// charge that was already approved is refunded.
func (s *OrderService) PlaceOrder(ctx context.Context, accountID uint, sessionID string) (PlacedOrder, error) {
	if accountID == 0 || sessionID == "" {
		return PlacedOrder{}, apperr.New(apperr.ErrUnauthenticated, "login required to place an order")
	}

	mu := s.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	db := s.db.WithContext(ctx)

	var buyer models.Account
	if err := db.First(&buyer, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PlacedOrder{}, apperr.New(apperr.ErrUnauthenticated, "account no longer exists")
		}
		return PlacedOrder{}, apperr.Internal("failed to load account", err)
	}

	lines, err := s.carts.Take(ctx, sessionID)
	if err != nil {
		return PlacedOrder{}, storeError(err)
	}
	if len(lines) == 0 {
		return PlacedOrder{}, apperr.New(apperr.ErrEmptyCart, "cart is empty")
	}

	placedAt := s.now()
	order := models.Order{
		Reference:      uuid.NewString(),
		AccountID:      buyer.ID,
		PlacedAt:       placedAt,
		DeliveryDate:   DeliveryDate(placedAt),
		PaymentStatus:  true,
		DeliveryStatus: false,
		Total:          models.CartTotal(lines),
	}

	result, err := s.payments.Charge(ctx, payment.Charge{
		Reference: order.Reference,
		Amount:    order.Total,
		Email:     buyer.Email,
	})
	if err != nil {
		s.restoreCart(ctx, sessionID, order.Reference, lines)
		if errors.Is(err, payment.ErrDeclined) {
			return PlacedOrder{}, apperr.Wrap(apperr.ErrPaymentDeclined, "payment was declined", err)
		}
		return PlacedOrder{}, apperr.Internal("payment failed", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		details, err := json.Marshal(result)
		if err != nil {
			return err
		}
		order.PaymentDetails = datatypes.JSON(details)

		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return err
		}
		orderLines := make([]models.OrderLine, 0, len(lines))
		for _, line := range lines {
			orderLines = append(orderLines, models.OrderLine{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Item:      line.Item,
				Quantity:  line.Qty,
				Amount:    line.Amount,
				SellerID:  line.SellerID,
			})
		}
		if err := tx.Omit(clause.Associations).Create(&orderLines).Error; err != nil {
			return err
		}
		order.Lines = orderLines
		return nil
	})
	if err != nil {
		s.log.Error("order placement rolled back",
			"reference", order.Reference, "accountId", buyer.ID, "transactionId", result.TransactionID, "error", err)
		s.refund(ctx, order.Reference, result)
		s.restoreCart(ctx, sessionID, order.Reference, lines)
		return PlacedOrder{}, apperr.Internal("failed to place order", err)
	}

	placed := PlacedOrder{Order: order, Receipt: s.export(ctx, order, buyer)}
	s.log.Info("order placed",
		"orderId", order.ID, "reference", order.Reference, "accountId", buyer.ID,
		"lines", len(order.Lines), "total", order.Total, "receipt", placed.Receipt.Status)
	return placed, nil
}

// Compensation outlives a cancelled request.
func (s *OrderService) refund(ctx context.Context, reference string, result payment.Result) {
	if err := s.payments.Refund(context.WithoutCancel(ctx), result); err != nil {
		s.log.Error("refund after failed placement did not go through",
			"reference", reference, "transactionId", result.TransactionID, "amount", result.Amount, "error", err)
		return
	}
	s.log.Info("charge refunded", "reference", reference, "transactionId", result.TransactionID)
}

func (s *OrderService) restoreCart(ctx context.Context, sessionID, reference string, lines []models.CartLine) {
	if err := s.carts.Restore(context.WithoutCancel(ctx), sessionID, lines); err != nil {
		s.log.Error("failed to restore cart", "reference", reference, "lines", len(lines), "error", err)
	}
}

func (s *OrderService) export(ctx context.Context, order models.Order, buyer models.Account) ReceiptStatus {
	location, err := s.receipts.Export(ctx, receipts.Receipt{
		Order:      order,
		BuyerName:  strings.TrimSpace(buyer.Firstname + " " + buyer.Lastname),
		BuyerEmail: buyer.Email,
	})
	if err != nil {
		s.log.Warn("receipt export failed", "reference", order.Reference, "error", err)
		return ReceiptStatus{Status: ReceiptFailed, Error: "receipt could not be exported"}
	}
	if location == "" {
		return ReceiptStatus{Status: ReceiptSkipped}
	}
	return ReceiptStatus{Status: ReceiptExported, Location: location}
}

// Receipt rebuilds the receipt of one of the account's own orders. Orders
// of other accounts are reported as missing.
func (s *OrderService) Receipt(ctx context.Context, accountID, orderID uint) (receipts.Receipt, error) {
	db := s.db.WithContext(ctx)

	var order models.Order
	err := db.Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ? AND account_id = ?", orderID, accountID).
		First(&order).Error
	if err != nil {
		return receipts.Receipt{}, lookupError("order", err)
	}

	var buyer models.Account
	if err := db.First(&buyer, accountID).Error; err != nil {
		return receipts.Receipt{}, lookupError("account", err)
	}
	return receipts.Receipt{
		Order:      order,
		BuyerName:  strings.TrimSpace(buyer.Firstname + " " + buyer.Lastname),
		BuyerEmail: buyer.Email,
	}, nil
}

// History returns the account's orders with their lines, newest first.
func (s *OrderService) History(ctx context.Context, accountID uint) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("account_id = ?", accountID).
		Order("placed_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, apperr.Internal("unable to fetch orders", err)
	}
	return orders, nil
}

func (s *OrderService) SetDeliveryStatus(ctx context.Context, orderID uint, delivered bool) (models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Lines").First(&order, orderID).Error; err != nil {
			return lookupError("order", err)
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", orderID).Update("delivery_status", delivered).Error; err != nil {
			return apperr.Internal("failed to update delivery status", err)
		}
		order.DeliveryStatus = delivered
		return nil
	})
	if err != nil {
		return models.Order{}, passThrough("failed to update delivery status", err)
	}
	return order, nil
}

func (s *OrderService) UndeliveredCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Order{}).Where("delivery_status = ?", false).Count(&count).Error
	if err != nil {
		return 0, apperr.Internal("failed to count undelivered orders", err)
	}
	return count, nil
}

func (s *OrderService) lockFor(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	return &s.locks[h.Sum32()%lockStripes]
}
