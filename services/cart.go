package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kariqs/farmers-market-api/apperr"
	"github.com/Kariqs/farmers-market-api/cartstore"
	"github.com/Kariqs/farmers-market-api/models"
)

type CartService struct {
	db    *gorm.DB
	store cartstore.Store
}

func NewCartService(db *gorm.DB, store cartstore.Store) *CartService {
	return &CartService{db: db, store: store}
}

// AddItem snapshots the product's name, price and seller into a new line.
// Stock on hand is not reserved.
func (s *CartService) AddItem(ctx context.Context, sessionID string, productID uint, qty int) ([]models.CartLine, error) {
	if qty < 1 {
		return nil, apperr.New(apperr.ErrValidation, "quantity must be at least 1")
	}

	var item models.StockItem
	if err := s.db.WithContext(ctx).First(&item, productID).Error; err != nil {
		return nil, lookupError("product", err)
	}

	line := models.CartLine{
		ID:        uuid.NewString(),
		ProductID: item.ID,
		Item:      item.Name,
		Qty:       qty,
		Price:     item.Price,
		Amount:    models.LineAmount(qty, item.Price),
		SellerID:  item.SellerID,
	}
	lines, err := s.store.Append(ctx, sessionID, line)
	if err != nil {
		return nil, storeError(err)
	}
	return lines, nil
}

func (s *CartService) RemoveItem(ctx context.Context, sessionID string, index int) ([]models.CartLine, error) {
	lines, err := s.store.RemoveAt(ctx, sessionID, index)
	if err != nil {
		return nil, storeError(err)
	}
	return lines, nil
}

func (s *CartService) RemoveLine(ctx context.Context, sessionID, lineID string) ([]models.CartLine, error) {
	lines, err := s.store.Remove(ctx, sessionID, lineID)
	if err != nil {
		return nil, storeError(err)
	}
	return lines, nil
}

func (s *CartService) Lines(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	lines, err := s.store.Lines(ctx, sessionID)
	if err != nil {
		return nil, storeError(err)
	}
	return lines, nil
}

// Checkout totals the cart without touching it.
func (s *CartService) Checkout(ctx context.Context, sessionID string) (models.Cart, error) {
	lines, err := s.Lines(ctx, sessionID)
	if err != nil {
		return models.Cart{}, err
	}
	return models.Cart{Items: lines, GrandTotal: models.CartTotal(lines)}, nil
}

func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return storeError(err)
	}
	return nil
}

func storeError(err error) error {
	switch {
	case errors.Is(err, cartstore.ErrIndexOutOfRange):
		return apperr.Wrap(apperr.ErrIndexOutOfRange, "no cart item at that position", err)
	case errors.Is(err, cartstore.ErrLineNotFound):
		return apperr.Wrap(apperr.ErrNotFound, "cart line not found", err)
	case errors.Is(err, cartstore.ErrContention):
		return apperr.Wrap(apperr.ErrConflict, "cart is being modified, try again", err)
	default:
		return apperr.Internal("cart store failure", err)
	}
}
