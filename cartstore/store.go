// Package cartstore keeps session carts outside the request goroutines.
// Every cart is keyed by the session id carried in the caller's token.
package cartstore

import (
	"context"
	"errors"

	"github.com/Kariqs/farmers-market-api/models"
)

var (
	ErrIndexOutOfRange = errors.New("cart index out of range")
	ErrLineNotFound    = errors.New("cart line not found")
)

type Store interface {
	Lines(ctx context.Context, sessionID string) ([]models.CartLine, error)
	Append(ctx context.Context, sessionID string, line models.CartLine) ([]models.CartLine, error)
	// RemoveAt removes the line at a position of the current list.
	RemoveAt(ctx context.Context, sessionID string, index int) ([]models.CartLine, error)
	Remove(ctx context.Context, sessionID, lineID string) ([]models.CartLine, error)
	Clear(ctx context.Context, sessionID string) error
	// Take empties the cart and returns what it held in one atomic step, so
	// concurrent callers never receive the same lines.
	Take(ctx context.Context, sessionID string) ([]models.CartLine, error)
	// Restore puts taken lines back ahead of any added since they were taken.
	Restore(ctx context.Context, sessionID string, lines []models.CartLine) error
}

func removeAt(lines []models.CartLine, index int) ([]models.CartLine, error) {
	if index < 0 || index >= len(lines) {
		return nil, ErrIndexOutOfRange
	}
	out := make([]models.CartLine, 0, len(lines)-1)
	out = append(out, lines[:index]...)
	return append(out, lines[index+1:]...), nil
}

func removeID(lines []models.CartLine, lineID string) ([]models.CartLine, error) {
	for i, line := range lines {
		if line.ID == lineID {
			return removeAt(lines, i)
		}
	}
	return nil, ErrLineNotFound
}
