// Package services holds the marketplace operations behind the HTTP
// controllers. Every write runs in one gorm transaction.
package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Kariqs/farmers-market-api/apperr"
)

// lookupError turns a gorm lookup failure into a NotFound or Internal error.
func lookupError(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(apperr.ErrNotFound, what+" not found")
	}
	return apperr.Internal("failed to load "+what, err)
}

// passThrough keeps already classified errors and marks the rest internal.
func passThrough(msg string, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Internal(msg, err)
}
