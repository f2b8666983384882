package commission

import "errors"

var (
	// ErrInvalidInput is returned when the engine receives an incomplete computation input.
	ErrInvalidInput = errors.New("invalid commission input")
	// ErrReferenceNotFound wraps a missing sale, product or agency.
	ErrReferenceNotFound = errors.New("referenced record not found")
	// ErrPartialWrite is returned after a failed multi-row write has been cleaned up.
	ErrPartialWrite = errors.New("commission rows only partially written")
	// ErrSaleNotEligible is returned for cancelled sales.
	ErrSaleNotEligible = errors.New("sale is not eligible for commissions")
	// ErrSaleFrozen is returned when recalculating a paid sale or a sale with paid commissions.
	ErrSaleFrozen = errors.New("sale commissions are frozen")
)
