package service

import "errors"

var (
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

	// ErrMetadataMissing means a completed session carries a line item
	// without the variant metadata attached at session creation. That is a
	// pipeline invariant violation (or a session created outside this
	// pipeline), never something a retry fixes.
	ErrMetadataMissing = errors.New("line item is missing variant metadata")
)
