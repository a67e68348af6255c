package tui

import apperrors "storefront/internal/errors"

func notFound() error {
	return apperrors.NewNotFoundError("order nonexistent123 not found")
}
