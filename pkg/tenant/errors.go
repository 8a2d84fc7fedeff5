package tenant

import "errors"

var (
	ErrAccountNotFound    = errors.New("tenant.account_not_found")
	ErrInvalidIdentifier  = errors.New("tenant.invalid_identifier")
	ErrNoAccountInContext = errors.New("tenant.no_account_in_context")
	ErrInactiveAccount    = errors.New("tenant.account_inactive")
)
