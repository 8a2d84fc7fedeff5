package account

import (
	"errors"

	"github.com/pawa80/utm-link-crafter-sub002/handler"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/limits"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/rbac"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/tenant"
)

var (
	ErrMemberNotFound  = errors.New("account.errors.member_not_found")
	ErrMemberExists    = errors.New("account.errors.member_exists")
	ErrLastOwner       = errors.New("account.errors.last_owner")
	ErrSlugTaken       = errors.New("account.errors.slug_taken")
	ErrInvalidName     = errors.New("account.errors.invalid_name")
	ErrMissingUser     = errors.New("account.errors.missing_user")
	ErrNotMember       = errors.New("account.errors.not_a_member")
	ErrRoleTooHigh     = errors.New("account.errors.role_too_high")
	ErrFeatureDisabled = errors.New("account.errors.feature_disabled")
)

// ErrorMappings translates account, plan and permission errors to HTTP
// errors. Other account-scoped services append their own mappings to these.
func ErrorMappings() []handler.ErrorMapping {
	return []handler.ErrorMapping{
		handler.MapWithMessage(tenant.ErrAccountNotFound, handler.ErrNotFound, "Account not found"),
		handler.MapWithMessage(tenant.ErrInactiveAccount, handler.ErrForbidden, "Account is inactive"),
		handler.MapWithMessage(ErrMemberNotFound, handler.ErrNotFound, "Member not found"),
		handler.MapWithMessage(ErrMemberExists, handler.ErrConflict, "User is already a member of this account"),
		handler.MapWithMessage(ErrLastOwner, handler.ErrConflict, "An account must keep at least one owner"),
		handler.MapWithMessage(ErrSlugTaken, handler.ErrConflict, "Account slug is already taken"),
		handler.MapWithMessage(ErrInvalidName, handler.ErrUnprocessableEntity, "Account name is required"),
		handler.MapWithMessage(ErrMissingUser, handler.ErrUnauthorized, "Missing or invalid user identity"),
		handler.MapWithMessage(ErrNotMember, handler.ErrForbidden, "You are not a member of this account"),
		handler.MapWithMessage(ErrRoleTooHigh, handler.ErrForbidden, "You cannot manage members above your own role"),
		handler.MapWithMessage(ErrFeatureDisabled, handler.ErrForbidden, "This feature is currently disabled"),
		handler.MapWithMessage(rbac.ErrInsufficientPermissions, handler.ErrForbidden, "You do not have permission to do this"),
		handler.MapWithMessage(rbac.ErrInvalidRole, handler.ErrUnprocessableEntity, "Unknown role"),
		handler.MapWithMessage(limits.ErrLimitExceeded, handler.ErrPaymentRequired, "Your plan limit has been reached"),
		handler.MapWithMessage(limits.ErrFeatureNotAvailable, handler.ErrPaymentRequired, "This feature is not included in your plan"),
		handler.MapWithMessage(limits.ErrDowngradeNotPossible, handler.ErrConflict, "Current usage exceeds the target plan"),
		handler.MapWithMessage(limits.ErrPlanNotFound, handler.ErrUnprocessableEntity, "Unknown plan"),
	}
}
