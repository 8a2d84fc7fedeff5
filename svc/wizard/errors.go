package wizard

import (
	"errors"

	"github.com/pawa80/utm-link-crafter-sub002/handler"
)

var (
	ErrSessionNotFound = errors.New("wizard.errors.session_not_found")
	ErrInvalidAction   = errors.New("wizard.errors.invalid_action")
	ErrSessionBusy     = errors.New("wizard.errors.session_busy")
	errInvalidTurn     = errors.New("wizard.errors.invalid_turn")
)

func ErrorMappings() []handler.ErrorMapping {
	return []handler.ErrorMapping{
		handler.MapWithMessage(ErrSessionNotFound, handler.ErrNotFound, "Wizard session not found"),
		handler.MapWithMessage(ErrSessionBusy, handler.ErrConflict, "Another message for this session is still being processed"),
		handler.MapWithMessage(ErrInvalidAction, handler.ErrUnprocessableEntity, "Action must be one of answer, skip, confirm or restart"),
	}
}
