package link

import (
	"errors"

	"github.com/pawa80/utm-link-crafter-sub002/handler"
)

var (
	ErrLinkNotFound  = errors.New("link.errors.not_found")
	ErrInvalidQRSize = errors.New("link.errors.invalid_qr_size")
)

func ErrorMappings() []handler.ErrorMapping {
	return []handler.ErrorMapping{
		handler.MapWithMessage(ErrLinkNotFound, handler.ErrNotFound, "Link not found"),
		handler.MapWithMessage(ErrInvalidQRSize, handler.ErrUnprocessableEntity, "QR code size is out of range"),
	}
}
