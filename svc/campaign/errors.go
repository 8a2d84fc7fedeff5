package campaign

import (
	"errors"

	"github.com/pawa80/utm-link-crafter-sub002/handler"
)

var (
	ErrCampaignNotFound = errors.New("campaign.errors.not_found")
	ErrInvalidName      = errors.New("campaign.errors.invalid_name")
	ErrInvalidUTMValue  = errors.New("campaign.errors.invalid_utm_campaign")
	ErrInvalidStatus    = errors.New("campaign.errors.invalid_status")
	ErrSlugTaken        = errors.New("campaign.errors.slug_taken")
	ErrCampaignArchived = errors.New("campaign.errors.archived")
)

func ErrorMappings() []handler.ErrorMapping {
	return []handler.ErrorMapping{
		handler.MapWithMessage(ErrCampaignNotFound, handler.ErrNotFound, "Campaign not found"),
		handler.MapWithMessage(ErrInvalidName, handler.ErrUnprocessableEntity, "Campaign name is required"),
		handler.MapWithMessage(ErrInvalidUTMValue, handler.ErrUnprocessableEntity, "utm_campaign must contain letters or digits"),
		handler.MapWithMessage(ErrInvalidStatus, handler.ErrUnprocessableEntity, "Status must be active or archived"),
		handler.MapWithMessage(ErrSlugTaken, handler.ErrConflict, "A campaign with this name already exists"),
		handler.MapWithMessage(ErrCampaignArchived, handler.ErrConflict, "Campaign is archived"),
	}
}
