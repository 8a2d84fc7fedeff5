package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups the non-nil errors under "errors", keyed by their position.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error records err under "error". A nil error yields an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

func optional(key string, v any) slog.Attr {
	if v == nil {
		return slog.Attr{}
	}
	return slog.Any(key, v)
}

// UserID records the acting user under "user_id".
func UserID(id any) slog.Attr { return optional("user_id", id) }

// AccountID records the tenant account under "account_id".
func AccountID(id any) slog.Attr { return optional("account_id", id) }

// CampaignID records a campaign under "campaign_id".
func CampaignID(id any) slog.Attr { return optional("campaign_id", id) }

// LinkID records a tracking link under "link_id".
func LinkID(id any) slog.Attr { return optional("link_id", id) }

// SessionID records a wizard session under "session_id".
func SessionID(id any) slog.Attr { return optional("session_id", id) }

// RequestID records the request identifier under "request_id".
func RequestID(id any) slog.Attr { return optional("request_id", id) }

// Role records a member role under "role".
func Role(role any) slog.Attr { return optional("role", role) }

// Plan records a plan identifier under "plan".
func Plan(id string) slog.Attr {
	return slog.String("plan", id)
}

// Component records the component name under "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Duration records a duration under "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}
