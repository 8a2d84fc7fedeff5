package utm

import (
	"strings"

	"github.com/pawa80/utm-link-crafter-sub002/pkg/sanitizer"
)

// Query keys written by Build.
const (
	KeyCampaign = "utm_campaign"
	KeySource   = "utm_source"
	KeyMedium   = "utm_medium"
	KeyContent  = "utm_content"
	KeyTerm     = "utm_term"
	KeyCustom1  = "utm_custom1"
	KeyCustom2  = "utm_custom2"
	KeyCustom3  = "utm_custom3"
)

// keyPrefix marks every tracking key, including ones Build never writes
// (utm_id, utm_source_platform, ...).
const keyPrefix = "utm_"

// Params is the input of Build. Campaign, Source and Medium are required.
type Params struct {
	TargetURL string `json:"target_url"`
	Campaign  string `json:"campaign"`
	Source    string `json:"source"`
	Medium    string `json:"medium"`
	Content   string `json:"content,omitempty"`
	Term      string `json:"term,omitempty"`
	Custom1   string `json:"custom1,omitempty"`
	Custom2   string `json:"custom2,omitempty"`
	Custom3   string `json:"custom3,omitempty"`
}

// Sanitized returns a copy with the target trimmed and every parameter value
// reduced with sanitizer.UTMParameter. The receiver is left untouched.
func (p Params) Sanitized() Params {
	return Params{
		TargetURL: strings.TrimSpace(p.TargetURL),
		Campaign:  sanitizer.UTMParameter(p.Campaign),
		Source:    sanitizer.UTMParameter(p.Source),
		Medium:    sanitizer.UTMParameter(p.Medium),
		Content:   sanitizer.UTMParameter(p.Content),
		Term:      sanitizer.UTMParameter(p.Term),
		Custom1:   sanitizer.UTMParameter(p.Custom1),
		Custom2:   sanitizer.UTMParameter(p.Custom2),
		Custom3:   sanitizer.UTMParameter(p.Custom3),
	}
}

// HasCustom reports whether any of the custom parameters is set.
func (p Params) HasCustom() bool {
	return strings.TrimSpace(p.Custom1) != "" ||
		strings.TrimSpace(p.Custom2) != "" ||
		strings.TrimSpace(p.Custom3) != ""
}

type pair struct {
	key   string
	value string
}

// pairs lists the query pairs to write, in output order. Optional keys with an
// empty value are skipped.
func (p Params) pairs() []pair {
	all := []pair{
		{KeyCampaign, p.Campaign},
		{KeySource, p.Source},
		{KeyMedium, p.Medium},
		{KeyContent, p.Content},
		{KeyTerm, p.Term},
		{KeyCustom1, p.Custom1},
		{KeyCustom2, p.Custom2},
		{KeyCustom3, p.Custom3},
	}
	out := all[:0]
	for _, kv := range all {
		if kv.value != "" {
			out = append(out, kv)
		}
	}
	return out
}

func (p Params) checkRequired() error {
	required := []pair{
		{"campaign", p.Campaign},
		{"source", p.Source},
		{"medium", p.Medium},
	}
	for _, f := range required {
		if f.value == "" {
			return fieldError(f.key, ErrMissingParameter)
		}
	}
	return nil
}

func (p *Params) set(key, value string) {
	switch strings.ToLower(key) {
	case KeyCampaign:
		p.Campaign = value
	case KeySource:
		p.Source = value
	case KeyMedium:
		p.Medium = value
	case KeyContent:
		p.Content = value
	case KeyTerm:
		p.Term = value
	case KeyCustom1:
		p.Custom1 = value
	case KeyCustom2:
		p.Custom2 = value
	case KeyCustom3:
		p.Custom3 = value
	}
}
