package limits

// Resource is a countable per-account entity.
type Resource string

const (
	ResourceCampaigns Resource = "campaigns"
	ResourceLinks     Resource = "links"
	ResourceMembers   Resource = "members"
)

// Unlimited disables a resource limit.
const Unlimited int64 = -1

// Feature is a capability granted by a plan.
type Feature string

const (
	// FeatureCustomParams allows utm_custom1..3 on links.
	FeatureCustomParams Feature = "custom_params"
	// FeatureQRCodes allows QR code downloads.
	FeatureQRCodes Feature = "qr_codes"
	// FeatureWizard allows the guided campaign wizard.
	FeatureWizard Feature = "wizard"
)

// UsageInfo contains the current usage and limit for a resource.
type UsageInfo struct {
	Current int64 `json:"current"`
	Limit   int64 `json:"limit"`
}
