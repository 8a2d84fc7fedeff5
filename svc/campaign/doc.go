// Package campaign manages marketing campaigns, the containers tracking links
// are created in. A campaign's utm_campaign value is derived from its name
// with sanitizer.UTMParameter unless given explicitly; its slug is unique per
// account and never changes after creation.
package campaign
