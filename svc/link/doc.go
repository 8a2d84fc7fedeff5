// Package link creates and serves UTM tracking links.
//
// A link belongs to a campaign and stores the sanitised parameters next to
// the generated URL, so later sanitizer changes never alter a published
// link. The package also offers a preview that builds without persisting,
// an inspector that reads the parameters back from any tagged URL, and QR
// codes for stored links.
package link
