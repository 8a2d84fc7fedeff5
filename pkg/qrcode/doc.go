// Package qrcode renders tracking links as PNG QR codes using
// github.com/skip2/go-qrcode.
//
//	png, err := qrcode.Generate(link.FullURL, qrcode.WithSize(512))
//
// Sizes are clamped to [MinSize, MaxSize]; GenerateDataURI returns the same
// image as a data: URI for embedding in JSON responses.
package qrcode
