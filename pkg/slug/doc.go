// Package slug turns display names into URL-safe identifiers.
//
//	slug.Make("Black Friday – Früh 2024")          // "black-friday-fruh-2024"
//	slug.Make("Spring Launch", slug.MaxLength(8)) // "spring"
//	slug.Make("Spring Launch", slug.WithSuffix(4)) // "spring-launch-x7g3"
//
// Accents are removed by Unicode decomposition (golang.org/x/text), a few
// letters without a decomposition (ß, æ, ø, ł, đ) are mapped by hand, and every
// other run of non-alphanumeric characters becomes one separator.
package slug
