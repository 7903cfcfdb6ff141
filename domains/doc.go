// Package domains provides leaf domains and simple combinators built on the
// domain contract: integer ranges, booleans, constants, element choices,
// vectors and value mapping.
//
// Every constructor returns a pointer whose With* methods return configured
// copies, so a domain value can be shared once built.
package domains
