// Package lawgokr talks to the national law information portal
// (law.go.kr): a rate-limited HTTP client with retry and backoff,
// plus the parsers for the statute listing pages. Detail page
// parsing lives in normalisers/lawhtml.
package lawgokr
