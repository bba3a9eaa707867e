// Package logging wraps zerolog for mixtape.
//
// Diagnostics default to stderr so they never interleave with the menu on
// stdout. The level and format come from LOG_LEVEL and LOG_FORMAT.
package logging
