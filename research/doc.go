// Package research aggregates public information about a named organization
// from pluggable summary sources and reconciles conflicting founding-year
// signals. Source failures are never propagated: every failing source simply
// contributes an empty summary, so Research is a total function that always
// returns a usable Result.
package research
