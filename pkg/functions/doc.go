// Package functions provides the function families shared by the dialects:
// standard scalars and aggregates plus the emulations for features a target
// database lacks (trim, pad, locate, count, cast, concat, ordered-set
// aggregates and generate_series).
//
// Each family is a function.Contributor. It reads the capability flags of
// the dialect once, at registration, and closes over the strategy it picks.
package functions
