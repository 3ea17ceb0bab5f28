// Package files stores and discovers the dated artifacts of the delivery
// pipeline.
//
// Manager writes and reads raw MTO reports under the raw directory.
// Discovery lists the dates for which raw reports, clean tables or rankings
// exist, newest first. All locations come from config.Paths.
package files
