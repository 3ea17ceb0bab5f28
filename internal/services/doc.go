// Package services composes the archive, parser, ranking and exporter
// packages into the two pipeline runs.
//
// DeliveryService fetches a day's MTO report, stores it verbatim as
// MTO_<date>.DAT, parses it and writes delivery_<date>.csv. The raw report is
// written before parsing, so a format error leaves the raw file for
// inspection and produces no clean file.
//
// RankingService loads the clean tables of a date and the previous calendar
// day, ranks the change in delivery percentage and writes top10_<date>.csv.
//
// HealthService reports liveness and whether the data directories are usable.
package services
