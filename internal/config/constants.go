package config

import "time"

// Application constants
const (
	AppName = "delivery-tracker"

	// Archive
	DefaultLandingURL     = "https://www.nseindia.com"
	DefaultReferer        = "https://www.nseindia.com/all-reports"
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultAccept         = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	DefaultAcceptLanguage = "en-US,en;q=0.9"

	DefaultRequestTimeout = 25 * time.Second
	DefaultWarmupTimeout  = 15 * time.Second
	DefaultFetchAttempts  = 4
	DefaultRetryDelay     = 1 * time.Second

	// File Paths (relative to executable)
	DefaultDataDir = "data"
	DefaultLogsDir = "logs"

	// Artifact naming
	RawReportPrefix   = "MTO_"
	RawReportExt      = ".DAT"
	CleanCSVPrefix    = "delivery_"
	RankingFilePrefix = "top10_"
	CSVExt            = ".csv"
	XLSXExt           = ".xlsx"
)

// DefaultMirrors are the archive hosts serving identical MTO files, tried in order.
var DefaultMirrors = []string{
	"https://archives.nseindia.com/archives/equities/mto",
	"https://nsearchives.nseindia.com/archives/equities/mto",
	"https://www1.nseindia.com/archives/equities/mto",
}
