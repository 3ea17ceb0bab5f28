package http

import (
	"strings"
	"time"

	apierrors "deliverycli/internal/errors"
	"deliverycli/internal/files"
	"deliverycli/internal/services"
	api "deliverycli/pkg/contracts/api/v1"
	"deliverycli/pkg/contracts/domain"
)

// resolveDate maps a validated date token to a calendar date. latest picks
// the newest clean table on disk.
func resolveDate(token string, discovery *files.Discovery, now time.Time) (time.Time, error) {
	if !strings.EqualFold(strings.TrimSpace(token), api.LatestToken) {
		d, err := domain.ParseTargetDate(token, now)
		if err != nil {
			return time.Time{}, apierrors.NewAppValidationError(err.Error())
		}
		return d, nil
	}

	tables, err := discovery.CleanTables()
	if err != nil {
		return time.Time{}, apierrors.NewStorageError("list clean tables", err)
	}
	latest, ok := files.GetLatestFile(tables)
	if !ok {
		return time.Time{}, apierrors.NewAppError(apierrors.ErrTypeMissingFile, services.ErrNoCleanTables.Error(), services.ErrNoCleanTables)
	}
	return latest.Date, nil
}
