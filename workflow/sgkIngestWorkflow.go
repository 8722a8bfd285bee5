package workflow

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/limansoft/liman_backend/config"
	"github.com/limansoft/liman_backend/models"
	"github.com/limansoft/liman_backend/sgk"
	"github.com/limansoft/liman_backend/utils"
	"gorm.io/gorm"
)

// IngestDeps are the injectable collaborators of the ingest flow, so the
// partition and policy logic is testable without MySQL or real PDFs.
type IngestDeps struct {
	DB      *gorm.DB
	Extract func([]byte) sgk.ExtractResult
	Oracle  sgk.HolidayOracle
	Storage utils.StorageProvider
	Now     func() time.Time
}

func DefaultIngestDeps() IngestDeps {
	return IngestDeps{
		DB:      config.GetDB(),
		Extract: sgk.Extract,
		Oracle:  sgk.DefaultHolidayOracle(),
		Storage: utils.NewStorageProvider(),
		Now:     time.Now,
	}
}

type IngestResult struct {
	PeriodCheckId int                      `json:"periodCheckId"`
	Status        models.PeriodCheckStatus `json:"status"`
	Matched       int                      `json:"matched"`
	Missing       int                      `json:"missing"`
	Extra         int                      `json:"extra"`
}

var firmCodeSanitizeRe = regexp.MustCompile(`[^A-Z0-9_-]+`)

// sanitizeFirmCode makes a firm code safe for the on-disk layout.
func sanitizeFirmCode(firmCode string) string {
	code := firmCodeSanitizeRe.ReplaceAllString(strings.ToUpper(firmCode), "_")
	if code == "" {
		return "FIRMA"
	}
	return code
}

// storageRelPath builds "<sanitisedFirmCode>/<YYYYMM>/<timestamp>_<shortChecksum>.pdf",
// relative to the SGK storage root.
func storageRelPath(firmCode string, periodCode string, now time.Time, shortChecksum string) string {
	fileName := now.Format("20060102150405") + "_" + shortChecksum + ".pdf"
	return path.Join(sanitizeFirmCode(firmCode), periodCode, fileName)
}

type reconciliationDiff struct {
	MatchedIds []int    // roster employees present in the PDF
	MissingIds []int    // roster employees absent from the PDF
	ExtraIds   []string // PDF identities not in the roster
}

// partitionRoster classifies roster employees against the identities found
// in the listing.
func partitionRoster(roster []models.RosterEmployee, pdfIds []string) reconciliationDiff {
	inPdf := make(map[string]bool, len(pdfIds))
	for _, id := range pdfIds {
		inPdf[id] = true
	}

	var diff reconciliationDiff
	inRoster := make(map[string]bool, len(roster))
	for _, emp := range roster {
		inRoster[emp.NationalID] = true
		if inPdf[emp.NationalID] {
			diff.MatchedIds = append(diff.MatchedIds, emp.ID)
		} else {
			diff.MissingIds = append(diff.MissingIds, emp.ID)
		}
	}
	for _, id := range pdfIds {
		if !inRoster[id] {
			diff.ExtraIds = append(diff.ExtraIds, id)
		}
	}
	return diff
}

// isStaleUpload rejects back-uploads lagging the active period by two or
// more months. Equal, one-behind and future periods are accepted.
func isStaleUpload(uploadedCode string, activeCode string) bool {
	return sgk.MonthsBetween(uploadedCode, activeCode) >= 2
}

// IngestSgkListing runs the full reconciliation of one uploaded SGK listing.
// FAILED_PARSE is the only failure that still persists a row; every other
// failure aborts without touching the database.
func IngestSgkListing(ctx context.Context, firm *models.Firm, uploadedPeriod string, pdf []byte, uploadedBy *int, deps IngestDeps) (*IngestResult, error) {
	logger := config.GetLogger()
	db := deps.DB

	code, err := sgk.NormalizePeriod(uploadedPeriod)
	if err != nil {
		return nil, err
	}

	now := deps.Now()
	activeCode, err := sgk.NormalizePeriod(sgk.ActivePeriodFor(ctx, deps.Oracle, now))
	if err != nil {
		return nil, err
	}
	if isStaleUpload(code, activeCode) {
		return nil, utils.ErrStalePeriod
	}

	if int64(len(pdf)) > utils.SgkMaxFileSizeBytes() {
		return nil, utils.ErrFileTooLarge
	}

	checksum := utils.Sha256Checksum(pdf)
	relPath := storageRelPath(firm.FirmCode, code, now, utils.ShortChecksum(pdf))
	storageKey := path.Join("uploads", "sgk", relPath)
	if err := deps.Storage.WriteBytes(relPath, pdf); err != nil {
		config.LogError(logger, "sgkIngestWorkflow.go", "IngestSgkListing", "Storage.WriteBytes", relPath, err)
		return nil, fmt.Errorf("%w: %v", utils.ErrStorageWriteFailed, err)
	}

	extracted := deps.Extract(pdf)

	if len(extracted.IdentityToName) == 0 {
		// Unreadable listing: persist the rejection so the firm sees it in
		// its upload history.
		check := models.PeriodCheck{
			FirmID:           firm.ID,
			PeriodCode:       code,
			StorageKey:       storageKey,
			FileSize:         int64(len(pdf)),
			Checksum:         &checksum,
			UploadedAt:       now,
			UploadedByUserID: uploadedBy,
			Status:           models.PeriodCheckStatusFailedParse,
		}
		if err := db.WithContext(ctx).Create(&check).Error; err != nil {
			config.LogError(logger, "sgkIngestWorkflow.go", "IngestSgkListing", "Create FAILED_PARSE PeriodCheck", firm.ID, err)
			return nil, err
		}
		return &IngestResult{PeriodCheckId: check.ID, Status: models.PeriodCheckStatusFailedParse}, nil
	}

	if extracted.PeriodCode != "" && extracted.PeriodCode != code {
		// A mismatch persists nothing; drop the file written above so no
		// orphan stays behind. Best-effort.
		if err := deps.Storage.Remove(relPath); err != nil {
			config.LogError(logger, "sgkIngestWorkflow.go", "IngestSgkListing", "Storage.Remove after period mismatch", relPath, err)
		}
		return nil, utils.ErrPeriodMismatch
	}

	roster, err := models.LoadSgkRoster(ctx, db, firm.ID)
	if err != nil {
		config.LogError(logger, "sgkIngestWorkflow.go", "IngestSgkListing", "LoadSgkRoster", firm.ID, err)
		return nil, err
	}

	diff := partitionRoster(roster.Employees, extracted.Order)
	displayPeriod := sgk.FormatPeriod(code)

	// Lock and transaction share one connection (GET_LOCK is connection
	// scoped); the lock releases only after the transaction has committed.
	var checkId int
	err = db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		if err := AcquireSgkPeriodLock(conn, firm.ID, code); err != nil {
			return err
		}
		defer ReleaseSgkPeriodLock(conn, firm.ID, code)

		return conn.Transaction(func(tx *gorm.DB) error {
			if err := models.UpsertPeriodFlags(tx, diff.MatchedIds, code); err != nil {
				return err
			}

			// Legacy compliance fields stay in sync with the flag rows; missing
			// employees get the fields only, never a flag row.
			if len(diff.MatchedIds) > 0 {
				err := tx.Model(&models.Employee{}).
					Where("id IN ?", diff.MatchedIds).
					Updates(map[string]interface{}{
						"last_check_period_code":    displayPeriod,
						"was_active_in_last_period": true,
					}).Error
				if err != nil {
					return err
				}
			}
			if len(diff.MissingIds) > 0 {
				err := tx.Model(&models.Employee{}).
					Where("id IN ?", diff.MissingIds).
					Updates(map[string]interface{}{
						"last_check_period_code":    displayPeriod,
						"was_active_in_last_period": false,
					}).Error
				if err != nil {
					return err
				}
			}

			check := models.PeriodCheck{
				FirmID:               firm.ID,
				PeriodCode:           code,
				StorageKey:           storageKey,
				FileSize:             int64(len(pdf)),
				Checksum:             &checksum,
				UploadedAt:           now,
				UploadedByUserID:     uploadedBy,
				Status:               models.PeriodCheckStatusOk,
				MatchedEmployeeCount: len(diff.MatchedIds),
				MissingEmployeeCount: len(diff.MissingIds),
				ExtraInSgkCount:      len(diff.ExtraIds),
			}
			if err := tx.Create(&check).Error; err != nil {
				return err
			}
			checkId = check.ID
			return nil
		})
	})
	if err != nil {
		config.LogError(logger, "sgkIngestWorkflow.go", "IngestSgkListing", "ingest transaction", firm.ID, err)
		return nil, err
	}

	return &IngestResult{
		PeriodCheckId: checkId,
		Status:        models.PeriodCheckStatusOk,
		Matched:       len(diff.MatchedIds),
		Missing:       len(diff.MissingIds),
		Extra:         len(diff.ExtraIds),
	}, nil
}
