package workflow

import (
	"fmt"

	"gorm.io/gorm"
)

// AcquireSgkPeriodLock serializes ingest per (firm, period) across instances
// using MySQL advisory locks.
// NOTE: GET_LOCK is connection-scoped, so acquire and release must run on the
// pinned connection (gorm Connection) that also hosts the ingest transaction.
// Releasing on that connection after the transaction returns means the lock
// outlives the commit.
func AcquireSgkPeriodLock(tx *gorm.DB, firmId int, periodCode string) error {
	lockName := fmt.Sprintf("sgk_ingest:%d:%s", firmId, periodCode)
	var ok int
	if err := tx.Raw("SELECT GET_LOCK(?, 10)", lockName).Scan(&ok).Error; err != nil {
		return err
	}
	if ok != 1 {
		return fmt.Errorf("could not acquire ingest lock for firm_id=%d period=%s", firmId, periodCode)
	}
	return nil
}

func ReleaseSgkPeriodLock(tx *gorm.DB, firmId int, periodCode string) {
	lockName := fmt.Sprintf("sgk_ingest:%d:%s", firmId, periodCode)
	var _ok int
	_ = tx.Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&_ok).Error
}
