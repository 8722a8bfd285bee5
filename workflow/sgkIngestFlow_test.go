package workflow

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/limansoft/liman_backend/models"
	"github.com/limansoft/liman_backend/sgk"
	"github.com/limansoft/liman_backend/utils"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// calmOracle reports no holidays, so the cutoff stays on the plain 26th.
type calmOracle struct{}

func (calmOracle) IsHoliday(ctx context.Context, date time.Time) bool { return false }

// ingestNow pins the reference date to 2024-11-10, which puts 2024-10 as the
// active period (before the November cutoff).
func ingestNow() time.Time {
	return time.Date(2024, time.November, 10, 9, 0, 0, 0, time.UTC)
}

func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return gormDB, mock
}

func testIngestDeps(t *testing.T, db *gorm.DB, extract func([]byte) sgk.ExtractResult) (IngestDeps, string) {
	t.Helper()
	root := t.TempDir()
	return IngestDeps{
		DB:      db,
		Extract: extract,
		Oracle:  calmOracle{},
		Storage: utils.NewLocalStorage(root),
		Now:     ingestNow,
	}, root
}

func countStoredFiles(t *testing.T, root string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walking storage root: %v", err)
	}
	return n
}

func TestIngestRejectsPeriodMismatch(t *testing.T) {
	// The listing itself says 2024-10 but the form claims 2024-11. The branch
	// runs before any database access, and the stored file must not survive.
	extract := func([]byte) sgk.ExtractResult {
		return sgk.ExtractResult{
			PeriodCode:     "202410",
			IdentityToName: map[string]string{"10000000146": "MEHMET YILMAZ"},
			Order:          []string{"10000000146"},
		}
	}
	deps, root := testIngestDeps(t, nil, extract)
	firm := &models.Firm{ID: 1, FirmCode: "AP-001"}

	res, err := IngestSgkListing(context.Background(), firm, "2024-11", []byte("%PDF-1.4 listing"), nil, deps)
	if !errors.Is(err, utils.ErrPeriodMismatch) {
		t.Fatalf("expected period mismatch, got res=%+v err=%v", res, err)
	}
	if res != nil {
		t.Fatalf("expected nil result on mismatch, got %+v", res)
	}
	if n := countStoredFiles(t, root); n != 0 {
		t.Fatalf("expected no file left behind after mismatch, found %d", n)
	}
}

func TestIngestRejectsStalePeriod(t *testing.T) {
	extract := func([]byte) sgk.ExtractResult {
		t.Fatal("extract must not run for a stale period")
		return sgk.ExtractResult{}
	}
	deps, root := testIngestDeps(t, nil, extract)
	firm := &models.Firm{ID: 1, FirmCode: "AP-001"}

	// Active period is 2024-10; 2024-08 lags by two months.
	_, err := IngestSgkListing(context.Background(), firm, "2024-08", []byte("%PDF-1.4"), nil, deps)
	if !errors.Is(err, utils.ErrStalePeriod) {
		t.Fatalf("expected stale period, got %v", err)
	}
	if n := countStoredFiles(t, root); n != 0 {
		t.Fatalf("stale upload must not be stored, found %d files", n)
	}
}

func TestIngestRejectsOversizedFile(t *testing.T) {
	t.Setenv("SGK_MAX_FILE_SIZE_BYTES", "8")
	deps, root := testIngestDeps(t, nil, func([]byte) sgk.ExtractResult {
		t.Fatal("extract must not run for an oversized file")
		return sgk.ExtractResult{}
	})
	firm := &models.Firm{ID: 1, FirmCode: "AP-001"}

	_, err := IngestSgkListing(context.Background(), firm, "2024-10", []byte("123456789"), nil, deps)
	if !errors.Is(err, utils.ErrFileTooLarge) {
		t.Fatalf("expected file too large, got %v", err)
	}
	if n := countStoredFiles(t, root); n != 0 {
		t.Fatalf("oversized upload must not be stored, found %d files", n)
	}
}

type failingStorage struct{}

func (failingStorage) WriteBytes(relPath string, data []byte) error {
	return errors.New("disk full")
}
func (failingStorage) Remove(relPath string) error { return nil }

func (failingStorage) AbsolutePath(relPath string) string { return relPath }

func TestIngestWrapsStorageFailure(t *testing.T) {
	deps := IngestDeps{
		Extract: func([]byte) sgk.ExtractResult {
			t.Fatal("extract must not run when the write failed")
			return sgk.ExtractResult{}
		},
		Oracle:  calmOracle{},
		Storage: failingStorage{},
		Now:     ingestNow,
	}
	firm := &models.Firm{ID: 1, FirmCode: "AP-001"}

	_, err := IngestSgkListing(context.Background(), firm, "2024-10", []byte("%PDF-1.4"), nil, deps)
	if !errors.Is(err, utils.ErrStorageWriteFailed) {
		t.Fatalf("expected storage write failure, got %v", err)
	}
}

func TestIngestPersistsFailedParse(t *testing.T) {
	db, mock := newMockGormDB(t)
	extract := func([]byte) sgk.ExtractResult {
		return sgk.ExtractResult{IdentityToName: map[string]string{}}
	}
	deps, root := testIngestDeps(t, db, extract)
	firm := &models.Firm{ID: 3, FirmCode: "AP-001"}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `period_checks`").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	res, err := IngestSgkListing(context.Background(), firm, "2024-10", []byte("not a pdf"), nil, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != models.PeriodCheckStatusFailedParse {
		t.Fatalf("expected FAILED_PARSE, got %s", res.Status)
	}
	if res.PeriodCheckId != 42 {
		t.Fatalf("expected persisted row id 42, got %d", res.PeriodCheckId)
	}
	if res.Matched != 0 || res.Missing != 0 || res.Extra != 0 {
		t.Fatalf("counts must be zero on parse failure, got %+v", res)
	}
	// The unreadable file stays for later inspection.
	if n := countStoredFiles(t, root); n != 1 {
		t.Fatalf("expected the rejected file on disk, found %d files", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIngestReleasesLockAfterCommit(t *testing.T) {
	db, mock := newMockGormDB(t)
	extract := func([]byte) sgk.ExtractResult {
		return sgk.ExtractResult{
			IdentityToName: map[string]string{
				"10000000146": "MEHMET YILMAZ",
				"99999999990": "",
			},
			Order: []string{"10000000146", "99999999990"},
		}
	}
	deps, _ := testIngestDeps(t, db, extract)
	firm := &models.Firm{ID: 3, FirmCode: "AP-001"}

	// Expectations are ordered: RELEASE_LOCK after COMMIT is the contract
	// under test. Employee 1 matches the listing, employee 2 is missing,
	// 99999999990 is extra.
	mock.ExpectQuery("SELECT \\* FROM `employees`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "national_id", "is_active"}).
			AddRow(1, "10000000146", true).
			AddRow(2, "20000000230", true))
	mock.ExpectQuery("SELECT \\* FROM `employee_documents`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT GET_LOCK").
		WillReturnRows(sqlmock.NewRows([]string{"GET_LOCK"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `employee_period_flags`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE `employees`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `employees`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `period_checks`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT RELEASE_LOCK").
		WillReturnRows(sqlmock.NewRows([]string{"RELEASE_LOCK"}).AddRow(1))

	res, err := IngestSgkListing(context.Background(), firm, "2024-10", []byte("%PDF-1.4 listing"), nil, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != models.PeriodCheckStatusOk {
		t.Fatalf("expected OK, got %s", res.Status)
	}
	if res.PeriodCheckId != 7 || res.Matched != 1 || res.Missing != 1 || res.Extra != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
