package models

import (
	"context"
	"strings"
	"time"

	"github.com/limansoft/liman_backend/config"
	"github.com/limansoft/liman_backend/sgk"
)

// ResolveSgkStatus computes an employee's compliance verdict for
// requiredPeriod ("YYYY-MM"). The caller supplies pre-loaded period flags and
// entry-declaration documents, so list-style dashboards can resolve many
// employees without per-row queries.
func ResolveSgkStatus(emp *Employee, flags []EmployeePeriodFlag, hireDocs []EmployeeDocument, requiredPeriod string) SgkStatus {
	requiredCode, err := sgk.NormalizePeriod(requiredPeriod)
	if err != nil {
		return SgkStatusEksik
	}

	base := SgkStatusEksik
	for _, flag := range flags {
		if flag.PeriodCode == requiredCode && flag.IsActive {
			base = SgkStatusTam
			break
		}
	}
	if base != SgkStatusTam && emp.WasActiveInLastPeriod &&
		emp.LastCheckPeriodCode != nil && *emp.LastCheckPeriodCode >= requiredPeriod {
		// Lexicographic compare is safe: both sides are zero-padded "YYYY-MM".
		base = SgkStatusTam
	}
	if base == SgkStatusTam {
		return SgkStatusTam
	}

	// Entry-declaration fallback: a hire declaration stands in for the
	// missing monthly listing while it awaits (or has) approval.
	latest := latestDocument(hireDocs)
	if latest == nil {
		return base
	}
	if latest.Status == nil {
		// Rows that predate the approval workflow are treated as approved.
		return SgkStatusTam
	}
	switch strings.ToUpper(*latest.Status) {
	case DocumentStatusApproved, DocumentStatusOk:
		return SgkStatusTam
	case DocumentStatusPending, DocumentStatusUploaded, DocumentStatusOnayBekliyor:
		return SgkStatusOnayBekliyor
	}
	return base
}

func latestDocument(docs []EmployeeDocument) *EmployeeDocument {
	var latest *EmployeeDocument
	for i := range docs {
		if latest == nil || docs[i].UploadedAt.After(latest.UploadedAt) {
			latest = &docs[i]
		}
	}
	return latest
}

// EmployeeSgkStatus resolves one employee's verdict at refDate, loading the
// needed rows itself. Returns the verdict and the active period ("YYYY-MM").
func EmployeeSgkStatus(ctx context.Context, oracle sgk.HolidayOracle, emp *Employee, refDate time.Time) (SgkStatus, string, error) {
	requiredPeriod := sgk.ActivePeriodFor(ctx, oracle, refDate)
	requiredCode, err := sgk.NormalizePeriod(requiredPeriod)
	if err != nil {
		return SgkStatusEksik, requiredPeriod, err
	}

	db := config.GetDB()
	flags, err := ListPeriodFlags(db.WithContext(ctx), emp.ID, requiredCode)
	if err != nil {
		return SgkStatusEksik, requiredPeriod, err
	}
	docs, err := ListEntryDeclarations(ctx, emp.ID)
	if err != nil {
		return SgkStatusEksik, requiredPeriod, err
	}

	return ResolveSgkStatus(emp, flags, docs, requiredPeriod), requiredPeriod, nil
}
