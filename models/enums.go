package models

// SgkStatus is the per-employee compliance verdict.
type SgkStatus string

const (
	SgkStatusTam          SgkStatus = "TAM"
	SgkStatusEksik        SgkStatus = "EKSIK"
	SgkStatusOnayBekliyor SgkStatus = "ONAY_BEKLIYOR"
)

// PeriodCheckStatus is the outcome of one listing ingestion attempt.
type PeriodCheckStatus string

const (
	PeriodCheckStatusOk          PeriodCheckStatus = "OK"
	PeriodCheckStatusFailedParse PeriodCheckStatus = "FAILED_PARSE"
)

// Both document type spellings denote an SGK entry declaration; older records
// carry the short form.
const (
	DocumentTypeSgkIseGiris = "SGK_ISE_GIRIS"
	DocumentTypeSgkGiris    = "SGK_GIRIS"
)

func SgkEntryDeclarationTypes() []string {
	return []string{DocumentTypeSgkIseGiris, DocumentTypeSgkGiris}
}

// Document statuses recognised by the status resolver. Anything else falls
// back to the period-based verdict.
const (
	DocumentStatusUploaded     = "UPLOADED"
	DocumentStatusPending      = "PENDING"
	DocumentStatusApproved     = "APPROVED"
	DocumentStatusOk           = "OK"
	DocumentStatusOnayBekliyor = "ONAY_BEKLIYOR"
)
