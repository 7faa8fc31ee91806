package request

import "github.com/shopspring/decimal"

// UploadReceiptRequest represents a receipt upload request
type UploadReceiptRequest struct {
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	Source  string          `json:"source" binding:"required,oneof=bot admin phone"`
	FileID  string          `json:"file_id" binding:"max=255"`
	Comment string          `json:"comment" binding:"max=2000"`
}

// VerifyReceiptRequest represents a receipt verification request. Amount,
// when present, overrides the claimed amount.
type VerifyReceiptRequest struct {
	Amount  *decimal.Decimal `json:"amount"`
	Comment string           `json:"comment" binding:"max=2000"`
}

// RejectReceiptRequest represents a receipt rejection request
type RejectReceiptRequest struct {
	Comment string `json:"comment" binding:"max=2000"`
}
