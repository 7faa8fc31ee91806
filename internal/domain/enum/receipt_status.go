package enum

import (
	"database/sql/driver"
	"fmt"
)

// ReceiptStatus represents the verification state of a payment receipt.
type ReceiptStatus string

const (
	ReceiptStatusPending  ReceiptStatus = "pending"
	ReceiptStatusVerified ReceiptStatus = "verified"
	ReceiptStatusRejected ReceiptStatus = "rejected"
)

func (s ReceiptStatus) String() string {
	return string(s)
}

// Valid reports whether the value belongs to the closed enum.
func (s ReceiptStatus) Valid() bool {
	switch s {
	case ReceiptStatusPending, ReceiptStatusVerified, ReceiptStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether the receipt can no longer change.
// Corrections require a new receipt, never re-editing a settled one.
func (s ReceiptStatus) IsTerminal() bool {
	return s == ReceiptStatusVerified || s == ReceiptStatusRejected
}

func (s ReceiptStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *ReceiptStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ReceiptStatusPending
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = ReceiptStatus(v)
	case []byte:
		*s = ReceiptStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into ReceiptStatus", value)
	}
	return nil
}
