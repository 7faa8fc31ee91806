package enum

import (
	"database/sql/driver"
	"fmt"
)

// ReceiptSource identifies where a payment claim entered the system.
type ReceiptSource string

const (
	ReceiptSourceBot   ReceiptSource = "bot"
	ReceiptSourceAdmin ReceiptSource = "admin"
	ReceiptSourcePhone ReceiptSource = "phone"
)

func (s ReceiptSource) String() string {
	return string(s)
}

// Valid reports whether the value belongs to the closed enum.
func (s ReceiptSource) Valid() bool {
	switch s {
	case ReceiptSourceBot, ReceiptSourceAdmin, ReceiptSourcePhone:
		return true
	}
	return false
}

func (s ReceiptSource) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *ReceiptSource) Scan(value interface{}) error {
	if value == nil {
		*s = ReceiptSourceAdmin
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = ReceiptSource(v)
	case []byte:
		*s = ReceiptSource(v)
	default:
		return fmt.Errorf("cannot scan %T into ReceiptSource", value)
	}
	return nil
}
