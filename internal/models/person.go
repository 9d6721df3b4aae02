package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// NationalID is the DPI, a 13-digit national identity number. It does not fit in 32 bits.
type NationalID int64

// UnmarshalJSON accepts both a JSON number and a numeric string.
func (n *NationalID) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		return fmt.Errorf("dpi is required")
	}
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("dpi must be a positive integer")
	}
	*n = NationalID(v)
	return nil
}

// MarshalJSON writes the DPI as a string so clients never lose precision.
func (n NationalID) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatInt(int64(n), 10))
}

func (n NationalID) String() string { return strconv.FormatInt(int64(n), 10) }

// Person is a registrant identified by DPI.
type Person struct {
	ID         int64      `json:"id_persona"`
	GivenNames string     `json:"nombres"`
	Surnames   string     `json:"apellidos"`
	Email      *string    `json:"email,omitempty"`
	Phone      *string    `json:"telefono,omitempty"`
	NationalID NationalID `json:"dpi"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// FullName is given names followed by surnames.
func (p Person) FullName() string {
	return p.GivenNames + " " + p.Surnames
}
