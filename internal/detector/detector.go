// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
)

// Format is the declared format tag of a document
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatImage Format = "image"
	FormatDOCX  Format = "docx"
	FormatXLSX  Format = "xlsx"
	FormatText  Format = "txt"
)

// KnownFormats lists every format the engine has an extractor and a redactor for
func KnownFormats() []Format {
	return []Format{FormatPDF, FormatImage, FormatDOCX, FormatXLSX, FormatText}
}

// ParseFormat normalizes a format tag. Unknown tags are returned as-is so that
// callers can reject them against the configured supported set.
func ParseFormat(s string) Format {
	tag := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, ".")))
	switch tag {
	case "text", "plain", "plaintext":
		return FormatText
	case "img", "picture":
		return FormatImage
	}
	return Format(tag)
}

// FormatFromPath maps a file extension to a format tag
func FormatFromPath(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return FormatPDF
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff":
		return FormatImage
	case ".docx":
		return FormatDOCX
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".txt", ".text", ".log", ".csv", ".md":
		return FormatText
	case "":
		return FormatText
	}
	return Format(strings.TrimPrefix(ext, "."))
}

// Document is the immutable input of one engine invocation
type Document struct {
	Name   string
	Format Format
	data   []byte
}

// NewDocument copies data so later changes by the caller cannot leak into the pipeline
func NewDocument(name string, format Format, data []byte) *Document {
	buf := make([]byte, len(data))
	copy(buf, data)
	return &Document{Name: name, Format: format, data: buf}
}

// Reader returns a fresh reader over the document bytes
func (d *Document) Reader() *bytes.Reader {
	return bytes.NewReader(d.data)
}

// Bytes returns a copy of the document bytes
func (d *Document) Bytes() []byte {
	buf := make([]byte, len(d.data))
	copy(buf, d.data)
	return buf
}

// Size returns the document size in bytes
func (d *Document) Size() int64 {
	return int64(len(d.data))
}

func (d *Document) String() string {
	return fmt.Sprintf("%s (%s, %d bytes)", d.Name, d.Format, len(d.data))
}

// Category is the closed set of PII kinds the engine knows about
type Category int

const (
	Aadhaar Category = iota
	PAN
	DrivingLicense
	Passport
	VoterID
	PaymentCard
	BankAccount
	IFSC
	Mobile
	Email
	DateOfBirth
	Age
	Pincode
	Address
	PersonName
	FatherName
	MotherName
	BiometricID
	HealthID

	numCategories
)

var categoryNames = [numCategories]string{
	Aadhaar:        "AADHAAR",
	PAN:            "PAN",
	DrivingLicense: "DRIVING_LICENSE",
	Passport:       "PASSPORT",
	VoterID:        "VOTER_ID",
	PaymentCard:    "PAYMENT_CARD",
	BankAccount:    "BANK_ACCOUNT",
	IFSC:           "IFSC",
	Mobile:         "MOBILE",
	Email:          "EMAIL",
	DateOfBirth:    "DOB",
	Age:            "AGE",
	Pincode:        "PINCODE",
	Address:        "ADDRESS",
	PersonName:     "PERSON_NAME",
	FatherName:     "FATHER_NAME",
	MotherName:     "MOTHER_NAME",
	BiometricID:    "BIOMETRIC_ID",
	HealthID:       "HEALTH_ID",
}

// priority 1 is the most specific kind of identifier
var categoryPriority = [numCategories]int{
	Aadhaar:        1,
	PAN:            1,
	DrivingLicense: 2,
	Passport:       2,
	VoterID:        2,
	PaymentCard:    1,
	BankAccount:    2,
	IFSC:           2,
	Mobile:         1,
	Email:          1,
	DateOfBirth:    1,
	Age:            3,
	Pincode:        2,
	Address:        3,
	PersonName:     3,
	FatherName:     2,
	MotherName:     2,
	BiometricID:    3,
	HealthID:       2,
}

// AllCategories returns every category in declaration order
func AllCategories() []Category {
	out := make([]Category, 0, numCategories)
	for c := Category(0); c < numCategories; c++ {
		out = append(out, c)
	}
	return out
}

func (c Category) String() string {
	if !c.Valid() {
		return "UNKNOWN"
	}
	return categoryNames[c]
}

// Valid reports whether c is one of the declared categories
func (c Category) Valid() bool {
	return c >= 0 && c < numCategories
}

// Priority returns 1 (most specific) to 3 (least specific)
func (c Category) Priority() int {
	if !c.Valid() {
		return 4
	}
	return categoryPriority[c]
}

// MandatoryValidator reports whether a failed validation for this category,
// combined with a non-positive context signal, rejects the candidate outright.
func (c Category) MandatoryValidator() bool {
	switch c {
	case Aadhaar, PAN, PaymentCard, IFSC, Mobile, Email, DrivingLicense, VoterID:
		return true
	default:
		return false
	}
}

// ParseCategory accepts the canonical name in any case, with '-' or ' ' for '_'
func ParseCategory(s string) (Category, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	name = strings.NewReplacer("-", "_", " ", "_").Replace(name)
	switch name {
	case "CREDIT_CARD", "CARD":
		return PaymentCard, nil
	case "PHONE", "MOBILE_NUMBER":
		return Mobile, nil
	case "NAME":
		return PersonName, nil
	case "DATE_OF_BIRTH":
		return DateOfBirth, nil
	}
	for c, n := range categoryNames {
		if n == name {
			return Category(c), nil
		}
	}
	return -1, fmt.Errorf("unknown PII category %q", s)
}

// MarshalText implements encoding.TextMarshaler so categories serialize by name
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
