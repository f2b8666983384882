// Package bankfile renders an aggregated payment batch into the files handed
// to accounting and the bank: a fixed-width transfer file, a spreadsheet
// friendly CSV/XLSX export and a human readable statement.
package bankfile

import (
	"fmt"
	"strings"
)

type Format string

const (
	FormatCSV       Format = "csv"
	FormatZengin    Format = "zengin"
	FormatStatement Format = "statement"
	FormatXLSX      Format = "xlsx"
)

// ParseFormat accepts a format name case-insensitively. An empty name means CSV.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatZengin, FormatStatement, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType is the MIME type of a rendered file.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatZengin:
		return "text/plain; charset=Shift_JIS"
	case FormatStatement:
		return "text/plain; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// FileName builds the download name of a file. Every non-digit is removed
// from month so the result is safe to put into headers and object keys.
func FileName(f Format, month string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, month)

	switch f {
	case FormatZengin:
		return "transfer_" + digits + ".txt"
	case FormatStatement:
		return "statement_" + digits + ".txt"
	case FormatXLSX:
		return "commission_payments_" + digits + ".xlsx"
	default:
		return "commission_payments_" + digits + ".csv"
	}
}
