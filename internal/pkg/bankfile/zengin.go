package bankfile

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/width"

	"github.com/ManuelReschke/TierPay/app/models"
	"github.com/ManuelReschke/TierPay/internal/pkg/payment"
)

const (
	RecordLength = 120

	recordHeader  = '1'
	recordData    = '2'
	recordTrailer = '8'
	recordEnd     = '9'

	kindGeneralTransfer = "21"
	transferClass       = "7"
)

var crlf = []byte("\r\n")

// Header is the remitter side of a transfer file.
type Header struct {
	RequesterCode string
	RequesterName string
	TransferDate  time.Time
	BankCode      string
	BankName      string
	BranchCode    string
	BranchName    string
	AccountType   string
	AccountNumber string
}

// Zengin renders the payable agencies of batch as a fixed-width domestic
// transfer file in Shift_JIS. Agencies without complete bank details are left
// out of the data records and of the trailer totals.
func Zengin(batch *payment.Batch, h Header) ([]byte, error) {
	if h.TransferDate.IsZero() {
		return nil, fmt.Errorf("transfer date is required")
	}

	records := make([][]byte, 0, len(batch.Payable)+3)

	header, err := headerRecord(h)
	if err != nil {
		return nil, fmt.Errorf("header record: %w", err)
	}
	records = append(records, header)

	var count, total int64
	for i := range batch.Payable {
		p := &batch.Payable[i]
		if p.Agency == nil || !p.Agency.HasCompleteBankAccount() || p.FinalAmount <= 0 {
			continue
		}
		rec, err := dataRecord(p)
		if err != nil {
			return nil, fmt.Errorf("data record for agency %d: %w", p.AgencyID, err)
		}
		records = append(records, rec)
		count++
		total += p.FinalAmount
	}

	trailer := newRecord(recordTrailer)
	trailer.number(count, 6)
	trailer.number(total, 12)
	trailer.filler(101)
	rec, err := trailer.bytes()
	if err != nil {
		return nil, fmt.Errorf("trailer record: %w", err)
	}
	records = append(records, rec)

	end := newRecord(recordEnd)
	end.filler(119)
	rec, err = end.bytes()
	if err != nil {
		return nil, fmt.Errorf("end record: %w", err)
	}
	records = append(records, rec)

	return bytes.Join(records, crlf), nil
}

func headerRecord(h Header) ([]byte, error) {
	r := newRecord(recordHeader)
	r.raw(kindGeneralTransfer)
	r.raw("0")
	r.digits(h.RequesterCode, 10)
	r.text(h.RequesterName, 40)
	r.raw(h.TransferDate.Format("0102"))
	r.digits(h.BankCode, 4)
	r.text(h.BankName, 15)
	r.digits(h.BranchCode, 3)
	r.text(h.BranchName, 15)
	r.raw(accountTypeCode(h.AccountType))
	r.digits(h.AccountNumber, 7)
	r.filler(17)
	return r.bytes()
}

func dataRecord(p *payment.AgencyTotal) ([]byte, error) {
	a := p.Agency
	r := newRecord(recordData)
	r.digits(a.BankCode, 4)
	r.text(a.BankName, 15)
	r.digits(a.BranchCode, 3)
	r.text(a.BranchName, 15)
	r.filler(4)
	r.raw(accountTypeCode(a.AccountType))
	r.digits(a.AccountNumber, 7)
	r.text(a.TransferName(), 30)
	r.number(p.FinalAmount, 10)
	r.raw("0")
	r.number(int64(p.AgencyID), 10)
	r.filler(10)
	r.raw(transferClass)
	r.filler(1)
	r.filler(7)
	return r.bytes()
}

func accountTypeCode(t string) string {
	if t == models.AccountTypeCurrent {
		return "2"
	}
	return "1"
}

// record accumulates one fixed-width line. The first error sticks.
type record struct {
	buf []byte
	err error
}

func newRecord(kind byte) *record {
	r := &record{buf: make([]byte, 0, RecordLength)}
	r.buf = append(r.buf, kind)
	return r
}

func (r *record) raw(s string) {
	r.buf = append(r.buf, s...)
}

func (r *record) filler(n int) {
	r.buf = append(r.buf, bytes.Repeat([]byte{' '}, n)...)
}

// digits writes a numeric code right-aligned and zero-padded.
func (r *record) digits(s string, n int) {
	if r.err != nil {
		return
	}
	s = strings.TrimSpace(s)
	for _, c := range s {
		if c < '0' || c > '9' {
			r.err = fmt.Errorf("code %q is not numeric", s)
			return
		}
	}
	if len(s) > n {
		r.err = fmt.Errorf("code %q exceeds %d digits", s, n)
		return
	}
	r.raw(strings.Repeat("0", n-len(s)) + s)
}

func (r *record) number(v int64, n int) {
	if r.err != nil {
		return
	}
	if v < 0 {
		r.err = fmt.Errorf("negative amount %d", v)
		return
	}
	r.digits(strconv.FormatInt(v, 10), n)
}

// text writes s as half-width Shift_JIS, cut at n bytes on a character
// boundary and padded with spaces.
func (r *record) text(s string, n int) {
	encoded := EncodeText(s, n)
	r.buf = append(r.buf, encoded...)
	r.filler(n - len(encoded))
}

func (r *record) bytes() ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	if len(r.buf) != RecordLength {
		return nil, fmt.Errorf("record %q has %d bytes, want %d", r.buf[0], len(r.buf), RecordLength)
	}
	return r.buf, nil
}

// EncodeText narrows s to half-width forms and encodes it to Shift_JIS,
// keeping at most max bytes. Characters Shift_JIS cannot represent become '?'.
func EncodeText(s string, max int) []byte {
	s = strings.ToUpper(width.Narrow.String(strings.TrimSpace(s)))
	enc := japanese.ShiftJIS.NewEncoder()

	out := make([]byte, 0, max)
	for _, c := range s {
		b, err := enc.Bytes([]byte(string(c)))
		if err != nil || len(b) == 0 {
			b = []byte{'?'}
		}
		if len(out)+len(b) > max {
			break
		}
		out = append(out, b...)
	}
	return out
}
