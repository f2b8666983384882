package export

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/TierPay/app/models"
	"github.com/ManuelReschke/TierPay/internal/pkg/bankfile"
	"github.com/ManuelReschke/TierPay/internal/pkg/payment"
)

type fakeAggregator struct {
	batch *payment.Batch
	err   error
	month string
}

func (f *fakeAggregator) Aggregate(_ context.Context, month string, _ ...string) (*payment.Batch, error) {
	f.month = month
	return f.batch, f.err
}

type fakeArchiver struct {
	stored map[string][]byte
	err    error
}

func (f *fakeArchiver) Store(_ context.Context, month, fileName, _ string, body []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.stored == nil {
		f.stored = map[string][]byte{}
	}
	key := "exports/" + month + "/" + fileName
	f.stored[key] = body
	return key, nil
}

var paymentDate = time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC)

func testBatch() *payment.Batch {
	agency := &models.Agency{
		ID: 1, Name: "Alpha", Tier: 1,
		BankCode: "0001", BranchCode: "001", AccountType: models.AccountTypeOrdinary,
		AccountNumber: "1234567", AccountHolder: "ｱﾙﾌｧ",
	}
	return &payment.Batch{
		Month:          "2026-09",
		MinimumPayable: 10000,
		Payable: []payment.AgencyTotal{{
			AgencyID: 1, Agency: agency, CommissionCount: 2,
			BaseAmount: 50000, FinalAmount: 50000, HasBankDetails: true,
		}},
		TotalPayable: 50000,
	}
}

func TestExportFormats(t *testing.T) {
	tests := []struct {
		format   bankfile.Format
		name     string
		contains string
	}{
		{bankfile.FormatCSV, "commission_payments_202609.csv", "agency_id"},
		{bankfile.FormatStatement, "statement_202609.txt", bankfile.EndOfStatement},
		{bankfile.FormatZengin, "transfer_202609.txt", "1025"},
		{bankfile.FormatXLSX, "commission_payments_202609.xlsx", "PK"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			agg := &fakeAggregator{batch: testBatch()}
			svc := NewService(agg, bankfile.Header{RequesterCode: "1"}, nil)

			file, err := svc.Export(context.Background(), "2026-09", tt.format, paymentDate)
			require.NoError(t, err)
			assert.Equal(t, "2026-09", agg.month)
			assert.Equal(t, tt.name, file.Name)
			assert.Equal(t, tt.format.ContentType(), file.ContentType)
			assert.True(t, bytes.Contains(file.Body, []byte(tt.contains)))
			assert.Empty(t, file.ArchiveKey)
			assert.Same(t, agg.batch, file.Batch)
		})
	}
}

func TestExportArchives(t *testing.T) {
	archiver := &fakeArchiver{}
	svc := NewService(&fakeAggregator{batch: testBatch()}, bankfile.Header{}, archiver)

	file, err := svc.Export(context.Background(), "2026-09", bankfile.FormatCSV, paymentDate)
	require.NoError(t, err)
	assert.Equal(t, "exports/2026-09/commission_payments_202609.csv", file.ArchiveKey)
	assert.Equal(t, file.Body, archiver.stored[file.ArchiveKey])
}

func TestExportArchiveFailureIsNotFatal(t *testing.T) {
	svc := NewService(&fakeAggregator{batch: testBatch()}, bankfile.Header{},
		&fakeArchiver{err: errors.New("bucket gone")})

	file, err := svc.Export(context.Background(), "2026-09", bankfile.FormatStatement, paymentDate)
	require.NoError(t, err)
	assert.NotEmpty(t, file.Body)
	assert.Empty(t, file.ArchiveKey)
}

func TestExportErrors(t *testing.T) {
	failing := &fakeAggregator{err: payment.ErrInvalidMonth}
	_, err := NewService(failing, bankfile.Header{}, nil).Export(context.Background(), "bad", bankfile.FormatCSV, paymentDate)
	assert.ErrorIs(t, err, payment.ErrInvalidMonth)

	svc := NewService(&fakeAggregator{batch: testBatch()}, bankfile.Header{}, nil)
	_, err = svc.Export(context.Background(), "2026-09", bankfile.Format("pdf"), paymentDate)
	assert.Error(t, err)

	_, err = svc.Export(context.Background(), "2026-09", bankfile.FormatZengin, time.Time{})
	assert.Error(t, err)
}

func TestHeaderFromEnv(t *testing.T) {
	t.Setenv("ZENGIN_REQUESTER_CODE", "1234567890")
	t.Setenv("ZENGIN_BANK_CODE", "0005")

	h := HeaderFromEnv()
	assert.Equal(t, "1234567890", h.RequesterCode)
	assert.Equal(t, "0005", h.BankCode)
	assert.Equal(t, "000", h.BranchCode)
	assert.True(t, h.TransferDate.IsZero())
}
