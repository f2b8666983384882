// Package export renders a settlement month into a downloadable file and
// optionally archives it.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/TierPay/internal/pkg/bankfile"
	"github.com/ManuelReschke/TierPay/internal/pkg/env"
	"github.com/ManuelReschke/TierPay/internal/pkg/metrics"
	"github.com/ManuelReschke/TierPay/internal/pkg/payment"
)

// BatchAggregator builds the batch of a month.
type BatchAggregator interface {
	Aggregate(ctx context.Context, month string, statuses ...string) (*payment.Batch, error)
}

// Archiver stores a rendered file.
type Archiver interface {
	Store(ctx context.Context, month, fileName, contentType string, body []byte) (string, error)
}

// File is a rendered export.
type File struct {
	Name        string
	ContentType string
	Format      bankfile.Format
	Body        []byte
	ArchiveKey  string
	Batch       *payment.Batch
}

// Service handles export business logic
type Service struct {
	aggregator BatchAggregator
	header     bankfile.Header
	archiver   Archiver
}

// NewService creates an export service. archiver may be nil.
func NewService(aggregator BatchAggregator, header bankfile.Header, archiver Archiver) *Service {
	return &Service{
		aggregator: aggregator,
		header:     header,
		archiver:   archiver,
	}
}

// Export aggregates the approved commissions of month and renders them.
// paymentDate is the transfer date of the fixed-width file and the date
// printed on the statement.
func (s *Service) Export(ctx context.Context, month string, format bankfile.Format, paymentDate time.Time) (*File, error) {
	batch, err := s.aggregator.Aggregate(ctx, month)
	if err != nil {
		return nil, err
	}

	var body []byte
	switch format {
	case bankfile.FormatCSV:
		body, err = bankfile.CSV(batch)
	case bankfile.FormatXLSX:
		body, err = bankfile.XLSX(batch)
	case bankfile.FormatStatement:
		body = bankfile.Statement(batch, paymentDate)
	case bankfile.FormatZengin:
		header := s.header
		header.TransferDate = paymentDate
		body, err = bankfile.Zengin(batch, header)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to render %s export for %s: %w", format, month, err)
	}

	file := &File{
		Name:        bankfile.FileName(format, month),
		ContentType: format.ContentType(),
		Format:      format,
		Body:        body,
		Batch:       batch,
	}
	metrics.ExportsGenerated.WithLabelValues(string(format)).Inc()

	if batch.MissingBankDetails > 0 {
		log.Warnf("[Export] %d payable agencies of %s have incomplete bank details", batch.MissingBankDetails, month)
	}

	if s.archiver != nil {
		key, err := s.archiver.Store(ctx, month, file.Name, file.ContentType, body)
		if err != nil {
			log.Warnf("[Export] Archiving %s failed: %v", file.Name, err)
		} else {
			file.ArchiveKey = key
		}
	}
	return file, nil
}

// HeaderFromEnv reads the remitter account of transfer files.
func HeaderFromEnv() bankfile.Header {
	return bankfile.Header{
		RequesterCode: env.GetEnv("ZENGIN_REQUESTER_CODE", "0000000000"),
		RequesterName: env.GetEnv("ZENGIN_REQUESTER_NAME", ""),
		BankCode:      env.GetEnv("ZENGIN_BANK_CODE", "0000"),
		BankName:      env.GetEnv("ZENGIN_BANK_NAME", ""),
		BranchCode:    env.GetEnv("ZENGIN_BRANCH_CODE", "000"),
		BranchName:    env.GetEnv("ZENGIN_BRANCH_NAME", ""),
		AccountType:   env.GetEnv("ZENGIN_ACCOUNT_TYPE", "ordinary"),
		AccountNumber: env.GetEnv("ZENGIN_ACCOUNT_NUMBER", "0000000"),
	}
}
