package controllers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/TierPay/app/models"
	"github.com/ManuelReschke/TierPay/internal/pkg/bankfile"
	"github.com/ManuelReschke/TierPay/internal/pkg/export"
	"github.com/ManuelReschke/TierPay/internal/pkg/payment"
	"github.com/ManuelReschke/TierPay/internal/pkg/usercontext"
)

type CommissionService interface {
	ComputeForSale(ctx context.Context, saleID uint) ([]models.Commission, error)
	ComputeForNewSale(ctx context.Context, saleID uint) ([]models.Commission, error)
	Recalculate(ctx context.Context, saleID uint) ([]models.Commission, error)
}

type SettingsService interface {
	Resolve(ctx context.Context, at time.Time) (models.SettingsSnapshot, error)
	History(ctx context.Context) ([]models.CommissionSettings, error)
	Publish(ctx context.Context, next models.CommissionSettings, actor string) (*models.CommissionSettings, error)
}

type PaymentAggregator interface {
	Aggregate(ctx context.Context, month string, statuses ...string) (*payment.Batch, error)
}

type PaymentConfirmer interface {
	Confirm(ctx context.Context, req payment.ConfirmRequest) (*payment.ConfirmResult, error)
	CarryForward(ctx context.Context, month string) (*payment.CarryForwardResult, error)
	Records(ctx context.Context, month string) ([]models.PaymentRecord, error)
}

type Exporter interface {
	Export(ctx context.Context, month string, format bankfile.Format, paymentDate time.Time) (*export.File, error)
}

// SettlementController serves the commission and payment endpoints.
type SettlementController struct {
	commissions CommissionService
	settings    SettingsService
	aggregator  PaymentAggregator
	confirmer   PaymentConfirmer
	exporter    Exporter
	now         func() time.Time
}

func NewSettlementController(commissions CommissionService, settings SettingsService, aggregator PaymentAggregator, confirmer PaymentConfirmer, exporter Exporter) *SettlementController {
	return &SettlementController{
		commissions: commissions,
		settings:    settings,
		aggregator:  aggregator,
		confirmer:   confirmer,
		exporter:    exporter,
		now:         time.Now,
	}
}

// HandleComputeCommissions computes the commissions of a sale. With ?new=true
// the sale is removed again if its commissions cannot be written.
func (sc *SettlementController) HandleComputeCommissions(c *fiber.Ctx) error {
	saleID, err := paramID(c)
	if err != nil {
		return badRequest(c, "invalid sale id")
	}

	var rows []models.Commission
	if c.QueryBool("new", false) {
		rows, err = sc.commissions.ComputeForNewSale(c.UserContext(), saleID)
	} else {
		rows, err = sc.commissions.ComputeForSale(c.UserContext(), saleID)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"sale_id": saleID, "commissions": rows})
}

func (sc *SettlementController) HandleRecalculate(c *fiber.Ctx) error {
	saleID, err := paramID(c)
	if err != nil {
		return badRequest(c, "invalid sale id")
	}
	rows, err := sc.commissions.Recalculate(c.UserContext(), saleID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"sale_id": saleID, "commissions": rows})
}

// HandleGetSettings lists every settings version and the snapshot in effect
// at ?at= (RFC3339 or YYYY-MM-DD, default now).
func (sc *SettlementController) HandleGetSettings(c *fiber.Ctx) error {
	at := sc.now()
	if raw := strings.TrimSpace(c.Query("at")); raw != "" {
		parsed, err := parseTimeParam(raw)
		if err != nil {
			return badRequest(c, "invalid 'at' parameter")
		}
		at = parsed
	}

	current, err := sc.settings.Resolve(c.UserContext(), at)
	if err != nil {
		return writeError(c, err)
	}
	history, err := sc.settings.History(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"at":         at,
		"current":    current,
		"is_default": current.IsDefault(),
		"versions":   history,
	})
}

// PublishSettingsRequest carries rates as percentages, e.g. "10.21".
type PublishSettingsRequest struct {
	ValidFrom               string `json:"valid_from"`
	MinimumPayable          int64  `json:"minimum_payable"`
	WithholdingTaxRate      string `json:"withholding_tax_rate"`
	NonInvoiceDeductionRate string `json:"non_invoice_deduction_rate"`
	Tier1FromTier2Rate      string `json:"tier1_from_tier2_rate"`
	Tier2FromTier3Rate      string `json:"tier2_from_tier3_rate"`
	Tier3FromTier4Rate      string `json:"tier3_from_tier4_rate"`
}

func (r *PublishSettingsRequest) toModel() (models.CommissionSettings, error) {
	s := models.CommissionSettings{MinimumPayable: r.MinimumPayable, IsActive: true}
	if strings.TrimSpace(r.ValidFrom) != "" {
		t, err := parseTimeParam(r.ValidFrom)
		if err != nil {
			return s, err
		}
		s.ValidFrom = t
	}
	rates := []struct {
		raw string
		dst *models.Rate
	}{
		{r.WithholdingTaxRate, &s.WithholdingTaxRate},
		{r.NonInvoiceDeductionRate, &s.NonInvoiceDeductionRate},
		{r.Tier1FromTier2Rate, &s.Tier1FromTier2Rate},
		{r.Tier2FromTier3Rate, &s.Tier2FromTier3Rate},
		{r.Tier3FromTier4Rate, &s.Tier3FromTier4Rate},
	}
	for _, rate := range rates {
		v, err := models.ParseRate(rate.raw)
		if err != nil {
			return s, err
		}
		*rate.dst = v
	}
	return s, nil
}

// HandlePublishSettings stores a new settings version. Existing versions are never edited.
func (sc *SettlementController) HandlePublishSettings(c *fiber.Ctx) error {
	operator := usercontext.GetOperator(c)
	if operator == "" {
		return missingOperator(c)
	}

	var req PublishSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	next, err := req.toModel()
	if err != nil {
		return badRequest(c, err.Error())
	}

	published, err := sc.settings.Publish(c.UserContext(), next, operator)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(published)
}

// HandlePreview aggregates a month without writing. ?status= takes a comma separated filter.
func (sc *SettlementController) HandlePreview(c *fiber.Ctx) error {
	month := c.Params("month")
	var statuses []string
	for _, s := range strings.Split(c.Query("status"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			statuses = append(statuses, s)
		}
	}

	batch, err := sc.aggregator.Aggregate(c.UserContext(), month, statuses...)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(batch)
}

// HandleRecords lists the payment records of a month.
func (sc *SettlementController) HandleRecords(c *fiber.Ctx) error {
	month := c.Params("month")
	records, err := sc.confirmer.Records(c.UserContext(), month)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"month": month, "records": records})
}

func (sc *SettlementController) HandleCarryForward(c *fiber.Ctx) error {
	if usercontext.GetOperator(c) == "" {
		return missingOperator(c)
	}
	result, err := sc.confirmer.CarryForward(c.UserContext(), c.Params("month"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result)
}

// ConfirmPaymentRequest selects the agencies to pay. PaymentDate is YYYY-MM-DD.
type ConfirmPaymentRequest struct {
	AgencyIDs   []uint `json:"agency_ids"`
	PaymentDate string `json:"payment_date"`
}

func (sc *SettlementController) HandleConfirm(c *fiber.Ctx) error {
	operator := usercontext.GetOperator(c)
	if operator == "" {
		return missingOperator(c)
	}

	var req ConfirmPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	paymentDate, err := sc.paymentDate(req.PaymentDate)
	if err != nil {
		return badRequest(c, "invalid payment_date")
	}

	result, err := sc.confirmer.Confirm(c.UserContext(), payment.ConfirmRequest{
		Month:       c.Params("month"),
		PaymentDate: paymentDate,
		AgencyIDs:   req.AgencyIDs,
		ConfirmedBy: operator,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result)
}

// HandleExport streams a rendered file as attachment.
func (sc *SettlementController) HandleExport(c *fiber.Ctx) error {
	format, err := bankfile.ParseFormat(c.Query("format"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	paymentDate, err := sc.paymentDate(c.Query("payment_date"))
	if err != nil {
		return badRequest(c, "invalid payment_date")
	}

	file, err := sc.exporter.Export(c.UserContext(), c.Params("month"), format, paymentDate)
	if err != nil {
		return writeError(c, err)
	}

	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.Name+`"`)
	c.Set("X-Missing-Bank-Details", itoa(file.Batch.MissingBankDetails))
	if file.ArchiveKey != "" {
		c.Set("X-Archive-Key", file.ArchiveKey)
	}
	return c.Status(fiber.StatusOK).Send(file.Body)
}

func (sc *SettlementController) paymentDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return payment.DefaultPaymentDate(sc.now()), nil
	}
	return time.Parse(time.DateOnly, raw)
}
