package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Report periods accepted by GenerateReport.
const (
	PeriodCurrentMonth   = "current-month"
	PeriodPreviousMonth  = "previous-month"
	PeriodCurrentQuarter = "current-quarter"
	PeriodYearToDate     = "year-to-date"
)

type GenerateReportRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Period        string `json:"period"`
	ReportType    string `json:"reportType"`
	Format        string `json:"format"`
	IncludeCharts bool   `json:"includeCharts"`
	IncludeNotes  bool   `json:"includeNotes"`
}

// Service computes financial metrics and manages report metadata.
type Service interface {
	// Metrics aggregates the month containing asOf. Revenue is an external
	// input supplied by the caller.
	Metrics(ctx context.Context, userID snowflake.ID, asOf time.Time, revenue decimal.Decimal) (MetricsSnapshot, error)

	Summary(ctx context.Context, userID snowflake.ID) (Summary, error)

	GenerateReport(ctx context.Context, userID snowflake.ID, req GenerateReportRequest) (FinancialReport, error)
	ListReports(ctx context.Context, userID snowflake.ID) ([]FinancialReport, error)
	GetReport(ctx context.Context, userID, id snowflake.ID) (FinancialReport, error)
	DeleteReport(ctx context.Context, userID, id snowflake.ID) error
}

var (
	ErrInvalidPeriod  = errors.New("invalid_report_period")
	ErrReportNotFound = errors.New("report_not_found")
)
