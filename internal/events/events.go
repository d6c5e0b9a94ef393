package events

// Event types recorded for audit and downstream rollups.
const (
	EventDueDateAdvanced = "payment.due_date_advanced"
	EventPaymentRecorded = "payment.recorded"
	EventReportGenerated = "report.generated"
)

// DueDateAdvancedPayload captures a single rollover advancement.
type DueDateAdvancedPayload struct {
	PaymentID   string `json:"payment_id"`
	PaymentKind string `json:"payment_kind"`
	Frequency   string `json:"frequency"`
	OldDueDate  string `json:"old_due_date"`
	NewDueDate  string `json:"new_due_date"`
}

// ToMap converts the payload into an outbox-friendly map.
func (p DueDateAdvancedPayload) ToMap() map[string]any {
	return map[string]any{
		"payment_id":   p.PaymentID,
		"payment_kind": p.PaymentKind,
		"frequency":    p.Frequency,
		"old_due_date": p.OldDueDate,
		"new_due_date": p.NewDueDate,
	}
}

// ReportGeneratedPayload captures a financial report creation.
type ReportGeneratedPayload struct {
	ReportID   string `json:"report_id"`
	Period     string `json:"period"`
	ReportType string `json:"report_type"`
}

// ToMap converts the payload into an outbox-friendly map.
func (p ReportGeneratedPayload) ToMap() map[string]any {
	return map[string]any{
		"report_id":   p.ReportID,
		"period":      p.Period,
		"report_type": p.ReportType,
	}
}

// PaymentRecordedPayload captures a manual payment entry.
type PaymentRecordedPayload struct {
	PaymentID string `json:"payment_id"`
	Amount    string `json:"amount"`
}

// ToMap converts the payload into an outbox-friendly map.
func (p PaymentRecordedPayload) ToMap() map[string]any {
	return map[string]any{
		"payment_id": p.PaymentID,
		"amount":     p.Amount,
	}
}
