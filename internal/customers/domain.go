package customers

import "github.com/shopspring/decimal"

// AccountType enumerates billing arrangements.
type AccountType string

const (
	AccountPrepaid  AccountType = "PREPAID"
	AccountPostpaid AccountType = "POSTPAID"
)

// Status enumerates account lifecycle states.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusSuspended Status = "SUSPENDED"
	StatusClosed    Status = "CLOSED"
)

// Record is a customer account held in the ledger.
type Record struct {
	ID                string          `yaml:"id" json:"id"`
	Name              string          `yaml:"name" json:"name"`
	AccountType       AccountType     `yaml:"account_type" json:"account_type"`
	Status            Status          `yaml:"status" json:"status"`
	Balance           decimal.Decimal `yaml:"balance" json:"balance"`
	CreditLimit       decimal.Decimal `yaml:"credit_limit" json:"credit_limit"`
	RoamingEnabled    bool            `yaml:"roaming_enabled" json:"roaming_enabled"`
	TenureMonths      int             `yaml:"tenure_months" json:"tenure_months"`
	LatePayments12m   int             `yaml:"late_payments_last_12m" json:"late_payments_last_12m"`
	PreviousWaivers   int             `yaml:"previous_waivers" json:"previous_waivers"`
	CurrentBillAmount decimal.Decimal `yaml:"current_bill_amount" json:"current_bill_amount"`
	DaysOverdue       int             `yaml:"days_overdue" json:"days_overdue"`
	ContactPhone      string          `yaml:"contact_phone" json:"contact_phone"`
}

// History summarises the payment and waiver history used for scoring.
type History struct {
	TenureMonths    int `json:"tenure_months"`
	LatePayments12m int `json:"late_payments_last_12m"`
	PreviousWaivers int `json:"previous_waivers"`
	DaysOverdue     int `json:"days_overdue"`
}

// Balance is the balance read-out returned to callers.
type Balance struct {
	CustomerID string          `json:"customer_id"`
	Balance    decimal.Decimal `json:"balance"`
	Currency   string          `json:"currency"`
}

// History extracts the scoring inputs from the record.
func (r Record) History() History {
	return History{
		TenureMonths:    r.TenureMonths,
		LatePayments12m: r.LatePayments12m,
		PreviousWaivers: r.PreviousWaivers,
		DaysOverdue:     r.DaysOverdue,
	}
}
