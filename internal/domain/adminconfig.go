package domain

import "time"

// AdminConfigID is the fixed key of the singleton pricing record.
const AdminConfigID = "default"

// AdminConfig holds the admin-editable pricing and payment settings read by
// every payment display. All amounts are whole currency units.
type AdminConfig struct {
	ConfigID       string    `json:"-" dynamodbav:"config_id"`
	UPIID          string    `json:"upi_id" dynamodbav:"upi_id"`
	UPIName        string    `json:"upi_name" dynamodbav:"upi_name"` // payee display name in the UPI string
	DepositAmount  int64     `json:"deposit_amount" dynamodbav:"deposit_amount"`
	FileCharge     int64     `json:"file_charge" dynamodbav:"file_charge"`
	PlatformFee    int64     `json:"platform_fee" dynamodbav:"platform_fee"`
	Tax            int64     `json:"tax" dynamodbav:"tax"`
	ProcessingDays int       `json:"processing_days" dynamodbav:"processing_days"`
	InterestRate   float64   `json:"interest_rate" dynamodbav:"interest_rate"` // annual, percent
	UpdatedAt      time.Time `json:"updated" dynamodbav:"updated_at"`
}

// TotalPaymentAmount is the upfront amount collected before processing:
// deposit + file charge + platform fee + tax. Independent of the EMI math.
func (c *AdminConfig) TotalPaymentAmount() int64 {
	return c.DepositAmount + c.FileCharge + c.PlatformFee + c.Tax
}

// DefaultAdminConfig seeds the singleton on first boot.
func DefaultAdminConfig() *AdminConfig {
	return &AdminConfig{
		ConfigID:       AdminConfigID,
		UPIID:          "growloan@upi",
		UPIName:        "GrowLoan",
		DepositAmount:  2000,
		FileCharge:     500,
		PlatformFee:    300,
		Tax:            200,
		ProcessingDays: 3,
		InterestRate:   12,
		UpdatedAt:      time.Now().UTC(),
	}
}

type UpdateAdminConfigRequest struct {
	UPIID          *string  `json:"upi_id"`
	UPIName        *string  `json:"upi_name"`
	DepositAmount  *int64   `json:"deposit_amount" validate:"omitempty,gte=0"`
	FileCharge     *int64   `json:"file_charge" validate:"omitempty,gte=0"`
	PlatformFee    *int64   `json:"platform_fee" validate:"omitempty,gte=0"`
	Tax            *int64   `json:"tax" validate:"omitempty,gte=0"`
	ProcessingDays *int     `json:"processing_days" validate:"omitempty,gte=0"`
	InterestRate   *float64 `json:"interest_rate" validate:"omitempty,gt=0"`
}
