package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Employment types accepted on KYC profiles.
const (
	EmploymentSalaried     = "salaried"
	EmploymentSelfEmployed = "self_employed"
	EmploymentBusiness     = "business"
	EmploymentStudent      = "student"
	EmploymentRetired      = "retired"
)

// User is a borrower (or admin) account. Phone is the unique, immutable
// identity; users are created at first OTP login and never hard-deleted.
type User struct {
	UserID         string     `json:"id" dynamodbav:"user_id"`
	Phone          string     `json:"phone" dynamodbav:"phone"`
	Name           string     `json:"name" dynamodbav:"name"`
	Email          string     `json:"email" dynamodbav:"email"`
	DateOfBirth    string     `json:"date_of_birth" dynamodbav:"date_of_birth"` // YYYY-MM-DD
	Address        string     `json:"address" dynamodbav:"address"`
	City           string     `json:"city" dynamodbav:"city"`
	State          string     `json:"state" dynamodbav:"state"`
	Pincode        string     `json:"pincode" dynamodbav:"pincode"`
	EmploymentType string     `json:"employment_type" dynamodbav:"employment_type"`
	CompanyName    string     `json:"company_name,omitempty" dynamodbav:"company_name"`
	MonthlyIncome  int64      `json:"monthly_income,omitempty" dynamodbav:"monthly_income"`
	AadharNumber   string     `json:"aadhar_number" dynamodbav:"aadhar_number"`
	PanNumber      string     `json:"pan_number" dynamodbav:"pan_number"`
	AadharCardURL  string     `json:"aadhar_card_url,omitempty" dynamodbav:"aadhar_card_url"`
	PanCardURL     string     `json:"pan_card_url,omitempty" dynamodbav:"pan_card_url"`
	SelfieURL      string     `json:"selfie_url,omitempty" dynamodbav:"selfie_url"`
	BankAccountNo  string     `json:"bank_account_number,omitempty" dynamodbav:"bank_account_number"`
	BankIFSC       string     `json:"bank_ifsc,omitempty" dynamodbav:"bank_ifsc"`
	BankName       string     `json:"bank_name,omitempty" dynamodbav:"bank_name"`
	Role           string     `json:"role" dynamodbav:"role"`
	PasswordHash   string     `json:"-" dynamodbav:"password_hash"` // admins only
	Enable         int        `json:"enable" dynamodbav:"enable"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt      time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// UpdateProfileRequest carries partial KYC profile updates. Phone and role
// are deliberately absent: phone is immutable, role is admin-managed.
type UpdateProfileRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email" validate:"omitempty,email"`
	DateOfBirth    *string `json:"date_of_birth"` // expected format: YYYY-MM-DD
	Address        *string `json:"address"`
	City           *string `json:"city"`
	State          *string `json:"state"`
	Pincode        *string `json:"pincode" validate:"omitempty,len=6,numeric"`
	EmploymentType *string `json:"employment_type" validate:"omitempty,oneof=salaried self_employed business student retired"`
	CompanyName    *string `json:"company_name"`
	MonthlyIncome  *int64  `json:"monthly_income" validate:"omitempty,gte=0"`
	AadharNumber   *string `json:"aadhar_number" validate:"omitempty,len=12,numeric"`
	PanNumber      *string `json:"pan_number" validate:"omitempty,len=10"`
	BankAccountNo  *string `json:"bank_account_number"`
	BankIFSC       *string `json:"bank_ifsc"`
	BankName       *string `json:"bank_name"`
}
