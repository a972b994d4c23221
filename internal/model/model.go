package model

import (
	"time"

	"registrar/pkg/validator"
)

const StatusPending = "pending"

// RegistrationForm is the record filled in by an attendee.
type RegistrationForm struct {
	Name            string `json:"name"`
	Branch          string `json:"branch"`
	Batch           string `json:"batch"`
	WhatsappNumber  string `json:"whatsappNumber"`
	PaymentMethod   string `json:"paymentMethod"`
	SendMoneyNumber string `json:"sendMoneyNumber"`
	TransactionID   string `json:"transactionId"`
}

func (f RegistrationForm) FieldValue(field validator.Field) string {
	switch field {
	case validator.FieldName:
		return f.Name
	case validator.FieldBranch:
		return f.Branch
	case validator.FieldBatch:
		return f.Batch
	case validator.FieldWhatsappNumber:
		return f.WhatsappNumber
	case validator.FieldPaymentMethod:
		return f.PaymentMethod
	case validator.FieldSendMoneyNumber:
		return f.SendMoneyNumber
	case validator.FieldTransactionID:
		return f.TransactionID
	}
	return ""
}

// SetField overwrites one field and reports whether the field is known.
func (f *RegistrationForm) SetField(field validator.Field, value string) bool {
	switch field {
	case validator.FieldName:
		f.Name = value
	case validator.FieldBranch:
		f.Branch = value
	case validator.FieldBatch:
		f.Batch = value
	case validator.FieldWhatsappNumber:
		f.WhatsappNumber = value
	case validator.FieldPaymentMethod:
		f.PaymentMethod = value
	case validator.FieldSendMoneyNumber:
		f.SendMoneyNumber = value
	case validator.FieldTransactionID:
		f.TransactionID = value
	default:
		return false
	}
	return true
}

// Registration is one row of the users table.
type Registration struct {
	ID              string    `db:"id" json:"id,omitempty"`
	Name            string    `db:"name" json:"name"`
	PhoneNumber     string    `db:"phone_number" json:"phone_number"`
	Branch          string    `db:"branch" json:"branch"`
	Batch           string    `db:"batch" json:"batch"`
	PaymentMethod   string    `db:"payment_method" json:"payment_method"`
	SendMoneyNumber string    `db:"send_money_number" json:"send_money_number"`
	TransactionID   string    `db:"transaction_id" json:"transaction_id"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// NewPendingRegistration builds the row for a validated form. Both timestamps
// are set to now.
func NewPendingRegistration(f RegistrationForm, now time.Time) *Registration {
	return &Registration{
		Name:            f.Name,
		PhoneNumber:     f.WhatsappNumber,
		Branch:          f.Branch,
		Batch:           f.Batch,
		PaymentMethod:   f.PaymentMethod,
		SendMoneyNumber: f.SendMoneyNumber,
		TransactionID:   f.TransactionID,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
