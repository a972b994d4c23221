package validator

import (
	"github.com/go-playground/validator"
)

// Field identifies one input of the registration form. The values match the
// JSON keys of the submission body.
type Field string

const (
	FieldName            Field = "name"
	FieldBranch          Field = "branch"
	FieldBatch           Field = "batch"
	FieldWhatsappNumber  Field = "whatsappNumber"
	FieldPaymentMethod   Field = "paymentMethod"
	FieldSendMoneyNumber Field = "sendMoneyNumber"
	FieldTransactionID   Field = "transactionId"
)

// Fields lists every form field in display order.
var Fields = []Field{
	FieldName,
	FieldBranch,
	FieldBatch,
	FieldWhatsappNumber,
	FieldPaymentMethod,
	FieldSendMoneyNumber,
	FieldTransactionID,
}

// Error kinds reported by the server when a field is rejected.
const (
	KindInvalidName          = "invalid_name"
	KindInvalidWhatsapp      = "invalid_whatsapp"
	KindInvalidSendMoney     = "invalid_send_money"
	KindInvalidBranch        = "invalid_branch"
	KindInvalidBatch         = "invalid_batch"
	KindInvalidPaymentMethod = "invalid_payment_method"
	KindInvalidTransactionID = "invalid_transaction_id"
)

// Rule is the validation rule of a single field.
type Rule struct {
	Field Field
	// Tags is the go-playground tag list run against the raw value.
	Tags            string
	RequiredMessage string
	FormatMessage   string
	Kind            string
	ServerMessage   string
}

// Rules is keyed by field; both the form controller and the submission
// handler read from it.
var Rules = map[Field]Rule{
	FieldName: {
		Field:           FieldName,
		Tags:            "notblank,person_name",
		RequiredMessage: "Name is required",
		FormatMessage:   "Name should contain only letters and spaces",
		Kind:            KindInvalidName,
		ServerMessage:   "Name should contain only letters and spaces",
	},
	FieldBranch: {
		Field:           FieldBranch,
		Tags:            "notblank,branch",
		RequiredMessage: "Branch selection is required",
		FormatMessage:   "Branch should be one of motijheel, mugda, banasree",
		Kind:            KindInvalidBranch,
		ServerMessage:   "Branch should be one of motijheel, mugda, banasree",
	},
	FieldBatch: {
		Field:           FieldBatch,
		Tags:            "notblank",
		RequiredMessage: "Batch information is required",
		Kind:            KindInvalidBatch,
		ServerMessage:   "Batch information is required",
	},
	FieldWhatsappNumber: {
		Field:           FieldWhatsappNumber,
		Tags:            "notblank,whatsapp",
		RequiredMessage: "WhatsApp number is required",
		FormatMessage:   "Your WhatsApp number should be 11 digits (e.g. '01712345678')",
		Kind:            KindInvalidWhatsapp,
		ServerMessage:   "WhatsApp number should be 11 digits and start with '01'",
	},
	FieldPaymentMethod: {
		Field:           FieldPaymentMethod,
		Tags:            "notblank,payment_method",
		RequiredMessage: "Payment method is required",
		FormatMessage:   "Payment method should be one of bkash, nagad, rocket",
		Kind:            KindInvalidPaymentMethod,
		ServerMessage:   "Payment method should be one of bkash, nagad, rocket",
	},
	FieldSendMoneyNumber: {
		Field:           FieldSendMoneyNumber,
		Tags:            "notblank,send_money",
		RequiredMessage: "Send money number is required",
		FormatMessage:   "Send money number should be 11-12 digits",
		Kind:            KindInvalidSendMoney,
		ServerMessage:   "Send Money number should be 11-12 digits",
	},
	FieldTransactionID: {
		Field:           FieldTransactionID,
		Tags:            "notblank",
		RequiredMessage: "Transaction ID is required",
		Kind:            KindInvalidTransactionID,
		ServerMessage:   "Transaction ID is required",
	},
}

// FieldValuer is implemented by records that expose their form values by field.
type FieldValuer interface {
	FieldValue(f Field) string
}

// FieldForKind returns the field a server error kind refers to.
func FieldForKind(kind string) (Field, bool) {
	for _, r := range Rules {
		if r.Kind == kind {
			return r.Field, true
		}
	}
	return "", false
}

// CheckField validates one value against the rule of field and returns the
// client-facing message when it is rejected. Unknown fields always pass.
func CheckField(field Field, value string) (string, bool) {
	rule, ok := Rules[field]
	if !ok {
		return "", true
	}
	tag, ok := rule.check(value)
	if ok {
		return "", true
	}
	if tag == "notblank" || rule.FormatMessage == "" {
		return rule.RequiredMessage, false
	}
	return rule.FormatMessage, false
}

// CheckForm validates every field of form. The result is empty when the form
// is acceptable.
func CheckForm(form FieldValuer) map[Field]string {
	errs := make(map[Field]string)
	for _, f := range Fields {
		if msg, ok := CheckField(f, form.FieldValue(f)); !ok {
			errs[f] = msg
		}
	}
	return errs
}

// CheckServer validates a value the way the server does and returns the error
// kind and server message on rejection.
func CheckServer(field Field, value string) (kind, message string, ok bool) {
	rule, found := Rules[field]
	if !found {
		return "", "", true
	}
	if _, ok := rule.check(value); ok {
		return "", "", true
	}
	return rule.Kind, rule.ServerMessage, false
}

func (r Rule) check(value string) (string, bool) {
	err := Validator().Var(value, r.Tags)
	if err == nil {
		return "", true
	}
	if vErrors, ok := err.(validator.ValidationErrors); ok && len(vErrors) > 0 {
		return vErrors[0].Tag(), false
	}
	return "", false
}
