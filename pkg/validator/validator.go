package validator

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator"
)

var global *validator.Validate

const (
	ErrInvalidFormat      = "Invalid format"
	ErrFieldRequired      = "Field is required"
	ErrFieldExceedsMaxLen = "Field exceeds maximum length"
	ErrFieldBelowMinLen   = "Field is below minimum length"
	ErrFieldExceedsMaxVal = "Field exceeds maximum value"
	ErrFieldBelowMinVal   = "Field is below minimum value"
	ErrUnknownValidation  = "Unknown validation error"
)

func init() {
	SetValidator(New())
}

// New returns a validator with the registration tags registered:
// notblank, person_name, whatsapp, send_money, branch and payment_method.
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validateNotBlank)
	_ = v.RegisterValidation("person_name", validatePersonName)
	_ = v.RegisterValidation("whatsapp", validateWhatsapp)
	_ = v.RegisterValidation("send_money", validateSendMoney)
	_ = v.RegisterValidation("branch", validateBranch)
	_ = v.RegisterValidation("payment_method", validatePaymentMethod)
	return v
}

func SetValidator(v *validator.Validate) {
	global = v
}

func Validator() *validator.Validate {
	return global
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validatePersonName(fl validator.FieldLevel) bool {
	return IsValidName(fl.Field().String())
}

func validateWhatsapp(fl validator.FieldLevel) bool {
	return IsValidWhatsappNumber(fl.Field().String())
}

func validateSendMoney(fl validator.FieldLevel) bool {
	return IsValidSendMoneyNumber(fl.Field().String())
}

func validateBranch(fl validator.FieldLevel) bool {
	return IsValidBranch(fl.Field().String())
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	return IsValidPaymentMethod(fl.Field().String())
}

func Validate(ctx context.Context, structure any) error {
	return parseValidationErrors(Validator().StructCtx(ctx, structure))
}

func parseValidationErrors(err error) error {
	if err == nil {
		return nil
	}
	vErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(vErrors) == 0 {
		return nil
	}
	ve := vErrors[0]
	var msg string
	switch ve.Tag() {
	case "required", "notblank":
		msg = ErrFieldRequired
	case "max":
		msg = ErrFieldExceedsMaxLen
	case "min":
		msg = ErrFieldBelowMinLen
	case "lt", "lte":
		msg = ErrFieldExceedsMaxVal
	case "gt", "gte":
		msg = ErrFieldBelowMinVal
	case "url", "numeric", "person_name", "whatsapp", "send_money", "branch", "payment_method":
		msg = ErrInvalidFormat
	default:
		msg = ErrUnknownValidation
	}
	return errors.New(msg + ": " + ve.Namespace())
}
