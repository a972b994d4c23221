package validator

import (
	"context"
	"testing"
)

type formValues map[Field]string

func (f formValues) FieldValue(field Field) string { return f[field] }

func validForm() formValues {
	return formValues{
		FieldName:            "Jane Doe",
		FieldBranch:          "banasree",
		FieldBatch:           "2015-2016",
		FieldWhatsappNumber:  "01712345678",
		FieldPaymentMethod:   "bkash",
		FieldSendMoneyNumber: "01892747691",
		FieldTransactionID:   "TXN123",
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) bool
		in   string
		want bool
	}{
		{"name letters", IsValidName, "Jane Doe", true},
		{"name digits", IsValidName, "Jane2", false},
		{"name punctuation", IsValidName, "Jane-Doe", false},
		{"name empty", IsValidName, "", false},
		{"name nbsp", IsValidName, "Jane\u00a0Doe", true},
		{"name ideographic space", IsValidName, "Jane\u3000Doe", true},
		{"name accented", IsValidName, "Zoë", false},
		{"whatsapp ok", IsValidWhatsappNumber, "01712345678", true},
		{"whatsapp 10 digits no prefix", IsValidWhatsappNumber, "1712345678", false},
		{"whatsapp wrong prefix", IsValidWhatsappNumber, "02712345678", false},
		{"whatsapp 12 digits", IsValidWhatsappNumber, "017123456789", false},
		{"send money 11", IsValidSendMoneyNumber, "01892747691", true},
		{"send money 12", IsValidSendMoneyNumber, "018927476913", true},
		{"send money 10", IsValidSendMoneyNumber, "0189274769", false},
		{"send money 13", IsValidSendMoneyNumber, "0189274769134", false},
		{"send money letters", IsValidSendMoneyNumber, "0189274769a", false},
		{"branch ok", IsValidBranch, "mugda", true},
		{"branch unknown", IsValidBranch, "uttara", false},
		{"payment ok", IsValidPaymentMethod, "rocket", true},
		{"payment unknown", IsValidPaymentMethod, "paypal", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("%q: expected %v, got %v", tt.in, tt.want, got)
			}
		})
	}
}

func TestCheckFieldMessages(t *testing.T) {
	tests := []struct {
		field Field
		value string
		want  string
	}{
		{FieldName, "   ", "Name is required"},
		{FieldName, "J4ne", "Name should contain only letters and spaces"},
		{FieldBranch, "", "Branch selection is required"},
		{FieldBatch, " ", "Batch information is required"},
		{FieldWhatsappNumber, "", "WhatsApp number is required"},
		{FieldWhatsappNumber, "1712345678", "Your WhatsApp number should be 11 digits (e.g. '01712345678')"},
		{FieldPaymentMethod, "", "Payment method is required"},
		{FieldSendMoneyNumber, "", "Send money number is required"},
		{FieldSendMoneyNumber, "0189274769", "Send money number should be 11-12 digits"},
		{FieldTransactionID, "", "Transaction ID is required"},
	}

	for _, tt := range tests {
		msg, ok := CheckField(tt.field, tt.value)
		if ok {
			t.Errorf("%s=%q: expected rejection", tt.field, tt.value)
			continue
		}
		if msg != tt.want {
			t.Errorf("%s=%q: expected %q, got %q", tt.field, tt.value, tt.want, msg)
		}
	}
}

func TestCheckFormValid(t *testing.T) {
	if errs := CheckForm(validForm()); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestCheckFormEmpty(t *testing.T) {
	errs := CheckForm(formValues{})
	if len(errs) != len(Fields) {
		t.Fatalf("expected %d errors, got %d: %v", len(Fields), len(errs), errs)
	}
	for _, f := range Fields {
		if errs[f] != Rules[f].RequiredMessage {
			t.Errorf("%s: expected %q, got %q", f, Rules[f].RequiredMessage, errs[f])
		}
	}
}

func TestCheckServer(t *testing.T) {
	kind, msg, ok := CheckServer(FieldName, "Jane 2")
	if ok || kind != KindInvalidName || msg != "Name should contain only letters and spaces" {
		t.Errorf("unexpected result: %q %q %v", kind, msg, ok)
	}

	kind, msg, ok = CheckServer(FieldWhatsappNumber, "01712345678")
	if !ok || kind != "" || msg != "" {
		t.Errorf("expected valid whatsapp, got %q %q %v", kind, msg, ok)
	}

	_, _, ok = CheckServer(FieldTransactionID, "\t")
	if ok {
		t.Error("expected blank transaction id to be rejected")
	}
}

func TestFieldForKind(t *testing.T) {
	for _, f := range Fields {
		got, ok := FieldForKind(Rules[f].Kind)
		if !ok || got != f {
			t.Errorf("kind %s: expected %s, got %s", Rules[f].Kind, f, got)
		}
	}
	if _, ok := FieldForKind("store exploded"); ok {
		t.Error("expected unknown kind to have no field")
	}
}

func TestValidateStruct(t *testing.T) {
	type sample struct {
		Port string `validate:"required,numeric"`
	}
	if err := Validate(context.Background(), sample{Port: "8080"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := Validate(context.Background(), sample{}); err == nil {
		t.Error("expected error for missing port")
	}
}
