package validator

import "regexp"

var (
	// Matches what browsers accept as \s, Unicode spaces included.
	nameRegex      = regexp.MustCompile(`^[A-Za-z\t\n\v\f\r\p{Zs}\x{2028}\x{2029}\x{FEFF}]+$`)
	whatsappRegex  = regexp.MustCompile(`^01\d{9}$`)
	sendMoneyRegex = regexp.MustCompile(`^\d{11,12}$`)
)

// Branches and PaymentMethods are the values offered by the registration form.
var (
	Branches       = []string{"motijheel", "mugda", "banasree"}
	PaymentMethods = []string{"bkash", "nagad", "rocket"}
)

// IsValidName reports whether name holds only ASCII letters and whitespace,
// Unicode spaces such as NBSP included.
func IsValidName(name string) bool {
	return nameRegex.MatchString(name)
}

// IsValidWhatsappNumber reports whether number is 11 digits starting with "01".
func IsValidWhatsappNumber(number string) bool {
	return whatsappRegex.MatchString(number)
}

// IsValidSendMoneyNumber reports whether number is 11 or 12 digits.
func IsValidSendMoneyNumber(number string) bool {
	return sendMoneyRegex.MatchString(number)
}

func IsValidBranch(branch string) bool {
	return contains(Branches, branch)
}

func IsValidPaymentMethod(method string) bool {
	return contains(PaymentMethods, method)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
