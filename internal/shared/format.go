package shared

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders a minor-unit amount with thousands separators for SMS
// bodies and report labels.
func FormatAmount(amount int64) string {
	return amountPrinter.Sprintf("%d", amount)
}
