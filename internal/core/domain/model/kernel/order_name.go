package kernel

import (
	"errors"
	"strings"
	"unicode"

	"driverdesk/internal/pkg/errs"
)

// OrderNameFromBarcode keeps the digits of a scanned barcode and prefixes them with "#".
// A barcode without digits is rejected with a ValueIsInvalidError.
func OrderNameFromBarcode(barcode string) (string, error) {
	var b strings.Builder
	for _, r := range barcode {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "", errs.NewValueIsInvalidErrorWithCause("barcode", errors.New("barcode contains no digits"))
	}
	return "#" + b.String(), nil
}
