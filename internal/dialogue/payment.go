package dialogue

import "strings"

// PaymentMethod is one of the fixed, simulated payment options. No gateway
// is involved; selecting a method completes the purchase.
type PaymentMethod struct {
	Code    string
	Keyword string
	Label   string
}

// paymentMethods in menu order; codes 1-4.
var paymentMethods = []PaymentMethod{
	{Code: "1", Keyword: "efectivo", Label: "Efectivo"},
	{Code: "2", Keyword: "transferencia", Label: "Transferencia"},
	{Code: "3", Keyword: "tarjeta", Label: "Tarjeta"},
	{Code: "4", Keyword: "app", Label: "App"},
}

// matchPaymentMethod resolves trimmed, lowercased input either as an exact
// numeric code or by keyword containment.
func matchPaymentMethod(input string) (PaymentMethod, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return PaymentMethod{}, false
	}
	for _, m := range paymentMethods {
		if normalized == m.Code {
			return m, true
		}
	}
	for _, m := range paymentMethods {
		if strings.Contains(normalized, m.Keyword) {
			return m, true
		}
	}
	return PaymentMethod{}, false
}

// affirmativeTokens accept a pending intent guess. Substring match,
// case-insensitive, per the confirmation contract.
var affirmativeTokens = []string{"si", "sí", "confirmar", "confirmo", "ok", "dale", "listo"}

func isAffirmative(input string) bool {
	normalized := strings.ToLower(strings.TrimSpace(input))
	for _, token := range affirmativeTokens {
		if strings.Contains(normalized, token) {
			return true
		}
	}
	return false
}
