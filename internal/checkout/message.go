package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"vitrine-storefront/internal/cart"
	"vitrine-storefront/internal/domain"
)

// FormatPrice renders a pt-BR/BRL price: "R$ 1.234,56".
func FormatPrice(v decimal.Decimal) string {
	fixed := v.StringFixed(2)
	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	intPart, decPart := parts[0], parts[1]

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%s", sign, grouped.String(), decPart)
}

// OrderReference derives the short merchant-facing reference from the order
// token. The full token still rides in the tracking link.
func OrderReference(token string) string {
	ref := token
	if len(ref) > 8 {
		ref = ref[:8]
	}
	return strings.ToUpper(ref)
}

// ComposeMessage builds the merchant-facing order summary. It is
// deterministic for a given (result, items, title) tuple.
func ComposeMessage(title string, items []cart.Item, result domain.OrderResult, trackingBaseURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s — Pedido %s*\n\n", title, OrderReference(result.OrderToken))
	for _, item := range items {
		name := item.Product.Name
		if item.Size != "" {
			name = fmt.Sprintf("%s (%s)", name, item.Size)
		}
		fmt.Fprintf(&b, "- %s x%d — %s\n", name, item.Quantity, FormatPrice(item.LineTotal()))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", FormatPrice(result.Total))
	fmt.Fprintf(&b, "Acompanhe: %s/pedido/%s", strings.TrimRight(trackingBaseURL, "/"), result.OrderToken)
	return b.String()
}

// SanitizePhone reduces a merchant phone to digits and prefixes the country
// code. Brazilian local numbers carry at most 11 digits (area code plus
// subscriber), so anything longer is assumed to be prefixed already.
func SanitizePhone(phone, countryCode string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if d == "" {
		return ""
	}
	if len(d) <= 11 {
		return countryCode + d
	}
	return d
}

// WhatsAppLink builds the deep link opening the messaging channel with the
// message pre-filled, addressed to the sanitized phone.
func WhatsAppLink(phone, countryCode, message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", SanitizePhone(phone, countryCode), url.QueryEscape(message))
}
