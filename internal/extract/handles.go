package extract

import "strings"

// paymentDomains is the reference set of known payment-service domain tokens
// used to tell payment handles apart from email addresses. Built once at
// startup, never mutated.
var paymentDomains = map[string]struct{}{}

func init() {
	for _, d := range []string{
		"ybl", "paytm", "oksbi", "okaxis", "okicici", "okhdfcbank", "upi",
		"apl", "freecharge", "ibl", "sbi", "axisbank", "icici", "hdfcbank",
		"kotak", "boi", "pnb", "bob", "cnrb", "unionbank", "idbi", "rbl",
		"indus", "federal", "kvb", "idfcfirst", "dbs", "hsbc", "scb", "citi",
		"axl", "jupiteraxis", "fam", "slice", "niyoicici", "ikwik",
		"abfspay", "waaxis", "wahdfcbank", "wasbi", "waicici", "postbank",
		"aubank", "equitas", "ujjivan", "bandhan", "fino", "airtel", "jio",
		"phonepe", "gpay", "amazonpay", "whatsapp", "mobikwik",
		"fakebank", "fakeupi",
	} {
		paymentDomains[d] = struct{}{}
	}
}

// IsPaymentHandle decides whether a "local@domain" candidate denotes a
// payment-handle identifier rather than an email address. A dot in the
// domain always means email. Otherwise the candidate is accepted when the
// domain is a known payment-service token, or when the domain is at most 6
// characters, since payment handles are conventionally short and generic
// email domains are not. The short-domain rule trades precision for recall on
// unrecognized handles; short unknown email domains will be misclassified,
// and that is the accepted cost. Do not tighten it without calibration
// against real traffic.
func IsPaymentHandle(addr string) bool {
	local, domain, ok := strings.Cut(addr, "@")
	if !ok || local == "" || strings.Contains(domain, "@") {
		return false
	}
	if strings.Contains(domain, ".") {
		return false
	}
	domain = strings.ToLower(domain)
	if _, known := paymentDomains[domain]; known {
		return true
	}
	return len(domain) > 0 && len(domain) <= 6
}
