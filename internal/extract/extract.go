// Package extract is the deterministic intelligence extractor: a
// priority-tiered syntactic classifier over counterpart-authored text. It is
// total: malformed or empty input yields an empty result, never an error.
// It runs on every analysis regardless of whether the judgment provider
// answered, so concrete identifiers are never lost to provider omissions.
package extract

import (
	"regexp"
	"strings"

	"github.com/glasswing-labs/decoy/internal/intel"
	"github.com/glasswing-labs/decoy/internal/session"
)

var (
	urlPattern     = regexp.MustCompile(`https?://[^\s'"<>]+`)
	emailPattern   = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	handlePattern  = regexp.MustCompile(`[a-zA-Z0-9._-]+@[a-zA-Z]{2,}`)
	phonePattern   = regexp.MustCompile(`(?:\+?\d{1,3}[-.\s]?)?(?:\(?\d{2,5}\)?[-.\s]?)?\d{5,10}(?:[-.\s]?\d{1,5})?`)
	accountPattern = regexp.MustCompile(`\b\d{9,18}\b`)
	nonDigit       = regexp.MustCompile(`\D`)
)

// trailingPunct is the set of characters stripped from the end of a URL
// match. At most one character is removed: a URL ending "verify.," loses the
// comma but keeps the path's own trailing period.
const trailingPunct = ".,;:!?)>]"

const (
	minPhoneDigits = 7
	maxPhoneDigits = 15
)

// scan carries the state accumulated while the tiers run: the result set
// plus the digit-forms of accepted phone numbers, which later tiers consult.
type scan struct {
	set         intel.Set
	phoneDigits map[string]struct{}
}

// tier is one entry of the ordered classifier: the bucket it feeds, the
// matcher that proposes candidates, and the admission rule that may rewrite
// or reject them. Precedence lives in the slice order below, not in call
// order scattered through the code.
type tier struct {
	bucket  func(*intel.Set) *[]string
	pattern *regexp.Regexp
	admit   func(*scan, string) (string, bool)
}

// tiers runs URL before email before handle, and phone before account.
// Earlier tiers win on syntactically overlapping candidates; within one tier
// the first occurrence in the text wins.
var tiers = []tier{
	{bucket: func(s *intel.Set) *[]string { return &s.PhishingLinks }, pattern: urlPattern, admit: admitURL},
	{bucket: func(s *intel.Set) *[]string { return &s.EmailAddresses }, pattern: emailPattern, admit: admitEmail},
	{bucket: func(s *intel.Set) *[]string { return &s.UpiIDs }, pattern: handlePattern, admit: admitHandle},
	{bucket: func(s *intel.Set) *[]string { return &s.PhoneNumbers }, pattern: phonePattern, admit: admitPhone},
	{bucket: func(s *intel.Set) *[]string { return &s.BankAccounts }, pattern: accountPattern, admit: admitAccount},
}

// Extract scans raw text and classifies candidate intelligence items into
// mutually exclusive buckets. Suspicious-keyword judgment is left entirely
// to the provider, so that bucket stays empty here.
func Extract(text string) intel.Set {
	sc := &scan{phoneDigits: make(map[string]struct{})}
	for _, t := range tiers {
		bucket := t.bucket(&sc.set)
		for _, raw := range t.pattern.FindAllString(text, -1) {
			value, ok := t.admit(sc, raw)
			if !ok || containsString(*bucket, value) {
				continue
			}
			*bucket = append(*bucket, value)
		}
	}
	return sc.set
}

// FromRequest extracts from all turns attributed to the scammer, history
// first and the new message last. The protected party's own messages never
// contribute, even when they contain URL- or digit-shaped substrings.
func FromRequest(req session.Request) intel.Set {
	var texts []string
	for _, turn := range req.Turns() {
		if turn.Sender == session.RoleScammer {
			texts = append(texts, turn.Text)
		}
	}
	return Extract(strings.Join(texts, "\n"))
}

func admitURL(_ *scan, raw string) (string, bool) {
	if raw != "" && strings.ContainsRune(trailingPunct, rune(raw[len(raw)-1])) {
		raw = raw[:len(raw)-1]
	}
	return raw, raw != ""
}

func admitEmail(_ *scan, raw string) (string, bool) {
	return raw, true
}

// admitHandle discards a candidate that is a strict prefix of an
// already-captured email (the handle matcher sees "john@gmail" inside
// "john@gmail.com" and must not double-count the truncation), then applies
// the payment-handle disambiguation rule.
func admitHandle(sc *scan, raw string) (string, bool) {
	if !IsPaymentHandle(raw) {
		return "", false
	}
	for _, email := range sc.set.EmailAddresses {
		if len(email) > len(raw) && strings.HasPrefix(email, raw) {
			return "", false
		}
	}
	return raw, true
}

func admitPhone(sc *scan, raw string) (string, bool) {
	candidate := strings.TrimSpace(raw)
	digits := nonDigit.ReplaceAllString(candidate, "")
	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return "", false
	}
	sc.phoneDigits[digits] = struct{}{}
	return candidate, true
}

// admitAccount rejects a digit run whose digit-only form exactly matches an
// accepted phone number: phones take priority on collision.
func admitAccount(sc *scan, raw string) (string, bool) {
	if _, taken := sc.phoneDigits[raw]; taken {
		return "", false
	}
	return raw, true
}

func containsString(list []string, item string) bool {
	for _, v := range list {
		if v == item {
			return true
		}
	}
	return false
}
