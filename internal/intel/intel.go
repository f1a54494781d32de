// Package intel defines the accumulated-intelligence value type and its
// merge semantics. Buckets only ever grow across turns: merging preserves
// every previously known item and first-seen order.
package intel

// Set holds the intelligence gathered from one conversation, bucketed by
// category. Within a bucket values are unique and ordered by first discovery.
type Set struct {
	BankAccounts       []string `json:"bankAccounts"`
	UpiIDs             []string `json:"upiIds"`
	PhishingLinks      []string `json:"phishingLinks"`
	PhoneNumbers       []string `json:"phoneNumbers"`
	EmailAddresses     []string `json:"emailAddresses"`
	SuspiciousKeywords []string `json:"suspiciousKeywords"`
}

// Merge unions two sets bucket by bucket: a's values first, then any of b's
// not already present, by exact string match. Neither input is mutated.
// Idempotent and monotonic: no merged bucket is ever shorter than either
// input's.
func Merge(a, b Set) Set {
	return Set{
		BankAccounts:       union(a.BankAccounts, b.BankAccounts),
		UpiIDs:             union(a.UpiIDs, b.UpiIDs),
		PhishingLinks:      union(a.PhishingLinks, b.PhishingLinks),
		PhoneNumbers:       union(a.PhoneNumbers, b.PhoneNumbers),
		EmailAddresses:     union(a.EmailAddresses, b.EmailAddresses),
		SuspiciousKeywords: union(a.SuspiciousKeywords, b.SuspiciousKeywords),
	}
}

// HasFindings reports whether any bucket is non-empty.
func (s Set) HasFindings() bool {
	return len(s.BankAccounts) > 0 ||
		len(s.UpiIDs) > 0 ||
		len(s.PhishingLinks) > 0 ||
		len(s.PhoneNumbers) > 0 ||
		len(s.EmailAddresses) > 0 ||
		len(s.SuspiciousKeywords) > 0
}

// ItemCount is the total number of items across all buckets.
func (s Set) ItemCount() int {
	return len(s.BankAccounts) + len(s.UpiIDs) + len(s.PhishingLinks) +
		len(s.PhoneNumbers) + len(s.EmailAddresses) + len(s.SuspiciousKeywords)
}

func union(x, y []string) []string {
	seen := make(map[string]struct{}, len(x)+len(y))
	result := make([]string, 0, len(x)+len(y))
	for _, list := range [][]string{x, y} {
		for _, item := range list {
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			result = append(result, item)
		}
	}
	return result
}
