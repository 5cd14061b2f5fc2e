// Package topics classifies review content against a fixed taxonomy of
// topic labels via case-insensitive keyword matching.
package topics

import "strings"

type Topic struct {
	Name     string
	Keywords []string
}

// Taxonomy is ordered; tag strings and dataset columns follow this order.
// Keyword lists must stay as-is for output compatibility with prior runs.
var Taxonomy = []Topic{
	{"delivery", []string{"deliver", "shipping", "ship", "arrived", "transit", "fedex", "ups", "usps", "fast", "slow", "late", "on time"}},
	{"price", []string{"price", "cost", "expensive", "cheap", "value", "deal", "money", "affordable", "worth", "overpriced", "budget"}},
	{"service", []string{"service", "support", "help", "assist", "representative", "customer service", "helpful", "responsive"}},
	{"product", []string{"product", "item", "quality", "condition", "broken", "defective", "working", "perfect", "damaged", "excellent"}},
	{"staff", []string{"staff", "employee", "manager", "associate", "friendly", "rude", "polite", "professional", "knowledgeable"}},
	{"order", []string{"order", "purchase", "buy", "bought", "ordered", "shopping", "checkout", "transaction"}},
	{"location", []string{"store", "location", "branch", "visit", "pickup", "pick up", "warehouse", "showroom", "in-store"}},
	{"refund", []string{"refund", "return", "exchange", "money back", "replacement", "warranty", "cancel"}},
}

// Tag reports which taxonomy topics the combined title and text mention.
// The first return value is the detected topic names joined by ", " in
// taxonomy order, or "general" when nothing matches. The flags map holds
// one entry per topic regardless of detection.
func Tag(title, text string) (string, map[string]bool) {
	combined := strings.ToLower(title + " " + text)

	var detected []string
	flags := make(map[string]bool, len(Taxonomy))
	for _, topic := range Taxonomy {
		hit := false
		for _, kw := range topic.Keywords {
			if strings.Contains(combined, kw) {
				hit = true
				break
			}
		}
		flags[topic.Name] = hit
		if hit {
			detected = append(detected, topic.Name)
		}
	}

	if len(detected) == 0 {
		return "general", flags
	}
	return strings.Join(detected, ", "), flags
}
