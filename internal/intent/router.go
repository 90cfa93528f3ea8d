// Package intent maps free-text utterances (recognized speech or typed
// commands) to client navigation actions. The router is an ordered list of
// keyword rules evaluated with first-match-wins semantics: the first rule
// whose keyword set intersects the utterance wins, regardless of how many
// later rules would also match. Rule order is therefore part of the
// contract and is covered by tests.
//
// Matching is deliberately simple: a rule matches when any of its keywords
// occurs as a substring of the lowercased utterance. There is no scoring,
// no ranking by specificity, and no multi-intent handling. An utterance
// that matches no rule is a silent no-op, not an error.
package intent

import "strings"

// Rule binds a set of trigger keywords to a navigation route and the
// notification shown when the rule fires. Keyword sets of different rules
// may overlap; declaration order decides the winner.
type Rule struct {
	// Keywords trigger the rule when any of them occurs as a substring of
	// the lowercased utterance. Keywords must be stored lowercased.
	Keywords []string
	// Route is the client-side navigation target, e.g. "/taxi".
	Route string
	// Title and Body form the transient notification for the user.
	Title string
	Body  string
}

// Match is the outcome of routing an utterance: where to navigate and what
// to show. The zero Match is returned when nothing matched.
type Match struct {
	Route string `json:"route"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Router evaluates an ordered rule list against utterances. It is immutable
// after construction and safe for concurrent use.
type Router struct {
	rules []Rule
}

// NewRouter builds a Router over the given rules. The slice is copied;
// callers may not mutate rules afterwards through the original slice.
// Keywords are lowercased and blank ones dropped so that matching stays
// case-insensitive regardless of how the rule set was declared.
func NewRouter(rules []Rule) *Router {
	rs := make([]Rule, 0, len(rules))
	for _, r := range rules {
		kws := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			k = strings.ToLower(strings.TrimSpace(k))
			if k != "" {
				kws = append(kws, k)
			}
		}
		if len(kws) == 0 || r.Route == "" {
			continue
		}
		r.Keywords = kws
		rs = append(rs, r)
	}
	return &Router{rules: rs}
}

// Route returns the match for the first rule whose keywords occur in the
// utterance, and whether any rule matched. The utterance is lowercased here
// so call sites do not have to agree on normalization. Empty or garbage
// input simply fails to match.
func (ro *Router) Route(utterance string) (Match, bool) {
	u := strings.ToLower(strings.TrimSpace(utterance))
	if u == "" {
		return Match{}, false
	}
	for _, r := range ro.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(u, kw) {
				return Match{Route: r.Route, Title: r.Title, Body: r.Body}, true
			}
		}
	}
	return Match{}, false
}

// Rules returns a copy of the rule list in evaluation order.
func (ro *Router) Rules() []Rule {
	out := make([]Rule, len(ro.rules))
	copy(out, ro.rules)
	return out
}
