package intent

import "testing"

func testRules() []Rule {
	return []Rule{
		{Keywords: []string{"еда", "food"}, Route: "/food", Title: "Food"},
		{Keywords: []string{"такси", "taxi"}, Route: "/taxi", Title: "Taxi"},
		{Keywords: []string{"заказ", "order"}, Route: "/jobs", Title: "Jobs"},
	}
}

func TestRoute_FirstMatchWins_OnOverlap(t *testing.T) {
	ro := NewRouter(testRules())

	// Contains keywords of both the food rule ("еда") and the jobs rule
	// ("заказ"); the earlier rule must win.
	m, ok := ro.Route("хочу заказ и еда сразу")
	if !ok {
		t.Fatalf("expected a match")
	}
	if m.Route != "/food" {
		t.Fatalf("route = %q; want /food (first rule in order)", m.Route)
	}
}

func TestRoute_UniqueKeywordRoutesToItsRule(t *testing.T) {
	ro := NewRouter(testRules())

	// "такси" appears solely in the taxi rule; no earlier rule matches.
	m, ok := ro.Route("хочу заказать такси")
	if !ok {
		t.Fatalf("expected a match")
	}
	// "заказать" also contains the jobs keyword "заказ", but the taxi
	// rule is declared earlier, so the scan stops there.
	if m.Route != "/taxi" {
		t.Fatalf("route = %q; want /taxi", m.Route)
	}
}

func TestRoute_CaseInsensitiveAndSubstring(t *testing.T) {
	ro := NewRouter(testRules())

	m, ok := ro.Route("ORDER me something")
	if !ok || m.Route != "/jobs" {
		t.Fatalf("expected /jobs, got %+v ok=%v", m, ok)
	}

	// Keyword as substring of a longer word still matches.
	if m, ok := ro.Route("taxis are everywhere"); !ok || m.Route != "/taxi" {
		t.Fatalf("substring match failed: %+v ok=%v", m, ok)
	}
}

func TestRoute_NoMatchIsSilentNoop(t *testing.T) {
	ro := NewRouter(testRules())

	for _, utt := range []string{"", "   ", "совершенно другое", "asdfgh"} {
		if m, ok := ro.Route(utt); ok || m != (Match{}) {
			t.Errorf("Route(%q) = %+v, %v; want zero match, false", utt, m, ok)
		}
	}
}

func TestNewRouter_DropsBlankKeywordsAndEmptyRules(t *testing.T) {
	ro := NewRouter([]Rule{
		{Keywords: []string{"  ", ""}, Route: "/dead"},
		{Keywords: []string{" Еда "}, Route: "/food"},
		{Keywords: []string{"x"}, Route: ""},
	})

	rules := ro.Rules()
	if len(rules) != 1 {
		t.Fatalf("expected 1 surviving rule, got %d", len(rules))
	}
	if rules[0].Keywords[0] != "еда" {
		t.Fatalf("keyword not normalized: %q", rules[0].Keywords[0])
	}
}

func TestDefaultRules_TaxiBeatsFoodDeclarationOrder(t *testing.T) {
	ro := NewRouter(DefaultRules())

	// The default list declares taxi before food, so an utterance with
	// both resolves to /taxi.
	m, ok := ro.Route("закажи такси а потом еда")
	if !ok || m.Route != "/taxi" {
		t.Fatalf("expected /taxi, got %+v ok=%v", m, ok)
	}

	m, ok = ro.Route("хочу заказать такси")
	if !ok || m.Route != "/taxi" {
		t.Fatalf("expected /taxi for plain taxi request, got %+v ok=%v", m, ok)
	}
}

func TestDefaultRules_CoverAllServices(t *testing.T) {
	want := map[string]string{
		"открой мессенджер": "/messenger",
		"хочу оплатить":     "/payments",
		"снять квартиру":    "/housing",
		"вызови такси":      "/taxi",
		"я голоден":         "/food",
		"найди работу":      "/jobs",
		"купить телефон":    "/marketplace",
		"мои группы":        "/groups",
	}
	ro := NewRouter(DefaultRules())
	for utt, route := range want {
		m, ok := ro.Route(utt)
		if !ok {
			t.Errorf("Route(%q): no match; want %s", utt, route)
			continue
		}
		if m.Route != route {
			t.Errorf("Route(%q) = %s; want %s", utt, m.Route, route)
		}
	}
}
