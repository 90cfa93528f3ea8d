package intent

// DefaultRules is the built-in rule list covering the eight service
// destinations of the app. Keywords mix Russian and English because the
// speech provider returns whichever language the user spoke.
//
// Order matters: "такси" before "еда" means an utterance mentioning both
// navigates to the taxi screen. Keep new rules at the end unless they must
// shadow an existing one.
func DefaultRules() []Rule {
	return []Rule{
		{
			Keywords: []string{"такси", "поездк", "довез", "taxi", "ride"},
			Route:    "/taxi",
			Title:    "Такси",
			Body:     "Открываю заказ такси",
		},
		{
			Keywords: []string{"еда", "еду", "голод", "ресторан", "food", "hungry"},
			Route:    "/food",
			Title:    "Еда",
			Body:     "Открываю доставку еды",
		},
		{
			Keywords: []string{"плате", "оплат", "перевод", "кошел", "pay", "wallet"},
			Route:    "/payments",
			Title:    "Платежи",
			Body:     "Открываю платежи",
		},
		{
			Keywords: []string{"жиль", "квартир", "аренд", "housing", "apartment", "rent"},
			Route:    "/housing",
			Title:    "Жильё",
			Body:     "Открываю поиск жилья",
		},
		{
			Keywords: []string{"работ", "ваканс", "подработ", "job", "task"},
			Route:    "/jobs",
			Title:    "Работа",
			Body:     "Открываю задания",
		},
		{
			Keywords: []string{"куп", "товар", "магазин", "маркет", "buy", "market"},
			Route:    "/marketplace",
			Title:    "Маркетплейс",
			Body:     "Открываю маркетплейс",
		},
		{
			Keywords: []string{"групп", "сообществ", "канал", "group", "community"},
			Route:    "/groups",
			Title:    "Группы",
			Body:     "Открываю группы",
		},
		{
			Keywords: []string{"сообщен", "мессендж", "чат", "напи", "message", "chat"},
			Route:    "/messenger",
			Title:    "Сообщения",
			Body:     "Открываю мессенджер",
		},
	}
}
