package catalog

import "time"

// seedItems returns the demo fixtures every fresh store starts with.
// Timestamps are fixed so the seeded ordering is stable across restarts.
func seedItems() []Item {
	base := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	at := func(min int) time.Time { return base.Add(time.Duration(min) * time.Minute) }

	return []Item{
		// products (newest first within the section)
		{ID: "c2f1a7d0-6f36-4f6e-9a01-6f1d2b3c4d01", Section: SectionProducts, Title: "iPhone 15 Pro", Description: "Смартфон Apple, 256 ГБ, титановый", Category: "Электроника", Price: 119990, CreatedAt: at(40)},
		{ID: "c2f1a7d0-6f36-4f6e-9a01-6f1d2b3c4d02", Section: SectionProducts, Title: "Кроссовки Nike Air", Description: "Беговые кроссовки, размер 42", Category: "Одежда", Price: 8990, CreatedAt: at(30)},
		{ID: "c2f1a7d0-6f36-4f6e-9a01-6f1d2b3c4d03", Section: SectionProducts, Title: "Робот-пылесос", Description: "Умный пылесос с влажной уборкой", Category: "Электроника", Price: 24990, CreatedAt: at(20)},
		{ID: "c2f1a7d0-6f36-4f6e-9a01-6f1d2b3c4d04", Section: SectionProducts, Title: "Кофемашина DeLonghi", Description: "Автоматическая, капучинатор", Category: "Бытовая техника", Price: 45990, CreatedAt: at(10)},

		// housing
		{ID: "a9b8c7d6-1122-4e33-8f44-556677880001", Section: SectionHousing, Title: "2-комн. квартира, 54 м²", Description: "Центр, свежий ремонт, рядом метро", Category: "Аренда", Price: 55000, CreatedAt: at(35)},
		{ID: "a9b8c7d6-1122-4e33-8f44-556677880002", Section: SectionHousing, Title: "Студия, 28 м²", Description: "Новостройка, мебель, парковка", Category: "Аренда", Price: 32000, CreatedAt: at(25)},
		{ID: "a9b8c7d6-1122-4e33-8f44-556677880003", Section: SectionHousing, Title: "Дом 120 м² с участком", Description: "Пригород, 6 соток, гараж", Category: "Продажа", Price: 8900000, CreatedAt: at(15)},

		// food
		{ID: "f0e1d2c3-3344-4b55-a666-778899aa0001", Section: SectionFood, Title: "Пицца Маргарита", Description: "Томаты, моцарелла, базилик, 30 см", Category: "Пицца", Price: 549, CreatedAt: at(45)},
		{ID: "f0e1d2c3-3344-4b55-a666-778899aa0002", Section: SectionFood, Title: "Ролл Филадельфия", Description: "Лосось, сливочный сыр, 8 шт", Category: "Суши", Price: 489, CreatedAt: at(33)},
		{ID: "f0e1d2c3-3344-4b55-a666-778899aa0003", Section: SectionFood, Title: "Бургер классический", Description: "Говядина, чеддер, фирменный соус", Category: "Бургеры", Price: 389, CreatedAt: at(22)},
		{ID: "f0e1d2c3-3344-4b55-a666-778899aa0004", Section: SectionFood, Title: "Паста Карбонара", Description: "Гуанчале, пармезан, желток", Category: "Паста", Price: 459, CreatedAt: at(11)},

		// groups
		{ID: "b4a5c6d7-5566-4777-b888-99aabbcc0001", Section: SectionGroups, Title: "Бег по утрам", Description: "Совместные пробежки в парке, все уровни", Category: "Спорт", CreatedAt: at(38)},
		{ID: "b4a5c6d7-5566-4777-b888-99aabbcc0002", Section: SectionGroups, Title: "Клуб настольных игр", Description: "Встречи по пятницам, новички welcome", Category: "Хобби", CreatedAt: at(27)},
		{ID: "b4a5c6d7-5566-4777-b888-99aabbcc0003", Section: SectionGroups, Title: "Английский разговорный", Description: "Практика с носителями, уровень B1+", Category: "Образование", CreatedAt: at(16)},
	}
}
