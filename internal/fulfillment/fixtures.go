package fulfillment

// vocab holds the per-kind notification texts. The "arriving in N minutes"
// strings are static display copy, not derived from any ETA computation.
type vocab struct {
	validation Notification
	searching  Notification
	matched    Notification
	inProgress Notification
	completed  Notification
	idle       Notification
}

func (v vocab) forState(s State) Notification {
	switch s {
	case Searching:
		return v.searching
	case Matched:
		return v.matched
	case InProgress:
		return v.inProgress
	case Completed:
		return v.completed
	default:
		return v.idle
	}
}

var taxiVocab = vocab{
	validation: Notification{Title: "Такси", Body: "Укажите адреса подачи и назначения"},
	searching:  Notification{Title: "Такси", Body: "Ищем водителя поблизости"},
	matched:    Notification{Title: "Такси", Body: "Водитель найден, прибудет через 3 минуты"},
	inProgress: Notification{Title: "Такси", Body: "Поездка началась"},
	completed:  Notification{Title: "Такси", Body: "Поездка завершена, спасибо!"},
	idle:       Notification{Title: "Такси", Body: "Готово к новому заказу"},
}

var jobVocab = vocab{
	validation: Notification{Title: "Задания", Body: "Укажите место и описание задания"},
	searching:  Notification{Title: "Задания", Body: "Ищем исполнителя"},
	matched:    Notification{Title: "Задания", Body: "Исполнитель найден, свяжется через 3 минуты"},
	inProgress: Notification{Title: "Задания", Body: "Задание выполняется"},
	completed:  Notification{Title: "Задания", Body: "Задание выполнено"},
	idle:       Notification{Title: "Задания", Body: "Готово к новому заданию"},
}

func vocabFor(k Kind) vocab {
	if k == KindJob {
		return jobVocab
	}
	return taxiVocab
}

// counterpartyFor returns the deterministic fixture bound at the Matched
// transition. The same record is returned every time on purpose.
func counterpartyFor(k Kind) Counterparty {
	if k == KindJob {
		return Counterparty{
			Name:        "Дмитрий К.",
			Detail:      "Мастер на час",
			Rating:      4.8,
			ArrivalText: "свяжется через 3 минуты",
		}
	}
	return Counterparty{
		Name:        "Алексей В.",
		Detail:      "Белый Hyundai Solaris · А 123 ВС",
		Rating:      4.9,
		ArrivalText: "прибудет через 3 минуты",
	}
}
