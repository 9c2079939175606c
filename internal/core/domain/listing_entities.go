package domain

// Listing - одно объявление из поисковой выдачи Kufar.
// Поля, которых нет в ответе API, остаются нулевыми/nil:
// подстановкой значений по умолчанию занимается форматтер.
type Listing struct {
	// ID - строковый идентификатор объявления (ad_id).
	// Единственный ключ дедупликации.
	ID string

	Title    string
	PriceBYN *float64

	City     string
	District string

	Attrs ListingAttributes

	// Images - полные URL фотографий галереи, первая считается главной.
	Images []string

	// URL - каноническая ссылка на страницу объявления.
	URL string
}

// ListingAttributes - типизированные параметры объявления из ad_parameters.
// Вместо разбора "сырого" списка параметров в каждом месте
// фиксированный набор известных ключей с необязательными значениями.
type ListingAttributes struct {
	Rooms          *int
	TotalArea      *float64
	Floor          *int
	BuildingFloors *int
	YearBuilt      *int
}

// NotificationPayload - готовое к отправке уведомление.
// Живет только на время одной отправки, никуда не сохраняется.
type NotificationPayload struct {
	// Caption - HTML-текст подписи, не длиннее лимита Telegram.
	Caption string
	// URL - каноническая ссылка на объявление (кнопка / приписка к тексту).
	URL string
	// PhotoURL - главное фото; пустая строка, если фотографий нет.
	PhotoURL string
}

// SearchCriteria - параметры фиксированного поискового фильтра.
type SearchCriteria struct {
	Category  string
	DealType  string
	Location  string
	Rooms     string
	AdsAmount int
	SortBy    string
	Lang      string
}

// RunSummary - итог одного цикла мониторинга.
type RunSummary struct {
	Fetched  int
	New      int
	Notified int
	// SavedTo - идентификатор документа, в который сохранено множество
	// просмотренных ID; пустая строка, если сохранения не было.
	SavedTo string
}
