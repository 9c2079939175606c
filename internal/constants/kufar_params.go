package constants

import "github.com/daryaivaniukovich/kufar-monitor/internal/core/domain"

// Категории Kufar (параметр cat)
const (
	ApartmentCategory = "1010"
	HouseCategory     = "1020"
	RoomCategory      = "1030"
	GarageCategory    = "1040"
)

// Тип сделки (параметр typ)
const (
	DealTypeSell = "sell"
	DealTypeRent = "let"
)

// Сортировка (параметр sort): lst.d - по дате размещения, новые первыми
const SortByDateDesc = "lst.d"

// Локации (параметр gtsy)
const (
	MinskRegion   = "country-belarus~province-minsk~locality-minsk"
	GrodnoRegion  = "country-belarus~province-grodnenskaja_oblast"
	BrestRegion   = "country-belarus~province-brestskaja_oblast"
	GomelRegion   = "country-belarus~province-gomelskaja_oblast"
	VitebskRegion = "country-belarus~province-vitebskaja_oblast"
)

// Количество комнат (параметр rms)
const (
	OneRoom    = "v.or:1"
	TwoRooms   = "v.or:3"
	ThreeRooms = "v.or:5"
)

const (
	DefaultAdsLimit = 10
	DefaultLang     = "ru"
)

// DefaultCriteria - фильтр мониторинга по умолчанию: продажа двухкомнатных
// квартир в Гродненской области, свежие объявления первыми.
func DefaultCriteria() domain.SearchCriteria {
	return domain.SearchCriteria{
		Category:  ApartmentCategory,
		DealType:  DealTypeSell,
		Location:  GrodnoRegion,
		Rooms:     TwoRooms,
		AdsAmount: DefaultAdsLimit,
		SortBy:    SortByDateDesc,
		Lang:      DefaultLang,
	}
}
