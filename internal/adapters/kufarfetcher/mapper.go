package kufarfetcher

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/daryaivaniukovich/kufar-monitor/internal/core/domain"
)

const galleryBaseURL = "https://rms5.kufar.by/v1/gallery/"

// searchResponse - структура ответа поискового API.
// Из всего ответа нас интересует только список объявлений.
type searchResponse struct {
	Ads []searchAd `json:"ads"`
}

type searchAd struct {
	AdID     int64         `json:"ad_id"`
	AdLink   string        `json:"ad_link"`
	Subject  string        `json:"subject"`
	PriceBYN string        `json:"price_byn"`
	Images   []searchImage `json:"images"`
	AdParams []searchParam `json:"ad_parameters"`
}

type searchImage struct {
	Path string `json:"path"`
}

// searchParam - один элемент массива ad_parameters.
// v - "техническое" значение, vl - человекочитаемое.
type searchParam struct {
	Name     string      `json:"p"`
	Value    interface{} `json:"v"`
	AltValue interface{} `json:"vl"`
}

// toListing - трансформер одного объявления выдачи в доменную модель.
// Отсутствующие поля остаются нулевыми: этого достаточно, валидировать
// чужой API-контракт глубже мы не пытаемся.
func toListing(ad searchAd) domain.Listing {
	params := paramsToMap(ad.AdParams)

	listing := domain.Listing{
		Title: ad.Subject,
		URL:   ad.AdLink,
	}

	if ad.AdID != 0 {
		listing.ID = strconv.FormatInt(ad.AdID, 10)
	}
	if listing.URL == "" && listing.ID != "" {
		listing.URL = fmt.Sprintf("https://www.kufar.by/item/%s", listing.ID)
	}

	if price, err := parsePrice(ad.PriceBYN); err == nil {
		listing.PriceBYN = &price
	}

	if city, ok := params["area"].AltValue.(string); ok {
		listing.City = normalizeLabel(city)
	}
	if district, ok := params["re_district"].AltValue.(string); ok {
		listing.District = normalizeLabel(district)
	}

	listing.Attrs = domain.ListingAttributes{
		Rooms:          getIntPtr(params["rooms"].Value),
		TotalArea:      getFloat64Ptr(params["size"].Value),
		Floor:          getIntPtr(params["floor"].Value),
		BuildingFloors: getIntPtr(params["re_number_floors"].Value),
		YearBuilt:      getIntPtr(params["year_built"].Value),
	}

	for _, image := range ad.Images {
		if image.Path != "" {
			listing.Images = append(listing.Images, galleryBaseURL+image.Path)
		}
	}

	return listing
}

type paramValues struct {
	Value    interface{}
	AltValue interface{}
}

// paramsToMap преобразует срез параметров в удобную карту.
func paramsToMap(params []searchParam) map[string]paramValues {
	m := make(map[string]paramValues, len(params))
	for _, p := range params {
		m[p.Name] = paramValues{p.Value, p.AltValue}
	}
	return m
}

// parsePrice преобразует цену из строки (в копейках) в float64.
func parsePrice(s string) (float64, error) {
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	return float64(i) / 100.0, nil
}

// getIntPtr - хелпер для безопасного получения *int из параметра.
// JSON числа приходят как float64, но иногда Kufar отдает их строками
// или массивом из одного элемента.
func getIntPtr(value interface{}) *int {
	if val, ok := value.(float64); ok {
		v := int(val)
		return &v
	}
	if val, ok := value.(string); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return &i
		}
	}
	if arr, ok := value.([]interface{}); ok && len(arr) == 1 {
		if val, ok1 := arr[0].(float64); ok1 {
			v := int(val)
			return &v
		}
	}
	return nil
}

func getFloat64Ptr(value interface{}) *float64 {
	if val, ok := value.(float64); ok {
		return &val
	}
	if val, ok := value.(string); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return &f
		}
	}
	return nil
}
