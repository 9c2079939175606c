package usecase

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/daryaivaniukovich/kufar-monitor/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int             { return &v }
func float64Ptr(v float64) *float64 { return &v }

func TestFormatListing_FullListing(t *testing.T) {
	listing := domain.Listing{
		ID:       "100500",
		Title:    "Продается квартира",
		PriceBYN: float64Ptr(185000),
		City:     "Гродно",
		District: "Ленинский район",
		Attrs: domain.ListingAttributes{
			Rooms:          intPtr(2),
			TotalArea:      float64Ptr(48.5),
			Floor:          intPtr(3),
			BuildingFloors: intPtr(9),
			YearBuilt:      intPtr(1987),
		},
		Images: []string{"https://rms5.kufar.by/v1/gallery/a.jpg", "https://rms5.kufar.by/v1/gallery/b.jpg"},
		URL:    "https://www.kufar.by/item/100500",
	}

	payload := FormatListing(listing)

	assert.Equal(t,
		"<b>Продается квартира</b>\n185 000 BYN\nГродно, Ленинский район · 2 комн. · 48.5 м² · этаж 3/9 · 1987 г.",
		payload.Caption)
	assert.Equal(t, "https://www.kufar.by/item/100500", payload.URL)
	// фото берется первое из списка
	assert.Equal(t, "https://rms5.kufar.by/v1/gallery/a.jpg", payload.PhotoURL)
}

func TestFormatListing_MissingFieldsGetPlaceholders(t *testing.T) {
	payload := FormatListing(domain.Listing{ID: "1"})

	assert.Equal(t, "<b>Без названия</b>\n???\nГродно", payload.Caption)
	assert.Empty(t, payload.PhotoURL)
}

func TestFormatListing_FloorWithoutBuildingFloors(t *testing.T) {
	payload := FormatListing(domain.Listing{
		Title: "Квартира",
		Attrs: domain.ListingAttributes{Floor: intPtr(5)},
	})

	assert.Contains(t, payload.Caption, "этаж 5")
	assert.NotContains(t, payload.Caption, "этаж 5/")
}

func TestFormatPrice_GroupsThousands(t *testing.T) {
	cases := []struct {
		price    float64
		expected string
	}{
		{999, "999 BYN"},
		{1000, "1 000 BYN"},
		{185000, "185 000 BYN"},
		{1234567, "1 234 567 BYN"},
		// копейки отбрасываются
		{185000.99, "185 000 BYN"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, formatPrice(&tc.price))
	}
}

func TestFormatPrice_NilPrice(t *testing.T) {
	assert.Equal(t, "???", formatPrice(nil))
}

func TestFormatListing_TruncatesLongCaption(t *testing.T) {
	// кириллица - чтобы проверить счет в рунах, а не в байтах
	longTitle := strings.Repeat("ю", 1100)

	payload := FormatListing(domain.Listing{Title: longTitle})

	runeCount := utf8.RuneCountInString(payload.Caption)
	require.Equal(t, 951, runeCount)
	assert.True(t, strings.HasSuffix(payload.Caption, "…"))
}

func TestFormatListing_ExactLimitNotTruncated(t *testing.T) {
	// заголовок подобран так, чтобы итоговый текст был ровно 1024 руны:
	// "<b>" + title + "</b>\n" + "???" + "\n" + "Гродно" = title + 18
	title := strings.Repeat("я", 1006)

	payload := FormatListing(domain.Listing{Title: title})

	assert.Equal(t, 1024, utf8.RuneCountInString(payload.Caption))
	assert.False(t, strings.HasSuffix(payload.Caption, "…"))
}
