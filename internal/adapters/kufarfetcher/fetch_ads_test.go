package kufarfetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/daryaivaniukovich/kufar-monitor/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchAds_ParsesSearchResponse(t *testing.T) {
	var seenQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		seenQuery = map[string]string{
			"cat":  q.Get("cat"),
			"typ":  q.Get("typ"),
			"gtsy": q.Get("gtsy"),
			"rms":  q.Get("rms"),
			"size": q.Get("size"),
			"sort": q.Get("sort"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ads": [` + sampleAdJSON + `]}`))
	}))
	defer server.Close()

	adapter, err := NewKufarFetcherAdapter(server.URL)
	require.NoError(t, err)

	ads, err := adapter.FetchAds(context.Background(), domain.SearchCriteria{
		Category:  "1010",
		DealType:  "sell",
		Location:  "country-belarus~province-grodnenskaja_oblast",
		Rooms:     "v.or:3",
		AdsAmount: 10,
		SortBy:    "lst.d",
	})

	require.NoError(t, err)
	require.Len(t, ads, 1)
	assert.Equal(t, "100500", ads[0].ID)

	// критерии ушли в запрос как параметры поискового API
	assert.Equal(t, "1010", seenQuery["cat"])
	assert.Equal(t, "sell", seenQuery["typ"])
	assert.Equal(t, "country-belarus~province-grodnenskaja_oblast", seenQuery["gtsy"])
	assert.Equal(t, "v.or:3", seenQuery["rms"])
	assert.Equal(t, "10", seenQuery["size"])
	assert.Equal(t, "lst.d", seenQuery["sort"])
}

func TestFetchAds_EmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ads": []}`))
	}))
	defer server.Close()

	adapter, err := NewKufarFetcherAdapter(server.URL)
	require.NoError(t, err)

	ads, err := adapter.FetchAds(context.Background(), domain.SearchCriteria{Category: "1010"})

	require.NoError(t, err)
	assert.Empty(t, ads)
}

func TestFetchAds_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	adapter, err := NewKufarFetcherAdapter(server.URL)
	require.NoError(t, err)

	ads, err := adapter.FetchAds(context.Background(), domain.SearchCriteria{Category: "1010"})

	require.Error(t, err)
	assert.Nil(t, ads)
}

func TestFetchAds_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	adapter, err := NewKufarFetcherAdapter(server.URL)
	require.NoError(t, err)

	_, err = adapter.FetchAds(context.Background(), domain.SearchCriteria{Category: "1010"})

	require.Error(t, err)
}

func TestNewKufarFetcherAdapter_InvalidURL(t *testing.T) {
	_, err := NewKufarFetcherAdapter("://not-a-url")
	assert.Error(t, err)

	_, err = NewKufarFetcherAdapter("")
	assert.Error(t, err)
}
