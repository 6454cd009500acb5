package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propsearch/config"
	"propsearch/internal/database"
	"propsearch/internal/dispatcher"
	"propsearch/internal/engine"
	"propsearch/internal/models"
	"propsearch/internal/processor"
	"propsearch/internal/queue"
	"propsearch/internal/suggest"
)

func ptr[T any](v T) *T {
	return &v
}

type testServer struct {
	router    *gin.Engine
	db        *database.Database
	processor *processor.RequestProcessor
}

func newTestServer(t *testing.T, queueSize int, start bool) *testServer {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db, err := database.NewTestDB()
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{}
	cfg.Engine.Workers = 2
	d := dispatcher.NewDispatcher(engine.New(), false, logger)
	p := processor.NewRequestProcessor(d, queue.NewRequestQueue(queueSize, logger), cfg, logger)
	if start {
		p.Start()
		t.Cleanup(p.Stop)
	}

	require.NoError(t, db.UpsertProperties(context.Background(), []models.PropertyRecord{
		{ID: "1", Title: "Canal House", Address: "Herengracht 1", City: "Amsterdam", PropertyType: "House", SaleType: models.SaleTypeForSale, Price: ptr(900000.0), Bedrooms: ptr(4)},
		{ID: "2", Title: "Studio Loft", Address: "Canal Street 2", City: "Amsterdam", PropertyType: "Apartment", SaleType: models.SaleTypeForRent, Price: ptr(1500.0), Bedrooms: ptr(1)},
		{ID: "3", Title: "Garden Villa", Address: "Parklaan 3", City: "Utrecht", PropertyType: "Villa", SaleType: models.SaleTypeForSale, Price: ptr(1200000.0), Bedrooms: ptr(6)},
	}))

	return &testServer{
		router:    NewRouter(NewHandler(db, p, logger), []string{"*"}),
		db:        db,
		processor: p,
	}
}

func (s *testServer) do(t *testing.T, method, target string, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestGetAllProperties(t *testing.T) {
	s := newTestServer(t, 10, true)

	tests := []struct {
		name     string
		target   string
		expected []string
	}{
		{name: "All", target: "/api/properties", expected: []string{"1", "2", "3"}},
		{name: "City", target: "/api/properties?city=utrecht", expected: []string{"3"}},
		{name: "Unknown city", target: "/api/properties?city=Delft", expected: []string{}},
		{name: "Repeated city uses the first", target: "/api/properties?city=UTRECHT&city=Amsterdam", expected: []string{"3"}},
		{name: "Empty city", target: "/api/properties?city=", expected: []string{"1", "2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, tt.target, "")
			require.Equal(t, http.StatusOK, w.Code)

			ids := []string{}
			for _, p := range decode[[]models.PropertyRecord](t, w) {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestUpsertProperties(t *testing.T) {
	s := newTestServer(t, 10, true)

	w := s.do(t, http.MethodPost, "/api/properties", `[{"id": 4, "title": "New Build", "price": "450000", "sqft": 700}]`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"upserted": 1}`, w.Body.String())

	stored, err := s.db.GetAllProperties(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, stored, 4)
	assert.Equal(t, "4", stored[3].ID)
	assert.Equal(t, 450000.0, stored[3].GetPrice())
	assert.Equal(t, 700, stored[3].GetSquareFeet())

	w = s.do(t, http.MethodPost, "/api/properties", `[{"title": "no id"}]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/properties", `{"id": "not a list"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFilterProperties(t *testing.T) {
	s := newTestServer(t, 10, true)

	w := s.do(t, http.MethodPost, "/api/properties/filter?city=amsterdam", `{"saleType": "For Sale"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	result := decode[engine.FilterResult](t, w)
	assert.Equal(t, 1, result.PassingCount)
	assert.Equal(t, 2, result.TotalCount)
	assert.Equal(t, "1", result.Passing[0].ID)

	// No body means no criteria
	w = s.do(t, http.MethodPost, "/api/properties/filter", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, decode[engine.FilterResult](t, w).PassingCount)

	// Criteria of the wrong type are dropped, numeric strings are read
	w = s.do(t, http.MethodPost, "/api/properties/filter", `{"minPrice": "cheap"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, decode[engine.FilterResult](t, w).PassingCount)

	w = s.do(t, http.MethodPost, "/api/properties/filter", `{"bedrooms": "6"}`)
	require.Equal(t, http.StatusOK, w.Code)
	result = decode[engine.FilterResult](t, w)
	require.Equal(t, 1, result.PassingCount)
	assert.Equal(t, "3", result.Passing[0].ID)

	w = s.do(t, http.MethodPost, "/api/properties/filter", `["not", "criteria"]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFilterPropertiesGeoJSON(t *testing.T) {
	s := newTestServer(t, 10, true)

	require.NoError(t, s.db.UpsertProperties(context.Background(), []models.PropertyRecord{
		{ID: "10", Title: "West", City: "Haarlem", SaleType: models.SaleTypeForSale, Longitude: ptr(4.62), Latitude: ptr(52.38)},
		{ID: "11", Title: "East", City: "Haarlem", SaleType: models.SaleTypeForSale, Longitude: ptr(4.66), Latitude: ptr(52.38)},
		{ID: "12", Title: "North", City: "Haarlem", SaleType: models.SaleTypeForSale, Longitude: ptr(4.64), Latitude: ptr(52.40)},
		{ID: "13", Title: "Rental", City: "Haarlem", SaleType: models.SaleTypeForRent, Longitude: ptr(4.64), Latitude: ptr(52.36)},
	}))

	w := s.do(t, http.MethodPost, "/api/properties/geojson?city=haarlem", `{"saleType": "For Sale"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/geo+json", w.Header().Get("Content-Type"))

	fc, err := geojson.UnmarshalFeatureCollection(w.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, fc.Features, 4)
	assert.Equal(t, "10", fc.Features[0].Properties["id"])
	assert.Equal(t, "hull", fc.Features[3].Properties["geometry_type"])
	assert.Equal(t, "Haarlem", fc.Features[3].Properties["city"])

	// Records without coordinates produce an empty collection
	w = s.do(t, http.MethodPost, "/api/properties/geojson?city=utrecht", "")
	require.Equal(t, http.StatusOK, w.Code)
	fc, err = geojson.UnmarshalFeatureCollection(w.Body.Bytes())
	require.NoError(t, err)
	assert.Empty(t, fc.Features)
}

func TestSearchProperties(t *testing.T) {
	s := newTestServer(t, 10, true)

	w := s.do(t, http.MethodGet, "/api/properties/search?q=canal", "")
	require.Equal(t, http.StatusOK, w.Code)

	result := decode[engine.SearchResult](t, w)
	assert.Equal(t, "canal", result.Query)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "1", result.Results[0].ID)
	assert.Equal(t, 11.0, *result.Results[0].Score)

	w = s.do(t, http.MethodGet, "/api/properties/search?q=canal&fuzzy=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 11.5, *decode[engine.SearchResult](t, w).Results[0].Score)

	w = s.do(t, http.MethodGet, "/api/properties/search?q=canal&fuzzy=maybe", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSortedProperties(t *testing.T) {
	s := newTestServer(t, 10, true)

	w := s.do(t, http.MethodGet, "/api/properties/sorted?key=price&order=desc", "")
	require.Equal(t, http.StatusOK, w.Code)

	result := decode[dispatcher.SortResult](t, w)
	assert.Equal(t, models.Descending, result.Order)
	require.Len(t, result.Records, 3)
	assert.Equal(t, []string{"3", "1", "2"}, []string{result.Records[0].ID, result.Records[1].ID, result.Records[2].ID})

	w = s.do(t, http.MethodGet, "/api/properties/sorted?key=rating", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/properties/sorted", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPropertyStats(t *testing.T) {
	s := newTestServer(t, 10, true)

	w := s.do(t, http.MethodGet, "/api/stats?city=Amsterdam", "")
	require.Equal(t, http.StatusOK, w.Code)

	report := decode[models.StatsReport](t, w)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.ForSale)
	assert.Equal(t, 1, report.ForRent)
	assert.Equal(t, models.PriceRange{Min: 1500, Max: 900000}, report.PriceRange)
}

func TestSuggestTitles(t *testing.T) {
	s := newTestServer(t, 10, true)

	w := s.do(t, http.MethodGet, "/api/suggest?q=villa&limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)

	suggestions := decode[[]suggest.Suggestion](t, w)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "Garden Villa", suggestions[0].Title)
}

func TestRunEngine(t *testing.T) {
	s := newTestServer(t, 10, true)

	tests := []struct {
		name   string
		body   string
		status int
		kind   dispatcher.Kind
	}{
		{
			name:   "Stats",
			body:   `{"id": "e1", "operation": "stats", "payload": {"records": [{"id": "a", "price": 100}]}}`,
			status: http.StatusOK,
			kind:   dispatcher.KindStatsComplete,
		},
		{
			name:   "Unknown operation",
			body:   `{"id": "e2", "operation": "rank"}`,
			status: http.StatusUnprocessableEntity,
			kind:   dispatcher.KindError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/engine", tt.body)
			require.Equal(t, tt.status, w.Code)

			resp := decode[dispatcher.Response](t, w)
			assert.Equal(t, tt.kind, resp.Kind)
		})
	}

	w := s.do(t, http.MethodPost, "/api/engine", `{"payload": {}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueueFullReturnsServiceUnavailable(t *testing.T) {
	// Workers never start, so the single slot stays taken.
	s := newTestServer(t, 1, false)
	_, err := s.processor.Submit(dispatcher.NewRequest("blocker", dispatcher.StatsPayload{}))
	require.NoError(t, err)

	w := s.do(t, http.MethodGet, "/api/stats", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, 10, true)
	s.do(t, http.MethodGet, "/api/stats", "")

	w := s.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "propsearch_engine_requests_completed_total")
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, 10, true)

	req := httptest.NewRequest(http.MethodGet, "/api/properties", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorsConfig(t *testing.T) {
	assert.True(t, corsConfig([]string{"*"}).AllowAllOrigins)
	assert.True(t, corsConfig(nil).AllowAllOrigins)

	cfg := corsConfig([]string{"http://localhost:3000"})
	assert.False(t, cfg.AllowAllOrigins)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowOrigins)
}
