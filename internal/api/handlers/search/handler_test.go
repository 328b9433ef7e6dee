package search_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/5w1tchy/library-api/internal/api/handlers/search"
	mock_search "github.com/5w1tchy/library-api/internal/api/handlers/search/mocks"
	"github.com/5w1tchy/library-api/internal/models"
)

func TestBooksShortQueryIsBadRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := search.NewHandler(mock_search.NewMockProvider(ctrl), zap.NewNop())

	for _, q := range []string{"", "ab", "%20ab%20"} {
		rec := httptest.NewRecorder()
		h.Books(rec, httptest.NewRequest(http.MethodGet, "/search/books?query="+q, nil))
		require.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestBooksReturnsQueryAndCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mock_search.NewMockProvider(ctrl)
	p.EXPECT().Search(gomock.Any(), "dune", 5).Return([]models.BookSuggestion{
		{ExternalID: "a", Title: "Dune", Authors: "Frank Herbert"},
		{ExternalID: "b", Title: "Dune Messiah", Authors: "Frank Herbert"},
	})
	h := search.NewHandler(p, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Books(rec, httptest.NewRequest(http.MethodGet, "/search/books?query=+dune+&maxResults=5", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Query       string                  `json:"query"`
		Count       int                     `json:"count"`
		Suggestions []models.BookSuggestion `json:"suggestions"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "dune", body.Query)
	require.Equal(t, 2, body.Count)
	require.Equal(t, "Dune Messiah", body.Suggestions[1].Title)
}

func TestBooksDefaultsMaxResults(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mock_search.NewMockProvider(ctrl)
	p.EXPECT().Search(gomock.Any(), "emma", 10).Return([]models.BookSuggestion{})

	rec := httptest.NewRecorder()
	search.NewHandler(p, zap.NewNop()).Books(rec, httptest.NewRequest(http.MethodGet, "/search/books?query=emma", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"count":0`)
}

func TestSuggestIsLenient(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mock_search.NewMockProvider(ctrl)
	p.EXPECT().Search(gomock.Any(), "ab", 5).Return([]models.BookSuggestion{})

	rec := httptest.NewRecorder()
	search.NewHandler(p, zap.NewNop()).Suggest(rec, httptest.NewRequest(http.MethodGet, "/search/suggest?query=ab&limit=x", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"success","data":[]}`, rec.Body.String())
}

func TestSuggestDefaultsLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mock_search.NewMockProvider(ctrl)
	p.EXPECT().Search(gomock.Any(), "dune", search.DefaultSuggestLimit).Return([]models.BookSuggestion{
		{ExternalID: "a", Title: "Dune"},
	})

	rec := httptest.NewRecorder()
	search.NewHandler(p, zap.NewNop()).Suggest(rec, httptest.NewRequest(http.MethodGet, "/search/suggest?query=dune", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 5, search.DefaultSuggestLimit)
	require.Contains(t, rec.Body.String(), `"external_id":"a"`)
}

func TestSuggestHonoursLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mock_search.NewMockProvider(ctrl)
	p.EXPECT().Search(gomock.Any(), "dune", 12).Return([]models.BookSuggestion{})

	rec := httptest.NewRecorder()
	search.NewHandler(p, zap.NewNop()).Suggest(rec, httptest.NewRequest(http.MethodGet, "/search/suggest?query=dune&limit=12", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
