package collection_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/5w1tchy/library-api/internal/api/handlers/collection"
	mock_collection "github.com/5w1tchy/library-api/internal/api/handlers/collection/mocks"
	"github.com/5w1tchy/library-api/internal/api/middlewares"
	"github.com/5w1tchy/library-api/internal/errs"
	"github.com/5w1tchy/library-api/internal/models"
)

func setup(t *testing.T) (*collection.Handler, *mock_collection.MockCollection) {
	ctrl := gomock.NewController(t)
	svc := mock_collection.NewMockCollection(ctrl)
	return collection.NewHandler(svc, zap.NewNop()), svc
}

func as(r *http.Request, username string) *http.Request {
	return r.WithContext(middlewares.WithIdentity(r.Context(), middlewares.Identity{
		UserID: 7, Username: username, Role: models.RoleUser,
	}))
}

func TestAddMergesSuggestion(t *testing.T) {
	h, svc := setup(t)
	want := models.BookSuggestion{ExternalID: "zyTCAlFPjgYC", Title: "Dune", Authors: "Frank Herbert"}
	svc.EXPECT().AddSuggestionToCollection(gomock.Any(), "mia", want).
		Return(models.Book{ID: 11, Title: "Dune"}, nil)

	body := `{"external_id":"zyTCAlFPjgYC","title":"Dune","authors":"Frank Herbert"}`
	rec := httptest.NewRecorder()
	h.Add(rec, as(httptest.NewRequest(http.MethodPost, "/collection", strings.NewReader(body)), "mia"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"id":11`)
}

func TestAddWithoutIdentity(t *testing.T) {
	h, _ := setup(t)

	rec := httptest.NewRecorder()
	h.Add(rec, httptest.NewRequest(http.MethodPost, "/collection", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAddBlankTitle(t *testing.T) {
	h, svc := setup(t)
	svc.EXPECT().AddSuggestionToCollection(gomock.Any(), "mia", gomock.Any()).
		Return(models.Book{}, errs.Invalid("title", "is required"))

	rec := httptest.NewRecorder()
	h.Add(rec, as(httptest.NewRequest(http.MethodPost, "/collection", strings.NewReader(`{"title":" "}`)), "mia"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckGuestIsFalse(t *testing.T) {
	h, svc := setup(t)
	svc.EXPECT().IsBookInCollection(gomock.Any(), "", "abc").Return(false, nil)

	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodGet, "/collection/check?externalId=abc", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"success","data":{"in_collection":false}}`, rec.Body.String())
}

func TestCheckMember(t *testing.T) {
	h, svc := setup(t)
	svc.EXPECT().IsBookInCollection(gomock.Any(), "mia", "abc").Return(true, nil)

	rec := httptest.NewRecorder()
	h.Check(rec, as(httptest.NewRequest(http.MethodGet, "/collection/check?externalId=abc", nil), "mia"))
	require.Contains(t, rec.Body.String(), `"in_collection":true`)
}

func TestList(t *testing.T) {
	h, svc := setup(t)
	svc.EXPECT().ListCollection(gomock.Any(), "mia").Return([]models.Book{{ID: 2}, {ID: 1}}, nil)

	rec := httptest.NewRecorder()
	h.List(rec, as(httptest.NewRequest(http.MethodGet, "/collection", nil), "mia"))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRemoveMissingBook(t *testing.T) {
	h, svc := setup(t)
	svc.EXPECT().RemoveFromCollection(gomock.Any(), "mia", int64(404)).Return(errs.NotFound("book", 404))

	req := httptest.NewRequest(http.MethodDelete, "/collection/404", nil)
	req.SetPathValue("bookId", "404")
	rec := httptest.NewRecorder()
	h.Remove(rec, as(req, "mia"))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemove(t *testing.T) {
	h, svc := setup(t)
	svc.EXPECT().RemoveFromCollection(gomock.Any(), "mia", int64(3)).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/collection/3", nil)
	req.SetPathValue("bookId", "3")
	rec := httptest.NewRecorder()
	h.Remove(rec, as(req, "mia"))
	require.Equal(t, http.StatusNoContent, rec.Code)
}
