package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tablehive/backoffice/internal/repository"
	"github.com/tablehive/backoffice/internal/usecase"
)

func listQueryContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
	return c
}

func TestParseListQuery_Defaults(t *testing.T) {
	query := parseListQuery(listQueryContext(t, ""))

	if query.Page != 0 || query.Size != 0 {
		t.Fatalf("expected zero paging, got page=%d size=%d", query.Page, query.Size)
	}
	if query.StartDate != nil || query.EndDate != nil {
		t.Fatal("expected no date bounds")
	}
}

func TestParseListQuery_IgnoresBadNumbers(t *testing.T) {
	query := parseListQuery(listQueryContext(t, "page=abc&size=-3"))

	if query.Page != 0 || query.Size != 0 {
		t.Fatalf("expected bad values ignored, got page=%d size=%d", query.Page, query.Size)
	}
}

func TestParseListQuery_ParsesFilters(t *testing.T) {
	query := parseListQuery(listQueryContext(t, "page=2&size=25&search=pizza&status=product-active&order=name"))

	if query.Page != 2 || query.Size != 25 {
		t.Fatalf("unexpected paging: page=%d size=%d", query.Page, query.Size)
	}
	if query.Search != "pizza" || query.StatusID != "product-active" || query.Order != "name" {
		t.Fatalf("unexpected filters: %+v", query)
	}
}

func TestParseListQuery_DateOnlyEndCoversWholeDay(t *testing.T) {
	query := parseListQuery(listQueryContext(t, "startDate=2026-08-01&endDate=2026-08-02"))

	if query.StartDate == nil || query.EndDate == nil {
		t.Fatal("expected both date bounds")
	}

	wantStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if !query.StartDate.Equal(wantStart) {
		t.Fatalf("unexpected start: %v", query.StartDate)
	}
	if !query.EndDate.After(time.Date(2026, 8, 2, 23, 59, 59, 0, time.UTC)) {
		t.Fatalf("end bound should cover the whole day, got %v", query.EndDate)
	}
}

func TestRespondWithMappedError_MatchesCase(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	wrapped := errors.Join(errors.New("context"), repository.ErrNotFound)
	RespondWithMappedError(c, wrapped, []ErrorCase{
		{Errors: []error{usecase.ErrValidation}, Status: http.StatusBadRequest, Message: "bad"},
		{Errors: []error{repository.ErrNotFound}, Status: http.StatusNotFound, Message: "missing"},
	}, http.StatusInternalServerError, "boom")

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestRespondWithMappedError_FallsBack(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	RespondWithMappedError(c, errors.New("surprise"), []ErrorCase{
		{Errors: []error{repository.ErrNotFound}, Status: http.StatusNotFound, Message: "missing"},
	}, http.StatusInternalServerError, "boom")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
