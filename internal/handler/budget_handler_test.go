package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sikaops/sika-backend/internal/service"
	"github.com/sikaops/sika-backend/internal/testutil"
)

func newBudgetFixture() *BudgetHandler {
	budgetRepo := testutil.NewMockBudgetRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	return NewBudgetHandler(service.NewBudgetService(budgetRepo, transactionRepo))
}

func TestCreateBudget_Success(t *testing.T) {
	e := echo.New()
	handler := newBudgetFixture()

	body := `{"category":"Food","amount":"100000","period":"monthly"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/budgets", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupUserContext(c, uuid.New())

	err := handler.CreateBudget(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response BudgetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Category != "Food" || response.Period != "monthly" {
		t.Errorf("Unexpected budget: %+v", response)
	}
	// A fresh budget has no spending against it yet
	if response.Spent != "0" {
		t.Errorf("Expected spent '0', got %s", response.Spent)
	}
	if response.Remaining != "100000" {
		t.Errorf("Expected remaining '100000', got %s", response.Remaining)
	}
}

func TestCreateBudget_InvalidCategory(t *testing.T) {
	e := echo.New()
	handler := newBudgetFixture()

	body := `{"category":"Salary","amount":"100000","period":"monthly"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/budgets", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupUserContext(c, uuid.New())

	err := handler.CreateBudget(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(problem.Errors) != 1 || problem.Errors[0].Field != "category" {
		t.Errorf("Expected category field error, got %+v", problem.Errors)
	}
}

func TestCreateBudget_InvalidPeriod(t *testing.T) {
	e := echo.New()
	handler := newBudgetFixture()

	body := `{"category":"Food","amount":"100000","period":"weekly"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/budgets", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupUserContext(c, uuid.New())

	err := handler.CreateBudget(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetBudgets(t *testing.T) {
	e := echo.New()
	handler := newBudgetFixture()
	userID := uuid.New()

	body := `{"category":"Transport","amount":"50000","period":"monthly"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/budgets", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	createCtx := e.NewContext(req, httptest.NewRecorder())
	setupUserContext(createCtx, userID)
	if err := handler.CreateBudget(createCtx); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	listReq := httptest.NewRequest(http.MethodGet, "/api/v1/budgets", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(listReq, rec)
	setupUserContext(c, userID)

	err := handler.GetBudgets(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response []BudgetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 1 || response[0].Category != "Transport" {
		t.Errorf("Unexpected budgets: %+v", response)
	}
}

func TestUpdateBudget_NotFound(t *testing.T) {
	e := echo.New()
	handler := newBudgetFixture()

	body := `{"category":"Food","amount":"100000","period":"monthly"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/budgets/"+uuid.NewString(), strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())
	setupUserContext(c, uuid.New())

	err := handler.UpdateBudget(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestDeleteBudget_NoContent(t *testing.T) {
	e := echo.New()
	handler := newBudgetFixture()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/budgets/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())
	setupUserContext(c, uuid.New())

	err := handler.DeleteBudget(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
}
