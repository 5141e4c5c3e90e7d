package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sikaops/sika-backend/internal/websocket"
)

// stubValidator accepts a single known token.
type stubValidator struct {
	token  string
	userID uuid.UUID
}

func (v *stubValidator) ValidateToken(token string) (uuid.UUID, error) {
	if token == v.token {
		return v.userID, nil
	}
	return uuid.Nil, errors.New("invalid token")
}

func TestHandleWS_MissingToken(t *testing.T) {
	e := echo.New()
	hub := websocket.NewHub()
	handler := NewWebSocketHandler(hub, &stubValidator{token: "good", userID: uuid.New()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.HandleWS(c)
	if err == nil {
		t.Fatal("Expected an error for missing token")
	}

	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 HTTPError, got %v", err)
	}
}

func TestHandleWS_InvalidToken(t *testing.T) {
	e := echo.New()
	hub := websocket.NewHub()
	handler := NewWebSocketHandler(hub, &stubValidator{token: "good", userID: uuid.New()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/ws?token=bad", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.HandleWS(c)
	if err == nil {
		t.Fatal("Expected an error for invalid token")
	}

	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 HTTPError, got %v", err)
	}
}

func TestCheckOrigin(t *testing.T) {
	hub := websocket.NewHub()
	handler := NewWebSocketHandler(hub, &stubValidator{}, []string{"https://app.sika.test"})

	cases := []struct {
		origin  string
		allowed bool
	}{
		{"", true},
		{"https://app.sika.test", true},
		{"https://evil.example.com", false},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if tc.origin != "" {
			req.Header.Set("Origin", tc.origin)
		}
		if got := handler.checkOrigin(req); got != tc.allowed {
			t.Errorf("checkOrigin(%q) = %v, want %v", tc.origin, got, tc.allowed)
		}
	}
}
