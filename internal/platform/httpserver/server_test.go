package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	group "commonfund/contexts/collective-ledger/group-service"
	transaction "commonfund/contexts/collective-ledger/transaction-service"
	principal "commonfund/contexts/identity-access/principal-service"
	principalentities "commonfund/contexts/identity-access/principal-service/domain/entities"
)

func newTestServer() *Server {
	logger := slog.Default()
	return New(
		principal.NewInMemoryModule(logger),
		group.NewInMemoryModule(logger),
		transaction.NewInMemoryModule(logger),
		logger,
		Options{
			MinAppAccessScore: 0.5,
			DefaultPerPage:    20,
			MaxPerPage:        50,
		},
	)
}

func seedApplication(t *testing.T, s *Server, score float64) string {
	t.Helper()
	app, err := s.principals.Store.CreateApplication(context.Background(), principalentities.Application{
		Name:        "test-app",
		AccessScore: score,
	})
	if err != nil {
		t.Fatalf("seed application failed: %v", err)
	}
	return app.APIKey
}

func do(s *Server, method, target, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response failed: %v body=%s", err, rr.Body.String())
	}
}

// seedUser registers a user through the API and returns its id and a bearer
// token.
func seedUser(t *testing.T, s *Server, apiKey string, email string) (int64, string) {
	t.Helper()
	rr := do(s, http.MethodPost, "/users?api_key="+apiKey, "", map[string]any{
		"user": map[string]string{"email": email, "name": "Test User", "password": "hunter2hunter2"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("seed user failed: %d body=%s", rr.Code, rr.Body.String())
	}
	var created struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rr, &created)

	login := do(s, http.MethodPost, "/authenticate?api_key="+apiKey, "", map[string]string{
		"email":    email,
		"password": "hunter2hunter2",
	})
	if login.Code != http.StatusOK {
		t.Fatalf("seed login failed: %d body=%s", login.Code, login.Body.String())
	}
	var session struct {
		AccessToken string `json:"access_token"`
	}
	decodeBody(t, login, &session)
	return created.ID, session.AccessToken
}

// seedGroup creates a group as the given user, self-assigning the role.
func seedGroup(t *testing.T, s *Server, token string, role string) int64 {
	t.Helper()
	rr := do(s, http.MethodPost, "/groups", token, map[string]any{
		"group": map[string]string{"name": "test collective", "currency": "USD"},
		"role":  role,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("seed group failed: %d body=%s", rr.Code, rr.Body.String())
	}
	var created struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rr, &created)
	return created.ID
}

func seedTransaction(t *testing.T, s *Server, token string, groupID int64) int64 {
	t.Helper()
	rr := do(s, http.MethodPost, fmt.Sprintf("/groups/%d/transactions", groupID), token, map[string]any{
		"transaction": map[string]any{
			"beneficiary": "maintainer@example.org",
			"amount":      2500,
			"currency":    "USD",
		},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("seed transaction failed: %d body=%s", rr.Code, rr.Body.String())
	}
	var created struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rr, &created)
	return created.ID
}
