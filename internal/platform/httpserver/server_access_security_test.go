package httpserver

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	group "commonfund/contexts/collective-ledger/group-service"
	transaction "commonfund/contexts/collective-ledger/transaction-service"
	principal "commonfund/contexts/identity-access/principal-service"
)

func TestStatusIsPublic(t *testing.T) {
	server := newTestServer()

	rr := do(server, http.MethodGet, "/status", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCreateUserRequiresTrustedApplication(t *testing.T) {
	server := newTestServer()
	payload := map[string]any{
		"user": map[string]string{"email": "ada@example.org", "name": "Ada", "password": "hunter2hunter2"},
	}

	rr := do(server, http.MethodPost, "/users", "", payload)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without api key, got %d body=%s", rr.Code, rr.Body.String())
	}

	weakKey := seedApplication(t, server, 0.1)
	rr = do(server, http.MethodPost, "/users?api_key="+weakKey, "", payload)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for low-score application, got %d body=%s", rr.Code, rr.Body.String())
	}

	trustedKey := seedApplication(t, server, 1)
	rr = do(server, http.MethodPost, "/users?api_key="+trustedKey, "", payload)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for trusted application, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestForgedCredentialsAreRejected(t *testing.T) {
	server := newTestServer()

	rr := do(server, http.MethodPost, "/users?api_key=no-such-key", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown api key, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = do(server, http.MethodPost, "/groups", "not-a-jwt", map[string]any{
		"group": map[string]string{"name": "sneaky", "currency": "USD"},
	})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage bearer token, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestMissingGroupBindsBeforeAuthorization(t *testing.T) {
	server := newTestServer()
	apiKey := seedApplication(t, server, 1)
	_, token := seedUser(t, server, apiKey, "ada@example.org")

	rr := do(server, http.MethodGet, "/groups/9999", token, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing group, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGroupAccessDeniedForStrangers(t *testing.T) {
	server := newTestServer()
	apiKey := seedApplication(t, server, 1)
	_, adminToken := seedUser(t, server, apiKey, "admin@example.org")
	_, strangerToken := seedUser(t, server, apiKey, "stranger@example.org")
	groupID := seedGroup(t, server, adminToken, "admin")

	rr := do(server, http.MethodGet, fmt.Sprintf("/groups/%d", groupID), strangerToken, nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for stranger, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = do(server, http.MethodGet, fmt.Sprintf("/groups/%d", groupID), adminToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for member, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGroupMutationRequiresAdminRole(t *testing.T) {
	server := newTestServer()
	apiKey := seedApplication(t, server, 1)
	_, adminToken := seedUser(t, server, apiKey, "admin@example.org")
	backerID, backerToken := seedUser(t, server, apiKey, "backer@example.org")
	groupID := seedGroup(t, server, adminToken, "admin")

	rr := do(server, http.MethodPost, fmt.Sprintf("/groups/%d/users/%d", groupID, backerID), adminToken, map[string]string{"role": "backer"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 adding member, got %d body=%s", rr.Code, rr.Body.String())
	}

	update := map[string]any{"group": map[string]string{"name": "renamed collective"}}
	rr = do(server, http.MethodPut, fmt.Sprintf("/groups/%d", groupID), backerToken, update)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for backer update, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = do(server, http.MethodPut, fmt.Sprintf("/groups/%d", groupID), adminToken, update)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin update, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestMemberManagementRequiresAdminRole(t *testing.T) {
	server := newTestServer()
	apiKey := seedApplication(t, server, 1)
	_, adminToken := seedUser(t, server, apiKey, "admin@example.org")
	backerID, backerToken := seedUser(t, server, apiKey, "backer@example.org")
	thirdID, _ := seedUser(t, server, apiKey, "third@example.org")
	groupID := seedGroup(t, server, adminToken, "admin")

	rr := do(server, http.MethodPost, fmt.Sprintf("/groups/%d/users/%d", groupID, backerID), adminToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 adding backer, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = do(server, http.MethodPost, fmt.Sprintf("/groups/%d/users/%d", groupID, thirdID), backerToken, nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for backer adding member, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = do(server, http.MethodDelete, fmt.Sprintf("/groups/%d/users/%d", groupID, backerID), adminToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 removing member, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestUserScopedRoutesRejectOtherUsers(t *testing.T) {
	server := newTestServer()
	apiKey := seedApplication(t, server, 1)
	adaID, adaToken := seedUser(t, server, apiKey, "ada@example.org")
	bobID, bobToken := seedUser(t, server, apiKey, "bob@example.org")

	rr := do(server, http.MethodGet, fmt.Sprintf("/users/%d/groups", adaID), bobToken, nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 reading another user's groups, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = do(server, http.MethodGet, fmt.Sprintf("/users/%d/groups", adaID), adaToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 reading own groups, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = do(server, http.MethodGet, fmt.Sprintf("/users/%d/activities", bobID), bobToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 reading own activities, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLegacyRoutesReportNotImplemented(t *testing.T) {
	server := newTestServer()
	apiKey := seedApplication(t, server, 1)
	userID, token := seedUser(t, server, apiKey, "ada@example.org")

	for _, target := range []string{
		fmt.Sprintf("/users/%d/cards", userID),
		"/authenticate/refresh",
		"/authenticate/reset",
	} {
		rr := do(server, http.MethodPost, target, token, map[string]string{})
		if rr.Code != http.StatusNotImplemented {
			t.Fatalf("expected 501 for %s, got %d body=%s", target, rr.Code, rr.Body.String())
		}
	}
}

func TestUnrecognizedErrorsAreLoggedAndMasked(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	server := New(
		principal.NewInMemoryModule(logger),
		group.NewInMemoryModule(logger),
		transaction.NewInMemoryModule(logger),
		logger,
		Options{MinAppAccessScore: 0.5, DefaultPerPage: 20, MaxPerPage: 50},
	)

	rr := httptest.NewRecorder()
	server.writeDomainError(rr, errors.New("connection pool exhausted"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d body=%s", rr.Code, rr.Body.String())
	}
	if strings.Contains(rr.Body.String(), "pool exhausted") {
		t.Fatalf("response must not leak internals, got %s", rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "internal_error") {
		t.Fatalf("expected internal_error envelope, got %s", rr.Body.String())
	}
	if !strings.Contains(logs.String(), "connection pool exhausted") {
		t.Fatalf("expected the full error in the server log, got %s", logs.String())
	}
}
