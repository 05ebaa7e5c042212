package httpserver

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestPaymentWorkflowOverHTTP(t *testing.T) {
	server := newTestServer()
	apiKey := seedApplication(t, server, 1)
	_, adminToken := seedUser(t, server, apiKey, "admin@example.org")
	backerID, backerToken := seedUser(t, server, apiKey, "backer@example.org")
	_, strangerToken := seedUser(t, server, apiKey, "stranger@example.org")
	groupID := seedGroup(t, server, adminToken, "admin")

	rr := do(server, http.MethodPost, fmt.Sprintf("/groups/%d/users/%d", groupID, backerID), adminToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("adding backer failed: %d body=%s", rr.Code, rr.Body.String())
	}

	txID := seedTransaction(t, server, adminToken, groupID)
	base := fmt.Sprintf("/groups/%d/transactions/%d", groupID, txID)

	rr = do(server, http.MethodGet, base, adminToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get transaction failed: %d body=%s", rr.Code, rr.Body.String())
	}
	var tx struct {
		State  string `json:"state"`
		PayKey string `json:"payKey"`
	}
	decodeBody(t, rr, &tx)
	if tx.State != "created" {
		t.Fatalf("expected created state, got %q", tx.State)
	}

	rr = do(server, http.MethodPost, base+"/approve", strangerToken, map[string]bool{"approved": true})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for stranger approval, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = do(server, http.MethodPost, base+"/approve", adminToken, map[string]any{})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing approved flag, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = do(server, http.MethodPost, base+"/approve", adminToken, map[string]bool{"approved": true})
	if rr.Code != http.StatusOK {
		t.Fatalf("approve failed: %d body=%s", rr.Code, rr.Body.String())
	}
	decodeBody(t, rr, &tx)
	if tx.State != "approved" {
		t.Fatalf("expected approved state, got %q", tx.State)
	}

	rr = do(server, http.MethodPost, base+"/pay", backerToken, nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for backer pay, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = do(server, http.MethodPost, base+"/pay", adminToken, map[string]string{"service": "paypal"})
	if rr.Code != http.StatusOK {
		t.Fatalf("pay failed: %d body=%s", rr.Code, rr.Body.String())
	}
	decodeBody(t, rr, &tx)
	if tx.State != "pay_key_requested" || tx.PayKey == "" {
		t.Fatalf("expected pay_key_requested with a key, got state=%q key=%q", tx.State, tx.PayKey)
	}
	payKey := tx.PayKey

	// A repeat mint returns the stored key instead of a fresh one.
	rr = do(server, http.MethodGet, base+"/paykey", adminToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("paykey retry failed: %d body=%s", rr.Code, rr.Body.String())
	}
	decodeBody(t, rr, &tx)
	if tx.PayKey != payKey {
		t.Fatalf("expected stored key %q, got %q", payKey, tx.PayKey)
	}

	rr = do(server, http.MethodPost, base+"/paykey/AP-stale-key", adminToken, nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for stale pay key, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = do(server, http.MethodPost, base+"/paykey/"+payKey, adminToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("confirm failed: %d body=%s", rr.Code, rr.Body.String())
	}
	decodeBody(t, rr, &tx)
	if tx.State != "confirmed" {
		t.Fatalf("expected confirmed state, got %q", tx.State)
	}

	rr = do(server, http.MethodDelete, base, adminToken, nil)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 deleting settled transaction, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAttributionRequiresPrivilegedRole(t *testing.T) {
	server := newTestServer()
	apiKey := seedApplication(t, server, 1)
	_, adminToken := seedUser(t, server, apiKey, "admin@example.org")
	backerID, backerToken := seedUser(t, server, apiKey, "backer@example.org")
	groupID := seedGroup(t, server, adminToken, "admin")
	txID := seedTransaction(t, server, adminToken, groupID)

	rr := do(server, http.MethodPost, fmt.Sprintf("/groups/%d/users/%d", groupID, backerID), adminToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("adding backer failed: %d body=%s", rr.Code, rr.Body.String())
	}

	target := fmt.Sprintf("/groups/%d/transactions/%d/attribution/%d", groupID, txID, backerID)
	rr = do(server, http.MethodPost, target, backerToken, nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for backer attribution, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = do(server, http.MethodPost, target, adminToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("attribution failed: %d body=%s", rr.Code, rr.Body.String())
	}
	var tx struct {
		UserID *int64 `json:"UserId"`
	}
	decodeBody(t, rr, &tx)
	if tx.UserID == nil || *tx.UserID != backerID {
		t.Fatalf("expected attribution to user %d, got %v", backerID, tx.UserID)
	}
}

func TestDonationSettlesInOneRequest(t *testing.T) {
	server := newTestServer()
	apiKey := seedApplication(t, server, 1)
	_, adminToken := seedUser(t, server, apiKey, "admin@example.org")
	groupID := seedGroup(t, server, adminToken, "admin")

	rr := do(server, http.MethodPost, fmt.Sprintf("/groups/%d/payments", groupID), adminToken, map[string]any{
		"payment": map[string]any{"amount": 1000, "currency": "USD", "service": "paypal"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("donation failed: %d body=%s", rr.Code, rr.Body.String())
	}
	var tx struct {
		State string `json:"state"`
	}
	decodeBody(t, rr, &tx)
	if tx.State != "confirmed" {
		t.Fatalf("expected confirmed donation, got %q", tx.State)
	}

	rr = do(server, http.MethodPost, fmt.Sprintf("/groups/%d/payments", groupID), adminToken, map[string]any{
		"payment": map[string]any{"amount": 1000, "currency": "USD", "service": "stripe"},
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsupported service, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCrossGroupTransactionIsForbidden(t *testing.T) {
	server := newTestServer()
	apiKey := seedApplication(t, server, 1)
	_, aliceToken := seedUser(t, server, apiKey, "alice@example.org")
	_, bobToken := seedUser(t, server, apiKey, "bob@example.org")
	aliceGroup := seedGroup(t, server, aliceToken, "admin")
	bobGroup := seedGroup(t, server, bobToken, "admin")
	txID := seedTransaction(t, server, aliceToken, aliceGroup)

	// Bob administers his own group, but the transaction lives elsewhere.
	rr := do(server, http.MethodGet, fmt.Sprintf("/groups/%d/transactions/%d", bobGroup, txID), bobToken, nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for cross-group read, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGroupTransactionsPagination(t *testing.T) {
	server := newTestServer()
	apiKey := seedApplication(t, server, 1)
	_, adminToken := seedUser(t, server, apiKey, "admin@example.org")
	groupID := seedGroup(t, server, adminToken, "admin")

	ids := make([]int64, 0, 10)
	for i := 0; i < 10; i++ {
		ids = append(ids, seedTransaction(t, server, adminToken, groupID))
	}

	target := fmt.Sprintf("/groups/%d/transactions?page=2&per_page=3&sort=id&direction=asc", groupID)
	rr := do(server, http.MethodGet, target, adminToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("listing failed: %d body=%s", rr.Code, rr.Body.String())
	}
	var items []struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rr, &items)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].ID != ids[3] {
		t.Fatalf("expected page 2 to start at id %d, got %d", ids[3], items[0].ID)
	}
	link := rr.Header().Get("Link")
	if !strings.Contains(link, `rel="last"`) || !strings.Contains(link, "page=4") {
		t.Fatalf("expected last page link to page 4, got %q", link)
	}
	if !strings.Contains(link, fmt.Sprintf("http://example.com/groups/%d/transactions", groupID)) {
		t.Fatalf("expected absolute link URLs, got %q", link)
	}

	rr = do(server, http.MethodGet, fmt.Sprintf("/groups/%d/transactions?since_id=%d", groupID, ids[6]), adminToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("cursor listing failed: %d body=%s", rr.Code, rr.Body.String())
	}
	decodeBody(t, rr, &items)
	if len(items) != 3 {
		t.Fatalf("expected 3 items after cursor, got %d", len(items))
	}
	if rr.Header().Get("Link") != "" {
		t.Fatalf("cursor mode must not emit a Link header, got %q", rr.Header().Get("Link"))
	}

	rr = do(server, http.MethodGet, fmt.Sprintf("/groups/%d/transactions?sort=secret", groupID), adminToken, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown sort key, got %d body=%s", rr.Code, rr.Body.String())
	}
}
