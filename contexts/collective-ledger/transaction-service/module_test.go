package transaction

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"testing"

	"commonfund/contexts/collective-ledger/transaction-service/domain/entities"
	domainerrors "commonfund/contexts/collective-ledger/transaction-service/domain/errors"
	httptransport "commonfund/contexts/collective-ledger/transaction-service/transport/http"
	"commonfund/internal/shared/listing"
)

func approvedPtr(v bool) *bool { return &v }

func newTx(t *testing.T, module Module, groupID int64) httptransport.TransactionResponse {
	t.Helper()
	userID := int64(1)
	tx, err := module.Handler.CreateTransactionHandler(context.Background(), groupID, &userID, httptransport.CreateTransactionRequest{
		Transaction: &httptransport.TransactionPayload{
			Beneficiary: "maintainer@example.org",
			Amount:      2500,
			Currency:    "USD",
		},
	})
	if err != nil {
		t.Fatalf("create transaction failed: %v", err)
	}
	return tx
}

func TestTransactionLifecycle(t *testing.T) {
	module := NewInMemoryModule(slog.Default())
	ctx := context.Background()
	tx := newTx(t, module, 10)

	if tx.State != string(entities.StateCreated) {
		t.Fatalf("expected created, got %s", tx.State)
	}

	approved, err := module.Handler.ApproveTransactionHandler(ctx, tx.ID, httptransport.ApproveRequest{Approved: approvedPtr(true)})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.State != string(entities.StateApproved) || !approved.Approved {
		t.Fatalf("expected approved state, got %+v", approved)
	}

	keyed, err := module.Handler.RequestPayKeyHandler(ctx, tx.ID, "paypal")
	if err != nil {
		t.Fatalf("pay key failed: %v", err)
	}
	if keyed.State != string(entities.StatePayKeyRequested) || keyed.PayKey == "" {
		t.Fatalf("expected pay key requested with key, got %+v", keyed)
	}

	settled, err := module.Handler.ConfirmPaymentHandler(ctx, tx.ID, keyed.PayKey)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if settled.State != string(entities.StateConfirmed) {
		t.Fatalf("expected confirmed, got %s", settled.State)
	}
}

func TestApproveRequiresExplicitFlag(t *testing.T) {
	module := NewInMemoryModule(slog.Default())
	ctx := context.Background()
	tx := newTx(t, module, 10)

	_, err := module.Handler.ApproveTransactionHandler(ctx, tx.ID, httptransport.ApproveRequest{})
	if !errors.Is(err, domainerrors.ErrValidationFailed) {
		t.Fatalf("expected validation failure for missing flag, got %v", err)
	}

	declined, err := module.Handler.ApproveTransactionHandler(ctx, tx.ID, httptransport.ApproveRequest{Approved: approvedPtr(false)})
	if err != nil {
		t.Fatalf("declined approval failed: %v", err)
	}
	if declined.State != string(entities.StateCreated) {
		t.Fatalf("declined approval must not transition, got %s", declined.State)
	}
}

func TestPayKeyRequiresApprovedState(t *testing.T) {
	module := NewInMemoryModule(slog.Default())
	ctx := context.Background()
	tx := newTx(t, module, 10)

	_, err := module.Handler.RequestPayKeyHandler(ctx, tx.ID, "paypal")
	if !errors.Is(err, domainerrors.ErrStateConflict) {
		t.Fatalf("expected state conflict from created, got %v", err)
	}
	var conflict *domainerrors.StateConflictError
	if !errors.As(err, &conflict) || conflict.Required != entities.StateApproved {
		t.Fatalf("expected conflict naming approved, got %v", err)
	}
}

func TestPayKeyRetryReusesStoredKey(t *testing.T) {
	module := NewInMemoryModule(slog.Default())
	ctx := context.Background()
	tx := newTx(t, module, 10)

	if _, err := module.Handler.ApproveTransactionHandler(ctx, tx.ID, httptransport.ApproveRequest{Approved: approvedPtr(true)}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	first, err := module.Handler.RequestPayKeyHandler(ctx, tx.ID, "paypal")
	if err != nil {
		t.Fatalf("first pay key failed: %v", err)
	}
	second, err := module.Handler.RequestPayKeyHandler(ctx, tx.ID, "paypal")
	if err != nil {
		t.Fatalf("second pay key failed: %v", err)
	}
	if first.PayKey != second.PayKey {
		t.Fatalf("expected stored key to be reused, got %s vs %s", first.PayKey, second.PayKey)
	}
	if module.Gateway.MintCalls != 1 {
		t.Fatalf("expected a single mint, got %d", module.Gateway.MintCalls)
	}
}

func TestPayKeyGatewayFailureLeavesStateApproved(t *testing.T) {
	module := NewInMemoryModule(slog.Default())
	ctx := context.Background()
	tx := newTx(t, module, 10)

	if _, err := module.Handler.ApproveTransactionHandler(ctx, tx.ID, httptransport.ApproveRequest{Approved: approvedPtr(true)}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	// One transient failure is absorbed by the mint retries.
	module.Gateway.FailNext = true
	keyed, err := module.Handler.RequestPayKeyHandler(ctx, tx.ID, "paypal")
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if keyed.PayKey == "" {
		t.Fatalf("expected a key after retry")
	}
}

func TestConcurrentPayKeyMintsExactlyOne(t *testing.T) {
	module := NewInMemoryModule(slog.Default())
	ctx := context.Background()
	tx := newTx(t, module, 10)

	if _, err := module.Handler.ApproveTransactionHandler(ctx, tx.ID, httptransport.ApproveRequest{Approved: approvedPtr(true)}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]error, callers)
	keys := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := module.Handler.RequestPayKeyHandler(ctx, tx.ID, "paypal")
			results[i] = err
			keys[i] = resp.PayKey
		}(i)
	}
	wg.Wait()

	var winners int
	winnerKeys := map[string]bool{}
	for i := range results {
		if results[i] == nil {
			winners++
			winnerKeys[keys[i]] = true
		} else if !errors.Is(results[i], domainerrors.ErrStateConflict) {
			t.Fatalf("loser surfaced unexpected error: %v", results[i])
		}
	}
	if winners < 1 {
		t.Fatalf("expected at least one winner")
	}
	if len(winnerKeys) != 1 {
		t.Fatalf("expected all winners to observe the one stored key, got %v", winnerKeys)
	}

	stored, err := module.Handler.GetTransactionHandler(ctx, tx.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !winnerKeys[stored.PayKey] {
		t.Fatalf("stored key %s does not match winner key", stored.PayKey)
	}
}

func TestConfirmRejectsStaleKey(t *testing.T) {
	module := NewInMemoryModule(slog.Default())
	ctx := context.Background()
	tx := newTx(t, module, 10)

	if _, err := module.Handler.ApproveTransactionHandler(ctx, tx.ID, httptransport.ApproveRequest{Approved: approvedPtr(true)}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if _, err := module.Handler.RequestPayKeyHandler(ctx, tx.ID, "paypal"); err != nil {
		t.Fatalf("pay key failed: %v", err)
	}

	_, err := module.Handler.ConfirmPaymentHandler(ctx, tx.ID, "AP-stale")
	if !errors.Is(err, domainerrors.ErrStalePayKey) {
		t.Fatalf("expected stale key rejection, got %v", err)
	}

	current, err := module.Handler.GetTransactionHandler(ctx, tx.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if current.State != string(entities.StatePayKeyRequested) {
		t.Fatalf("stale key must not change state, got %s", current.State)
	}
}

func TestDeleteCascadesActivities(t *testing.T) {
	module := NewInMemoryModule(slog.Default())
	ctx := context.Background()
	tx := newTx(t, module, 10)

	page, err := listing.Parse(nil, listing.Options{DefaultPerPage: 20, MaxPerPage: 50, SortKeys: []string{"created_at"}})
	if err != nil {
		t.Fatalf("parse page failed: %v", err)
	}

	feed, total, err := module.Handler.ListGroupActivitiesHandler(ctx, 10, page)
	if err != nil {
		t.Fatalf("list activities failed: %v", err)
	}
	if total != 1 || len(feed) != 1 {
		t.Fatalf("expected one creation activity, got %d", total)
	}

	if err := module.Handler.DeleteTransactionHandler(ctx, tx.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := module.Handler.GetTransactionHandler(ctx, tx.ID); !errors.Is(err, domainerrors.ErrTransactionNotFound) {
		t.Fatalf("expected deleted transaction to vanish, got %v", err)
	}
	_, total, err = module.Handler.ListGroupActivitiesHandler(ctx, 10, page)
	if err != nil {
		t.Fatalf("list activities failed: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected cascade to remove activities, got %d", total)
	}
}

func TestDeleteSettledTransactionConflicts(t *testing.T) {
	module := NewInMemoryModule(slog.Default())
	ctx := context.Background()
	tx := newTx(t, module, 10)

	if _, err := module.Handler.ApproveTransactionHandler(ctx, tx.ID, httptransport.ApproveRequest{Approved: approvedPtr(true)}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	keyed, err := module.Handler.RequestPayKeyHandler(ctx, tx.ID, "paypal")
	if err != nil {
		t.Fatalf("pay key failed: %v", err)
	}
	if _, err := module.Handler.ConfirmPaymentHandler(ctx, tx.ID, keyed.PayKey); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	if err := module.Handler.DeleteTransactionHandler(ctx, tx.ID); !errors.Is(err, domainerrors.ErrSettledTransaction) {
		t.Fatalf("expected settled delete conflict, got %v", err)
	}
}

func TestDonationSettlesInOneCall(t *testing.T) {
	module := NewInMemoryModule(slog.Default())
	ctx := context.Background()
	userID := int64(3)

	tx, err := module.Handler.CreateDonationHandler(ctx, 10, &userID, httptransport.PaymentRequest{
		Payment: &httptransport.PaymentPayload{Amount: 500, Currency: "USD", Service: "paypal"},
	})
	if err != nil {
		t.Fatalf("donation failed: %v", err)
	}
	if tx.State != string(entities.StateConfirmed) {
		t.Fatalf("expected confirmed donation, got %s", tx.State)
	}

	_, err = module.Handler.CreateDonationHandler(ctx, 10, &userID, httptransport.PaymentRequest{
		Payment: &httptransport.PaymentPayload{Amount: 500, Service: "stripe"},
	})
	if !errors.Is(err, domainerrors.ErrValidationFailed) {
		t.Fatalf("expected unsupported service rejection, got %v", err)
	}
}

func TestAttributionAllowedAfterSettlement(t *testing.T) {
	module := NewInMemoryModule(slog.Default())
	ctx := context.Background()
	tx := newTx(t, module, 10)

	if _, err := module.Handler.ApproveTransactionHandler(ctx, tx.ID, httptransport.ApproveRequest{Approved: approvedPtr(true)}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	keyed, err := module.Handler.RequestPayKeyHandler(ctx, tx.ID, "paypal")
	if err != nil {
		t.Fatalf("pay key failed: %v", err)
	}
	if _, err := module.Handler.ConfirmPaymentHandler(ctx, tx.ID, keyed.PayKey); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	attributed, err := module.Handler.AttributeUserHandler(ctx, tx.ID, 99)
	if err != nil {
		t.Fatalf("attribution failed: %v", err)
	}
	if attributed.UserID == nil || *attributed.UserID != 99 {
		t.Fatalf("expected reattributed user, got %+v", attributed.UserID)
	}
	if attributed.State != string(entities.StateConfirmed) {
		t.Fatalf("attribution must not change state, got %s", attributed.State)
	}
}

func TestListGroupTransactionsPagination(t *testing.T) {
	module := NewInMemoryModule(slog.Default())
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		newTx(t, module, 10)
	}
	newTx(t, module, 77)

	values := map[string][]string{"page": {"2"}, "per_page": {"3"}, "sort": {"id"}, "direction": {"asc"}}
	page, err := listing.Parse(values, listing.Options{
		DefaultPerPage: 20,
		MaxPerPage:     50,
		DefaultSort:    listing.Sort{Key: "created_at", Direction: listing.DirectionDesc},
		SortKeys:       []string{"created_at", "id"},
	})
	if err != nil {
		t.Fatalf("parse page failed: %v", err)
	}

	items, total, err := module.Handler.ListGroupTransactionsHandler(ctx, 10, page)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 10 {
		t.Fatalf("expected total 10 scoped to group, got %d", total)
	}
	if len(items) != 3 || items[0].ID != 4 {
		t.Fatalf("expected second page [4,5,6], got %+v", items)
	}
}

func TestListGroupTransactionsCursorMode(t *testing.T) {
	module := NewInMemoryModule(slog.Default())
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		newTx(t, module, 10)
	}

	values := map[string][]string{"since_id": {"2"}, "sort": {"created_at"}, "direction": {"desc"}}
	page, err := listing.Parse(values, listing.Options{
		DefaultPerPage: 20,
		MaxPerPage:     50,
		DefaultSort:    listing.Sort{Key: "created_at", Direction: listing.DirectionDesc},
		SortKeys:       []string{"created_at"},
	})
	if err != nil {
		t.Fatalf("parse page failed: %v", err)
	}

	items, _, err := module.Handler.ListGroupTransactionsHandler(ctx, 10, page)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected ids above 2, got %d items", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].ID >= items[i].ID {
			t.Fatalf("cursor mode must order by id ascending, got %+v", items)
		}
	}
}

func TestCreateTransactionRejectsNonPositiveAmount(t *testing.T) {
	module := NewInMemoryModule(slog.Default())
	ctx := context.Background()
	userID := int64(1)

	for _, amount := range []int64{0, -150} {
		_, err := module.Handler.CreateTransactionHandler(ctx, 10, &userID, httptransport.CreateTransactionRequest{
			Transaction: &httptransport.TransactionPayload{
				Beneficiary: "maintainer@example.org",
				Amount:      amount,
				Currency:    "USD",
			},
		})
		var validationErr *domainerrors.ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("expected validation failure for amount %d, got %v", amount, err)
		}
		if len(validationErr.Fields) != 1 || validationErr.Fields[0] != "amount" {
			t.Fatalf("expected amount field for %d, got %v", amount, validationErr.Fields)
		}
	}
}

func TestListGroupTransactionsPagesUnionMatchesCursor(t *testing.T) {
	module := NewInMemoryModule(slog.Default())
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		newTx(t, module, 10)
	}

	opts := listing.Options{
		DefaultPerPage: 20,
		MaxPerPage:     50,
		DefaultSort:    listing.Sort{Key: "created_at", Direction: listing.DirectionDesc},
		SortKeys:       []string{"created_at", "id"},
	}

	seen := make(map[int64]bool)
	var union []int64
	for number := 1; ; number++ {
		values := map[string][]string{
			"page":      {strconv.Itoa(number)},
			"per_page":  {"3"},
			"sort":      {"id"},
			"direction": {"asc"},
		}
		page, err := listing.Parse(values, opts)
		if err != nil {
			t.Fatalf("parse page %d failed: %v", number, err)
		}
		items, total, err := module.Handler.ListGroupTransactionsHandler(ctx, 10, page)
		if err != nil {
			t.Fatalf("list page %d failed: %v", number, err)
		}
		for _, item := range items {
			if seen[item.ID] {
				t.Fatalf("id %d appeared on more than one page", item.ID)
			}
			seen[item.ID] = true
			union = append(union, item.ID)
		}
		if number >= page.LastPage(total) {
			break
		}
	}

	cursorPage, err := listing.Parse(map[string][]string{"since_id": {"0"}}, opts)
	if err != nil {
		t.Fatalf("parse cursor failed: %v", err)
	}
	cursorItems, _, err := module.Handler.ListGroupTransactionsHandler(ctx, 10, cursorPage)
	if err != nil {
		t.Fatalf("cursor list failed: %v", err)
	}
	if len(cursorItems) != len(union) {
		t.Fatalf("expected %d items from cursor, got %d", len(union), len(cursorItems))
	}
	for i, item := range cursorItems {
		if union[i] != item.ID {
			t.Fatalf("page union diverges from cursor at %d: %d vs %d", i, union[i], item.ID)
		}
	}
}
