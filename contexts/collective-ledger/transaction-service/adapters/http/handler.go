package httpadapter

import (
	"context"
	"log/slog"
	"strings"

	"commonfund/contexts/collective-ledger/transaction-service/application/commands"
	"commonfund/contexts/collective-ledger/transaction-service/application/queries"
	"commonfund/contexts/collective-ledger/transaction-service/domain/entities"
	domainerrors "commonfund/contexts/collective-ledger/transaction-service/domain/errors"
	httptransport "commonfund/contexts/collective-ledger/transaction-service/transport/http"
	"commonfund/internal/shared/listing"
)

// Handler maps HTTP DTOs to transaction-service commands/queries.
type Handler struct {
	Create         commands.CreateTransactionUseCase
	Approve        commands.ApproveTransactionUseCase
	PayKey         commands.RequestPayKeyUseCase
	Confirm        commands.ConfirmPaymentUseCase
	Attribute      commands.AttributeUserUseCase
	Delete         commands.DeleteTransactionUseCase
	Donate         commands.CreateDonationUseCase
	Get            queries.GetTransactionUseCase
	ListGroupTx    queries.ListGroupTransactionsUseCase
	ListGroupFeed  queries.ListGroupActivitiesUseCase
	ListUserFeed   queries.ListUserActivitiesUseCase
	Logger         *slog.Logger
}

func (h Handler) CreateTransactionHandler(ctx context.Context, groupID int64, userID *int64, request httptransport.CreateTransactionRequest) (httptransport.TransactionResponse, error) {
	if request.Transaction == nil {
		return httptransport.TransactionResponse{}, &domainerrors.ValidationError{Fields: []string{"transaction"}}
	}
	tx, err := h.Create.Execute(ctx, commands.CreateTransactionCommand{
		GroupID:     groupID,
		UserID:      userID,
		Beneficiary: request.Transaction.Beneficiary,
		Amount:      request.Transaction.Amount,
		Currency:    defaultCurrency(request.Transaction.Currency),
		Description: request.Transaction.Description,
	})
	if err != nil {
		return httptransport.TransactionResponse{}, err
	}
	return transactionResponse(tx), nil
}

func (h Handler) GetTransactionHandler(ctx context.Context, transactionID int64) (httptransport.TransactionResponse, error) {
	tx, err := h.Get.Execute(ctx, transactionID)
	if err != nil {
		return httptransport.TransactionResponse{}, err
	}
	return transactionResponse(tx), nil
}

func (h Handler) ApproveTransactionHandler(ctx context.Context, transactionID int64, request httptransport.ApproveRequest) (httptransport.TransactionResponse, error) {
	tx, err := h.Approve.Execute(ctx, commands.ApproveTransactionCommand{
		TransactionID: transactionID,
		Approved:      request.Approved,
	})
	if err != nil {
		return httptransport.TransactionResponse{}, err
	}
	return transactionResponse(tx), nil
}

// RequestPayKeyHandler serves both the POST pay route (with a service body)
// and the GET paykey route (no body); service defaults to paypal and is the
// only accepted value.
func (h Handler) RequestPayKeyHandler(ctx context.Context, transactionID int64, service string) (httptransport.TransactionResponse, error) {
	normalized := strings.ToLower(strings.TrimSpace(service))
	if normalized != "" && normalized != "paypal" {
		return httptransport.TransactionResponse{}, &domainerrors.ValidationError{Fields: []string{"service"}}
	}
	tx, err := h.PayKey.Execute(ctx, transactionID)
	if err != nil {
		return httptransport.TransactionResponse{}, err
	}
	return transactionResponse(tx), nil
}

func (h Handler) ConfirmPaymentHandler(ctx context.Context, transactionID int64, payKey string) (httptransport.TransactionResponse, error) {
	tx, err := h.Confirm.Execute(ctx, commands.ConfirmPaymentCommand{
		TransactionID: transactionID,
		PayKey:        payKey,
	})
	if err != nil {
		return httptransport.TransactionResponse{}, err
	}
	return transactionResponse(tx), nil
}

func (h Handler) AttributeUserHandler(ctx context.Context, transactionID int64, userID int64) (httptransport.TransactionResponse, error) {
	tx, err := h.Attribute.Execute(ctx, transactionID, userID)
	if err != nil {
		return httptransport.TransactionResponse{}, err
	}
	return transactionResponse(tx), nil
}

func (h Handler) DeleteTransactionHandler(ctx context.Context, transactionID int64) error {
	return h.Delete.Execute(ctx, transactionID)
}

func (h Handler) CreateDonationHandler(ctx context.Context, groupID int64, userID *int64, request httptransport.PaymentRequest) (httptransport.TransactionResponse, error) {
	if request.Payment == nil {
		return httptransport.TransactionResponse{}, &domainerrors.ValidationError{Fields: []string{"payment"}}
	}
	tx, err := h.Donate.Execute(ctx, commands.CreateDonationCommand{
		GroupID:     groupID,
		UserID:      userID,
		Amount:      request.Payment.Amount,
		Currency:    defaultCurrency(request.Payment.Currency),
		Description: request.Payment.Description,
		Service:     request.Payment.Service,
	})
	if err != nil {
		return httptransport.TransactionResponse{}, err
	}
	return transactionResponse(tx), nil
}

func (h Handler) ListGroupTransactionsHandler(ctx context.Context, groupID int64, page listing.Page) ([]httptransport.TransactionResponse, int64, error) {
	items, total, err := h.ListGroupTx.Execute(ctx, groupID, page)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]httptransport.TransactionResponse, 0, len(items))
	for _, tx := range items {
		responses = append(responses, transactionResponse(tx))
	}
	return responses, total, nil
}

func (h Handler) ListGroupActivitiesHandler(ctx context.Context, groupID int64, page listing.Page) ([]httptransport.ActivityResponse, int64, error) {
	items, total, err := h.ListGroupFeed.Execute(ctx, groupID, page)
	if err != nil {
		return nil, 0, err
	}
	return activityResponses(items), total, nil
}

func (h Handler) ListUserActivitiesHandler(ctx context.Context, userID int64, page listing.Page) ([]httptransport.ActivityResponse, int64, error) {
	items, total, err := h.ListUserFeed.Execute(ctx, userID, page)
	if err != nil {
		return nil, 0, err
	}
	return activityResponses(items), total, nil
}

func defaultCurrency(currency string) string {
	if currency == "" {
		return "USD"
	}
	return currency
}

func transactionResponse(tx entities.Transaction) httptransport.TransactionResponse {
	return httptransport.TransactionResponse{
		ID:          tx.ID,
		GroupID:     tx.GroupID,
		UserID:      tx.UserID,
		Beneficiary: tx.Beneficiary,
		Amount:      tx.Amount,
		Currency:    tx.Currency,
		Description: tx.Description,
		State:       string(tx.State),
		PayKey:      tx.PayKey,
		Approved:    tx.Approved,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
}

func activityResponses(items []entities.Activity) []httptransport.ActivityResponse {
	responses := make([]httptransport.ActivityResponse, 0, len(items))
	for _, activity := range items {
		responses = append(responses, httptransport.ActivityResponse{
			ID:            activity.ID,
			Type:          activity.Type,
			GroupID:       activity.GroupID,
			UserID:        activity.UserID,
			TransactionID: activity.TransactionID,
			Data:          activity.Data,
			CreatedAt:     activity.CreatedAt,
		})
	}
	return responses
}
