package httpserver

import (
	"errors"
	"net/http"

	groupdomainerrors "commonfund/contexts/collective-ledger/group-service/domain/errors"
	txdomainerrors "commonfund/contexts/collective-ledger/transaction-service/domain/errors"
	gate "commonfund/contexts/identity-access/access-gate"
	principaldomainerrors "commonfund/contexts/identity-access/principal-service/domain/errors"
	"commonfund/internal/shared/listing"
)

// writeDomainError maps every sentinel the contexts can return onto the one
// error envelope the API speaks. Anything unrecognized is a 500: the client
// sees only the envelope while the full error is logged server-side.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	// authentication
	case errors.Is(err, gate.ErrAuthenticationRequired),
		errors.Is(err, principaldomainerrors.ErrBadCredentials):
		writeError(w, http.StatusUnauthorized, "authentication_required", err.Error(), nil)
	case errors.Is(err, principaldomainerrors.ErrInvalidAPIKey),
		errors.Is(err, principaldomainerrors.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error(), nil)

	// authorization
	case errors.Is(err, gate.ErrInsufficientAccess):
		writeError(w, http.StatusForbidden, "insufficient_access", err.Error(), nil)
	case errors.Is(err, gate.ErrForbidden),
		errors.Is(err, txdomainerrors.ErrStalePayKey),
		errors.Is(err, principaldomainerrors.ErrPreapprovalMismatch):
		writeError(w, http.StatusForbidden, "forbidden", err.Error(), nil)

	// missing resources
	case errors.Is(err, principaldomainerrors.ErrUserNotFound),
		errors.Is(err, principaldomainerrors.ErrApplicationNotFound),
		errors.Is(err, groupdomainerrors.ErrGroupNotFound),
		errors.Is(err, groupdomainerrors.ErrMembershipNotFound),
		errors.Is(err, groupdomainerrors.ErrTierNotFound),
		errors.Is(err, txdomainerrors.ErrTransactionNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error(), nil)

	// validation
	case errors.Is(err, principaldomainerrors.ErrValidationFailed),
		errors.Is(err, groupdomainerrors.ErrValidationFailed),
		errors.Is(err, txdomainerrors.ErrValidationFailed),
		errors.Is(err, listing.ErrValidationFailed),
		errors.Is(err, groupdomainerrors.ErrUnknownRole),
		errors.Is(err, principaldomainerrors.ErrPreapprovalMissing):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error(), validationFields(err))

	// conflicts
	case errors.Is(err, txdomainerrors.ErrStateConflict),
		errors.Is(err, txdomainerrors.ErrSettledTransaction),
		errors.Is(err, groupdomainerrors.ErrMembershipExists):
		writeError(w, http.StatusConflict, "conflict", err.Error(), nil)

	// upstream payment provider
	case errors.Is(err, txdomainerrors.ErrPaymentGatewayFailed),
		errors.Is(err, principaldomainerrors.ErrPreapprovalGatewayFailed):
		writeError(w, http.StatusBadGateway, "payment_gateway_failed", err.Error(), nil)

	default:
		s.logger.Error("unrecognized error at transport boundary",
			"event", "internal_error",
			"module", "platform/httpserver",
			"layer", "transport",
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}

func validationFields(err error) []string {
	var principalErr *principaldomainerrors.ValidationError
	if errors.As(err, &principalErr) {
		return principalErr.Fields
	}
	var groupErr *groupdomainerrors.ValidationError
	if errors.As(err, &groupErr) {
		return groupErr.Fields
	}
	var txErr *txdomainerrors.ValidationError
	if errors.As(err, &txErr) {
		return txErr.Fields
	}
	var listErr *listing.ValidationError
	if errors.As(err, &listErr) {
		return listErr.Fields
	}
	return nil
}
