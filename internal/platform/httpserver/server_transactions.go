package httpserver

import (
	"encoding/json"
	"net/http"

	txdomainerrors "commonfund/contexts/collective-ledger/transaction-service/domain/errors"
	txhttp "commonfund/contexts/collective-ledger/transaction-service/transport/http"
	gate "commonfund/contexts/identity-access/access-gate"
)

// bindTransactionTarget loads the path transaction into an already
// group-bound target. Absence is 404; a transaction that exists but belongs
// to another group is left for the gate to reject as 403, so foreign ids do
// not leak existence.
func (s *Server) bindTransactionTarget(w http.ResponseWriter, r *http.Request, target gate.Target) (gate.Target, bool) {
	transactionID, ok := pathID(r, "transactionid")
	if !ok {
		s.writeDomainError(w, txdomainerrors.ErrTransactionNotFound)
		return gate.Target{}, false
	}

	tx, err := s.transactions.Handler.GetTransactionHandler(r.Context(), transactionID)
	if err != nil {
		s.writeDomainError(w, err)
		return gate.Target{}, false
	}

	target.TransactionID = tx.ID
	target.TransactionGroupID = tx.GroupID
	return target, true
}

func userIDPtr(principal gate.Principal) *int64 {
	if principal.User == nil {
		return nil
	}
	id := principal.User.ID
	return &id
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	principal, err := s.resolvePrincipal(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	target, ok := s.bindGroupTarget(w, r, principal)
	if !ok {
		return
	}
	check := gate.Chain(gate.RequireUserOrApplication, gate.GroupAccess)
	if err := check(principal, target); err != nil {
		s.writeDomainError(w, err)
		return
	}

	var req txhttp.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "request body must be valid JSON", nil)
		return
	}
	resp, err := s.transactions.Handler.CreateTransactionHandler(r.Context(), target.GroupID, userIDPtr(principal), req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	principal, err := s.resolvePrincipal(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	target, ok := s.bindGroupTarget(w, r, principal)
	if !ok {
		return
	}
	target, ok = s.bindTransactionTarget(w, r, target)
	if !ok {
		return
	}
	check := gate.Chain(gate.RequireUserOrApplication, gate.GroupAccess, gate.TransactionBelongsToGroup)
	if err := check(principal, target); err != nil {
		s.writeDomainError(w, err)
		return
	}

	resp, err := s.transactions.Handler.GetTransactionHandler(r.Context(), target.TransactionID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	principal, err := s.resolvePrincipal(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	target, ok := s.bindGroupTarget(w, r, principal)
	if !ok {
		return
	}
	target, ok = s.bindTransactionTarget(w, r, target)
	if !ok {
		return
	}
	check := gate.Chain(gate.RequireUserOrApplication, gate.GroupAccess, gate.TransactionBelongsToGroup)
	if err := check(principal, target); err != nil {
		s.writeDomainError(w, err)
		return
	}

	if err := s.transactions.Handler.DeleteTransactionHandler(r.Context(), target.TransactionID); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleApproveTransaction(w http.ResponseWriter, r *http.Request) {
	principal, err := s.resolvePrincipal(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	target, ok := s.bindGroupTarget(w, r, principal)
	if !ok {
		return
	}
	target, ok = s.bindTransactionTarget(w, r, target)
	if !ok {
		return
	}
	check := gate.Chain(gate.RequireUserOrApplication, gate.GroupAccess, gate.TransactionBelongsToGroup)
	if err := check(principal, target); err != nil {
		s.writeDomainError(w, err)
		return
	}

	var req txhttp.ApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "request body must be valid JSON", nil)
		return
	}
	resp, err := s.transactions.Handler.ApproveTransactionHandler(r.Context(), target.TransactionID, req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePayTransaction(w http.ResponseWriter, r *http.Request) {
	principal, err := s.resolvePrincipal(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	target, ok := s.bindGroupTarget(w, r, principal)
	if !ok {
		return
	}
	target, ok = s.bindTransactionTarget(w, r, target)
	if !ok {
		return
	}
	check := gate.Chain(gate.RequireUser, gate.GroupAccess, gate.GroupRoles(gate.RoleAdmin, gate.RoleWriter), gate.TransactionBelongsToGroup)
	if err := check(principal, target); err != nil {
		s.writeDomainError(w, err)
		return
	}

	var req txhttp.PayRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "request body must be valid JSON", nil)
			return
		}
	}
	resp, err := s.transactions.Handler.RequestPayKeyHandler(r.Context(), target.TransactionID, req.Service)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetPayKey(w http.ResponseWriter, r *http.Request) {
	principal, err := s.resolvePrincipal(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	target, ok := s.bindGroupTarget(w, r, principal)
	if !ok {
		return
	}
	target, ok = s.bindTransactionTarget(w, r, target)
	if !ok {
		return
	}
	check := gate.Chain(gate.RequireUserOrApplication, gate.GroupAccess, gate.GroupRoles(gate.RoleAdmin, gate.RoleWriter), gate.TransactionBelongsToGroup)
	if err := check(principal, target); err != nil {
		s.writeDomainError(w, err)
		return
	}

	resp, err := s.transactions.Handler.RequestPayKeyHandler(r.Context(), target.TransactionID, "")
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConfirmPayment(w http.ResponseWriter, r *http.Request) {
	principal, err := s.resolvePrincipal(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	target, ok := s.bindGroupTarget(w, r, principal)
	if !ok {
		return
	}
	target, ok = s.bindTransactionTarget(w, r, target)
	if !ok {
		return
	}
	check := gate.Chain(gate.RequireUserOrApplication, gate.GroupAccess, gate.GroupRoles(gate.RoleAdmin, gate.RoleWriter), gate.TransactionBelongsToGroup)
	if err := check(principal, target); err != nil {
		s.writeDomainError(w, err)
		return
	}

	resp, err := s.transactions.Handler.ConfirmPaymentHandler(r.Context(), target.TransactionID, r.PathValue("paykey"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAttributeUser(w http.ResponseWriter, r *http.Request) {
	principal, err := s.resolvePrincipal(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	target, ok := s.bindGroupTarget(w, r, principal)
	if !ok {
		return
	}
	target, ok = s.bindTransactionTarget(w, r, target)
	if !ok {
		return
	}
	userID, ok := s.bindUser(w, r)
	if !ok {
		return
	}
	check := gate.Chain(gate.RequireUserOrApplication, gate.GroupAccess, gate.GroupRoles(gate.RoleAdmin, gate.RoleWriter), gate.TransactionBelongsToGroup)
	if err := check(principal, target); err != nil {
		s.writeDomainError(w, err)
		return
	}

	resp, err := s.transactions.Handler.AttributeUserHandler(r.Context(), target.TransactionID, userID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateDonation(w http.ResponseWriter, r *http.Request) {
	principal, err := s.resolvePrincipal(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	target, ok := s.bindGroupTarget(w, r, principal)
	if !ok {
		return
	}
	check := gate.Chain(gate.RequireUserOrApplication, gate.GroupAccess)
	if err := check(principal, target); err != nil {
		s.writeDomainError(w, err)
		return
	}

	var req txhttp.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "request body must be valid JSON", nil)
		return
	}
	resp, err := s.transactions.Handler.CreateDonationHandler(r.Context(), target.GroupID, userIDPtr(principal), req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListGroupTransactions(w http.ResponseWriter, r *http.Request) {
	principal, err := s.resolvePrincipal(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	target, ok := s.bindGroupTarget(w, r, principal)
	if !ok {
		return
	}
	check := gate.Chain(gate.RequireUserOrApplication, gate.GroupAccess)
	if err := check(principal, target); err != nil {
		s.writeDomainError(w, err)
		return
	}

	page, err := s.parseListing(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	resp, total, err := s.transactions.Handler.ListGroupTransactionsHandler(r.Context(), target.GroupID, page)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if header := page.LinkHeader(requestURL(r), total); header != "" {
		w.Header().Set("Link", header)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListGroupActivities(w http.ResponseWriter, r *http.Request) {
	principal, err := s.resolvePrincipal(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	target, ok := s.bindGroupTarget(w, r, principal)
	if !ok {
		return
	}
	check := gate.Chain(gate.RequireUserOrApplication, gate.GroupAccess)
	if err := check(principal, target); err != nil {
		s.writeDomainError(w, err)
		return
	}

	page, err := s.parseListing(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	resp, total, err := s.transactions.Handler.ListGroupActivitiesHandler(r.Context(), target.GroupID, page)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if header := page.LinkHeader(requestURL(r), total); header != "" {
		w.Header().Set("Link", header)
	}
	writeJSON(w, http.StatusOK, resp)
}
