package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"

	gate "commonfund/contexts/identity-access/access-gate"
	principalentities "commonfund/contexts/identity-access/principal-service/domain/entities"
	principaldomainerrors "commonfund/contexts/identity-access/principal-service/domain/errors"
	principalhttp "commonfund/contexts/identity-access/principal-service/transport/http"
)

// resolvePrincipal turns request credentials into a gate principal. An
// unknown api key or a bad bearer token is a hard failure; absent
// credentials resolve to an empty principal so public routes stay reachable.
func (s *Server) resolvePrincipal(r *http.Request) (gate.Principal, error) {
	apiKey := r.URL.Query().Get("api_key")
	if apiKey == "" {
		apiKey = r.Header.Get("X-Api-Key")
	}

	var bearer string
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		bearer = strings.TrimPrefix(auth, "Bearer ")
	}

	resolved, err := s.principals.Handler.ResolveHandler(r.Context(), apiKey, bearer)
	if err != nil {
		return gate.Principal{}, err
	}
	return gatePrincipal(resolved), nil
}

func gatePrincipal(resolved principalentities.ResolvedPrincipal) gate.Principal {
	var principal gate.Principal
	if resolved.User != nil {
		principal.User = &gate.UserPrincipal{ID: resolved.User.ID}
	}
	if resolved.Application != nil {
		principal.Application = &gate.ApplicationPrincipal{
			ID:          resolved.Application.ID,
			AccessScore: resolved.Application.AccessScore,
		}
	}
	return principal
}

// bindUser resolves the path user id and confirms the user exists. Binding
// runs before authorization so an unresolvable id reads as 404, not 403.
func (s *Server) bindUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := pathID(r, "userid")
	if !ok {
		s.writeDomainError(w, principaldomainerrors.ErrUserNotFound)
		return 0, false
	}
	if _, err := s.principals.Handler.GetUserHandler(r.Context(), userID); err != nil {
		s.writeDomainError(w, err)
		return 0, false
	}
	return userID, true
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	principal, err := s.resolvePrincipal(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	check := gate.Chain(gate.RequireApplication, gate.ApplicationTier(s.minAppScore))
	if err := check(principal, gate.Target{}); err != nil {
		s.writeDomainError(w, err)
		return
	}

	var req principalhttp.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "request body must be valid JSON", nil)
		return
	}
	resp, err := s.principals.Handler.CreateUserHandler(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	principal, err := s.resolvePrincipal(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	userID, ok := s.bindUser(w, r)
	if !ok {
		return
	}
	if err := gate.RequireUser(principal, gate.Target{PathUserID: userID}); err != nil {
		s.writeDomainError(w, err)
		return
	}

	resp, err := s.principals.Handler.GetUserHandler(r.Context(), userID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	principal, err := s.resolvePrincipal(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if err := gate.RequireApplication(principal, gate.Target{}); err != nil {
		s.writeDomainError(w, err)
		return
	}

	var req principalhttp.AuthenticateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "request body must be valid JSON", nil)
		return
	}
	resp, err := s.principals.Handler.AuthenticateHandler(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRequestPreapproval(w http.ResponseWriter, r *http.Request) {
	principal, err := s.resolvePrincipal(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	userID, ok := s.bindUser(w, r)
	if !ok {
		return
	}
	check := gate.Chain(gate.RequireUser, gate.UserSelf)
	if err := check(principal, gate.Target{PathUserID: userID}); err != nil {
		s.writeDomainError(w, err)
		return
	}

	resp, err := s.principals.Handler.RequestPreapprovalHandler(r.Context(), userID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConfirmPreapproval(w http.ResponseWriter, r *http.Request) {
	principal, err := s.resolvePrincipal(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	userID, ok := s.bindUser(w, r)
	if !ok {
		return
	}
	check := gate.Chain(gate.RequireUser, gate.UserSelf)
	if err := check(principal, gate.Target{PathUserID: userID}); err != nil {
		s.writeDomainError(w, err)
		return
	}

	resp, err := s.principals.Handler.ConfirmPreapprovalHandler(r.Context(), userID, r.PathValue("preapprovalkey"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListUserGroups(w http.ResponseWriter, r *http.Request) {
	principal, err := s.resolvePrincipal(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	userID, ok := s.bindUser(w, r)
	if !ok {
		return
	}
	check := gate.Chain(gate.RequireUser, gate.UserSelf)
	if err := check(principal, gate.Target{PathUserID: userID}); err != nil {
		s.writeDomainError(w, err)
		return
	}

	resp, err := s.groups.Handler.ListUserGroupsHandler(r.Context(), userID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListUserActivities(w http.ResponseWriter, r *http.Request) {
	principal, err := s.resolvePrincipal(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	userID, ok := s.bindUser(w, r)
	if !ok {
		return
	}
	check := gate.Chain(gate.RequireUser, gate.UserSelf)
	if err := check(principal, gate.Target{PathUserID: userID}); err != nil {
		s.writeDomainError(w, err)
		return
	}

	page, err := s.parseListing(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	resp, total, err := s.transactions.Handler.ListUserActivitiesHandler(r.Context(), userID, page)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if header := page.LinkHeader(requestURL(r), total); header != "" {
		w.Header().Set("Link", header)
	}
	writeJSON(w, http.StatusOK, resp)
}
