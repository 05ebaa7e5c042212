package httpserver

import (
	"encoding/json"
	"net/http"

	groupentities "commonfund/contexts/collective-ledger/group-service/domain/entities"
	groupdomainerrors "commonfund/contexts/collective-ledger/group-service/domain/errors"
	grouphttp "commonfund/contexts/collective-ledger/group-service/transport/http"
	gate "commonfund/contexts/identity-access/access-gate"
)

// bindGroupTarget loads the group named in the path together with the
// caller's membership roles and application grant, in one snapshot. A
// missing group is a 404 before any authorization verdict.
func (s *Server) bindGroupTarget(w http.ResponseWriter, r *http.Request, principal gate.Principal) (gate.Target, bool) {
	groupID, ok := pathID(r, "groupid")
	if !ok {
		s.writeDomainError(w, groupdomainerrors.ErrGroupNotFound)
		return gate.Target{}, false
	}

	var userID, applicationID int64
	if principal.User != nil {
		userID = principal.User.ID
	}
	if principal.Application != nil {
		applicationID = principal.Application.ID
	}

	snapshot, err := s.groups.Handler.AccessSnapshotHandler(r.Context(), groupID, userID, applicationID)
	if err != nil {
		s.writeDomainError(w, err)
		return gate.Target{}, false
	}

	return gate.Target{
		GroupID:            snapshot.Group.ID,
		UserRoles:          gateRoles(snapshot.UserRoles),
		ApplicationGranted: snapshot.ApplicationGranted,
	}, true
}

func gateRoles(roles []groupentities.Role) []gate.Role {
	converted := make([]gate.Role, 0, len(roles))
	for _, role := range roles {
		converted = append(converted, gate.Role(role))
	}
	return converted
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	principal, err := s.resolvePrincipal(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if err := gate.RequireUser(principal, gate.Target{}); err != nil {
		s.writeDomainError(w, err)
		return
	}

	var req grouphttp.CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "request body must be valid JSON", nil)
		return
	}
	resp, err := s.groups.Handler.CreateGroupHandler(r.Context(), principal.User.ID, req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
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

	resp, err := s.groups.Handler.GetGroupHandler(r.Context(), target.GroupID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	principal, err := s.resolvePrincipal(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	target, ok := s.bindGroupTarget(w, r, principal)
	if !ok {
		return
	}
	check := gate.Chain(gate.RequireUserOrApplication, gate.GroupAccess, gate.GroupRoles(gate.RoleAdmin))
	if err := check(principal, target); err != nil {
		s.writeDomainError(w, err)
		return
	}

	var req grouphttp.UpdateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "request body must be valid JSON", nil)
		return
	}
	resp, err := s.groups.Handler.UpdateGroupHandler(r.Context(), target.GroupID, req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	s.handleMemberChange(w, r, func(r *http.Request, groupID, userID int64, req grouphttp.MemberRequest) (any, error) {
		return s.groups.Handler.AddMemberHandler(r.Context(), groupID, userID, req)
	})
}

func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	s.handleMemberChange(w, r, func(r *http.Request, groupID, userID int64, req grouphttp.MemberRequest) (any, error) {
		return s.groups.Handler.UpdateMemberHandler(r.Context(), groupID, userID, req)
	})
}

func (s *Server) handleMemberChange(w http.ResponseWriter, r *http.Request, apply func(*http.Request, int64, int64, grouphttp.MemberRequest) (any, error)) {
	principal, err := s.resolvePrincipal(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	target, ok := s.bindGroupTarget(w, r, principal)
	if !ok {
		return
	}
	userID, ok := s.bindUser(w, r)
	if !ok {
		return
	}
	check := gate.Chain(gate.RequireUser, gate.GroupAccess, gate.GroupRoles(gate.RoleAdmin))
	if err := check(principal, target); err != nil {
		s.writeDomainError(w, err)
		return
	}

	// The role payload is optional; an empty body means default membership.
	var req grouphttp.MemberRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "request body must be valid JSON", nil)
			return
		}
	}
	resp, err := apply(r, target.GroupID, userID, req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	principal, err := s.resolvePrincipal(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	target, ok := s.bindGroupTarget(w, r, principal)
	if !ok {
		return
	}
	userID, ok := s.bindUser(w, r)
	if !ok {
		return
	}
	check := gate.Chain(gate.RequireUser, gate.GroupAccess, gate.GroupRoles(gate.RoleAdmin))
	if err := check(principal, target); err != nil {
		s.writeDomainError(w, err)
		return
	}

	if err := s.groups.Handler.RemoveMemberHandler(r.Context(), target.GroupID, userID); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleListTiers(w http.ResponseWriter, r *http.Request) {
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

	resp, err := s.groups.Handler.ListTiersHandler(r.Context(), target.GroupID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateTier(w http.ResponseWriter, r *http.Request) {
	principal, err := s.resolvePrincipal(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	target, ok := s.bindGroupTarget(w, r, principal)
	if !ok {
		return
	}
	check := gate.Chain(gate.RequireUser, gate.GroupAccess, gate.GroupRoles(gate.RoleAdmin))
	if err := check(principal, target); err != nil {
		s.writeDomainError(w, err)
		return
	}

	var req grouphttp.CreateTierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "request body must be valid JSON", nil)
		return
	}
	resp, err := s.groups.Handler.CreateTierHandler(r.Context(), target.GroupID, req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateTier(w http.ResponseWriter, r *http.Request) {
	principal, err := s.resolvePrincipal(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	target, ok := s.bindGroupTarget(w, r, principal)
	if !ok {
		return
	}
	tierID, ok := pathID(r, "tierid")
	if !ok {
		s.writeDomainError(w, groupdomainerrors.ErrTierNotFound)
		return
	}
	check := gate.Chain(gate.RequireUser, gate.GroupAccess, gate.GroupRoles(gate.RoleAdmin))
	if err := check(principal, target); err != nil {
		s.writeDomainError(w, err)
		return
	}

	var req grouphttp.UpdateTierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "request body must be valid JSON", nil)
		return
	}
	resp, err := s.groups.Handler.UpdateTierHandler(r.Context(), target.GroupID, tierID, req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
