package gate

// RequireUser fails unless a user principal was resolved.
func RequireUser(principal Principal, _ Target) error {
	if principal.User == nil {
		return ErrAuthenticationRequired
	}
	return nil
}

// RequireApplication fails unless an application principal was resolved.
func RequireApplication(principal Principal, _ Target) error {
	if principal.Application == nil {
		return ErrAuthenticationRequired
	}
	return nil
}

// RequireUserOrApplication fails unless at least one principal was resolved.
func RequireUserOrApplication(principal Principal, _ Target) error {
	if principal.User == nil && principal.Application == nil {
		return ErrAuthenticationRequired
	}
	return nil
}

// ApplicationTier gates operations on the application's trust score.
func ApplicationTier(minScore float64) Predicate {
	return func(principal Principal, _ Target) error {
		if principal.Application == nil {
			return ErrAuthenticationRequired
		}
		if principal.Application.AccessScore < minScore {
			return ErrInsufficientAccess
		}
		return nil
	}
}

// GroupAccess passes when the user holds any membership in the target group
// or the application holds a grant for it.
func GroupAccess(principal Principal, target Target) error {
	if principal.User != nil && len(target.UserRoles) > 0 {
		return nil
	}
	if principal.Application != nil && target.ApplicationGranted {
		return nil
	}
	return ErrForbidden
}

// GroupRoles passes when the user's role set intersects the allowed roles.
// Application principals bypass role checks once group access is granted:
// only human-mutated financial actions are role-gated.
func GroupRoles(allowed ...Role) Predicate {
	return func(principal Principal, target Target) error {
		if principal.User == nil {
			if principal.Application != nil && target.ApplicationGranted {
				return nil
			}
			return ErrForbidden
		}
		if target.HasRole(allowed...) {
			return nil
		}
		return ErrForbidden
	}
}

// UserSelf restricts an operation to the path-bound user themselves.
func UserSelf(principal Principal, target Target) error {
	if principal.User == nil || principal.User.ID != target.PathUserID {
		return ErrForbidden
	}
	return nil
}

// TransactionBelongsToGroup rejects a transaction bound under the wrong
// group. This is a Forbidden, not a NotFound, so the existence of
// transactions in other groups does not leak.
func TransactionBelongsToGroup(_ Principal, target Target) error {
	if target.TransactionGroupID != target.GroupID {
		return ErrForbidden
	}
	return nil
}
