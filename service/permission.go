package service

import "teamspend/models"

// The access-control gate. Every operation evaluates one of these predicates
// against (role, is_approved) before reading or writing anything, so a failed
// check is always side-effect free.

// RequireLedgerAccess guards every expense operation: admins may not own
// expenses, and unapproved users may not touch the ledger.
func RequireLedgerAccess(u *models.User) error {
	switch u.Role {
	case models.RoleAdmin:
		return PermissionDenied("Admins cannot have expenses")
	case models.RoleUser, models.RoleManager:
		if !u.IsApproved {
			return PermissionDenied("User is not approved yet")
		}
		return nil
	default:
		return PermissionDenied("Unknown role")
	}
}

// RequireAdmin guards category/team mutation and user management.
func RequireAdmin(u *models.User) error {
	if u.Role != models.RoleAdmin {
		return PermissionDenied("You are not an admin")
	}
	return nil
}

// RequireManager guards team roster reads.
func RequireManager(u *models.User) error {
	if u.Role != models.RoleManager {
		return PermissionDenied("You are not a manager")
	}
	return nil
}

// RequireApproved guards reads open to any approved account.
func RequireApproved(u *models.User) error {
	if !u.IsApproved {
		return PermissionDenied("You are not approved")
	}
	return nil
}
