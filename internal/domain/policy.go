package domain

// IsElevated reports whether the user escapes department scoping.
func IsElevated(user *User) bool {
	return user != nil && user.HasRole(RoleCommissioner, RoleSuperAdmin)
}

// CanApproveActionLog is the approval policy shared by the approve and reject
// paths.
func CanApproveActionLog(user *User, log *ActionLog) bool {
	if user == nil || log == nil || !user.IsActive || user.Role == nil {
		return false
	}
	if IsElevated(user) {
		return true
	}
	if !user.InDepartment(log.DepartmentID) {
		return false
	}
	return user.Role.CanApprove || user.HasRole(RoleAssistantCommissioner)
}

func CanCreateActionLogs(user *User) bool {
	return user != nil && user.Role != nil && user.Role.CanCreateLogs
}

func CanUpdateStatus(user *User) bool {
	return user != nil && user.Role != nil && user.Role.CanUpdateStatus
}

// CanDeleteActionLog allows the creator and elevated users to remove a log.
func CanDeleteActionLog(user *User, log *ActionLog) bool {
	if user == nil || log == nil {
		return false
	}
	return IsElevated(user) || log.CreatedByID == user.ID
}
