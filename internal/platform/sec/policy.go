// Copyright (c) 2026 Souq. All rights reserved.

package sec

// # Authorization Policy

// Operation identifies a capability-gated API operation.
//
// Every role-restricted endpoint names its operation here; the router wires
// the operation into the single authorization checkpoint
// (middleware.Authorize) instead of scattering role checks per handler.
type Operation string

const (
	OpAccessCodeGenerate Operation = "accesscode.generate"
	OpAccessCodeList     Operation = "accesscode.list"
	OpAuditLogList       Operation = "auditlog.list"
	OpProductManage      Operation = "product.manage"
	OpCategoryManage     Operation = "category.manage"
)

// policy is the closed allowed-roles-per-operation mapping.
//
// An operation absent from this table is denied for every role, so a new
// admin endpoint that forgets to register here fails closed.
var policy = map[Operation][]Role{
	OpAccessCodeGenerate: {RoleSuperAdmin, RoleAdmin},
	OpAccessCodeList:     {RoleSuperAdmin, RoleAdmin},
	OpAuditLogList:       {RoleSuperAdmin, RoleAdmin},
	OpProductManage:      {RoleSuperAdmin, RoleAdmin},
	OpCategoryManage:     {RoleSuperAdmin, RoleAdmin},
}

// PolicyAllows reports whether the role may perform the operation.
func PolicyAllows(op Operation, role Role) bool {
	for _, allowed := range policy[op] {
		if role == allowed {
			return true
		}
	}
	return false
}
