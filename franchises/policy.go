package franchises

// RoleAdmin is the role required for franchise and branch mutations. The
// service enforces this server-side as well; these predicates only avoid
// round trips that are certain to be rejected.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// CanCreateBranch reports whether new branches may be created under the
// franchise. An inactive franchise blocks branch creation.
func CanCreateBranch(f Franchise) bool {
	return f.Active
}

// CanCreateProduct reports whether new products may be created under the
// branch. An inactive branch blocks product creation.
func CanCreateProduct(b Branch) bool {
	return b.Active
}

// CanMutate reports whether an actor with the given roles may mutate
// franchises or branches.
func CanMutate(roles []string) bool {
	for _, role := range roles {
		if role == RoleAdmin {
			return true
		}
	}
	return false
}

// GateBranchCreation combines the role and activation checks into a single
// fail-fast guard.
func GateBranchCreation(roles []string, parent Franchise) error {
	if !CanMutate(roles) {
		return NotPermittedErr
	}
	if !CanCreateBranch(parent) {
		return ParentInactiveErr
	}
	return nil
}

// GateProductCreation rejects product creation under an inactive branch.
func GateProductCreation(parent Branch) error {
	if !CanCreateProduct(parent) {
		return ParentInactiveErr
	}
	return nil
}
