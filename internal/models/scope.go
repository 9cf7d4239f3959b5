package models

// Scope selects the population of ledger records a balance computation
// reads: either everything a user is involved in, or a single group.
type Scope struct {
	groupID string
}

// GlobalScope covers every expense and settlement the requesting user
// appears in, across all groups and personal records.
func GlobalScope() Scope {
	return Scope{}
}

// GroupScope restricts the computation to one group's records.
func GroupScope(groupID string) Scope {
	return Scope{groupID: groupID}
}

// IsGlobal reports whether the scope covers all of a user's records.
func (s Scope) IsGlobal() bool {
	return s.groupID == ""
}

// GroupID returns the group this scope is restricted to, or "" for global.
func (s Scope) GroupID() string {
	return s.groupID
}
