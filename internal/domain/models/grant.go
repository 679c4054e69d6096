package models

// Grant is a persisted policy-store record authorizing one principal to
// perform one action on one notebook. Grants are created by the share
// orchestrator, never updated in place, and read back by the ACL view and by
// the policy engine at request-authorization time.
type Grant struct {
	ID         string      `json:"id"`
	Principal  PrincipalID `json:"principal"`
	NotebookID string      `json:"notebookId"`
	Action     string      `json:"action"`
	Statement  string      `json:"statement,omitempty"`
}

// GrantFilter selects grants by principal, notebook, or both. At least one
// side must be set.
type GrantFilter struct {
	Principal  *PrincipalID
	NotebookID string
}

// ACLEntry is one row of a notebook's access list. Provisional entries are
// synthesized display state masking the policy store's read-after-write lag;
// a later fresh read is the authority.
type ACLEntry struct {
	Email       string `json:"email"`
	Provisional bool   `json:"provisional,omitempty"`
}

// ShareResult reports the outcome of a share operation together with the
// reconciled access list.
type ShareResult struct {
	AlreadyShared bool       `json:"alreadyShared"`
	ACL           []ACLEntry `json:"acl"`
}
