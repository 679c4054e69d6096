package models

import (
	"fmt"
	"strings"
)

// PrincipalID is the compound identifier the policy store uses for user
// entities when policies are evaluated with identity tokens: the user pool id
// joined with the directory subject id as "<poolID>|<subjectID>".
//
// Every adapter that writes or reads policy-store principals goes through
// this type; formatting the key ad hoc at call sites is how the write and
// read paths drift apart.
type PrincipalID struct {
	PoolID    string
	SubjectID string
}

// NewPrincipalID builds the compound id for a directory subject.
func NewPrincipalID(poolID, subjectID string) PrincipalID {
	return PrincipalID{PoolID: poolID, SubjectID: subjectID}
}

// ParsePrincipalID splits a policy-store entity id back into its parts.
// Returns an error if the value is not in "<poolID>|<subjectID>" form.
func ParsePrincipalID(s string) (PrincipalID, error) {
	pool, subject, ok := strings.Cut(s, "|")
	if !ok || pool == "" || subject == "" {
		return PrincipalID{}, fmt.Errorf("malformed principal id %q", s)
	}
	return PrincipalID{PoolID: pool, SubjectID: subject}, nil
}

// String renders the compound entity id used in policy statements and
// grant filters.
func (p PrincipalID) String() string {
	return p.PoolID + "|" + p.SubjectID
}

// IsZero reports whether the principal id is unset.
func (p PrincipalID) IsZero() bool {
	return p.PoolID == "" && p.SubjectID == ""
}
