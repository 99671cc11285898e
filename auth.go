package nameseed

import (
	"github.com/seed-labs/nameseed/schema"
)

// Credential carries both accepted credential kinds: a domain-scoped secret
// key and an already-verified identity from the auth layer. Either one is
// enough to pass.
type Credential struct {
	Key      string
	Identity string
}

// Authorize decides whether cred may mutate records under domain. Denial is
// uniform so a caller can not probe which of the two checks rejected it.
func (s *Nameseed) Authorize(cred Credential, domain schema.Domain) error {
	if cred.Key != "" && s.wdb.ExistDomainKey(domain.ID, cred.Key) {
		return nil
	}
	if cred.Identity != "" && s.wdb.ExistDomainAdmin(domain.ID, cred.Identity) {
		return nil
	}
	return schema.ErrUnauthorized
}
