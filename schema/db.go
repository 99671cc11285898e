package schema

import (
	"time"

	"gorm.io/datatypes"
)

const (
	// batch upsert hard cap, checked before any validation runs
	MaxBatchSize = 50

	// NameLimit value meaning "no subdomain quota"
	UnlimitedNames = 0
)

type Domain struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name    string `gorm:"index:idx_domain,unique" json:"name"`
	Network string `gorm:"index:idx_domain,unique" json:"network"`
	Node    string `gorm:"index:idx_domain_node" json:"node"` // namehash, 0x-hex

	Address     string `json:"address"`
	ContentHash string `json:"contentHash"` // canonical 0x-hex form
	ContentURI  string `json:"contentUri"`  // raw form as submitted

	NameLimit int64 `json:"nameLimit"` // 0 means unlimited
}

type Subdomain struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name     string `gorm:"index:idx_subdomain,unique" json:"name"`
	DomainID uint   `gorm:"index:idx_subdomain,unique" json:"domainId"`
	Node     string `gorm:"index:idx_subdomain_node" json:"node"`

	// nil means the address was never set; "" is a legal stored value
	Address     *string `json:"address"`
	ContentHash string  `json:"contentHash"`
	ContentURI  string  `json:"contentUri"`
}

type SubdomainTextRecord struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	SubdomainID uint   `gorm:"index:idx_sub_text,unique" json:"subdomainId"`
	Key         string `gorm:"index:idx_sub_text,unique" json:"key"`
	Value       string `json:"value"`
}

type SubdomainCoinType struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	SubdomainID uint   `gorm:"index:idx_sub_coin,unique" json:"subdomainId"`
	CoinType    uint64 `gorm:"index:idx_sub_coin,unique" json:"coinType"`
	Value       string `json:"value"`
}

type DomainTextRecord struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	DomainID uint   `gorm:"index:idx_dom_text,unique" json:"domainId"`
	Key      string `gorm:"index:idx_dom_text,unique" json:"key"`
	Value    string `json:"value"`
}

type DomainCoinType struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	DomainID uint   `gorm:"index:idx_dom_coin,unique" json:"domainId"`
	CoinType uint64 `gorm:"index:idx_dom_coin,unique" json:"coinType"`
	Value    string `json:"value"`
}

// DomainKey is the domain-scoped secret credential. A caller holding the
// key may mutate every record under the domain.
type DomainKey struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	DomainID    uint   `gorm:"index:idx_domain_key,unique" json:"domainId"`
	Key         string `gorm:"index:idx_domain_key,unique" json:"-"`
	Description string `json:"description"`
}

// DomainAdmin maps an already-authenticated identity to a domain it may
// administer. DomainID 0 marks a super admin with access to every domain.
type DomainAdmin struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	DomainID uint   `gorm:"index:idx_domain_admin,unique" json:"domainId"`
	Identity string `gorm:"index:idx_domain_admin,unique" json:"identity"`
}

type EngagementLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	EventID string         `gorm:"index:idx_engagement_event_id,unique" json:"eventId"`
	Actor   string         `gorm:"index:idx_engagement_actor" json:"actor"`
	Event   string         `gorm:"index:idx_engagement_event" json:"event"`
	Details datatypes.JSON `json:"details"`
}
