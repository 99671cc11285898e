package nameseed

import (
	"encoding/json"

	"github.com/seed-labs/nameseed/schema"
)

const domainCacheKeyPrefix = "domain_"

func domainCacheKey(name, network string) string {
	return domainCacheKeyPrefix + network + "_" + name
}

// getDomainCached serves domain rows from the local cache, falling back to
// the db. Stale entries age out with the cache expiry; mutations of the
// domain itself drop the entry eagerly.
func (s *Nameseed) getDomainCached(name, network string) (schema.Domain, error) {
	key := domainCacheKey(name, network)
	if val, err := s.localCache.Cache.Get(key); err == nil && len(val) > 0 {
		dom := schema.Domain{}
		if err := json.Unmarshal(val, &dom); err == nil {
			return dom, nil
		}
	}

	dom, err := s.wdb.GetDomain(name, network)
	if err != nil {
		return dom, err
	}
	by, err := json.Marshal(dom)
	if err == nil {
		if err := s.localCache.Cache.Set(key, by); err != nil {
			log.Warn("set domain cache failed", "err", err, "domain", name)
		}
	}
	return dom, nil
}

func (s *Nameseed) dropDomainCache(name, network string) {
	if err := s.localCache.Cache.Delete(domainCacheKey(name, network)); err != nil {
		log.Debug("drop domain cache", "err", err, "domain", name)
	}
}
