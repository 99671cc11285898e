package nameseed

import (
	"github.com/seed-labs/nameseed/contenthash"
	"github.com/seed-labs/nameseed/schema"
	"gorm.io/gorm"
)

// admitQuota decides whether requested more subdomains fit under limit.
// limit <= 0 means unlimited. Updates never consume quota, only the create
// paths call this.
func admitQuota(limit, current int64, requested int) error {
	if limit <= schema.UnlimitedNames {
		return nil
	}
	if current+int64(requested) > limit {
		return schema.ErrQuotaExceeded
	}
	return nil
}

// UpsertName creates or updates one subdomain record. The row write and the
// full replacement of both child sets commit as one unit.
func (s *Nameseed) UpsertName(domain schema.Domain, req schema.UpsertNameReq) (schema.RespUpsert, error) {
	name, err := NormalizeLabel(req.Name)
	if err != nil {
		return schema.RespUpsert{}, err
	}

	item := schema.BatchNameItem{
		Name:        name,
		Address:     req.Address,
		ContentURI:  req.ContentURI,
		TextRecords: req.TextRecords,
		CoinTypes:   req.CoinTypes,
	}
	res := schema.RespUpsert{}
	err = s.wdb.Db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		res, txErr = s.applyUpsert(s.wdb.WithTx(tx), domain, item)
		return txErr
	})
	if err != nil {
		return schema.RespUpsert{}, err
	}

	metricUpsert(domain.Name, res.Created)
	s.engagement.Log(domain.Name, schema.EventNameUpsert, res)
	return res, nil
}

// applyUpsert is the single-name engine shared by the single and batch
// paths. name must already be normalized; wdb is bound to the caller's
// transaction.
func (s *Nameseed) applyUpsert(wdb *Wdb, domain schema.Domain, item schema.BatchNameItem) (schema.RespUpsert, error) {
	chHex, err := contenthash.EncodeToHex(item.ContentURI)
	if err != nil {
		return schema.RespUpsert{}, err
	}

	created := false
	sub, err := wdb.GetSubdomain(domain.ID, item.Name)
	switch err {
	case nil:
		if item.Address != nil {
			sub.Address = item.Address
		}
		sub.ContentHash = chHex
		sub.ContentURI = item.ContentURI
		if err = wdb.UpdateSubdomain(&sub); err != nil {
			return schema.RespUpsert{}, err
		}
	case schema.ErrNameNotFound:
		count, err := wdb.CountSubdomains(domain.ID)
		if err != nil {
			return schema.RespUpsert{}, err
		}
		if err = admitQuota(domain.NameLimit, count, 1); err != nil {
			metricQuotaRejected(domain.Name)
			return schema.RespUpsert{}, err
		}
		sub = schema.Subdomain{
			Name:        item.Name,
			DomainID:    domain.ID,
			Node:        NameHash(item.Name + "." + domain.Name),
			Address:     item.Address,
			ContentHash: chHex,
			ContentURI:  item.ContentURI,
		}
		if err = wdb.InsertSubdomain(&sub); err != nil {
			return schema.RespUpsert{}, err
		}
		created = true
	default:
		return schema.RespUpsert{}, err
	}

	// full replace of both child sets; an absent map still clears
	if err = wdb.ReplaceSubdomainTextRecords(sub.ID, item.TextRecords); err != nil {
		return schema.RespUpsert{}, err
	}
	if err = wdb.ReplaceSubdomainCoinTypes(sub.ID, item.CoinTypes); err != nil {
		return schema.RespUpsert{}, err
	}

	return schema.RespUpsert{ID: sub.ID, Name: item.Name, Created: created}, nil
}

// BatchError aggregates the per-item failures of a batch. Its presence
// always means the whole batch rolled back.
type BatchError struct {
	ItemErrors     []schema.BatchItemErr
	TotalAttempted int
}

func (e *BatchError) Error() string {
	return schema.ErrBatchFailed.Error()
}

// BatchUpsert applies up to schema.MaxBatchSize name operations as one
// atomic unit.
//
// Phase 1 normalizes every name and aborts on the first bad one. Phase 2
// prechecks quota once against the current count, counting every item as a
// create; this is deliberately coarser than the per-item check inside
// applyUpsert. Phase 3 runs every item inside one transaction, collecting
// per-item errors but never committing a partial batch: any error rolls
// back all of it. Phase 4 records one engagement event for the whole batch.
func (s *Nameseed) BatchUpsert(domain schema.Domain, req schema.BatchNameReq) (schema.RespBatch, error) {
	if len(req.Names) > schema.MaxBatchSize {
		return schema.RespBatch{}, schema.ErrBatchTooLarge
	}

	items := make([]schema.BatchNameItem, 0, len(req.Names))
	for i, n := range req.Names {
		name, err := NormalizeLabel(n.Name)
		if err != nil {
			return schema.RespBatch{}, &BatchError{
				ItemErrors:     []schema.BatchItemErr{{Index: i, Name: n.Name, Err: err.Error()}},
				TotalAttempted: len(req.Names),
			}
		}
		item := n
		item.Name = name
		items = append(items, item)
	}

	count, err := s.wdb.CountSubdomains(domain.ID)
	if err != nil {
		return schema.RespBatch{}, err
	}
	if domain.NameLimit > schema.UnlimitedNames && count+int64(len(items)) > domain.NameLimit {
		metricQuotaRejected(domain.Name)
		return schema.RespBatch{}, schema.ErrQuotaWouldExceed
	}

	results := make([]schema.RespUpsert, 0, len(items))
	err = s.wdb.Db.Transaction(func(tx *gorm.DB) error {
		wdb := s.wdb.WithTx(tx)
		itemErrs := make([]schema.BatchItemErr, 0)
		for i, item := range items {
			res, err := s.applyUpsert(wdb, domain, item)
			if err != nil {
				// keep going: the caller gets the full error report
				// even though the unit rolls back as a whole
				itemErrs = append(itemErrs, schema.BatchItemErr{Index: i, Name: item.Name, Err: err.Error()})
				continue
			}
			results = append(results, res)
		}
		if len(itemErrs) > 0 {
			return &BatchError{ItemErrors: itemErrs, TotalAttempted: len(items)}
		}
		return nil
	})
	if err != nil {
		return schema.RespBatch{}, err
	}

	metricBatch(domain.Name, len(results))
	s.engagement.Log(domain.Name, schema.EventNameBatch, schema.RespBatch{
		ProcessedCount: len(results),
		Results:        results,
	})
	return schema.RespBatch{ProcessedCount: len(results), Results: results}, nil
}

// DeleteName removes a subdomain and both child sets.
func (s *Nameseed) DeleteName(domain schema.Domain, rawName string) error {
	name, err := NormalizeLabel(rawName)
	if err != nil {
		return err
	}
	sub, err := s.wdb.GetSubdomain(domain.ID, name)
	if err != nil {
		return err
	}
	err = s.wdb.Db.Transaction(func(tx *gorm.DB) error {
		return s.wdb.WithTx(tx).DeleteSubdomain(sub)
	})
	if err != nil {
		return err
	}
	s.engagement.Log(domain.Name, schema.EventNameDelete, sub)
	return nil
}

// GetName loads a subdomain record with both child sets resolved.
func (s *Nameseed) GetName(domain schema.Domain, rawName string) (schema.RespName, error) {
	name, err := NormalizeLabel(rawName)
	if err != nil {
		return schema.RespName{}, err
	}
	sub, err := s.wdb.GetSubdomain(domain.ID, name)
	if err != nil {
		return schema.RespName{}, err
	}
	texts, err := s.wdb.GetSubdomainTextRecords(sub.ID)
	if err != nil {
		return schema.RespName{}, err
	}
	coins, err := s.wdb.GetSubdomainCoinTypes(sub.ID)
	if err != nil {
		return schema.RespName{}, err
	}
	return schema.RespName{
		Subdomain:   sub,
		Domain:      domain.Name,
		TextRecords: texts,
		CoinTypes:   coins,
	}, nil
}

// UpdateDomainSettings mutates a domain's own address, content pointer and
// child sets with the same full-replace semantics as subdomains.
func (s *Nameseed) UpdateDomainSettings(domain schema.Domain, req schema.UpsertNameReq) (schema.Domain, error) {
	chHex, err := contenthash.EncodeToHex(req.ContentURI)
	if err != nil {
		return schema.Domain{}, err
	}
	err = s.wdb.Db.Transaction(func(tx *gorm.DB) error {
		wdb := s.wdb.WithTx(tx)
		if req.Address != nil {
			domain.Address = *req.Address
		}
		domain.ContentHash = chHex
		domain.ContentURI = req.ContentURI
		if err := wdb.UpdateDomain(&domain); err != nil {
			return err
		}
		if err := wdb.ReplaceDomainTextRecords(domain.ID, req.TextRecords); err != nil {
			return err
		}
		return wdb.ReplaceDomainCoinTypes(domain.ID, req.CoinTypes)
	})
	if err != nil {
		return schema.Domain{}, err
	}
	s.dropDomainCache(domain.Name, domain.Network)
	s.engagement.Log(domain.Name, schema.EventNameUpsert, domain)
	return domain, nil
}
