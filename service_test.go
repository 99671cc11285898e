package nameseed

import (
	"testing"
	"time"

	"github.com/seed-labs/nameseed/cache"
	"github.com/seed-labs/nameseed/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNameseed(t *testing.T) *Nameseed {
	wdb := NewSqliteDb(t.TempDir())
	require.NoError(t, wdb.Migrate())

	localCache, err := cache.NewLocalCache(time.Minute)
	require.NoError(t, err)

	return &Nameseed{
		wdb:        wdb,
		localCache: localCache,
		engagement: NewEngagement(wdb, nil),
		network:    "mainnet",
	}
}

func seedDomain(t *testing.T, s *Nameseed, name string, limit int64) schema.Domain {
	dom := schema.Domain{
		Name:      name,
		Network:   "mainnet",
		Node:      NameHash(name),
		NameLimit: limit,
	}
	require.NoError(t, s.wdb.Db.Create(&dom).Error)
	return dom
}

func strPtr(s string) *string {
	return &s
}

func TestUpsertCreateThenUpdate(t *testing.T) {
	s := newTestNameseed(t)
	dom := seedDomain(t, s, "seedlabs.eth", 100)

	res, err := s.UpsertName(dom, schema.UpsertNameReq{
		Domain:      dom.Name,
		Name:        "alice",
		Address:     strPtr("0xabc"),
		TextRecords: map[string]string{"url": "https://x"},
	})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.NotZero(t, res.ID)

	// same name again: update in place, url record replaced away
	res2, err := s.UpsertName(dom, schema.UpsertNameReq{
		Domain:  dom.Name,
		Name:    "alice",
		Address: strPtr("0xdef"),
	})
	require.NoError(t, err)
	assert.False(t, res2.Created)
	assert.Equal(t, res.ID, res2.ID)

	sub, err := s.wdb.GetSubdomain(dom.ID, "alice")
	require.NoError(t, err)
	require.NotNil(t, sub.Address)
	assert.Equal(t, "0xdef", *sub.Address)

	texts, err := s.wdb.GetSubdomainTextRecords(sub.ID)
	require.NoError(t, err)
	assert.Empty(t, texts)
}

func TestUpsertIdempotent(t *testing.T) {
	s := newTestNameseed(t)
	dom := seedDomain(t, s, "seedlabs.eth", 0)

	req := schema.UpsertNameReq{
		Domain:    dom.Name,
		Name:      "Bob",
		Address:   strPtr("0x1"),
		CoinTypes: map[uint64]string{60: "0x1", 0: "bc1q"},
	}
	first, err := s.UpsertName(dom, req)
	require.NoError(t, err)
	second, err := s.UpsertName(dom, req)
	require.NoError(t, err)

	assert.True(t, first.Created)
	assert.False(t, second.Created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "bob", second.Name)

	coins, err := s.wdb.GetSubdomainCoinTypes(first.ID)
	require.NoError(t, err)
	assert.Equal(t, map[uint64]string{60: "0x1", 0: "bc1q"}, coins)
}

func TestUpsertEmptyAddressIsLegal(t *testing.T) {
	s := newTestNameseed(t)
	dom := seedDomain(t, s, "seedlabs.eth", 0)

	_, err := s.UpsertName(dom, schema.UpsertNameReq{Domain: dom.Name, Name: "blank", Address: strPtr("")})
	require.NoError(t, err)
	_, err = s.UpsertName(dom, schema.UpsertNameReq{Domain: dom.Name, Name: "unset"})
	require.NoError(t, err)

	blank, err := s.wdb.GetSubdomain(dom.ID, "blank")
	require.NoError(t, err)
	require.NotNil(t, blank.Address)
	assert.Equal(t, "", *blank.Address)

	unset, err := s.wdb.GetSubdomain(dom.ID, "unset")
	require.NoError(t, err)
	assert.Nil(t, unset.Address)
}

func TestUpsertFullReplaceTextRecords(t *testing.T) {
	s := newTestNameseed(t)
	dom := seedDomain(t, s, "seedlabs.eth", 0)

	_, err := s.UpsertName(dom, schema.UpsertNameReq{
		Domain:      dom.Name,
		Name:        "carol",
		TextRecords: map[string]string{"url": "https://a", "avatar": "ipfs://x"},
	})
	require.NoError(t, err)

	res, err := s.UpsertName(dom, schema.UpsertNameReq{
		Domain:      dom.Name,
		Name:        "carol",
		TextRecords: map[string]string{},
	})
	require.NoError(t, err)

	texts, err := s.wdb.GetSubdomainTextRecords(res.ID)
	require.NoError(t, err)
	assert.Empty(t, texts)
}

func TestUpsertInvalidContentHashWritesNothing(t *testing.T) {
	s := newTestNameseed(t)
	dom := seedDomain(t, s, "seedlabs.eth", 0)

	_, err := s.UpsertName(dom, schema.UpsertNameReq{
		Domain:     dom.Name,
		Name:       "dave",
		ContentURI: "http://not-a-pointer",
	})
	assert.Error(t, err)

	_, err = s.wdb.GetSubdomain(dom.ID, "dave")
	assert.Equal(t, schema.ErrNameNotFound, err)
}

func TestUpsertContentHash(t *testing.T) {
	s := newTestNameseed(t)
	dom := seedDomain(t, s, "seedlabs.eth", 0)

	res, err := s.UpsertName(dom, schema.UpsertNameReq{
		Domain:     dom.Name,
		Name:       "site",
		ContentURI: "ipfs://QmRAQB6YaCyidP37UdDnjFY5vQuiBrcqdyoW1CuDgwxkD4",
	})
	require.NoError(t, err)

	sub, err := s.wdb.GetSubdomain(dom.ID, "site")
	require.NoError(t, err)
	assert.Equal(t,
		"0xe3010170122029f2d17be6139079dc48696d1f582a8530eb9805b561eda517e22a892c7e3f1f",
		sub.ContentHash)
	assert.NotZero(t, res.ID)
}

func TestQuotaBoundary(t *testing.T) {
	s := newTestNameseed(t)
	dom := seedDomain(t, s, "tiny.eth", 2)

	for _, name := range []string{"a", "b"} {
		_, err := s.UpsertName(dom, schema.UpsertNameReq{Domain: dom.Name, Name: name})
		require.NoError(t, err)
	}
	_, err := s.UpsertName(dom, schema.UpsertNameReq{Domain: dom.Name, Name: "c"})
	assert.Equal(t, schema.ErrQuotaExceeded, err)

	// updates never consume quota
	_, err = s.UpsertName(dom, schema.UpsertNameReq{Domain: dom.Name, Name: "a", Address: strPtr("0x9")})
	assert.NoError(t, err)
}

func TestQuotaUnlimited(t *testing.T) {
	assert.NoError(t, admitQuota(0, 1000, 50))
	assert.NoError(t, admitQuota(-1, 1000, 1))
	assert.NoError(t, admitQuota(3, 2, 1))
	assert.Equal(t, schema.ErrQuotaExceeded, admitQuota(3, 3, 1))
}

func TestBatchUpsertSuccess(t *testing.T) {
	s := newTestNameseed(t)
	dom := seedDomain(t, s, "seedlabs.eth", 0)

	res, err := s.BatchUpsert(dom, schema.BatchNameReq{
		Domain: dom.Name,
		Names: []schema.BatchNameItem{
			{Name: "One", Address: strPtr("0x1")},
			{Name: "two", TextRecords: map[string]string{"url": "https://x"}},
			{Name: "three", CoinTypes: map[uint64]string{60: "0x3"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.ProcessedCount)
	assert.Len(t, res.Results, 3)
	assert.Equal(t, "one", res.Results[0].Name)

	count, err := s.wdb.CountSubdomains(dom.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestBatchAtomicity(t *testing.T) {
	s := newTestNameseed(t)
	dom := seedDomain(t, s, "seedlabs.eth", 0)

	_, err := s.BatchUpsert(dom, schema.BatchNameReq{
		Domain: dom.Name,
		Names: []schema.BatchNameItem{
			{Name: "good1"},
			{Name: "bad", ContentURI: "onion://wronglength"},
			{Name: "good2"},
		},
	})
	require.Error(t, err)
	batchErr, ok := err.(*BatchError)
	require.True(t, ok)
	assert.Equal(t, 3, batchErr.TotalAttempted)
	require.Len(t, batchErr.ItemErrors, 1)
	assert.Equal(t, 1, batchErr.ItemErrors[0].Index)
	assert.Equal(t, "bad", batchErr.ItemErrors[0].Name)

	// nothing committed, the valid items included
	count, err := s.wdb.CountSubdomains(dom.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestBatchNormalizationAbortsEarly(t *testing.T) {
	s := newTestNameseed(t)
	dom := seedDomain(t, s, "seedlabs.eth", 0)

	_, err := s.BatchUpsert(dom, schema.BatchNameReq{
		Domain: dom.Name,
		Names: []schema.BatchNameItem{
			{Name: "fine"},
			{Name: "not fine"},
			{Name: "alsofine"},
		},
	})
	require.Error(t, err)
	batchErr, ok := err.(*BatchError)
	require.True(t, ok)
	require.Len(t, batchErr.ItemErrors, 1)
	assert.Equal(t, 1, batchErr.ItemErrors[0].Index)
	assert.Equal(t, schema.ErrInvalidName.Error(), batchErr.ItemErrors[0].Err)

	count, err := s.wdb.CountSubdomains(dom.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestBatchQuotaPrecheck(t *testing.T) {
	s := newTestNameseed(t)
	dom := seedDomain(t, s, "tiny.eth", 2)

	_, err := s.BatchUpsert(dom, schema.BatchNameReq{
		Domain: dom.Name,
		Names: []schema.BatchNameItem{
			{Name: "a"}, {Name: "b"}, {Name: "c"},
		},
	})
	assert.Equal(t, schema.ErrQuotaWouldExceed, err)

	count, err := s.wdb.CountSubdomains(dom.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestBatchTooLarge(t *testing.T) {
	s := newTestNameseed(t)
	dom := seedDomain(t, s, "seedlabs.eth", 0)

	names := make([]schema.BatchNameItem, schema.MaxBatchSize+1)
	for i := range names {
		names[i] = schema.BatchNameItem{Name: "n"}
	}
	_, err := s.BatchUpsert(dom, schema.BatchNameReq{Domain: dom.Name, Names: names})
	assert.Equal(t, schema.ErrBatchTooLarge, err)
}

func TestBatchUpdatesExistingNames(t *testing.T) {
	s := newTestNameseed(t)
	dom := seedDomain(t, s, "seedlabs.eth", 0)

	_, err := s.UpsertName(dom, schema.UpsertNameReq{Domain: dom.Name, Name: "dup", Address: strPtr("0x1")})
	require.NoError(t, err)

	res, err := s.BatchUpsert(dom, schema.BatchNameReq{
		Domain: dom.Name,
		Names: []schema.BatchNameItem{
			{Name: "dup", Address: strPtr("0x2")},
			{Name: "fresh"},
		},
	})
	require.NoError(t, err)
	assert.False(t, res.Results[0].Created)
	assert.True(t, res.Results[1].Created)

	sub, err := s.wdb.GetSubdomain(dom.ID, "dup")
	require.NoError(t, err)
	assert.Equal(t, "0x2", *sub.Address)
}

func TestDeleteName(t *testing.T) {
	s := newTestNameseed(t)
	dom := seedDomain(t, s, "seedlabs.eth", 0)

	res, err := s.UpsertName(dom, schema.UpsertNameReq{
		Domain:      dom.Name,
		Name:        "gone",
		TextRecords: map[string]string{"url": "https://x"},
		CoinTypes:   map[uint64]string{60: "0x1"},
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteName(dom, "gone"))

	_, err = s.wdb.GetSubdomain(dom.ID, "gone")
	assert.Equal(t, schema.ErrNameNotFound, err)

	texts, err := s.wdb.GetSubdomainTextRecords(res.ID)
	require.NoError(t, err)
	assert.Empty(t, texts)
	coins, err := s.wdb.GetSubdomainCoinTypes(res.ID)
	require.NoError(t, err)
	assert.Empty(t, coins)

	assert.Equal(t, schema.ErrNameNotFound, s.DeleteName(dom, "gone"))
}

func TestGetName(t *testing.T) {
	s := newTestNameseed(t)
	dom := seedDomain(t, s, "seedlabs.eth", 0)

	_, err := s.UpsertName(dom, schema.UpsertNameReq{
		Domain:      dom.Name,
		Name:        "Eve",
		Address:     strPtr("0xe"),
		TextRecords: map[string]string{"url": "https://e"},
		CoinTypes:   map[uint64]string{60: "0xe"},
	})
	require.NoError(t, err)

	res, err := s.GetName(dom, "EVE")
	require.NoError(t, err)
	assert.Equal(t, "eve", res.Subdomain.Name)
	assert.Equal(t, "https://e", res.TextRecords["url"])
	assert.Equal(t, "0xe", res.CoinTypes[60])
	assert.Equal(t, dom.Name, res.Domain)
}

func TestUpdateDomainSettings(t *testing.T) {
	s := newTestNameseed(t)
	dom := seedDomain(t, s, "seedlabs.eth", 0)

	res, err := s.UpdateDomainSettings(dom, schema.UpsertNameReq{
		Address:     strPtr("0xd0"),
		ContentURI:  "onion://zqktlwi4fecvo6ri",
		TextRecords: map[string]string{"url": "https://seedlabs"},
	})
	require.NoError(t, err)
	assert.Equal(t, "0xd0", res.Address)
	assert.NotEmpty(t, res.ContentHash)

	texts := make([]schema.DomainTextRecord, 0)
	require.NoError(t, s.wdb.Db.Where("domain_id = ?", dom.ID).Find(&texts).Error)
	assert.Len(t, texts, 1)
}
