package nameseed

import (
	"testing"

	"github.com/seed-labs/nameseed/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWdb(t *testing.T) *Wdb {
	db := NewSqliteDb(t.TempDir())
	require.NoError(t, db.Migrate())
	return db
}

func TestGetDomain(t *testing.T) {
	db := newTestWdb(t)
	require.NoError(t, db.Db.Create(&schema.Domain{Name: "seedlabs.eth", Network: "mainnet"}).Error)

	dom, err := db.GetDomain("seedlabs.eth", "mainnet")
	require.NoError(t, err)
	assert.Equal(t, "seedlabs.eth", dom.Name)

	_, err = db.GetDomain("seedlabs.eth", "sepolia")
	assert.Equal(t, schema.ErrDomainNotFound, err)
	_, err = db.GetDomain("missing.eth", "mainnet")
	assert.Equal(t, schema.ErrDomainNotFound, err)
}

func TestReplaceSubdomainTextRecords(t *testing.T) {
	db := newTestWdb(t)
	sub := schema.Subdomain{Name: "alice", DomainID: 1}
	require.NoError(t, db.InsertSubdomain(&sub))

	err := db.ReplaceSubdomainTextRecords(sub.ID, map[string]string{"url": "https://a", "avatar": "x"})
	require.NoError(t, err)
	got, err := db.GetSubdomainTextRecords(sub.ID)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// replace, not merge
	err = db.ReplaceSubdomainTextRecords(sub.ID, map[string]string{"url": "https://b"})
	require.NoError(t, err)
	got, err = db.GetSubdomainTextRecords(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"url": "https://b"}, got)

	// nil clears
	require.NoError(t, db.ReplaceSubdomainTextRecords(sub.ID, nil))
	got, err = db.GetSubdomainTextRecords(sub.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReplaceSubdomainCoinTypes(t *testing.T) {
	db := newTestWdb(t)
	sub := schema.Subdomain{Name: "alice", DomainID: 1}
	require.NoError(t, db.InsertSubdomain(&sub))

	require.NoError(t, db.ReplaceSubdomainCoinTypes(sub.ID, map[uint64]string{60: "0x1"}))
	require.NoError(t, db.ReplaceSubdomainCoinTypes(sub.ID, map[uint64]string{0: "bc1q", 2: "L123"}))

	got, err := db.GetSubdomainCoinTypes(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, map[uint64]string{0: "bc1q", 2: "L123"}, got)
}

func TestCountSubdomains(t *testing.T) {
	db := newTestWdb(t)
	for _, n := range []string{"a", "b", "c"} {
		require.NoError(t, db.InsertSubdomain(&schema.Subdomain{Name: n, DomainID: 7}))
	}
	require.NoError(t, db.InsertSubdomain(&schema.Subdomain{Name: "other", DomainID: 8}))

	count, err := db.CountSubdomains(7)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestDeleteSubdomainRemovesChildren(t *testing.T) {
	db := newTestWdb(t)
	sub := schema.Subdomain{Name: "alice", DomainID: 1}
	require.NoError(t, db.InsertSubdomain(&sub))
	require.NoError(t, db.ReplaceSubdomainTextRecords(sub.ID, map[string]string{"url": "x"}))
	require.NoError(t, db.ReplaceSubdomainCoinTypes(sub.ID, map[uint64]string{60: "0x1"}))

	require.NoError(t, db.DeleteSubdomain(sub))

	_, err := db.GetSubdomain(1, "alice")
	assert.Equal(t, schema.ErrNameNotFound, err)
	texts, err := db.GetSubdomainTextRecords(sub.ID)
	require.NoError(t, err)
	assert.Empty(t, texts)
	coins, err := db.GetSubdomainCoinTypes(sub.ID)
	require.NoError(t, err)
	assert.Empty(t, coins)
}

func TestInsertEngagementLog(t *testing.T) {
	db := newTestWdb(t)
	err := db.InsertEngagementLog(schema.EngagementLog{
		Actor:   "seedlabs.eth",
		Event:   schema.EventNameUpsert,
		Details: []byte(`{"name":"alice"}`),
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Db.Model(&schema.EngagementLog{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
