package nameseed

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/seed-labs/nameseed/cache"
	"github.com/seed-labs/nameseed/config"
)

var log = NewLog("nameseed")

const domainCacheExpire = 1 * time.Minute

type Nameseed struct {
	engine *gin.Engine
	wdb    *Wdb

	config     *config.Config
	localCache *cache.Cache
	engagement *Engagement

	// default network for requests that do not name one
	network string
}

func New(mysqlDsn, sqliteDir string, useSqlite bool, kafkaUri, network string) *Nameseed {
	wdb := &Wdb{}
	if useSqlite {
		wdb = NewSqliteDb(sqliteDir)
	} else {
		wdb = NewMysqlDb(mysqlDsn)
	}
	if err := wdb.Migrate(); err != nil {
		panic(err)
	}

	var kw *KWriter
	if kafkaUri != "" {
		var err error
		kw, err = NewKWriter(EngagementTopic, kafkaUri)
		if err != nil {
			panic(err)
		}
	}

	localCache, err := cache.NewLocalCache(domainCacheExpire)
	if err != nil {
		panic(err)
	}

	return &Nameseed{
		engine:     gin.Default(),
		wdb:        wdb,
		config:     config.New(mysqlDsn, sqliteDir, useSqlite),
		localCache: localCache,
		engagement: NewEngagement(wdb, kw),
		network:    network,
	}
}

func (s *Nameseed) Run(port string) {
	s.config.Run()
	go s.runAPI(port)
}

func (s *Nameseed) Close() {
	s.engagement.Close()
	s.config.Close()
	s.wdb.Close()
}
