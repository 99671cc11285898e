package config

import (
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/seed-labs/nameseed/config/schema"
)

type Config struct {
	wdb       *Wdb
	scheduler *gocron.Scheduler

	mu          sync.RWMutex
	param       schema.Param
	ipWhiteList map[string]struct{}
}

func New(configDSN string, sqliteDir string, useSqlite bool) *Config {
	wdb := &Wdb{}
	if useSqlite {
		wdb = NewSqliteDb(sqliteDir)
	} else {
		wdb = NewMysqlDb(configDSN)
	}
	if err := wdb.Migrate(); err != nil {
		panic(err)
	}
	param, err := wdb.GetParam()
	if err != nil {
		panic(err)
	}
	c := &Config{
		wdb:         wdb,
		scheduler:   gocron.NewScheduler(time.UTC),
		param:       param,
		ipWhiteList: make(map[string]struct{}),
	}
	c.updateIPWhiteList()
	return c
}

func (c *Config) GetParam() schema.Param {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.param
}

func (c *Config) GetIPWhiteList() *map[string]struct{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return &c.ipWhiteList
}

func (c *Config) Run() {
	go c.runJobs()
}

func (c *Config) Close() {
	c.scheduler.Stop()
	c.wdb.Close()
}
