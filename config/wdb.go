package config

import (
	"path"

	"github.com/inconshreveable/log15"
	"github.com/seed-labs/nameseed/config/schema"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var log = log15.New("module", "config")

const sqliteName = "nameseed-config.sqlite"

type Wdb struct {
	Db *gorm.DB
}

func NewMysqlDb(dsn string) *Wdb {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:          logger.Default.LogMode(logger.Error),
		CreateBatchSize: 10,
	})
	if err != nil {
		panic(err)
	}
	log.Info("connect config db success")
	return &Wdb{Db: db}
}

func NewSqliteDb(dbDir string) *Wdb {
	db, err := gorm.Open(sqlite.Open(path.Join(dbDir, sqliteName)), &gorm.Config{
		Logger:          logger.Default.LogMode(logger.Error),
		CreateBatchSize: 10,
	})
	if err != nil {
		panic(err)
	}
	log.Info("connect config sqlite db success")
	return &Wdb{Db: db}
}

func (w *Wdb) Migrate() error {
	return w.Db.AutoMigrate(&schema.IpRateWhitelist{}, &schema.Param{})
}

func (w *Wdb) GetAllAvailableIpRateWhitelist() ([]schema.IpRateWhitelist, error) {
	res := make([]schema.IpRateWhitelist, 0)
	err := w.Db.Where("available = ?", true).Find(&res).Error
	return res, err
}

func (w *Wdb) GetParam() (schema.Param, error) {
	param := schema.Param{}
	err := w.Db.First(&param).Error
	if err == gorm.ErrRecordNotFound {
		return schema.Param{}, nil
	}
	return param, err
}

func (w *Wdb) Close() {
	sql, err := w.Db.DB()
	if err == nil {
		sql.Close()
	}
}
