package nameseed

import (
	"path"

	"github.com/seed-labs/nameseed/schema"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqliteName = "nameseed.sqlite"

type Wdb struct {
	Db *gorm.DB
}

func NewMysqlDb(dsn string) *Wdb {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:          logger.Default.LogMode(logger.Error),
		CreateBatchSize: 200,
	})
	if err != nil {
		panic(err)
	}
	log.Info("connect mysql db success")
	return &Wdb{Db: db}
}

func NewSqliteDb(dbDir string) *Wdb {
	db, err := gorm.Open(sqlite.Open(path.Join(dbDir, sqliteName)), &gorm.Config{
		Logger:          logger.Default.LogMode(logger.Error),
		CreateBatchSize: 200,
	})
	if err != nil {
		panic(err)
	}
	log.Info("connect sqlite db success")
	return &Wdb{Db: db}
}

func (w *Wdb) Migrate() error {
	return w.Db.AutoMigrate(
		&schema.Domain{}, &schema.Subdomain{},
		&schema.SubdomainTextRecord{}, &schema.SubdomainCoinType{},
		&schema.DomainTextRecord{}, &schema.DomainCoinType{},
		&schema.DomainKey{}, &schema.DomainAdmin{}, &schema.EngagementLog{},
	)
}

func (w *Wdb) Close() {
	sql, err := w.Db.DB()
	if err == nil {
		sql.Close()
	}
}

// WithTx returns a view of the same store bound to tx, so every write
// issued through it joins the caller's transaction.
func (w *Wdb) WithTx(tx *gorm.DB) *Wdb {
	return &Wdb{Db: tx}
}

func (w *Wdb) GetDomain(name, network string) (schema.Domain, error) {
	res := schema.Domain{}
	err := w.Db.Where("name = ? AND network = ?", name, network).First(&res).Error
	if err == gorm.ErrRecordNotFound {
		return res, schema.ErrDomainNotFound
	}
	return res, err
}

func (w *Wdb) UpdateDomain(domain *schema.Domain) error {
	return w.Db.Save(domain).Error
}

func (w *Wdb) CountSubdomains(domainId uint) (int64, error) {
	var count int64
	err := w.Db.Model(&schema.Subdomain{}).Where("domain_id = ?", domainId).Count(&count).Error
	return count, err
}

func (w *Wdb) GetSubdomain(domainId uint, name string) (schema.Subdomain, error) {
	res := schema.Subdomain{}
	err := w.Db.Where("name = ? AND domain_id = ?", name, domainId).First(&res).Error
	if err == gorm.ErrRecordNotFound {
		return res, schema.ErrNameNotFound
	}
	return res, err
}

func (w *Wdb) InsertSubdomain(sub *schema.Subdomain) error {
	return w.Db.Create(sub).Error
}

func (w *Wdb) UpdateSubdomain(sub *schema.Subdomain) error {
	return w.Db.Save(sub).Error
}

// ReplaceSubdomainTextRecords implements full-replace semantics: the delete
// completes before any insert so unique keys never collide.
func (w *Wdb) ReplaceSubdomainTextRecords(subdomainId uint, records map[string]string) error {
	err := w.Db.Where("subdomain_id = ?", subdomainId).Delete(&schema.SubdomainTextRecord{}).Error
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	rows := make([]schema.SubdomainTextRecord, 0, len(records))
	for k, v := range records {
		rows = append(rows, schema.SubdomainTextRecord{SubdomainID: subdomainId, Key: k, Value: v})
	}
	return w.Db.Create(&rows).Error
}

func (w *Wdb) ReplaceSubdomainCoinTypes(subdomainId uint, coins map[uint64]string) error {
	err := w.Db.Where("subdomain_id = ?", subdomainId).Delete(&schema.SubdomainCoinType{}).Error
	if err != nil {
		return err
	}
	if len(coins) == 0 {
		return nil
	}
	rows := make([]schema.SubdomainCoinType, 0, len(coins))
	for ct, v := range coins {
		rows = append(rows, schema.SubdomainCoinType{SubdomainID: subdomainId, CoinType: ct, Value: v})
	}
	return w.Db.Create(&rows).Error
}

func (w *Wdb) GetSubdomainTextRecords(subdomainId uint) (map[string]string, error) {
	rows := make([]schema.SubdomainTextRecord, 0)
	err := w.Db.Where("subdomain_id = ?", subdomainId).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	res := make(map[string]string, len(rows))
	for _, r := range rows {
		res[r.Key] = r.Value
	}
	return res, nil
}

func (w *Wdb) GetSubdomainCoinTypes(subdomainId uint) (map[uint64]string, error) {
	rows := make([]schema.SubdomainCoinType, 0)
	err := w.Db.Where("subdomain_id = ?", subdomainId).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	res := make(map[uint64]string, len(rows))
	for _, r := range rows {
		res[r.CoinType] = r.Value
	}
	return res, nil
}

// DeleteSubdomain removes the row together with both child sets.
func (w *Wdb) DeleteSubdomain(sub schema.Subdomain) error {
	if err := w.Db.Where("subdomain_id = ?", sub.ID).Delete(&schema.SubdomainTextRecord{}).Error; err != nil {
		return err
	}
	if err := w.Db.Where("subdomain_id = ?", sub.ID).Delete(&schema.SubdomainCoinType{}).Error; err != nil {
		return err
	}
	return w.Db.Delete(&schema.Subdomain{}, sub.ID).Error
}

func (w *Wdb) ReplaceDomainTextRecords(domainId uint, records map[string]string) error {
	err := w.Db.Where("domain_id = ?", domainId).Delete(&schema.DomainTextRecord{}).Error
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	rows := make([]schema.DomainTextRecord, 0, len(records))
	for k, v := range records {
		rows = append(rows, schema.DomainTextRecord{DomainID: domainId, Key: k, Value: v})
	}
	return w.Db.Create(&rows).Error
}

func (w *Wdb) ReplaceDomainCoinTypes(domainId uint, coins map[uint64]string) error {
	err := w.Db.Where("domain_id = ?", domainId).Delete(&schema.DomainCoinType{}).Error
	if err != nil {
		return err
	}
	if len(coins) == 0 {
		return nil
	}
	rows := make([]schema.DomainCoinType, 0, len(coins))
	for ct, v := range coins {
		rows = append(rows, schema.DomainCoinType{DomainID: domainId, CoinType: ct, Value: v})
	}
	return w.Db.Create(&rows).Error
}

func (w *Wdb) ExistDomainKey(domainId uint, key string) bool {
	var count int64
	err := w.Db.Model(&schema.DomainKey{}).
		Where("domain_id = ? AND `key` = ?", domainId, key).Count(&count).Error
	return err == nil && count > 0
}

func (w *Wdb) ExistDomainAdmin(domainId uint, identity string) bool {
	var count int64
	// domain_id 0 marks a super admin
	err := w.Db.Model(&schema.DomainAdmin{}).
		Where("identity = ? AND domain_id IN (0, ?)", identity, domainId).Count(&count).Error
	return err == nil && count > 0
}

func (w *Wdb) InsertDomainKey(key schema.DomainKey) error {
	return w.Db.Create(&key).Error
}

func (w *Wdb) InsertDomainAdmin(admin schema.DomainAdmin) error {
	return w.Db.Create(&admin).Error
}

func (w *Wdb) InsertEngagementLog(el schema.EngagementLog) error {
	return w.Db.Create(&el).Error
}
