package schema

const (
	EventNameUpsert = "name_upsert"
	EventNameBatch  = "name_batch_upsert"
	EventNameDelete = "name_delete"
)

// UpsertNameReq is the single-name create-or-update request body.
// TextRecords and CoinTypes follow full-replace semantics: a nil map leaves
// the record with zero entries after the call, it never means "unchanged".
type UpsertNameReq struct {
	Domain  string `json:"domain"`
	Network string `json:"network"`
	Name    string `json:"name"`

	// pointer so an explicit "" survives as a stored empty address
	Address     *string           `json:"address"`
	ContentURI  string            `json:"contentUri"`
	TextRecords map[string]string `json:"textRecords"`
	CoinTypes   map[uint64]string `json:"coinTypes"`
}

type BatchNameItem struct {
	Name        string            `json:"name"`
	Address     *string           `json:"address"`
	ContentURI  string            `json:"contentUri"`
	TextRecords map[string]string `json:"textRecords"`
	CoinTypes   map[uint64]string `json:"coinTypes"`
}

type BatchNameReq struct {
	Domain  string          `json:"domain"`
	Network string          `json:"network"`
	Names   []BatchNameItem `json:"names"`
}

type RespUpsert struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Created bool   `json:"created"`
}

type RespBatch struct {
	ProcessedCount int          `json:"processedCount"`
	Results        []RespUpsert `json:"results"`
}

// BatchItemErr reports one failed item of a batch. The batch commits
// all-or-nothing, so a non-empty error list always means zero rows written,
// including for the items absent from the list.
type BatchItemErr struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Err   string `json:"error"`
}

type RespBatchErr struct {
	Err            string         `json:"error"`
	ItemErrors     []BatchItemErr `json:"itemErrors"`
	TotalAttempted int            `json:"totalAttempted"`
}

func (r RespBatchErr) Error() string {
	return r.Err
}

type RespName struct {
	Subdomain
	Domain      string            `json:"domain"`
	TextRecords map[string]string `json:"textRecords"`
	CoinTypes   map[uint64]string `json:"coinTypes"`
}

type RespDomain struct {
	Domain
	SubdomainCount int64 `json:"subdomainCount"`
}

type RespErr struct {
	Err string `json:"error"`
}

func (r RespErr) Error() string {
	return r.Err
}
