package nameseed

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/seed-labs/nameseed/schema"
)

const engagementPoolSize = 10

// Engagement is the best-effort audit trail. Writes run on a bounded
// goroutine pool and never propagate failure to the operation that
// triggered them.
type Engagement struct {
	wdb  *Wdb
	pool *ants.Pool
	kw   *KWriter // nil when kafka is not configured
}

func NewEngagement(wdb *Wdb, kw *KWriter) *Engagement {
	pool, err := ants.NewPool(engagementPoolSize, ants.WithNonblocking(true))
	if err != nil {
		panic(err)
	}
	return &Engagement{
		wdb:  wdb,
		pool: pool,
		kw:   kw,
	}
}

// Log records one engagement event, fire and forget.
func (e *Engagement) Log(actor, event string, details interface{}) {
	by, err := json.Marshal(details)
	if err != nil {
		log.Warn("marshal engagement details failed", "err", err, "event", event)
		return
	}
	eventId := uuid.NewString()
	err = e.pool.Submit(func() {
		el := schema.EngagementLog{
			EventID: eventId,
			Actor:   actor,
			Event:   event,
			Details: by,
		}
		if err := e.wdb.InsertEngagementLog(el); err != nil {
			log.Warn("insert engagement log failed", "err", err, "event", event, "actor", actor)
		}
		if e.kw != nil {
			if err := e.kw.Write(by); err != nil {
				log.Warn("write engagement event to kafka failed", "err", err, "event", event)
			}
		}
	})
	if err != nil {
		// pool full or closed; the primary operation already succeeded
		log.Warn("submit engagement task failed", "err", err, "event", event)
	}
}

func (e *Engagement) Close() {
	e.pool.Release()
	if e.kw != nil {
		e.kw.Close()
	}
}
