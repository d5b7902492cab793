package repository

import (
	"time"

	"github.com/google/uuid"

	bCtx "github.com/shadowlabs-sol/shadow/base/ctx"
	"github.com/shadowlabs-sol/shadow/base/log"
	"github.com/shadowlabs-sol/shadow/domain"
	"github.com/shadowlabs-sol/shadow/domain/event"
	"github.com/shadowlabs-sol/shadow/service/query"
)

type eventRepoImpl struct {
	q query.Mongo
}

// NewEventRepo persists emitted events to the event log table. Observers
// tail the table instead of subscribing in-process.
func NewEventRepo(q query.Mongo) event.Emitter {
	return &eventRepoImpl{q: q}
}

func (r *eventRepoImpl) Emit(ctx bCtx.Ctx, eventType event.Type, payload interface{}) error {
	e := &event.Event{
		EventId:   uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		Payload:   payload,
	}
	if err := r.q.Insert(ctx, domain.TableEvents, e); err != nil {
		ctx.WithFields(log.Fields{"err": err, "type": eventType}).Error("q.Insert failed")
		return err
	}
	ctx.WithFields(log.Fields{"type": eventType, "eventId": e.EventId}).Info("event emitted")
	return nil
}
