//Package reconcile advances per-recipient delivery timelines from
//asynchronous transport events. Events may arrive out of order, duplicated
//and concurrently; each application is an independent unit of work.
package reconcile

import (
	"time"

	"github.com/AyanDgr8/wa-api-back/dao"
	"github.com/AyanDgr8/wa-api-back/metrics"
	"github.com/AyanDgr8/wa-api-back/model"
	"github.com/AyanDgr8/wa-api-back/resolver"
	"github.com/AyanDgr8/wa-api-back/status"
	"github.com/AyanDgr8/wa-api-back/util"
	"go.uber.org/zap"
)

type Result struct {
	Success bool
	Updated int
}

type Engine interface {
	//Apply reconciles one delivery event: resolves the message, overwrites
	//its latest status and upserts one timeline row per recipient.
	Apply(instanceId, externalId, canonicalStatus string) (Result, error)
}

func NewEngine(res resolver.Resolver, messageDao dao.MessageDao, timelineDao dao.TimelineDao) Engine {
	return &engine{
		resolver:    res,
		messageDao:  messageDao,
		timelineDao: timelineDao,
		now:         time.Now,
	}
}

type engine struct {
	resolver    resolver.Resolver
	messageDao  dao.MessageDao
	timelineDao dao.TimelineDao
	now         func() time.Time
}

func (e engine) Apply(instanceId, externalId, canonicalStatus string) (Result, error) {
	res, err := e.resolver.Resolve(instanceId, externalId)
	if err != nil {
		metrics.EventsProcessed.WithLabelValues(instanceId, "unresolved").Inc()
		return Result{}, err
	}
	msg := res.Message

	if !status.IsValid(canonicalStatus) {
		//transport payloads are not schema-guaranteed, downgrade instead of rejecting
		zap.L().Warn("Unrecognized canonical status, downgrading to sent",
			zap.String("instanceId", instanceId),
			zap.String("externalId", externalId),
			zap.String("status", canonicalStatus))
		canonicalStatus = model.StatusSent
	}

	//the message status is a last-write-wins display projection, the
	//timeline below is the monotonic source of truth
	if _, err := e.messageDao.SetStatus(msg.Id, canonicalStatus); err != nil {
		metrics.EventsProcessed.WithLabelValues(instanceId, "error").Inc()
		return Result{}, err
	}

	field := status.FieldFor(canonicalStatus)
	ts := e.now()
	updated := 0
	for _, recipient := range util.SplitList(msg.Recipients, model.RecipientDelimiter) {
		written, err := e.timelineDao.Upsert(instanceId, recipient, msg.ExternalId, field, ts, msg.CreatedAt)
		if err != nil {
			metrics.EventsProcessed.WithLabelValues(instanceId, "error").Inc()
			return Result{Updated: updated}, err
		}
		if written {
			updated++
			metrics.TimelineWrites.WithLabelValues(instanceId).Inc()
		}
	}

	metrics.EventsProcessed.WithLabelValues(instanceId, "ok").Inc()
	return Result{Success: true, Updated: updated}, nil
}
