//Package resolver maps transport-supplied external identifiers to locally
//tracked messages using a tiered matching strategy.
package resolver

import (
	"errors"

	"github.com/AyanDgr8/wa-api-back/dao"
	"github.com/AyanDgr8/wa-api-back/metrics"
	"github.com/AyanDgr8/wa-api-back/model"
	"go.uber.org/zap"
)

//ErrNotFound is returned when no tier matched the external identifier.
//The event is dropped, a later event for the same identifier is expected
//to succeed once the message record exists.
var ErrNotFound = errors.New("message not found")

//Tier tells how a resolution was obtained. Callers can distinguish a
//certain match from a guessed one.
type Tier int

const (
	//TierExact means the stored external id equals the event's identifier
	TierExact Tier = iota
	//TierFuzzy means the stored external id contains the event's identifier
	//as a substring (transports decorate identifiers with prefixes/suffixes)
	TierFuzzy
	//TierFallback means no id matched and the newest pending message of the
	//instance was assumed to be the target, with its external id backfilled.
	//This is a heuristic and can misattribute an event.
	TierFallback
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierFuzzy:
		return "fuzzy"
	case TierFallback:
		return "fallback"
	}
	return "unknown"
}

type Resolution struct {
	Message model.Message
	Tier    Tier
}

type Resolver interface {
	//Resolve finds the message the external identifier refers to within the instance
	Resolve(instanceId, externalId string) (Resolution, error)
}

func NewResolver(messageDao dao.MessageDao) Resolver {
	return &resolver{messageDao: messageDao}
}

type resolver struct {
	messageDao dao.MessageDao
}

func (r resolver) Resolve(instanceId, externalId string) (Resolution, error) {
	msg, err := r.messageDao.FindByExternalId(instanceId, externalId)
	if err == nil {
		metrics.ResolutionTiers.WithLabelValues(TierExact.String()).Inc()
		return Resolution{Message: msg, Tier: TierExact}, nil
	}
	if err != dao.ErrNotFound {
		return Resolution{}, err
	}

	msg, err = r.messageDao.FindByExternalIdLike(instanceId, externalId)
	if err == nil {
		metrics.ResolutionTiers.WithLabelValues(TierFuzzy.String()).Inc()
		return Resolution{Message: msg, Tier: TierFuzzy}, nil
	}
	if err != dao.ErrNotFound {
		return Resolution{}, err
	}

	msg, err = r.messageDao.FindMostRecentPending(instanceId)
	if err == dao.ErrNotFound {
		return Resolution{}, ErrNotFound
	}
	if err != nil {
		return Resolution{}, err
	}

	if err := r.messageDao.BackfillExternalId(msg.Id, externalId); err != nil {
		return Resolution{}, err
	}
	msg.ExternalId = externalId

	zap.L().Warn("Resolved event to newest pending message, backfilled external id",
		zap.String("instanceId", instanceId),
		zap.String("externalId", externalId),
		zap.Uint32("messageId", msg.Id))
	metrics.ResolutionTiers.WithLabelValues(TierFallback.String()).Inc()

	return Resolution{Message: msg, Tier: TierFallback}, nil
}
