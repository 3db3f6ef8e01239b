//Package wa carries delivery events between the transport-facing edge and
//the reconciliation engine. Two independent streams exist: status updates
//and receipts. Each stream runs its own receive-and-dispatch loop, the
//loops share nothing beyond the stores behind the bound handlers.
package wa

import (
	"sync"

	"github.com/AyanDgr8/wa-api-back/metrics"
	"github.com/AyanDgr8/wa-api-back/util"
	"github.com/cskr/pubsub"
	"go.uber.org/zap"
)

const (
	statusTopic  = "status-updates"
	receiptTopic = "receipt-updates"
)

//StatusEvent is a raw status callback: the transport's message key plus a
//numeric status code
type StatusEvent struct {
	InstanceId string
	ExternalId string
	Code       int
}

//ReceiptEvent is a raw receipt callback: the transport's message key plus
//a receipt kind ("read" or "delivered")
type ReceiptEvent struct {
	InstanceId string
	ExternalId string
	Kind       string
}

type StatusHandler func(StatusEvent)
type ReceiptHandler func(ReceiptEvent)

type Relay interface {
	Start()
	Stop()
	PublishStatus(event StatusEvent)
	PublishReceipt(event ReceiptEvent)
	BindStatusHandler(handler StatusHandler)
	BindReceiptHandler(handler ReceiptHandler)
}

type relay struct {
	ps             *pubsub.PubSub
	statusIn       chan interface{}
	receiptIn      chan interface{}
	statusHandler  StatusHandler
	receiptHandler ReceiptHandler
	wg             sync.WaitGroup
}

func NewRelay(bufferSize int) Relay {
	ps := pubsub.New(bufferSize)
	return &relay{
		ps:        ps,
		statusIn:  ps.Sub(statusTopic),
		receiptIn: ps.Sub(receiptTopic),
	}
}

func (r *relay) BindStatusHandler(handler StatusHandler) {
	r.statusHandler = handler
}

func (r *relay) BindReceiptHandler(handler ReceiptHandler) {
	r.receiptHandler = handler
}

func (r *relay) PublishStatus(event StatusEvent) {
	r.ps.Pub(event, statusTopic)
}

func (r *relay) PublishReceipt(event ReceiptEvent) {
	r.ps.Pub(event, receiptTopic)
}

func (r *relay) Start() {
	r.wg.Add(2)
	go r.statusLoop()
	go r.receiptLoop()
}

//Stop shuts the bus down and waits for both loops to drain
func (r *relay) Stop() {
	r.ps.Shutdown()
	r.wg.Wait()
}

func (r *relay) statusLoop() {
	defer r.wg.Done()
	for val := range r.statusIn {
		event, ok := val.(StatusEvent)
		if !ok {
			continue
		}
		if util.IsBlank(event.InstanceId) || util.IsBlank(event.ExternalId) {
			zap.L().Warn("Skipping malformed status event",
				zap.String("instanceId", event.InstanceId),
				zap.String("externalId", event.ExternalId))
			metrics.EventsSkipped.WithLabelValues("status").Inc()
			continue
		}
		if r.statusHandler != nil {
			r.statusHandler(event)
		}
	}
}

func (r *relay) receiptLoop() {
	defer r.wg.Done()
	for val := range r.receiptIn {
		event, ok := val.(ReceiptEvent)
		if !ok {
			continue
		}
		if util.IsBlank(event.InstanceId) || util.IsBlank(event.ExternalId) || util.IsBlank(event.Kind) {
			zap.L().Warn("Skipping malformed receipt event",
				zap.String("instanceId", event.InstanceId),
				zap.String("externalId", event.ExternalId),
				zap.String("kind", event.Kind))
			metrics.EventsSkipped.WithLabelValues("receipt").Inc()
			continue
		}
		if r.receiptHandler != nil {
			r.receiptHandler(event)
		}
	}
}
