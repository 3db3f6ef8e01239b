package wa

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu       sync.Mutex
	statuses []StatusEvent
	receipts []ReceiptEvent
}

func (r *recorder) status(event StatusEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, event)
}

func (r *recorder) receipt(event ReceiptEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.receipts = append(r.receipts, event)
}

func (r *recorder) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.statuses), len(r.receipts)
}

func TestRelay_Dispatch(t *testing.T) {
	rec := &recorder{}
	relay := NewRelay(10)
	relay.BindStatusHandler(rec.status)
	relay.BindReceiptHandler(rec.receipt)
	relay.Start()

	relay.PublishStatus(StatusEvent{InstanceId: "inst-1", ExternalId: "WA123", Code: 3})
	relay.PublishReceipt(ReceiptEvent{InstanceId: "inst-1", ExternalId: "WA123", Kind: "read"})

	require.Eventually(t, func() bool {
		statuses, receipts := rec.counts()
		return statuses == 1 && receipts == 1
	}, time.Second, 5*time.Millisecond)

	relay.Stop()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Equal(t, 3, rec.statuses[0].Code)
	require.Equal(t, "read", rec.receipts[0].Kind)
}

func TestRelay_SkipsMalformedEvents(t *testing.T) {
	rec := &recorder{}
	relay := NewRelay(10)
	relay.BindStatusHandler(rec.status)
	relay.BindReceiptHandler(rec.receipt)
	relay.Start()

	//missing key parts must be skipped before the engine is invoked
	relay.PublishStatus(StatusEvent{InstanceId: "", ExternalId: "WA123", Code: 3})
	relay.PublishStatus(StatusEvent{InstanceId: "inst-1", ExternalId: "  ", Code: 3})
	relay.PublishReceipt(ReceiptEvent{InstanceId: "inst-1", ExternalId: "WA123", Kind: ""})
	relay.PublishStatus(StatusEvent{InstanceId: "inst-1", ExternalId: "WA123", Code: 3})

	require.Eventually(t, func() bool {
		statuses, _ := rec.counts()
		return statuses == 1
	}, time.Second, 5*time.Millisecond)

	relay.Stop()

	statuses, receipts := rec.counts()
	require.Equal(t, 1, statuses)
	require.Equal(t, 0, receipts)
}

func TestRelay_StopDrainsLoops(t *testing.T) {
	relay := NewRelay(10)
	relay.Start()

	done := make(chan struct{})
	go func() {
		relay.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestRelay_IndependentStreams(t *testing.T) {
	rec := &recorder{}
	relay := NewRelay(10)
	relay.BindStatusHandler(func(event StatusEvent) {
		//a slow status handler must not delay the receipt stream
		time.Sleep(500 * time.Millisecond)
		rec.status(event)
	})
	relay.BindReceiptHandler(rec.receipt)
	relay.Start()

	relay.PublishStatus(StatusEvent{InstanceId: "inst-1", ExternalId: "WA1", Code: 2})
	relay.PublishReceipt(ReceiptEvent{InstanceId: "inst-1", ExternalId: "WA2", Kind: "delivered"})

	require.Eventually(t, func() bool {
		_, receipts := rec.counts()
		return receipts == 1
	}, 250*time.Millisecond, time.Millisecond)

	relay.Stop()
}
