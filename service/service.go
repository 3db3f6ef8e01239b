package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/AyanDgr8/wa-api-back/dao"
	"github.com/AyanDgr8/wa-api-back/model"
	"github.com/AyanDgr8/wa-api-back/reconcile"
	"github.com/AyanDgr8/wa-api-back/service/dto"
	"github.com/AyanDgr8/wa-api-back/status"
	"github.com/AyanDgr8/wa-api-back/util"
	"github.com/AyanDgr8/wa-api-back/wa"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type InvalidPayloadErr struct {
	message string
}

func (e *InvalidPayloadErr) Error() string {
	return e.message
}

func NewInvalidPayloadError(msg string) *InvalidPayloadErr {
	return &InvalidPayloadErr{message: msg}
}

type Service interface {
	TrackMessage(instanceId string, req dto.TrackRequest) (dto.Id, error)
	ReportMessage(instanceId, externalId string) (dto.MessageReport, error)
	ReportRecipient(instanceId, recipient string) (dto.RecipientReport, error)
}

type service struct {
	engine          reconcile.Engine
	messageDao      dao.MessageDao
	timelineDao     dao.TimelineDao
	httpClient      *http.Client
	limiter         *rate.Limiter
	statusStoreDays int
	webhook         string
	recipientRx     *regexp.Regexp
}

func NewService(relay wa.Relay, engine reconcile.Engine, messageDao dao.MessageDao, timelineDao dao.TimelineDao, statusStoreDays int, webhook, recipientMask string) Service {
	service := &service{
		engine:          engine,
		messageDao:      messageDao,
		timelineDao:     timelineDao,
		statusStoreDays: statusStoreDays,
		webhook:         webhook,
		recipientRx:     regexp.MustCompile(recipientMask),
		httpClient:      &http.Client{Timeout: 10 * time.Second},
		limiter:         rate.NewLimiter(rate.Limit(1), 5),
	}

	relay.BindStatusHandler(service.HandleStatusEvent)
	relay.BindReceiptHandler(service.HandleReceiptEvent)

	go service.CleanupDb()

	return service
}

func (s service) CleanupDb() {
	for {
		err := s.messageDao.RemoveOlderThanDays(s.statusStoreDays)
		if err != nil {
			zap.L().Warn("Error cleaning up messages", zap.Error(err))
		}
		err = s.timelineDao.RemoveOlderThanDays(s.statusStoreDays)
		if err != nil {
			zap.L().Warn("Error cleaning up timeline entries", zap.Error(err))
		}
		time.Sleep(time.Hour)
	}
}

func (s service) HandleStatusEvent(event wa.StatusEvent) {
	s.applyEvent(event.InstanceId, event.ExternalId, status.FromCode(event.Code))
}

func (s service) HandleReceiptEvent(event wa.ReceiptEvent) {
	s.applyEvent(event.InstanceId, event.ExternalId, status.FromReceipt(event.Kind))
}

//applyEvent reconciles one event. Errors are logged with full context and
//swallowed, a single failed event must never stop the stream.
func (s service) applyEvent(instanceId, externalId, canonicalStatus string) {
	result, err := s.engine.Apply(instanceId, externalId, canonicalStatus)
	if err != nil {
		zap.L().Error("Error reconciling delivery event",
			zap.String("instanceId", instanceId),
			zap.String("externalId", externalId),
			zap.String("status", canonicalStatus),
			zap.Time("at", time.Now()),
			zap.Error(err))
		return
	}

	zap.L().Info("Reconciled delivery event",
		zap.String("instanceId", instanceId),
		zap.String("externalId", externalId),
		zap.String("status", canonicalStatus),
		zap.Int("updated", result.Updated))

	if util.IsBlank(s.webhook) {
		return
	}
	if canonicalStatus == model.StatusRead || canonicalStatus == model.StatusFailed {
		//do not block the listener loop on the webhook
		go s.notifyWebhook(instanceId, externalId)
	}
}

func (s service) notifyWebhook(instanceId, externalId string) {
	if err := s.limiter.Wait(context.Background()); err != nil {
		return
	}

	report, err := s.ReportMessage(instanceId, externalId)
	if err != nil {
		zap.L().Error("Error building webhook report", zap.Error(err))
		return
	}

	reportBytes, err := json.Marshal(report)
	if err != nil {
		zap.L().Error("Error building webhook report", zap.Error(err))
		return
	}

	req, err := http.NewRequest("POST", s.webhook, bytes.NewBuffer(reportBytes))
	if err != nil {
		zap.L().Error("Error calling web hook", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		zap.L().Error("Error calling web hook", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if !(resp.StatusCode >= 200 && resp.StatusCode <= 202) {
		zap.L().Warn("Webhook returned unexpected status", zap.String("status", resp.Status))
	}
}

func (s service) TrackMessage(instanceId string, req dto.TrackRequest) (dto.Id, error) {

	//overall payload validation
	if util.IsBlank(instanceId) || len(req.Recipients) == 0 {
		return dto.Id{}, NewInvalidPayloadError("Invalid message")
	}

	//check recipient format
	for _, recipient := range req.Recipients {
		if !s.recipientRx.MatchString(recipient) {
			return dto.Id{}, NewInvalidPayloadError("Invalid recipient " + recipient)
		}
	}

	//remove duplicates preserving order
	seen := make(map[string]bool)
	var unique []string
	for _, recipient := range req.Recipients {
		recipient = strings.TrimSpace(recipient)
		if recipient == "" || seen[recipient] {
			continue
		}
		seen[recipient] = true
		unique = append(unique, recipient)
	}

	msgId, err := s.messageDao.Create(instanceId, strings.Join(unique, model.RecipientDelimiter), req.ExternalId)
	if err != nil {
		return dto.Id{}, err
	}

	return dto.Id{Id: msgId}, nil
}

func (s service) ReportMessage(instanceId, externalId string) (dto.MessageReport, error) {
	msg, err := s.messageDao.FindByExternalId(instanceId, externalId)
	if err != nil {
		return dto.MessageReport{}, err
	}
	entries, err := s.timelineDao.FindByExternalId(instanceId, externalId)
	if err != nil {
		return dto.MessageReport{}, err
	}

	report := dto.MessageReport{
		InstanceId: msg.InstanceId,
		ExternalId: msg.ExternalId,
		Status:     msg.Status,
	}
	recipients := []dto.RecipientTimeline{}
	for _, entry := range entries {
		recipients = append(recipients, dto.RecipientTimeline{
			Recipient:   entry.Recipient,
			InitiatedAt: entry.InitiatedAt,
			SentAt:      entry.SentAt,
			DeliveredAt: entry.DeliveredAt,
			ReadAt:      entry.ReadAt,
			FailedAt:    entry.FailedAt,
		})
	}
	report.Recipients = recipients

	return report, nil
}

func (s service) ReportRecipient(instanceId, recipient string) (dto.RecipientReport, error) {
	entries, err := s.timelineDao.FindByRecipient(instanceId, recipient)
	if err != nil {
		return dto.RecipientReport{}, err
	}
	if len(entries) == 0 {
		return dto.RecipientReport{}, dao.ErrNotFound
	}

	report := dto.RecipientReport{
		InstanceId: instanceId,
		Recipient:  recipient,
	}
	timeline := []dto.TimelineRow{}
	for _, entry := range entries {
		timeline = append(timeline, dto.TimelineRow{
			ExternalId:  entry.ExternalId,
			InitiatedAt: entry.InitiatedAt,
			SentAt:      entry.SentAt,
			DeliveredAt: entry.DeliveredAt,
			ReadAt:      entry.ReadAt,
			FailedAt:    entry.FailedAt,
		})
	}
	report.Timeline = timeline

	return report, nil
}
