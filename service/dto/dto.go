package dto

import "time"

type Id struct {
	Id uint32 `json:"id"`
}

type TrackRequest struct {
	Recipients []string `json:"recipients"`
	ExternalId string   `json:"externalId,omitempty"`
}

type CallbackKey struct {
	Id string `json:"id"`
}

type StatusCallback struct {
	Key    CallbackKey `json:"key"`
	Status *int        `json:"status"`
}

type Receipt struct {
	Type string `json:"type"`
}

type ReceiptCallback struct {
	Key     CallbackKey `json:"key"`
	Receipt *Receipt    `json:"receipt"`
}

type RecipientTimeline struct {
	Recipient   string     `json:"recipient"`
	InitiatedAt *time.Time `json:"initiatedAt,omitempty"`
	SentAt      *time.Time `json:"sentAt,omitempty"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
	ReadAt      *time.Time `json:"readAt,omitempty"`
	FailedAt    *time.Time `json:"failedAt,omitempty"`
}

type MessageReport struct {
	InstanceId string              `json:"instanceId"`
	ExternalId string              `json:"externalId"`
	Status     string              `json:"status"`
	Recipients []RecipientTimeline `json:"recipients"`
}

type TimelineRow struct {
	ExternalId  string     `json:"externalId"`
	InitiatedAt *time.Time `json:"initiatedAt,omitempty"`
	SentAt      *time.Time `json:"sentAt,omitempty"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
	ReadAt      *time.Time `json:"readAt,omitempty"`
	FailedAt    *time.Time `json:"failedAt,omitempty"`
}

type RecipientReport struct {
	InstanceId string        `json:"instanceId"`
	Recipient  string        `json:"recipient"`
	Timeline   []TimelineRow `json:"timeline"`
}
