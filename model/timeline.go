package model

import "time"

//TimelineEntry tracks one recipient's delivery milestones for one send.
//Identity is the (InstanceId, Recipient, ExternalId) triple, enforced by
//the synthetic Key since the store supports single-field primary keys only.
//Timestamp fields are set once and never cleared or moved.
type TimelineEntry struct {
	Key         string `storm:"id"`
	InstanceId  string `storm:"index"`
	Recipient   string `storm:"index"`
	ExternalId  string `storm:"index"`
	InitiatedAt *time.Time
	SentAt      *time.Time
	DeliveredAt *time.Time
	ReadAt      *time.Time
	FailedAt    *time.Time
	CreatedAt   time.Time `storm:"index"`
}

//TimelineKey builds the compound primary key of a timeline entry
func TimelineKey(instanceId, recipient, externalId string) string {
	return instanceId + "|" + recipient + "|" + externalId
}
