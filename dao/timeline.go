package dao

import (
	"time"

	"github.com/AyanDgr8/wa-api-back/model"
	"github.com/asdine/storm/v3/q"
)

//Field names a timeline timestamp column
type Field string

const (
	FieldInitiated Field = "InitiatedAt"
	FieldSent      Field = "SentAt"
	FieldDelivered Field = "DeliveredAt"
	FieldRead      Field = "ReadAt"
	FieldFailed    Field = "FailedAt"
)

type TimelineDao interface {
	//Upsert sets the given timestamp field of the entry identified by
	//(instanceId, recipient, externalId) if the field is not already set,
	//creating the entry seeded with initiatedAt on first write.
	//Returns true when a field was actually written.
	Upsert(instanceId, recipient, externalId string, field Field, ts, initiatedAt time.Time) (bool, error)
	//GetOne returns the entry identified by (instanceId, recipient, externalId)
	GetOne(instanceId, recipient, externalId string) (model.TimelineEntry, error)
	//FindByExternalId returns all entries of one send in the instance
	FindByExternalId(instanceId, externalId string) ([]model.TimelineEntry, error)
	//FindByRecipient returns all entries of one recipient in the instance
	FindByRecipient(instanceId, recipient string) ([]model.TimelineEntry, error)
	//RemoveOlderThanDays removes all entries older than {days}
	RemoveOlderThanDays(days int) error
}

func NewTimelineDao(db Db) TimelineDao {
	return &timelineDao{db: db}
}

type timelineDao struct {
	db Db
}

//setIfNil writes ts into the entry field when the field is still null.
//Reports whether a write happened.
func setIfNil(entry *model.TimelineEntry, field Field, ts time.Time) bool {
	t := ts
	switch field {
	case FieldInitiated:
		if entry.InitiatedAt != nil {
			return false
		}
		entry.InitiatedAt = &t
	case FieldSent:
		if entry.SentAt != nil {
			return false
		}
		entry.SentAt = &t
	case FieldDelivered:
		if entry.DeliveredAt != nil {
			return false
		}
		entry.DeliveredAt = &t
	case FieldRead:
		if entry.ReadAt != nil {
			return false
		}
		entry.ReadAt = &t
	case FieldFailed:
		if entry.FailedAt != nil {
			return false
		}
		entry.FailedAt = &t
	default:
		return false
	}
	return true
}

func (d timelineDao) Upsert(instanceId, recipient, externalId string, field Field, ts, initiatedAt time.Time) (bool, error) {
	//the check-then-act below must be atomic, bolt serializes write
	//transactions so concurrent upserts cannot double-initialize a field
	tx, err := d.db.Begin(true)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	key := model.TimelineKey(instanceId, recipient, externalId)
	var entry model.TimelineEntry
	err = tx.One("Key", key, &entry)
	if err == ErrNotFound {
		entry = model.TimelineEntry{
			Key:        key,
			InstanceId: instanceId,
			Recipient:  recipient,
			ExternalId: externalId,
			CreatedAt:  time.Now(),
		}
		entry.InitiatedAt = &initiatedAt
		setIfNil(&entry, field, ts)
		if err := tx.Save(&entry); err != nil {
			return false, err
		}
		return true, tx.Commit()
	}
	if err != nil {
		return false, err
	}

	if !setIfNil(&entry, field, ts) {
		//field already populated, repeated events are no-ops
		return false, tx.Commit()
	}
	if err := tx.Update(&entry); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

func (d timelineDao) GetOne(instanceId, recipient, externalId string) (entry model.TimelineEntry, err error) {
	err = d.db.One("Key", model.TimelineKey(instanceId, recipient, externalId), &entry)
	return
}

func (d timelineDao) FindByExternalId(instanceId, externalId string) ([]model.TimelineEntry, error) {
	var entries []model.TimelineEntry
	err := d.db.Select(q.Eq("InstanceId", instanceId), q.Eq("ExternalId", externalId)).
		OrderBy("Recipient").Find(&entries)
	if err == ErrNotFound {
		return nil, nil
	}
	return entries, err
}

func (d timelineDao) FindByRecipient(instanceId, recipient string) ([]model.TimelineEntry, error) {
	var entries []model.TimelineEntry
	err := d.db.Select(q.Eq("InstanceId", instanceId), q.Eq("Recipient", recipient)).
		OrderBy("CreatedAt").Find(&entries)
	if err == ErrNotFound {
		return nil, nil
	}
	return entries, err
}

func (d timelineDao) RemoveOlderThanDays(days int) error {
	err := d.db.Select(q.Lt("CreatedAt", time.Now().Add(-24*time.Duration(days)*time.Hour))).Delete(&model.TimelineEntry{})
	if err != nil && err != ErrNotFound {
		return err
	}
	return nil
}
