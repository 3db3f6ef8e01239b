package dao

import (
	"strings"
	"time"

	"github.com/AyanDgr8/wa-api-back/model"
	"github.com/asdine/storm/v3/q"
)

type MessageDao interface {
	//Create creates a message record in pending status and returns its id
	Create(instanceId, recipients, externalId string) (uint32, error)
	//GetOneById returns message by id
	GetOneById(id uint32) (model.Message, error)
	//FindByExternalId returns the message in the instance whose external id equals the given one
	FindByExternalId(instanceId, externalId string) (model.Message, error)
	//FindByExternalIdLike returns the newest message in the instance whose external id contains the given fragment
	FindByExternalIdLike(instanceId, fragment string) (model.Message, error)
	//FindMostRecentPending returns the newest message in the instance still in pending status
	FindMostRecentPending(instanceId string) (model.Message, error)
	//BackfillExternalId writes the external id onto an existing message record
	BackfillExternalId(id uint32, externalId string) error
	//SetStatus overwrites the message status and returns the affected record count
	SetStatus(id uint32, status string) (int, error)
	//GetAllByInstance returns all messages of the instance
	GetAllByInstance(instanceId string) ([]model.Message, error)
	//RemoveOlderThanDays removes all messages older than {days}
	RemoveOlderThanDays(days int) error
}

func NewMessageDao(db Db) MessageDao {
	return &messageDao{db: db}
}

type messageDao struct {
	db Db
}

func (d messageDao) Create(instanceId, recipients, externalId string) (uint32, error) {
	msg := &model.Message{
		InstanceId: instanceId,
		Recipients: recipients,
		ExternalId: externalId,
		Status:     model.StatusPending,
		CreatedAt:  time.Now(),
	}
	err := d.db.Save(msg)
	return msg.Id, err
}

func (d messageDao) GetOneById(id uint32) (msg model.Message, err error) {
	err = d.db.One("Id", id, &msg)
	return
}

func (d messageDao) FindByExternalId(instanceId, externalId string) (model.Message, error) {
	var msg model.Message
	err := d.db.Select(q.Eq("InstanceId", instanceId), q.Eq("ExternalId", externalId)).
		OrderBy("CreatedAt").Reverse().First(&msg)
	return msg, err
}

func (d messageDao) FindByExternalIdLike(instanceId, fragment string) (model.Message, error) {
	//storm has no substring matcher, scan the instance newest first
	var messages []model.Message
	err := d.db.Select(q.Eq("InstanceId", instanceId)).OrderBy("CreatedAt").Reverse().Find(&messages)
	if err != nil {
		return model.Message{}, err
	}
	for _, msg := range messages {
		if msg.ExternalId != "" && strings.Contains(msg.ExternalId, fragment) {
			return msg, nil
		}
	}
	return model.Message{}, ErrNotFound
}

func (d messageDao) FindMostRecentPending(instanceId string) (model.Message, error) {
	var msg model.Message
	err := d.db.Select(q.Eq("InstanceId", instanceId), q.Eq("Status", model.StatusPending)).
		OrderBy("CreatedAt").Reverse().First(&msg)
	return msg, err
}

func (d messageDao) BackfillExternalId(id uint32, externalId string) error {
	var msg model.Message
	err := d.db.One("Id", id, &msg)
	if err != nil {
		return err
	}
	msg.ExternalId = externalId
	return d.db.Update(&msg)
}

func (d messageDao) SetStatus(id uint32, status string) (int, error) {
	var msg model.Message
	err := d.db.One("Id", id, &msg)
	if err != nil {
		return 0, err
	}
	msg.Status = status
	err = d.db.Update(&msg)
	if err != nil {
		return 0, err
	}
	return 1, nil
}

func (d messageDao) GetAllByInstance(instanceId string) (messages []model.Message, err error) {
	err = d.db.Find("InstanceId", instanceId, &messages)
	return
}

func (d messageDao) RemoveOlderThanDays(days int) error {
	err := d.db.Select(q.Lt("CreatedAt", time.Now().Add(-24*time.Duration(days)*time.Hour))).Delete(&model.Message{})
	if err != nil && err != ErrNotFound {
		return err
	}
	return nil
}
