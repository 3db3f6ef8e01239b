package model

import "time"

const (
	//canonical delivery statuses
	StatusPending   string = "pending"
	StatusSent             = "sent"
	StatusDelivered        = "delivered"
	StatusRead             = "read"
	StatusFailed           = "failed"
)

const (
	//transport status codes
	CodePending   = 1
	CodeSent      = 2
	CodeDelivered = 3
	CodeRead      = 4
	CodeFailed    = -1
)

//RecipientDelimiter separates addresses in Message.Recipients
const RecipientDelimiter = ","

type Message struct {
	Id         uint32 `storm:"id,increment"`
	InstanceId string `storm:"index"`
	Recipients string
	ExternalId string `storm:"index"`
	Status     string
	CreatedAt  time.Time `storm:"index"`
}
