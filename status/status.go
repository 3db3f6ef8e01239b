//Package status maps transport-specific status codes and receipt kinds to
//the canonical delivery status enumeration. Normalization never fails.
package status

import (
	"github.com/AyanDgr8/wa-api-back/dao"
	"github.com/AyanDgr8/wa-api-back/model"
)

const (
	ReceiptRead      = "read"
	ReceiptDelivered = "delivered"
)

//FromCode maps a transport status code to a canonical status.
//Unrecognized codes map to sent: an unknown code still means the message
//left the system.
func FromCode(code int) string {
	switch code {
	case model.CodePending:
		return model.StatusPending
	case model.CodeSent:
		return model.StatusSent
	case model.CodeDelivered:
		return model.StatusDelivered
	case model.CodeRead:
		return model.StatusRead
	case model.CodeFailed:
		return model.StatusFailed
	default:
		return model.StatusSent
	}
}

//FromReceipt maps a receipt kind to a canonical status.
//Exactly two kinds exist on the wire.
func FromReceipt(kind string) string {
	if kind == ReceiptRead {
		return model.StatusRead
	}
	return model.StatusDelivered
}

//IsValid reports whether s is one of the canonical statuses
func IsValid(s string) bool {
	switch s {
	case model.StatusPending, model.StatusSent, model.StatusDelivered, model.StatusRead, model.StatusFailed:
		return true
	}
	return false
}

//FieldFor returns the timeline timestamp field implied by a canonical status
func FieldFor(s string) dao.Field {
	switch s {
	case model.StatusPending:
		return dao.FieldInitiated
	case model.StatusDelivered:
		return dao.FieldDelivered
	case model.StatusRead:
		return dao.FieldRead
	case model.StatusFailed:
		return dao.FieldFailed
	default:
		return dao.FieldSent
	}
}
