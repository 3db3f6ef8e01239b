package status

import (
	"testing"

	"github.com/AyanDgr8/wa-api-back/dao"
	"github.com/AyanDgr8/wa-api-back/model"
	"github.com/stretchr/testify/require"
)

func TestFromCode(t *testing.T) {
	require.Equal(t, model.StatusPending, FromCode(1))
	require.Equal(t, model.StatusSent, FromCode(2))
	require.Equal(t, model.StatusDelivered, FromCode(3))
	require.Equal(t, model.StatusRead, FromCode(4))
	require.Equal(t, model.StatusFailed, FromCode(-1))

	//unrecognized codes default to sent
	require.Equal(t, model.StatusSent, FromCode(0))
	require.Equal(t, model.StatusSent, FromCode(42))
}

func TestFromReceipt(t *testing.T) {
	require.Equal(t, model.StatusRead, FromReceipt(ReceiptRead))
	require.Equal(t, model.StatusDelivered, FromReceipt(ReceiptDelivered))
}

func TestIsValid(t *testing.T) {
	require.True(t, IsValid(model.StatusPending))
	require.True(t, IsValid(model.StatusSent))
	require.True(t, IsValid(model.StatusDelivered))
	require.True(t, IsValid(model.StatusRead))
	require.True(t, IsValid(model.StatusFailed))
	require.False(t, IsValid(""))
	require.False(t, IsValid("DELIVRD"))
}

func TestFieldFor(t *testing.T) {
	require.Equal(t, dao.FieldInitiated, FieldFor(model.StatusPending))
	require.Equal(t, dao.FieldSent, FieldFor(model.StatusSent))
	require.Equal(t, dao.FieldDelivered, FieldFor(model.StatusDelivered))
	require.Equal(t, dao.FieldRead, FieldFor(model.StatusRead))
	require.Equal(t, dao.FieldFailed, FieldFor(model.StatusFailed))
}
