package controller

import (
	"net/http"
	"strings"

	"github.com/AyanDgr8/wa-api-back/service"
	"github.com/AyanDgr8/wa-api-back/service/dto"
	"github.com/AyanDgr8/wa-api-back/wa"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

//GetTrackMessageFunc records an outbound send for delivery tracking
func GetTrackMessageFunc(srv service.Service) echo.HandlerFunc {

	return func(c echo.Context) error {
		req := new(dto.TrackRequest)
		if err := c.Bind(req); err != nil {
			return err
		}

		id, err := srv.TrackMessage(c.Param("instance"), *req)
		if err != nil {
			switch err.(type) {
			case *service.InvalidPayloadErr:
				return c.String(http.StatusBadRequest, err.Error())
			default:
				zap.L().Error("Error tracking message", zap.Error(err))
				return c.String(http.StatusInternalServerError, "System malfunction. Please, try later")
			}
		}

		return c.JSON(http.StatusOK, id)
	}
}

//GetStatusEventFunc ingests a raw status callback from the transport and
//publishes it onto the status stream
func GetStatusEventFunc(relay wa.Relay) echo.HandlerFunc {

	return func(c echo.Context) error {
		callback := new(dto.StatusCallback)
		if err := c.Bind(callback); err != nil {
			return err
		}

		if strings.TrimSpace(callback.Key.Id) == "" || callback.Status == nil {
			return c.String(http.StatusBadRequest, "Missing message key or status")
		}

		relay.PublishStatus(wa.StatusEvent{
			InstanceId: c.Param("instance"),
			ExternalId: callback.Key.Id,
			Code:       *callback.Status,
		})

		return c.NoContent(http.StatusAccepted)
	}
}

//GetReceiptEventFunc ingests a raw receipt callback from the transport and
//publishes it onto the receipt stream
func GetReceiptEventFunc(relay wa.Relay) echo.HandlerFunc {

	return func(c echo.Context) error {
		callback := new(dto.ReceiptCallback)
		if err := c.Bind(callback); err != nil {
			return err
		}

		if strings.TrimSpace(callback.Key.Id) == "" || callback.Receipt == nil {
			return c.String(http.StatusBadRequest, "Missing message key or receipt")
		}

		relay.PublishReceipt(wa.ReceiptEvent{
			InstanceId: c.Param("instance"),
			ExternalId: callback.Key.Id,
			Kind:       callback.Receipt.Type,
		})

		return c.NoContent(http.StatusAccepted)
	}
}

//GetMessageReportFunc returns the delivery report of one send: latest
//status plus every recipient's timeline
func GetMessageReportFunc(srv service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		instance := c.Param("instance")
		externalId := c.Param("externalId")

		report, err := srv.ReportMessage(instance, externalId)
		if err != nil {
			if err.Error() == "not found" {
				return c.String(http.StatusNotFound, "Message not found "+externalId)
			}
			zap.L().Error("Error building message report", zap.Error(err))
			return c.String(http.StatusInternalServerError, "System malfunction. Please, try later")
		}

		return c.JSON(http.StatusOK, report)
	}
}

//GetRecipientReportFunc returns all timeline rows of one recipient in the instance
func GetRecipientReportFunc(srv service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		instance := c.Param("instance")
		recipient := c.QueryParam("recipient")

		if strings.TrimSpace(recipient) == "" {
			return c.String(http.StatusBadRequest, "Missing recipient")
		}

		report, err := srv.ReportRecipient(instance, recipient)
		if err != nil {
			if err.Error() == "not found" {
				return c.String(http.StatusNotFound, "Recipient not found "+recipient)
			}
			zap.L().Error("Error building recipient report", zap.Error(err))
			return c.String(http.StatusInternalServerError, "System malfunction. Please, try later")
		}

		return c.JSON(http.StatusOK, report)
	}
}
