package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blood-donation-service/pkg/apperror"
	"github.com/oksasatya/blood-donation-service/pkg/response"
	"github.com/oksasatya/blood-donation-service/pkg/validation"
)

func statusOf(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindAuthorization:
		return http.StatusForbidden
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindSelfTarget:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as an error envelope. Storage failures are logged and their
// cause is not exposed.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	kind := apperror.KindOf(err)
	status := statusOf(kind)
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"path":       c.FullPath(),
			}).Error("request failed")
		}
		response.Error[any](c, status, "internal server error", nil)
		return
	}

	var ae *apperror.Error
	if errors.As(err, &ae) {
		var details any
		if len(ae.Details) > 0 {
			details = ae.Details
		}
		response.Error[any](c, status, ae.Message, details)
		return
	}
	response.Error[any](c, status, err.Error(), nil)
}

func badPayload(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

// pathID parses a positive int64 path parameter, writing a 400 when it is not one.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error[any](c, http.StatusBadRequest, "invalid "+name, map[string]string{name: "must be a positive integer"})
		return 0, false
	}
	return id, true
}
