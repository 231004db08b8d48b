package helper

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"gopkg.in/go-playground/validator.v9"

	"github.com/fengin/umani/models"
)

const (
	textError = `error`
	textOk    = `ok`

	codeSuccess           = 200
	codeBadRequestError   = 400
	codeUnauthorizedError = 401
	codeValidationError   = 403
	codeNotFound          = 404
	codeCapabilityError   = 502
	codeInternalError     = 500
)

// HTTPHelper renders the response envelope every handler uses:
// {code, code_type, code_message, data}.
type HTTPHelper struct {
	Validate   *validator.Validate
	Translator ut.Translator
}

type response struct {
	Status   string
	Message  string
	Data     interface{}
	Code     int // envelope code, not the http status
	CodeType string
}

func (u *HTTPHelper) send(c *gin.Context, res response) {
	httpStatus := http.StatusOK
	switch res.Code {
	case codeNotFound:
		httpStatus = http.StatusNotFound
	case codeBadRequestError, codeValidationError:
		httpStatus = http.StatusBadRequest
	case codeUnauthorizedError:
		httpStatus = http.StatusUnauthorized
	case codeCapabilityError:
		httpStatus = http.StatusBadGateway
	case codeInternalError:
		httpStatus = http.StatusInternalServerError
	}

	if res.Message == "" {
		res.Message = "success"
	}

	c.JSON(httpStatus, map[string]interface{}{
		"code":         res.Code,
		"code_type":    res.CodeType,
		"code_message": res.Message,
		"data":         res.Data,
	})
}

func (u *HTTPHelper) SendSuccess(c *gin.Context, message string, data interface{}) {
	u.send(c, response{Status: textOk, Message: message, Data: data, Code: codeSuccess, CodeType: `success`})
}

func (u *HTTPHelper) SendCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, map[string]interface{}{
		"code":         codeSuccess,
		"code_type":    `success`,
		"code_message": message,
		"data":         data,
	})
}

func (u *HTTPHelper) SendBadRequest(c *gin.Context, message string, data interface{}) {
	u.send(c, response{Status: textError, Message: message, Data: data, Code: codeBadRequestError, CodeType: `badRequest`})
}

func (u *HTTPHelper) SendUnauthorizedError(c *gin.Context, message string, data interface{}) {
	u.send(c, response{Status: textError, Message: message, Data: data, Code: codeUnauthorizedError, CodeType: `unAuthorized`})
}

func (u *HTTPHelper) SendNotFoundError(c *gin.Context, message string, data interface{}) {
	u.send(c, response{Status: textError, Message: message, Data: data, Code: codeNotFound, CodeType: `notFound`})
}

// SendValidationError translates validator errors field by field.
func (u *HTTPHelper) SendValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	errorResponse := map[string][]string{}
	errorTranslation := validationErrors.Translate(u.Translator)
	for _, err := range validationErrors {
		key := Underscore(err.StructField())
		errorResponse[key] = append(errorResponse[key], errorTranslation[err.Namespace()])
	}

	c.JSON(http.StatusBadRequest, map[string]interface{}{
		"code":         codeValidationError,
		"code_type":    `validationError`,
		"code_message": errorResponse,
		"data":         u.EmptyJsonMap(),
	})
}

// SendServiceError maps the service error taxonomy onto the envelope:
// not-found 404, validation 400, capability failures 502 with the
// upstream detail, anything else 500.
func (u *HTTPHelper) SendServiceError(c *gin.Context, err error) {
	var notFound models.ErrorNotFound
	var validation models.ErrorValidation
	var capability models.CapabilityError

	switch {
	case errors.As(err, &notFound):
		u.SendNotFoundError(c, notFound.Error(), u.EmptyJsonMap())
	case errors.As(err, &validation):
		u.send(c, response{Status: textError, Message: validation.Error(), Data: u.EmptyJsonMap(), Code: codeValidationError, CodeType: `validationError`})
	case errors.As(err, &capability):
		u.send(c, response{
			Status:   textError,
			Message:  capability.Error(),
			Data:     map[string]interface{}{"upstream_status": capability.Status, "upstream_body": capability.Body},
			Code:     codeCapabilityError,
			CodeType: `capabilityError`,
		})
	default:
		u.send(c, response{Status: textError, Message: err.Error(), Data: u.EmptyJsonMap(), Code: codeInternalError, CodeType: `internalError`})
	}
}

func (u *HTTPHelper) EmptyJsonMap() map[string]interface{} {
	return make(map[string]interface{})
}
