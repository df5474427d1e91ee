package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hyperifyio/memogen/internal/memo"
)

// API error codes.
const (
	ErrorBadRequest          = "BAD_REQUEST"
	ErrorSessionNotFound     = "SESSION_NOT_FOUND"
	ErrorSectionNotFound     = "SECTION_NOT_FOUND"
	ErrorFileInvalid         = "FILE_INVALID"
	ErrorFileTooLarge        = "FILE_TOO_LARGE"
	ErrorInputMissing        = "INPUT_MISSING"
	ErrorExtractionEmpty     = "EXTRACTION_EMPTY"
	ErrorAPIKeyMissing       = "API_KEY_MISSING"
	ErrorExportFormatInvalid = "EXPORT_FORMAT_INVALID"
	ErrorExportDataEmpty     = "EXPORT_DATA_EMPTY"
	ErrorExportFailed        = "EXPORT_FAILED"
	ErrorInternalError       = "INTERNAL_ERROR"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error   apiError   `json:"error"`
	Session *memo.View `json:"session,omitempty"`
}

func abortWithError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: apiError{Code: code, Message: msg}})
}

// preconditionCode maps a pipeline precondition error to its API code.
func preconditionCode(err error) (string, bool) {
	switch {
	case errors.Is(err, memo.ErrInputMissing):
		return ErrorInputMissing, true
	case errors.Is(err, memo.ErrExtractionEmpty):
		return ErrorExtractionEmpty, true
	case errors.Is(err, memo.ErrCredentialMissing):
		return ErrorAPIKeyMissing, true
	}
	return "", false
}

func writePipelineError(c *gin.Context, err error, view memo.View) {
	if code, ok := preconditionCode(err); ok {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: apiError{Code: code, Message: err.Error()}, Session: &view})
		return
	}
	c.JSON(http.StatusInternalServerError, errorResponse{Error: apiError{Code: ErrorInternalError, Message: err.Error()}, Session: &view})
}
