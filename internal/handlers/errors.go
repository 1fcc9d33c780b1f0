package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/certtrack/exam-center/internal/domain/exam"
	"github.com/certtrack/exam-center/internal/httperr"
	ucexam "github.com/certtrack/exam-center/internal/usecase/exam"
)

// respondError maps usecase errors onto the wire taxonomy. Validation
// detail is leaked to the caller on purpose; anything unexpected is
// logged with detail and returned generically.
func respondError(c *gin.Context, log *zap.Logger, err error, deniedMessage string) {
	var denied *ucexam.DeniedError
	if errors.As(err, &denied) {
		msg := deniedMessage
		if msg == "" {
			msg = denied.Reason
		}
		httperr.Forbidden(c, "access_denied", msg)
		return
	}

	var field *domain.FieldError
	if errors.As(err, &field) {
		httperr.BadRequest(c, "validation_error", field.Message)
		return
	}

	var dup *domain.DuplicateError
	if errors.As(err, &dup) {
		httperr.BadRequest(c, "username_already_exists", dup.Message)
		return
	}

	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		httperr.NotFound(c, notFoundCode(notFound.Entity), notFound.Error())
		return
	}

	log.Error("request failed", zap.Error(err))
	httperr.Internal(c, "internal_error", "An unexpected error occurred.")
}

func notFoundCode(entity string) string {
	code := strings.ToLower(strings.ReplaceAll(entity, " ", "_"))
	return code + "_not_found"
}
