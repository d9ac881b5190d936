package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"hivedesk/internal/logger"
	"hivedesk/internal/middleware"
	"hivedesk/internal/services"
)

func userIDFrom(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(middleware.ContextUserID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// bindJSON decodes the body and answers 400 with the first failing rule.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		fail(c, http.StatusBadRequest, bindMessage(err))
		return false
	}
	return true
}

func bindMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}
	fe := verrs[0]
	field := fe.Field()
	if field == "OTP" {
		field = "otp"
	} else {
		field = strings.ToLower(field[:1]) + field[1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Please provide a valid email address"
	case "hexcolor":
		return "Color must be a valid hex color code"
	case "len":
		switch field {
		case "otp":
			return "OTP must be exactly 6 digits"
		case "color":
			return "Color must be a valid hex color code"
		}
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "numeric":
		return "OTP must contain only numbers"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func parseID(c *gin.Context, notFound string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, notFound)
		return uuid.Nil, false
	}
	return id, true
}

// errMessages customises the text of identity-state failures per resource.
type errMessages struct {
	notFound string
	exists   string
}

// respondError maps service errors onto HTTP statuses. Unknown errors are
// logged and answered with a generic 500.
func respondError(c *gin.Context, log *logger.Logger, tag string, err error, m errMessages) {
	var verr *services.ValidationError
	var inUse *services.CategoryInUseError

	switch {
	case errors.As(err, &verr):
		fail(c, http.StatusBadRequest, verr.Message)
	case errors.As(err, &inUse):
		fail(c, http.StatusConflict, inUse.Error())
	case errors.Is(err, services.ErrInvalidPurpose):
		fail(c, http.StatusBadRequest, "Invalid purpose.")
	case errors.Is(err, services.ErrNoPendingOTP):
		fail(c, http.StatusBadRequest, "No OTP found for this email. Please send OTP first.")
	case errors.Is(err, services.ErrOTPExpired):
		fail(c, http.StatusBadRequest, "OTP has expired. Please request a new one.")
	case errors.Is(err, services.ErrOTPMismatch):
		fail(c, http.StatusBadRequest, "Invalid OTP. Please try again.")
	case errors.Is(err, services.ErrNoPasswordConfigured):
		fail(c, http.StatusBadRequest, "This account does not have a password. Please use OTP login.")
	case errors.Is(err, services.ErrAuthFailed):
		fail(c, http.StatusUnauthorized, "Invalid password. Please try again.")
	case errors.Is(err, services.ErrNotVerified):
		fail(c, http.StatusForbidden, "Account not verified. Please verify your email first.")
	case errors.Is(err, services.ErrNotificationFailed):
		log.Warn(tag+" notification failed", "err", err)
		fail(c, http.StatusBadGateway, "Failed to send OTP. Please try again.")
	case errors.Is(err, services.ErrInvalidToken):
		fail(c, http.StatusUnauthorized, "Invalid token.")
	case errors.Is(err, services.ErrUnauthenticated):
		fail(c, http.StatusUnauthorized, "Access denied.")
	case errors.Is(err, services.ErrInvalidCategory):
		fail(c, http.StatusBadRequest, "Invalid category")
	case errors.Is(err, services.ErrNotFound) && m.notFound != "":
		fail(c, http.StatusNotFound, m.notFound)
	case errors.Is(err, services.ErrAlreadyExists) && m.exists != "":
		fail(c, http.StatusConflict, m.exists)
	default:
		log.Error(tag+" internal error", "err", err)
		body := gin.H{"success": false, "message": "Internal server error."}
		if gin.Mode() == gin.DebugMode {
			body["error"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}
