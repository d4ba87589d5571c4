package handlers

import (
	"errors"
	"strings"

	"ad-panel/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// All responses share the {success, data?, error?, message?} envelope;
// errors carry {message, status}.

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(200, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(201, gin.H{"success": true, "message": message, "data": data})
}

func respondMessage(c *gin.Context, message string, data interface{}) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(200, body)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   gin.H{"message": message, "status": status},
	})
}

// respondBindingError turns gin binding failures into a 400 with
// concatenated field messages.
func respondBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		messages := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			switch fe.Tag() {
			case "required":
				messages = append(messages, fe.Field()+" is required")
			case "url":
				messages = append(messages, fe.Field()+" must be a valid URL")
			case "oneof":
				messages = append(messages, fe.Field()+" has an invalid value")
			case "max":
				messages = append(messages, fe.Field()+" is too long")
			case "min":
				messages = append(messages, fe.Field()+" is too short")
			default:
				messages = append(messages, fe.Field()+" is invalid")
			}
		}
		respondError(c, 400, strings.Join(messages, ". "))
		return
	}
	respondError(c, 400, "Invalid request: "+err.Error())
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAdNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrSettingNotFound):
		respondError(c, 404, err.Error())
	case errors.Is(err, services.ErrInvalidRenewal),
		errors.Is(err, services.ErrUserExists),
		errors.Is(err, services.ErrSettingNotEditable),
		errors.Is(err, services.ErrResetTokenInvalid):
		respondError(c, 400, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrUserDisabled):
		respondError(c, 401, err.Error())
	default:
		// Unexpected errors go to the request log, not the client.
		_ = c.Error(err)
		message := "Internal server error"
		if gin.Mode() != gin.ReleaseMode {
			message = err.Error()
		}
		respondError(c, 500, message)
	}
}
