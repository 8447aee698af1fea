// Package handler contains the HTTP handlers for the hostel management API.
// Handlers bind and validate input, call into repositories, and shape JSON
// responses; the room-ordering and ledger rules live in internal/domain.
package handler

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// validate is shared by every handler that checks request payloads.
var validate = validator.New()

// getUserID extracts the authenticated user's ID from the echo context.
// JWT claims arrive as float64 after JSON decoding, so several numeric
// shapes are accepted.
func getUserID(c echo.Context) (int64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case float64:
		return int64(t), nil
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// fieldErrors flattens validator output into a field -> problem map small
// enough to show next to form inputs.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			out[fe.Field()] = "failed " + fe.Tag() + " check"
		}
		return out
	}
	out["request"] = err.Error()
	return out
}
