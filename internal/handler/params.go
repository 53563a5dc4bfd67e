package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// OwnerHeader carries the id of the user a request acts for. Authentication
// happens upstream.
const OwnerHeader = "X-Owner-ID"

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func ownerID(c echo.Context) (int64, bool) {
	raw := strings.TrimSpace(c.Request().Header.Get(OwnerHeader))
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func missingOwner(c echo.Context) error {
	return writeError(c, http.StatusUnauthorized, "missing or invalid "+OwnerHeader)
}
