package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/tigfin/tigfin/internal/usercontext"
)

// sessionUserID returns the authenticated user's id. Handlers behind
// SessionRequired can rely on it; a miss aborts with 401.
func sessionUserID(c *gin.Context) (snowflake.ID, bool) {
	userID, ok := usercontext.UserIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return 0, false
	}
	return userID, true
}

// pathID parses the :id route parameter. Malformed ids read as 404 so the
// response does not differ from a missing record.
func pathID(c *gin.Context) (snowflake.ID, bool) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil || id == 0 {
		AbortWithError(c, ErrNotFound)
		return 0, false
	}
	return id, true
}
