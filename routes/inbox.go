package routes

import (
	"campuslink-server/services"
	"campuslink-server/storage"
	"campuslink-server/utils"
	"errors"
	"log"
	"net/http"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// ListInbox returns the caller's conversations, most recent activity first.
func ListInbox(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	limit := ctx.URLParamIntDefault("limit", services.InboxPageLimitDefault)
	cursor := ctx.URLParam("cursor")

	projector := services.NewInboxProjector(storage.DB, services.NewUserDirectory(storage.DB))
	items, nextCursor, err := projector.List(claims.UserID, cursor, limit)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCursor) {
			utils.CreateError(http.StatusBadRequest, "BAD_REQUEST", "malformed cursor", ctx)
			return
		}
		log.Printf("inbox for user %s failed: %v", claims.UserID, err)
		utils.CreateInternalServerError(ctx)
		return
	}

	payload := iris.Map{"items": items, "nextCursor": nil}
	if nextCursor != "" {
		payload["nextCursor"] = nextCursor
	}
	ctx.JSON(payload)
}
