package routes

import (
	"campuslink-server/models"
	"campuslink-server/services"
	"campuslink-server/storage"
	"campuslink-server/utils"
	"errors"
	"log"
	"net/http"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

type sendMessageInput struct {
	Body models.MessageBody `json:"body"`
}

// SendMessage appends one message to a thread the caller participates in.
func SendMessage(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	thread := requireParticipant(ctx, claims.UserID)
	if thread == nil {
		return
	}

	var input sendMessageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	msg, err := services.NewMessageStore(storage.DB).Append(thread.ThreadID, claims.UserID, input.Body)
	if err != nil {
		log.Printf("append to thread %s failed: %v", thread.ThreadID, err)
		utils.CreateInternalServerError(ctx)
		return
	}

	// Notify the other participant; never blocks or fails the send.
	if sender, err := services.NewUserDirectory(storage.DB).GetByID(claims.UserID); err == nil {
		ns := services.NewNotificationService(storage.DB)
		go ns.SendNewMessageNotification(
			thread.OtherParticipant(claims.UserID),
			sender.DisplayName,
			msg.Preview(),
			thread.ThreadID,
		)
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(msg)
}

// ListThreadMessages pages forward through a thread's log, oldest first.
func ListThreadMessages(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	thread := requireParticipant(ctx, claims.UserID)
	if thread == nil {
		return
	}

	limit := ctx.URLParamIntDefault("limit", services.MessagePageLimitDefault)
	cursor := ctx.URLParam("cursor")

	msgs, nextCursor, err := services.NewMessageStore(storage.DB).List(thread.ThreadID, cursor, limit)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCursor) {
			utils.CreateError(http.StatusBadRequest, "BAD_REQUEST", "malformed cursor", ctx)
			return
		}
		log.Printf("list messages for thread %s failed: %v", thread.ThreadID, err)
		utils.CreateInternalServerError(ctx)
		return
	}

	payload := iris.Map{"items": msgs, "nextCursor": nil}
	if nextCursor != "" {
		payload["nextCursor"] = nextCursor
	}
	ctx.JSON(payload)
}
