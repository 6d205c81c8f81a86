package routes

import (
	"campuslink-server/services"
	"campuslink-server/storage"
	"campuslink-server/utils"
	"fmt"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// Typing sets a short-lived flag in Redis for 5 seconds.
func Typing(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	thread := requireParticipant(ctx, claims.UserID)
	if thread == nil {
		return
	}

	storage.Redis.Set(ctx, typingKey(thread.ThreadID, claims.UserID), "1", 5*time.Second)
	ctx.JSON(iris.Map{"success": true})
}

// ListTyping reports whether the other participant is currently typing.
func ListTyping(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	thread := requireParticipant(ctx, claims.UserID)
	if thread == nil {
		return
	}

	typing := []iris.Map{}
	otherID := thread.OtherParticipant(claims.UserID)
	if val, err := storage.Redis.Get(ctx, typingKey(thread.ThreadID, otherID)).Result(); err == nil && val == "1" {
		if card, err := services.NewUserDirectory(storage.DB).GetMiniCard(otherID); err == nil {
			typing = append(typing, iris.Map{"userID": otherID, "name": card.DisplayName})
		}
	}
	ctx.JSON(iris.Map{"success": true, "typing": typing})
}

func typingKey(threadID, userID string) string {
	return fmt.Sprintf("typing:thr:%s:user:%s", threadID, userID)
}
