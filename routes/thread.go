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
	"gorm.io/gorm"
)

// Policy is the DM gate consulted at thread creation only. A package-level
// variable so alternate gating rules can be swapped in without touching the
// registry or the store; sends on an existing thread never re-check it.
var Policy services.AccessPolicy = services.CollegePlanPolicy{}

type createThreadInput struct {
	TargetUserID string `json:"targetUserID" validate:"required,max=64"`
}

// CreateThread finds or creates the canonical thread between the caller and
// the target user.
func CreateThread(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input createThreadInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if input.TargetUserID == claims.UserID {
		utils.CreateError(http.StatusBadRequest, "BAD_REQUEST", "cannot message yourself", ctx)
		return
	}

	directory := services.NewUserDirectory(storage.DB)
	me, err := directory.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
		} else {
			log.Printf("directory lookup for caller %s failed: %v", claims.UserID, err)
			utils.CreateInternalServerError(ctx)
		}
		return
	}
	other, err := directory.GetByID(input.TargetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
		} else {
			log.Printf("directory lookup for target %s failed: %v", input.TargetUserID, err)
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	if decision := Policy.CanMessage(me, other); !decision.Allowed {
		utils.JSONError(ctx, http.StatusForbidden, "DM_NOT_ALLOWED", decision.Reason)
		return
	}

	thread, err := services.NewThreadRegistry(storage.DB).GetOrCreate(me.UserID, other.UserID)
	if err != nil {
		log.Printf("thread upsert for %s/%s failed: %v", me.UserID, other.UserID, err)
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"threadID":     thread.ThreadID,
		"participants": thread.ParticipantIDs(),
		"other":        other.Card(),
	})
}

// GetThread returns one thread the caller participates in.
func GetThread(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	thread := requireParticipant(ctx, claims.UserID)
	if thread == nil {
		return
	}

	other, err := services.NewUserDirectory(storage.DB).GetMiniCard(thread.OtherParticipant(claims.UserID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
		} else {
			log.Printf("directory lookup for thread %s failed: %v", thread.ThreadID, err)
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	ctx.JSON(iris.Map{
		"threadID":      thread.ThreadID,
		"participants":  thread.ParticipantIDs(),
		"other":         other,
		"lastMessageAt": thread.LastMessageAt,
		"unread":        0,
	})
}

// requireParticipant loads the {id} thread and enforces membership. Unknown
// threads and threads the caller is not part of get the same 404 so thread
// ids never leak existence. Returns nil after writing the response.
func requireParticipant(ctx iris.Context, userID string) *models.Thread {
	threadID := ctx.Params().Get("id")

	thread, err := services.NewThreadRegistry(storage.DB).GetByID(threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
		} else {
			log.Printf("thread lookup %s failed: %v", threadID, err)
			utils.CreateInternalServerError(ctx)
		}
		return nil
	}
	if !thread.HasParticipant(userID) {
		utils.CreateNotFound(ctx)
		return nil
	}
	return thread
}
