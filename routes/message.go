package routes

import (
	"time"

	"rentora-server/models"
	"rentora-server/storage"
	"rentora-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// GetOrCreateConversation finds the 1:1 conversation between the caller and the
// other participant, creating it when it does not exist yet.
func GetOrCreateConversation(ctx iris.Context) {
	var input StartConversationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	actor := utils.ActorFromContext(ctx)
	if input.ParticipantID == actor.ID {
		utils.JSONError(ctx, iris.StatusBadRequest, utils.CodeInvalidRequest, "Cannot start a conversation with yourself")
		return
	}

	var other models.User
	if dbErr := storage.DB.First(&other, input.ParticipantID).Error; dbErr != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var conversation models.Conversation
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		// Existing conversation containing exactly these two participants.
		var conversationID uint
		row := tx.Model(&models.ConversationParticipant{}).
			Select("conversation_id").
			Where("user_id IN ?", []uint{actor.ID, input.ParticipantID}).
			Group("conversation_id").
			Having("COUNT(DISTINCT user_id) = 2").
			Limit(1).
			Scan(&conversationID)
		if row.Error != nil {
			return row.Error
		}
		if conversationID != 0 {
			return tx.Preload("Participants.User").First(&conversation, conversationID).Error
		}

		conversation = models.Conversation{
			Participants: []models.ConversationParticipant{
				{UserID: actor.ID},
				{UserID: input.ParticipantID},
			},
		}
		return tx.Create(&conversation).Error
	})
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, conversation)
}

// ListConversations returns the caller's conversations with their last message.
func ListConversations(ctx iris.Context) {
	actor := utils.ActorFromContext(ctx)

	var participantRows []models.ConversationParticipant
	err := storage.DB.Where("user_id = ?", actor.ID).Find(&participantRows).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ids := make([]uint, 0, len(participantRows))
	for _, row := range participantRows {
		ids = append(ids, row.ConversationID)
	}
	if len(ids) == 0 {
		utils.JSONSuccess(ctx, []models.Conversation{})
		return
	}

	var conversations []models.Conversation
	err = storage.DB.Preload("Participants.User").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Limit(1)
		}).
		Where("id IN ?", ids).
		Order("updated_at DESC").
		Find(&conversations).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, conversations)
}

// ListMessages returns a conversation's messages oldest-first and marks the
// other side's messages read.
func ListMessages(ctx iris.Context) {
	conversationID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	actor := utils.ActorFromContext(ctx)
	if !isParticipant(conversationID, actor.ID) {
		utils.CreateForbidden(ctx)
		return
	}

	var messages []models.Message
	dbErr := storage.DB.Preload("Sender").
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&messages).Error
	if dbErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	now := time.Now()
	storage.DB.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, actor.ID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})

	utils.JSONSuccess(ctx, messages)
}

// SendMessage appends a message and touches the conversation in the same
// transaction so conversation ordering stays consistent with message times.
func SendMessage(ctx iris.Context) {
	conversationID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input SendMessageInput
	if readErr := ctx.ReadJSON(&input); readErr != nil {
		utils.HandleValidationErrors(readErr, ctx)
		return
	}

	actor := utils.ActorFromContext(ctx)
	if !isParticipant(conversationID, actor.ID) {
		utils.CreateForbidden(ctx)
		return
	}

	message := models.Message{
		ConversationID: conversationID,
		SenderID:       actor.ID,
		Content:        input.Content,
	}
	dbErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&message).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", conversationID).
			Update("updated_at", time.Now()).Error
	})
	if dbErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	// Notify everyone else in the conversation.
	var sender models.User
	storage.DB.First(&sender, actor.ID)
	var others []models.ConversationParticipant
	storage.DB.Where("conversation_id = ? AND user_id <> ?", conversationID, actor.ID).Find(&others)
	for _, p := range others {
		notifySvc.NotifyNewMessage(p.UserID, sender.FirstName, conversationID)
	}

	utils.JSONCreated(ctx, message)
}

func isParticipant(conversationID, userID uint) bool {
	var count int64
	storage.DB.Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count)
	return count > 0
}

type StartConversationInput struct {
	ParticipantID uint `json:"participantId" validate:"required"`
}

type SendMessageInput struct {
	Content string `json:"content" validate:"required,max=10000"`
}
