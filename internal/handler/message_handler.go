package handler

import (
	"github.com/gofiber/fiber/v2"

	"tailorshop/internal/domain"
	"tailorshop/internal/middleware"
	"tailorshop/internal/service/message"
)

type MessageHandler struct {
	messageService message.Service
}

func NewMessageHandler(messageService message.Service) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func (h *MessageHandler) Send(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	var input domain.SendMessageInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.ReceiverID == 0 || input.Content == "" {
		return middleware.BadRequest("Receiver and content are required")
	}

	view, err := h.messageService.Send(c.Context(), currentUser, input)
	if err != nil {
		if err == message.ErrUserNotFound {
			return middleware.NotFound("Receiver not found")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(view)
}

func (h *MessageHandler) History(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	partnerID, err := c.ParamsInt("userId")
	if err != nil {
		return middleware.BadRequest("Invalid user ID")
	}

	history, err := h.messageService.ChatHistory(c.Context(), currentUser, int64(partnerID))
	if err != nil {
		if err == message.ErrUserNotFound {
			return middleware.NotFound("Chat partner not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(history)
}

func (h *MessageHandler) ChatUsers(c *fiber.Ctx) error {
	adminID := middleware.GetCurrentUserID(c)

	chatUsers, err := h.messageService.CustomersWithMessages(c.Context(), adminID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(chatUsers)
}

func (h *MessageHandler) UnreadCount(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	count, err := h.messageService.UnreadCount(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"unread_count": count,
	})
}
