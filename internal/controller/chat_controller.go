package controller

import (
	"strings"

	"companion-chat-be/internal/dto"
	"companion-chat-be/internal/middleware"
	"companion-chat-be/internal/pkg/serverutils"
	"companion-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	SaveHistory(ctx *fiber.Ctx) error
	CheckLoginStatus(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService    service.IChatService
	historyService service.IHistoryService
}

func NewChatController(chatService service.IChatService, historyService service.IHistoryService) IChatController {
	return &chatController{
		chatService:    chatService,
		historyService: historyService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	// Public; reports whether an identity resolved, never 401s.
	h.Get("/check_login_status", c.CheckLoginStatus)

	h.Use(middleware.RequireAuth)
	h.Post("/", c.Chat)
	h.Get("/history/get", c.GetHistory)
	h.Post("/history", c.SaveHistory)
	h.Get("/history", c.SaveHistory) // legacy frontend alias
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewHTTPError(fiber.StatusBadRequest, "invalid request body")
	}

	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		return serverutils.NewHTTPError(fiber.StatusBadRequest, "prompt must not be empty")
	}

	res := c.chatService.Chat(ctx.Context(), middleware.Identity(ctx), &req)
	return ctx.JSON(res)
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	ident := middleware.Identity(ctx)
	sessionID := ctx.Query("sessionId")

	if sessionID == "" {
		res, err := c.historyService.ListSessions(ctx.Context(), ident.UserID)
		if err != nil {
			return err
		}
		return ctx.JSON(res)
	}

	includeMessages := ctx.Query("includeMessages") == "true" || ctx.Query("includeMessages") == "1"
	res, err := c.historyService.GetSession(ctx.Context(), ident.UserID, sessionID, includeMessages)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) SaveHistory(ctx *fiber.Ctx) error {
	ident := middleware.Identity(ctx)

	var req dto.SaveHistoryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewHTTPError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.historyService.SaveHistory(ctx.Context(), ident.UserID, &req); err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"ok": true})
}

func (c *chatController) CheckLoginStatus(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"ok":     true,
		"result": middleware.Identity(ctx) != nil,
	})
}
