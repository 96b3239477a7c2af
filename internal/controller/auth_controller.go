package controller

import (
	"time"

	"companion-chat-be/internal/dto"
	"companion-chat-be/internal/middleware"
	"companion-chat-be/internal/pkg/serverutils"
	"companion-chat-be/internal/service"
	"companion-chat-be/internal/session"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Signup(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	Session(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
	codec   *session.CookieCodec
	isProd  bool
}

func NewAuthController(service service.IAuthService, codec *session.CookieCodec, isProd bool) IAuthController {
	return &authController{
		service: service,
		codec:   codec,
		isProd:  isProd,
	}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/signup", c.Signup)
	h.Post("/login", c.Login)
	h.Post("/logout", c.Logout)
	h.Get("/logout", c.Logout) // legacy frontend alias
	h.Get("/session", c.Session)
}

func (c *authController) Signup(ctx *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewHTTPError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Signup(ctx.Context(), &req)
	if err != nil {
		return err
	}

	if res.LoginPending {
		// Signup stood at the provider; the caller retries login manually.
		return ctx.JSON(dto.SignupPendingResponse{Ok: false, Code: dto.CodeLoginAfterSignupFailed})
	}

	c.setSessionCookie(ctx, res.SessionID)
	return ctx.JSON(res.Payload)
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewHTTPError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.Context(), &req)
	if err != nil {
		return err
	}

	c.setSessionCookie(ctx, res.SessionID)
	return ctx.JSON(res.Payload)
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	c.service.Logout(ctx.Context(), middleware.SessionID(ctx))
	c.clearSessionCookie(ctx)
	return ctx.JSON(fiber.Map{"ok": true})
}

func (c *authController) Session(ctx *fiber.Ctx) error {
	ident := middleware.Identity(ctx)
	if ident == nil {
		return ctx.JSON(nil)
	}
	return ctx.JSON(dto.AuthResponse{
		UserId:      ident.UserID,
		Email:       ident.Email,
		DisplayName: ident.DisplayName,
	})
}

func (c *authController) setSessionCookie(ctx *fiber.Ctx, sessionID string) {
	value, err := c.codec.Encode(sessionID, true)
	if err != nil {
		return
	}
	ctx.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    value,
		Expires:  time.Now().Add(session.PermanentTTL),
		HTTPOnly: true,
		Secure:   c.isProd,
		SameSite: c.sameSite(),
		Path:     "/",
	})
}

func (c *authController) clearSessionCookie(ctx *fiber.Ctx) {
	ctx.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   c.isProd,
		SameSite: c.sameSite(),
		Path:     "/",
	})
}

// SameSite stays Lax in production; the relaxed None is for local dev where
// the frontend runs on a different port.
func (c *authController) sameSite() string {
	if c.isProd {
		return fiber.CookieSameSiteLaxMode
	}
	return fiber.CookieSameSiteNoneMode
}
