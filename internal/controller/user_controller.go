// FILE: internal/controller/user_controller.go
package controller

import (
	"raw-ai-be/internal/dto"
	"raw-ai-be/internal/pkg/apperror"
	"raw-ai-be/internal/pkg/serverutils"
	"raw-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	GetUsage(ctx *fiber.Ctx) error
	GetProfile(ctx *fiber.Ctx) error
	UpdateProfile(ctx *fiber.Ctx) error
}

type userController struct {
	profile   service.IProfileService
	usage     service.IUsageService
	jwtSecret string
}

func NewUserController(profile service.IProfileService, usage service.IUsageService, jwtSecret string) IUserController {
	return &userController{profile: profile, usage: usage, jwtSecret: jwtSecret}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/user")
	h.Use(serverutils.JwtMiddleware(c.jwtSecret))
	h.Get("/usage", c.GetUsage)
	h.Get("/profile", c.GetProfile)
	h.Put("/profile", c.UpdateProfile)
}

func (c *userController) GetUsage(ctx *fiber.Ctx) error {
	auth := serverutils.AuthFromCtx(ctx)
	res, err := c.usage.GetUsageSummary(ctx.UserContext(), *auth.UserId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching usage", res))
}

func (c *userController) GetProfile(ctx *fiber.Ctx) error {
	res, err := c.profile.GetProfile(ctx.UserContext(), serverutils.AuthFromCtx(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching profile", res))
}

func (c *userController) UpdateProfile(ctx *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.NewValidation("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.profile.UpdateProfile(ctx.UserContext(), serverutils.AuthFromCtx(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile updated", res))
}
