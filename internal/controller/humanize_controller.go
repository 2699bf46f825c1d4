// FILE: internal/controller/humanize_controller.go
package controller

import (
	"raw-ai-be/internal/dto"
	"raw-ai-be/internal/pkg/apperror"
	"raw-ai-be/internal/pkg/serverutils"
	"raw-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IHumanizeController interface {
	RegisterRoutes(r fiber.Router)
	Humanize(ctx *fiber.Ctx) error
}

type humanizeController struct {
	service   service.IHumanizeService
	jwtSecret string
}

func NewHumanizeController(service service.IHumanizeService, jwtSecret string) IHumanizeController {
	return &humanizeController{service: service, jwtSecret: jwtSecret}
}

func (c *humanizeController) RegisterRoutes(r fiber.Router) {
	r.Post("/humanize", serverutils.OptionalJwtMiddleware(c.jwtSecret), c.Humanize)
}

func (c *humanizeController) Humanize(ctx *fiber.Ctx) error {
	var req dto.HumanizeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.NewValidation("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Humanize(ctx.UserContext(), serverutils.AuthFromCtx(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
