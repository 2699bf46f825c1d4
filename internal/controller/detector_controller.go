// FILE: internal/controller/detector_controller.go
package controller

import (
	"raw-ai-be/internal/dto"
	"raw-ai-be/internal/pkg/apperror"
	"raw-ai-be/internal/pkg/serverutils"
	"raw-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDetectorController interface {
	RegisterRoutes(r fiber.Router)
	Detect(ctx *fiber.Ctx) error
}

type detectorController struct {
	service   service.IDetectorService
	jwtSecret string
}

func NewDetectorController(service service.IDetectorService, jwtSecret string) IDetectorController {
	return &detectorController{service: service, jwtSecret: jwtSecret}
}

func (c *detectorController) RegisterRoutes(r fiber.Router) {
	r.Post("/detect", serverutils.OptionalJwtMiddleware(c.jwtSecret), c.Detect)
}

func (c *detectorController) Detect(ctx *fiber.Ctx) error {
	var req dto.DetectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.NewValidation("Invalid request body")
	}

	res, err := c.service.Detect(ctx.UserContext(), serverutils.AuthFromCtx(ctx), req.Text)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
