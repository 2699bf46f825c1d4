// FILE: internal/controller/payment_controller.go
package controller

import (
	"raw-ai-be/internal/dto"
	"raw-ai-be/internal/pkg/apperror"
	"raw-ai-be/internal/pkg/serverutils"
	"raw-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	CreateOrder(ctx *fiber.Ctx) error
	VerifyPayment(ctx *fiber.Ctx) error
	GetOrders(ctx *fiber.Ctx) error
	PromoteOrder(ctx *fiber.Ctx) error
}

type paymentController struct {
	service    service.IPaymentService
	jwtSecret  string
	adminToken string
}

func NewPaymentController(service service.IPaymentService, jwtSecret, adminToken string) IPaymentController {
	return &paymentController{service: service, jwtSecret: jwtSecret, adminToken: adminToken}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/payment")
	h.Post("/create-order", serverutils.OptionalJwtMiddleware(c.jwtSecret), c.CreateOrder)
	h.Post("/verify", c.VerifyPayment)

	// Protected Routes
	h.Get("/orders", serverutils.JwtMiddleware(c.jwtSecret), c.GetOrders)

	// Support
	h.Post("/orders/:orderId/promote", serverutils.AdminTokenMiddleware(c.adminToken), c.PromoteOrder)
}

// CreateOrder fields are checked by the service so that a missing gateway
// configuration is reported before a bad body.
func (c *paymentController) CreateOrder(ctx *fiber.Ctx) error {
	var req dto.CreateOrderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.NewValidation("Invalid request body")
	}

	res, err := c.service.CreateOrder(ctx.UserContext(), serverutils.AuthFromCtx(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *paymentController) VerifyPayment(ctx *fiber.Ctx) error {
	var req dto.VerifyPaymentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.NewValidation("Invalid request body")
	}

	res, err := c.service.VerifyPayment(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *paymentController) GetOrders(ctx *fiber.Ctx) error {
	auth := serverutils.AuthFromCtx(ctx)
	res, err := c.service.GetOrderHistory(ctx.UserContext(), *auth.UserId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching orders", res))
}

func (c *paymentController) PromoteOrder(ctx *fiber.Ctx) error {
	res, err := c.service.PromoteOrder(ctx.UserContext(), ctx.Params("orderId"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Order promotion processed", res))
}
