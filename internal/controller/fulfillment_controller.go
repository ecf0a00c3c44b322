package controller

import (
	"parallax/internal/dto"
	"parallax/internal/pkg/serverutils"
	"parallax/internal/service"
	ws "parallax/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type IFulfillmentController interface {
	RegisterRoutes(r fiber.Router)
	Fulfill(ctx *fiber.Ctx) error
	Cached(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
	Root(ctx *fiber.Ctx) error
	SendEmail(ctx *fiber.Ctx) error
}

type fulfillmentController struct {
	fulfillmentService service.IFulfillmentService
	hub                *ws.Hub
}

func NewFulfillmentController(fulfillmentService service.IFulfillmentService, hub *ws.Hub) IFulfillmentController {
	return &fulfillmentController{
		fulfillmentService: fulfillmentService,
		hub:                hub,
	}
}

func (c *fulfillmentController) RegisterRoutes(r fiber.Router) {
	r.Get("/", c.Root)
	r.Get("/health", c.Health)
	r.Post("/fulfill", c.Fulfill)
	r.Get("/session/:id/cached", c.Cached)
	r.Delete("/session/:id", c.Clear)
	r.Post("/session/:id/email", c.SendEmail)

	if c.hub != nil {
		r.Use("/ws", func(ctx *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(ctx) {
				return ctx.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		r.Get("/ws/session/:id", websocket.New(func(conn *websocket.Conn) {
			ws.ServeWs(c.hub, conn, conn.Params("id"))
		}))
	}
}

func (c *fulfillmentController) Fulfill(ctx *fiber.Ctx) error {
	var req dto.FulfillRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.fulfillmentService.Submit(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *fulfillmentController) Cached(ctx *fiber.Ctx) error {
	res, err := c.fulfillmentService.Cached(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *fulfillmentController) Clear(ctx *fiber.Ctx) error {
	if err := c.fulfillmentService.Clear(ctx.Context(), ctx.Params("id")); err != nil {
		return err
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *fulfillmentController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(c.fulfillmentService.Health(ctx.Context()))
}

func (c *fulfillmentController) Root(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"service":  "Parallax Fulfillment Backend",
		"status":   "running",
		"sessions": c.fulfillmentService.SessionCount(ctx.Context()),
	})
}

func (c *fulfillmentController) SendEmail(ctx *fiber.Ctx) error {
	var req dto.SendEmailCardRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.fulfillmentService.SendEmailCard(ctx.Context(), ctx.Params("id"), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Email draft sent", nil))
}
