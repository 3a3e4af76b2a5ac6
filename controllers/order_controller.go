package controllers

import (
	"picking-app/apperrors"
	"picking-app/models"
	"picking-app/repositories"
	"picking-app/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type OrderController struct {
	DB      *gorm.DB
	service *services.OrderService
	query   *services.QueryService
}

func NewOrderController(DB *gorm.DB) *OrderController {
	return &OrderController{
		DB:      DB,
		service: services.NewOrderService(DB, services.NewMailService()),
		query:   services.NewQueryService(DB),
	}
}

func (c *OrderController) CreateOrder(ctx *fiber.Ctx) error {
	var input services.CreateOrderInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	order, err := c.service.CreateOrder(input)
	if err != nil {
		return apperrors.Respond(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Order created successfully",
		"data":    order,
	})
}

// GetOrderList supports ?type=, ?store= and ?sort=priority.
func (c *OrderController) GetOrderList(ctx *fiber.Ctx) error {
	repo := repositories.NewOrderRepository(c.DB)

	var (
		orders []models.Order
		err    error
	)
	switch {
	case ctx.Query("store") != "":
		orders, err = c.query.OrdersByStore(ctx.Query("store"))
	case ctx.Query("sort") == "priority":
		orders, err = c.query.OrdersByStatusPriority()
	case ctx.Query("type") != "":
		orderType := models.OrderType(ctx.Query("type"))
		if !orderType.Valid() {
			return apperrors.Respond(ctx, apperrors.ValidationFailed("order type must be store or ecommerce"))
		}
		orders, err = repo.ListByType(orderType)
	default:
		orders, err = repo.List()
	}
	if err != nil {
		return apperrors.Respond(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    orders,
	})
}

func (c *OrderController) GetOrderByID(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return apperrors.Respond(ctx, err)
	}

	repo := repositories.NewOrderRepository(c.DB)
	order, err := repo.Get(id)
	if err != nil {
		return apperrors.Respond(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    order,
	})
}

func (c *OrderController) GetOrderHistory(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return apperrors.Respond(ctx, err)
	}

	repo := repositories.NewOrderRepository(c.DB)
	order, err := repo.Get(id)
	if err != nil {
		return apperrors.Respond(ctx, err)
	}

	history, err := repo.ListHistory(order.OrderNo)
	if err != nil {
		return apperrors.Respond(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    history,
	})
}

func (c *OrderController) AssignPicker(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return apperrors.Respond(ctx, err)
	}

	var payload struct {
		PickerID string `json:"picker_id"`
	}
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	pickerID, err := parseRawID(payload.PickerID)
	if err != nil {
		return apperrors.Respond(ctx, err)
	}

	if err := c.service.AssignPicker(id, pickerID); err != nil {
		return apperrors.Respond(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Picker assigned successfully",
	})
}

func (c *OrderController) UpdateStatus(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return apperrors.Respond(ctx, err)
	}

	var payload struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !payload.Status.Valid() {
		return apperrors.Respond(ctx, apperrors.ValidationFailed("unknown status: "+string(payload.Status)))
	}

	if err := c.service.UpdateStatus(id, payload.Status); err != nil {
		return apperrors.Respond(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Status updated successfully",
	})
}

func (c *OrderController) CompleteOrder(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return apperrors.Respond(ctx, err)
	}

	if err := c.service.CompleteOrder(id); err != nil {
		return apperrors.Respond(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Order completed successfully",
	})
}

func (c *OrderController) CancelOrder(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return apperrors.Respond(ctx, err)
	}

	if err := c.service.CancelOrder(id); err != nil {
		return apperrors.Respond(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Order cancelled, reserved stock restored",
	})
}

func (c *OrderController) DeleteOrder(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return apperrors.Respond(ctx, err)
	}

	if err := c.service.DeleteOrder(id); err != nil {
		return apperrors.Respond(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Order deleted successfully",
	})
}
