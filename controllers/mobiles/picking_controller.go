package mobiles

import (
	"strconv"

	"picking-app/apperrors"
	"picking-app/repositories"
	"picking-app/services"
	"picking-app/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// MobilePickingController serves the handheld scanner screens: the picking
// worklist, per-order progress and the scan action itself.
type MobilePickingController struct {
	DB      *gorm.DB
	service *services.OrderService
	query   *services.QueryService
}

func NewMobilePickingController(DB *gorm.DB) *MobilePickingController {
	return &MobilePickingController{
		DB:      DB,
		service: services.NewOrderService(DB, services.NewMailService()),
		query:   services.NewQueryService(DB),
	}
}

func parseOrderID(ctx *fiber.Ctx) (types.SnowflakeID, error) {
	raw := ctx.Params("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.ValidationFailed("invalid order id: " + raw)
	}
	return types.SnowflakeID(id), nil
}

func (c *MobilePickingController) GetPickingList(ctx *fiber.Ctx) error {
	entries, err := c.query.PickingList()
	if err != nil {
		return apperrors.Respond(ctx, err)
	}

	if len(entries) == 0 {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": []interface{}{}})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    entries,
	})
}

// GetOrderProgress returns the order with its line items and scan counters,
// the detail screen behind a worklist row.
func (c *MobilePickingController) GetOrderProgress(ctx *fiber.Ctx) error {
	id, err := parseOrderID(ctx)
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

// ScanItem records one picked unit against the order. The code is an item id
// or barcode, resolved against the order's own line items.
func (c *MobilePickingController) ScanItem(ctx *fiber.Ctx) error {
	id, err := parseOrderID(ctx)
	if err != nil {
		return apperrors.Respond(ctx, err)
	}

	var input struct {
		Code string `json:"code"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.Code == "" {
		return apperrors.Respond(ctx, apperrors.ValidationFailed("code is required"))
	}

	result, err := c.service.RecordScan(id, input.Code)
	if err != nil {
		return apperrors.Respond(ctx, err)
	}

	message := "Scan recorded"
	if result.AlreadyComplete {
		message = "Item already fully scanned"
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    result,
	})
}
