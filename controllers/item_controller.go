package controllers

import (
	"strconv"

	"picking-app/apperrors"
	"picking-app/models"
	"picking-app/repositories"
	"picking-app/services"
	"picking-app/types"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ItemController struct {
	DB *gorm.DB
}

func NewItemController(DB *gorm.DB) *ItemController {
	return &ItemController{DB: DB}
}

func parseID(ctx *fiber.Ctx, param string) (types.SnowflakeID, error) {
	return parseRawID(ctx.Params(param))
}

func parseRawID(raw string) (types.SnowflakeID, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.ValidationFailed("invalid id: " + raw)
	}
	return types.SnowflakeID(id), nil
}

func (c *ItemController) GetAllItems(ctx *fiber.Ctx) error {
	repo := repositories.NewInventoryRepository(c.DB)
	items, err := repo.List()
	if err != nil {
		return apperrors.Respond(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    items,
	})
}

func (c *ItemController) SearchItems(ctx *fiber.Ctx) error {
	query := services.NewQueryService(c.DB)
	items, err := query.SearchItems(ctx.Query("q"))
	if err != nil {
		return apperrors.Respond(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    items,
	})
}

func (c *ItemController) GetItemByID(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return apperrors.Respond(ctx, err)
	}

	repo := repositories.NewInventoryRepository(c.DB)
	item, err := repo.Get(id)
	if err != nil {
		return apperrors.Respond(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    item,
	})
}

func (c *ItemController) CreateItem(ctx *fiber.Ctx) error {
	var input struct {
		SKU      string `json:"sku" validate:"required,min=3"`
		Name     string `json:"name" validate:"required"`
		Quantity int    `json:"quantity" validate:"min=0"`
		Location string `json:"location"`
		Barcode  string `json:"barcode"`
		ImageRef string `json:"image_ref"`
	}

	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return apperrors.Respond(ctx, apperrors.ValidationFailed(err.Error()))
	}

	item := models.Item{
		SKU:      input.SKU,
		Name:     input.Name,
		Quantity: input.Quantity,
		Location: input.Location,
		Barcode:  input.Barcode,
		ImageRef: input.ImageRef,
	}

	repo := repositories.NewInventoryRepository(c.DB)
	if err := repo.Create(&item); err != nil {
		return apperrors.Respond(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Item created successfully",
		"data":    item,
	})
}

// UpdateItem edits user-owned fields. Quantity is rejected by the
// repository; stock only moves through the adjust endpoint.
func (c *ItemController) UpdateItem(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return apperrors.Respond(ctx, err)
	}

	var input map[string]interface{}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	fields := map[string]interface{}{}
	for _, key := range []string{"sku", "name", "location", "barcode", "image_ref", "quantity"} {
		if value, ok := input[key]; ok {
			fields[key] = value
		}
	}
	if len(fields) == 0 {
		return apperrors.Respond(ctx, apperrors.ValidationFailed("no editable fields in payload"))
	}

	repo := repositories.NewInventoryRepository(c.DB)
	if err := repo.Update(id, fields); err != nil {
		return apperrors.Respond(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Item updated successfully",
	})
}

func (c *ItemController) AdjustItemQuantity(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return apperrors.Respond(ctx, err)
	}

	var input struct {
		Delta int `json:"delta"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.Delta == 0 {
		return apperrors.Respond(ctx, apperrors.ValidationFailed("delta must be non-zero"))
	}

	repo := repositories.NewInventoryRepository(c.DB)
	if err := repo.AdjustQuantity(id, input.Delta); err != nil {
		return apperrors.Respond(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Quantity adjusted successfully",
	})
}

func (c *ItemController) DeleteItem(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return apperrors.Respond(ctx, err)
	}

	repo := repositories.NewInventoryRepository(c.DB)
	if err := repo.Delete(id); err != nil {
		return apperrors.Respond(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Item deleted successfully",
	})
}
