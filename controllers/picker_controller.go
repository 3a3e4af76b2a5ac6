package controllers

import (
	"picking-app/apperrors"
	"picking-app/repositories"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PickerController struct {
	DB *gorm.DB
}

func NewPickerController(DB *gorm.DB) *PickerController {
	return &PickerController{DB: DB}
}

func (c *PickerController) GetAllPickers(ctx *fiber.Ctx) error {
	repo := repositories.NewPickerRepository(c.DB)
	pickers, err := repo.List()
	if err != nil {
		return apperrors.Respond(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    pickers,
	})
}

func (c *PickerController) GetPickerByID(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return apperrors.Respond(ctx, err)
	}

	repo := repositories.NewPickerRepository(c.DB)
	picker, err := repo.Get(id)
	if err != nil {
		return apperrors.Respond(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    picker,
	})
}

func (c *PickerController) CreatePicker(ctx *fiber.Ctx) error {
	var input struct {
		Name    string `json:"name" validate:"required,min=2"`
		Surname string `json:"surname" validate:"required,min=2"`
	}

	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return apperrors.Respond(ctx, apperrors.ValidationFailed(err.Error()))
	}

	repo := repositories.NewPickerRepository(c.DB)
	picker, err := repo.Create(input.Name, input.Surname)
	if err != nil {
		return apperrors.Respond(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Picker created successfully",
		"data":    picker,
	})
}

func (c *PickerController) DeletePicker(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return apperrors.Respond(ctx, err)
	}

	repo := repositories.NewPickerRepository(c.DB)
	if err := repo.Delete(id); err != nil {
		return apperrors.Respond(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Picker deleted successfully",
	})
}
