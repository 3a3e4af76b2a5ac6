package routes

import (
	"picking-app/config"
	"picking-app/controllers"
	"picking-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupPickerRoutes(app *fiber.App, db *gorm.DB) {
	pickerController := controllers.NewPickerController(db)
	api := app.Group(config.MAIN_ROUTES+"/pickers", middleware.AuthMiddleware)

	api.Get("/", pickerController.GetAllPickers)
	api.Post("/", pickerController.CreatePicker)
	api.Get("/:id", pickerController.GetPickerByID)
	api.Delete("/:id", pickerController.DeletePicker)
}
