package routes

import (
	"picking-app/config"
	"picking-app/controllers"
	"picking-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupItemRoutes(app *fiber.App, db *gorm.DB) {
	itemController := controllers.NewItemController(db)
	api := app.Group(config.MAIN_ROUTES+"/items", middleware.AuthMiddleware)

	api.Get("/", itemController.GetAllItems)
	api.Get("/search", itemController.SearchItems)
	api.Post("/", itemController.CreateItem)
	api.Get("/:id", itemController.GetItemByID)
	api.Put("/:id", itemController.UpdateItem)
	api.Post("/:id/adjust", itemController.AdjustItemQuantity)
	api.Delete("/:id", itemController.DeleteItem)
}
