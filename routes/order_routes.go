package routes

import (
	"picking-app/config"
	"picking-app/controllers"
	"picking-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupOrderRoutes(app *fiber.App, db *gorm.DB) {
	orderController := controllers.NewOrderController(db)
	api := app.Group(config.MAIN_ROUTES+"/orders", middleware.AuthMiddleware)

	api.Get("/", orderController.GetOrderList)
	api.Post("/", orderController.CreateOrder)
	api.Get("/:id", orderController.GetOrderByID)
	api.Get("/:id/history", orderController.GetOrderHistory)
	api.Put("/:id/picker", orderController.AssignPicker)
	api.Put("/:id/status", orderController.UpdateStatus)
	api.Post("/:id/complete", orderController.CompleteOrder)
	api.Post("/:id/cancel", orderController.CancelOrder)
	api.Delete("/:id", orderController.DeleteOrder)
}
