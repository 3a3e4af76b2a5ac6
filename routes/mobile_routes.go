package routes

import (
	"picking-app/config"
	"picking-app/controllers/mobiles"
	"picking-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupMobilePickingRoutes(app *fiber.App, db *gorm.DB) {
	pickingController := mobiles.NewMobilePickingController(db)
	api := app.Group(config.MAIN_ROUTES+"/mobile/picking", middleware.AuthMiddleware)

	api.Get("/", pickingController.GetPickingList)
	api.Get("/:id", pickingController.GetOrderProgress)
	api.Post("/:id/scan", pickingController.ScanItem)
}
