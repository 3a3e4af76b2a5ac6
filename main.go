package main

import (
	"fmt"
	"log"

	"picking-app/config"
	"picking-app/controllers/idgen"
	"picking-app/database"
	"picking-app/migration"
	"picking-app/routes"

	"github.com/gofiber/fiber/v2"
)

func main() {

	config.LoadConfig()

	app := fiber.New()

	db, err := database.Open()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	idgen.Init()
	database.RunSeeders(db)

	config.SetupCORS(app)

	routes.SetupItemRoutes(app, db)
	routes.SetupPickerRoutes(app, db)
	routes.SetupOrderRoutes(app, db)
	routes.SetupMobilePickingRoutes(app, db)

	port := config.APP_PORT
	fmt.Println("🚀 Server running on port " + port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
