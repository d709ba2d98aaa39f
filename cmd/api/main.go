package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/narenratnam1/DaanarRX-sub001/internal/cache"
	"github.com/narenratnam1/DaanarRX-sub001/internal/handler"
	"github.com/narenratnam1/DaanarRX-sub001/internal/middleware"
	"github.com/narenratnam1/DaanarRX-sub001/internal/model"
	"github.com/narenratnam1/DaanarRX-sub001/internal/repository"
	"github.com/narenratnam1/DaanarRX-sub001/internal/service"
	"github.com/narenratnam1/DaanarRX-sub001/internal/ws"
	"github.com/narenratnam1/DaanarRX-sub001/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.Unit{}, &model.Transaction{}, &model.Lot{}, &model.Location{},
		&model.User{}, &model.Privilege{}, &model.Role{},
	)

	// 3. Seed defaults (privileges, roles, admin user, starter locations)
	seedDefaults(db)

	// 4. Setup WebSocket hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency injection (wiring layers)
	unitRepo := repository.NewUnitRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	locationRepo := repository.NewLocationRepo(db)
	lotRepo := repository.NewLotRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	snapshot := cache.NewUnitSnapshot()

	dispenseService := service.NewDispenseService(unitRepo, snapshot, wsHub)
	invService := service.NewInventoryService(unitRepo, txRepo, locationRepo, lotRepo, snapshot, wsHub)
	reportService := service.NewReportService(txRepo, unitRepo)
	authService := service.NewAuthService(userRepo, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)

	dispenseHandler := handler.NewDispenseHandler(dispenseService)
	invHandler := handler.NewInventoryHandler(invService)
	reportHandler := handler.NewReportHandler(reportService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)
	adminHandler := handler.NewAdminHandler(locationRepo, lotRepo)

	// 6. Prime the in-memory unit snapshot and keep it fresh. Local
	// writes update it inline; the ticker covers everyone else's.
	if err := dispenseService.RefreshSnapshot(); err != nil {
		log.Printf("Warning: initial snapshot load failed: %v", err)
	}
	go func() {
		for range time.Tick(30 * time.Second) {
			if err := dispenseService.RefreshSnapshot(); err != nil {
				log.Printf("Warning: snapshot refresh failed: %v", err)
			}
		}
	}()

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "DaanaRX API v1.0",
	})

	app.Use(logger.New())  // Request logging
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 8. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Unit routes
	protected.Get("/units", middleware.RequirePrivilege("unit:view"), invHandler.GetUnits)
	protected.Get("/units/lookup", middleware.RequirePrivilege("unit:view"), dispenseHandler.Lookup)
	protected.Post("/units/checkin", middleware.RequirePrivilege("unit:checkin"), invHandler.CheckIn)
	protected.Post("/units/:daana_id/dispense", middleware.RequirePrivilege("unit:dispense"), dispenseHandler.Dispense)
	protected.Post("/units/:daana_id/move", middleware.RequirePrivilege("unit:move"), invHandler.Move)
	protected.Post("/units/:daana_id/adjust", middleware.RequirePrivilege("unit:adjust"), invHandler.Adjust)
	protected.Get("/units/:daana_id/history", middleware.RequirePrivilege("transaction:view"), invHandler.GetUnitHistory)

	// Transaction routes
	protected.Get("/transactions", middleware.RequirePrivilege("transaction:view"), invHandler.GetTransactions)
	protected.Get("/transactions/:id", middleware.RequirePrivilege("transaction:view"), invHandler.GetTransaction)

	// Report routes
	protected.Get("/reports/stats", middleware.RequirePrivilege("report:view"), reportHandler.GetInventoryStats)
	protected.Get("/reports/stock-movement", middleware.RequirePrivilege("report:view"), reportHandler.GetStockMovement)
	protected.Get("/reports/expiring", middleware.RequirePrivilege("report:view"), reportHandler.GetExpiringUnits)

	// Location + lot lookup tables
	protected.Get("/locations", adminHandler.GetLocations)
	protected.Post("/locations", middleware.RequirePrivilege("location:manage"), adminHandler.CreateLocation)
	protected.Put("/locations/:id", middleware.RequirePrivilege("location:manage"), adminHandler.UpdateLocation)
	protected.Delete("/locations/:id", middleware.RequirePrivilege("location:manage"), adminHandler.DeleteLocation)
	protected.Get("/lots", adminHandler.GetLots)
	protected.Post("/lots", middleware.RequirePrivilege("lot:manage"), adminHandler.CreateLot)
	protected.Put("/lots/:id", middleware.RequirePrivilege("lot:manage"), adminHandler.UpdateLot)
	protected.Delete("/lots/:id", middleware.RequirePrivilege("lot:manage"), adminHandler.DeleteLot)

	// User management routes
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Role routes
	protected.Get("/roles", roleHandler.GetRoles)

	// Privileges route (list all available privileges)
	protected.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

	// WebSocket route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 9. Graceful shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedDefaults creates default privileges, roles, locations, and the
// admin user if they don't exist
func seedDefaults(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	locationRepo := repository.NewLocationRepo(db)

	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}

	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	if err := locationRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed locations: %v", err)
	}

	allPrivileges, _ := privilegeRepo.FindAll()

	// PHARMACIST_ADMIN gets all privileges
	adminRole, err := roleRepo.FindByCode(model.RolePharmacistAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		db.Model(&adminRole).Association("Privileges").Replace(allPrivileges)
		log.Println("PHARMACIST_ADMIN role assigned all privileges")
	}

	// OPERATOR gets the day-to-day subset (no user or lookup-table admin)
	operatorRole, err := roleRepo.FindByCode(model.RoleOperator)
	if err == nil && len(operatorRole.Privileges) == 0 {
		operatorPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			switch p.Code {
			case "user:create", "user:update", "user:delete", "user:update_privilege",
				"location:manage", "lot:manage":
				continue
			}
			operatorPrivileges = append(operatorPrivileges, p)
		}
		db.Model(&operatorRole).Association("Privileges").Replace(operatorPrivileges)
		log.Println("OPERATOR role assigned day-to-day privileges")
	}

	// Default admin user
	_, err = userRepo.FindByEmail("admin@example.com")
	if err != nil {
		adminRole, _ := roleRepo.FindByCode(model.RolePharmacistAdmin)

		admin := &model.User{
			Email:    "admin@example.com",
			FullName: "Pharmacist Administrator",
			Initials: "ADM",
			RoleID:   &adminRole.ID,
			IsActive: true,
		}
		admin.Privileges = adminRole.Privileges
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("Admin user created: admin@example.com / admin123 (PHARMACIST_ADMIN)")
		}
	}
}
