package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/parts-ledger/internal/application/inventory"
	"github.com/jhoicas/parts-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger      *inventory.LedgerUseCase
	Queries     *inventory.QueryUseCase
	Logger      *logger.Logger
	ServiceName string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	inv := app.Group("/api/inventory")

	// Consultas (sin actor)
	queryHandler := NewQueryHandler(deps.Queries, log)
	inv.Get("/on-hand", queryHandler.OnHand)
	inv.Get("/batches", queryHandler.Batches)
	inv.Get("/movements", queryHandler.Movements)
	inv.Get("/work-orders/:id/cost", queryHandler.WorkOrderCost)
	inv.Get("/parts/:id/locations", queryHandler.PartLocations)
	inv.Get("/reconcile", queryHandler.Reconcile)

	// Mutaciones (requieren X-Actor-ID)
	ledgerHandler := NewLedgerHandler(deps.Ledger, log)
	actor := ActorMiddleware()
	inv.Post("/receive", actor, ledgerHandler.Receive)
	inv.Post("/issue", actor, ledgerHandler.Issue)
	inv.Post("/return", actor, ledgerHandler.Return)
	inv.Post("/transfer", actor, ledgerHandler.Transfer)
	inv.Post("/adjust", actor, ledgerHandler.Adjust)
}
