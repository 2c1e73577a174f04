package service

import (
	"github.com/gofiber/fiber/v3"
	"github.com/verdantlabs/agora/pkg/a2a"
	"github.com/verdantlabs/agora/pkg/catalog"
)

/*
CatalogServer lets marketplace agents announce themselves so the
orchestrator's discovery can pick up agents beyond the static registry.
*/
type CatalogServer struct {
	app      *fiber.App
	registry *catalog.Registry
}

func NewCatalogServer() *CatalogServer {
	srv := &CatalogServer{
		app: fiber.New(fiber.Config{
			AppName:      "Agora Catalog",
			ServerHeader: "Agora-Catalog-Server",
		}),
		registry: catalog.NewRegistry(),
	}

	srv.routes()

	return srv
}

func (srv *CatalogServer) routes() {
	srv.app.Get(catalog.WellKnownCatalogPath, func(ctx fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(srv.registry.GetAgents())
	})

	srv.app.Get("/agent/:name", func(ctx fiber.Ctx) error {
		card, ok := srv.registry.GetAgent(ctx.Params("name"))

		if !ok {
			return ctx.SendStatus(fiber.StatusNotFound)
		}

		return ctx.Status(fiber.StatusOK).JSON(card)
	})

	srv.app.Post("/agent", func(ctx fiber.Ctx) error {
		var card a2a.AgentCard

		if err := ctx.Bind().Body(&card); err != nil {
			return ctx.Status(fiber.StatusBadRequest).SendString("Invalid agent card: " + err.Error())
		}

		srv.registry.AddAgent(card)
		return ctx.Status(fiber.StatusCreated).JSON(card)
	})

	srv.app.Delete("/agent/:name", func(ctx fiber.Ctx) error {
		if !srv.registry.RemoveAgent(ctx.Params("name")) {
			return ctx.SendStatus(fiber.StatusNotFound)
		}

		return ctx.SendStatus(fiber.StatusNoContent)
	})
}

// App exposes the underlying fiber app for in-process testing.
func (srv *CatalogServer) App() *fiber.App {
	return srv.app
}

func (srv *CatalogServer) Listen(addr string) error {
	return srv.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}
