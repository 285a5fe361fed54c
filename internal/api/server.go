// Package api provides the report server.
package api

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jaeaeich/nbrun/internal/config"
)

// Start starts the report API server. It serves run reports from the
// configured output directory.
func Start() {
	app := New(config.Cfg.Runner.OutputDir)

	err := app.Listen(fmt.Sprintf(":%d", config.Cfg.API.Server.Port))
	if err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

// New builds the fiber app serving reports from reportDir.
func New(reportDir string) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	// Health check
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	app.Get("/reports", func(c *fiber.Ctx) error {
		entries, err := os.ReadDir(reportDir)
		if err != nil {
			if os.IsNotExist(err) {
				return c.JSON([]string{})
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
				names = append(names, e.Name())
			}
		}
		return c.JSON(names)
	})

	app.Get("/reports/:name", func(c *fiber.Ctx) error {
		name := filepath.Base(c.Params("name"))
		if !strings.HasSuffix(name, ".json") {
			return fiber.NewError(fiber.StatusBadRequest, "report name must end in .json")
		}

		data, err := os.ReadFile(filepath.Join(reportDir, name))
		if err != nil {
			if os.IsNotExist(err) {
				return fiber.NewError(fiber.StatusNotFound, "report not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(data)
	})

	return app
}
