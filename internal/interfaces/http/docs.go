package http

import (
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
)

// MountDocs sirve Swagger UI en /docs y la especificación en /docs/swagger.json.
// Devuelve false sin montar nada si filePath no existe.
func MountDocs(app *fiber.App, filePath, title string) bool {
	if _, err := os.Stat(filePath); err != nil {
		return false
	}
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: filePath,
		Path:     "docs",
		Title:    title,
	}))
	return true
}
