package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"quizgen/docs"
)

// RegisterSwagger serves the Swagger UI under /swagger.
// The advertised host is fixed at registration; an empty host makes the UI
// target whichever host served the document.
func RegisterSwagger(app *fiber.App, host string) {
	docs.SwaggerInfo.Host = host
	app.Get("/swagger/*", swagger.HandlerDefault)
}
