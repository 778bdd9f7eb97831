// Package simstore is the Simulated variant of the remote store: an
// in-process Fiber app serving the same REST contract the live gateway
// talks to, so the client runs end to end without the real backend.
package simstore

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
)

// New assembles the store app: CORS, public routes, then JWT protection
// for everything mutating. Product browsing and session start stay open.
func New(repo Repository, secret string, shippingFee float64) *fiber.App {
	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	h := NewHandler(repo, secret, shippingFee)
	h.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(secret),
		Filter: func(c *fiber.Ctx) bool {
			// public surface: product browsing and session start
			if c.Method() == fiber.MethodGet && c.Path() == "/products" {
				return true
			}
			if c.Method() == fiber.MethodPost && c.Path() == "/session" {
				return true
			}
			return false
		},
	}))

	h.RegisterProtectedRoutes(app)
	return app
}
