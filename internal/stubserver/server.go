package stubserver

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"linkr/internal/auth"
	"linkr/internal/config"
	"linkr/internal/models"
)

// Server holds the stub's dependencies and handlers.
type Server struct {
	cfg *config.Config
	db  *gorm.DB
	app *fiber.App
}

// NewServer wires the fiber app and routes over an already connected
// database.
func NewServer(cfg *config.Config, db *gorm.DB) *Server {
	s := &Server{
		cfg: cfg,
		db:  db,
		app: fiber.New(fiber.Config{
			AppName:               "linkr-stub",
			DisableStartupMessage: true,
		}),
	}

	s.app.Use(recover.New())
	s.app.Use(cors.New())

	s.app.Get("/posts", s.listFeed)
	s.app.Get("/hashtag/:tag", s.listByHashtag)
	s.app.Post("/posts", s.authRequired, s.createPost)
	s.app.Put("/posts/:id", s.authRequired, s.updatePost)
	s.app.Delete("/posts/:id", s.authRequired, s.deletePost)

	s.app.Get("/likes", s.likeSample)
	s.app.Get("/likes/:id", s.authRequired, s.likeStatus)
	s.app.Post("/likes/:id", s.authRequired, s.createLike)
	s.app.Delete("/likes/:id", s.authRequired, s.deleteLike)

	s.app.Get("/comments/counter/:id", s.commentCount)

	s.app.Post("/share/:id", s.authRequired, s.createShare)
	s.app.Delete("/share/:id", s.authRequired, s.deleteShare)

	return s
}

// App exposes the fiber app so tests can drive it through app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving the stub on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the stub.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// authRequired validates the Bearer token and stores the caller's identity
// on the request context.
func (s *Server) authRequired(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authorization header required",
		})
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid authorization header format",
		})
	}

	user, err := auth.ParseIdentity(s.cfg.JWTSecret, parts[1])
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired token",
		})
	}

	c.Locals("user", user)
	return c.Next()
}

func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}
