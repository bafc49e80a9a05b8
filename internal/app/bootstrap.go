package app

import (
	"fmt"
	"log"
	"strings"

	"jobtrack/internal/config"
	"jobtrack/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func Bootstrap(cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	container, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{
		AppName: cfg.App.AppName,
	})

	f.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	f.Use(middleware.NewErrorMiddleware().Middleware())

	container.Routes.Register(f)

	return &App{Fiber: f, Container: container}, container.Close, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
