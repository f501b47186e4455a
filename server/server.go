// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package server exposes the rendering of inference responses over HTTP.
//
// The service is stateless: every request carries the inference Response
// it operates on.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// DefaultBodyLimit is the default maximum request body size, in bytes.
const DefaultBodyLimit = 32 << 20

// Config of a Server.
type Config struct {
	// Addr is the listening address, such as ":8080".
	Addr string
	// BodyLimit defaults to DefaultBodyLimit.
	BodyLimit int
	// AccessLog receives one line per request. Nil disables access logs.
	AccessLog io.Writer
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Server is the HTTP render service.
type Server struct {
	app    *fiber.App
	addr   string
	logger *slog.Logger
}

// New creates a Server with all routes registered.
func New(cfg Config) *Server {
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = DefaultBodyLimit
	}
	s := &Server{
		addr:   cfg.Addr,
		logger: cfg.Logger,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "echoviz",
		DisableStartupMessage: true,
		BodyLimit:             cfg.BodyLimit,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(recover.New())
	if cfg.AccessLog != nil {
		s.app.Use(logger.New(logger.Config{Output: cfg.AccessLog}))
	}
	s.app.Use(cors.New())

	s.app.Get("/healthz", handleHealth)
	api := s.app.Group("/api")
	api.Post("/dashboard", handleDashboard)
	api.Post("/featuremap.png", handleFeatureMapPNG)
	api.Post("/featuremap.svg", handleFeatureMapSVG)
	api.Post("/featuremap.csv", handleFeatureMapCSV)
	api.Post("/waveform.svg", handleWaveformSVG)
	api.Post("/compare", handleCompare)
	api.Get("/colormap", handleColormap)
	api.Get("/legend", handleLegend)
	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves HTTP requests until Shutdown is called.
func (s *Server) Listen() error {
	s.logger.Info("render service listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// Shutdown gracefully stops the Server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(errorBody{Error: err.Error()})
}
