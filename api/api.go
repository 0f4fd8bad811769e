package api

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/portal-eventos/portal-api/utils"
	"github.com/portal-eventos/portal-api/utils/response"
)

const shutdownTimeout = 10 * time.Second

type APIServer struct {
	app           *fiber.App
	listenAddress string
}

// NewAPIServer creates the Fiber engine. bodyLimitMB caps request bodies, which carry
// images as strings.
func NewAPIServer(listenAddress string, bodyLimitMB int) *APIServer {
	if bodyLimitMB <= 0 {
		bodyLimitMB = 50
	}

	return &APIServer{
		app: fiber.New(fiber.Config{
			AppName:      "portal-api",
			BodyLimit:    bodyLimitMB * 1024 * 1024,
			JSONEncoder:  json.Marshal,
			JSONDecoder:  json.Unmarshal,
			ErrorHandler: errorHandler,
		}),
		listenAddress: listenAddress,
	}
}

// errorHandler answers errors that escape the handlers, such as unknown routes or
// oversized bodies, in the same JSON shape as the handlers.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := ""

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	if code >= fiber.StatusInternalServerError {
		utils.FromContext(c.UserContext()).WithError(err).Error("unhandled error")
		message = ""
	}
	if code == fiber.StatusInternalServerError {
		return response.InternalServerError(c, message)
	}
	return response.Error(c, code, message)
}

func (s *APIServer) GetEngine() *fiber.App {
	return s.app
}

// Run listens until ctx is cancelled or SIGINT/SIGTERM arrives, then drains in-flight
// requests.
func (s *APIServer) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		utils.Default().Infof("Listening on %s", s.listenAddress)
		errCh <- s.app.Listen(s.listenAddress)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	utils.Default().Info("Shutting down API server")
	if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return err
	}
	return <-errCh
}
