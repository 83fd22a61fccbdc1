package auth

import (
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// RouteRegistrar captures the router methods used by the controller.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// HTTPController exposes the credential lifecycle as a JSON API.
type HTTPController struct {
	engine *CredentialEngine
	tokens TokenService
	logger Logger
}

type HTTPControllerOption func(*HTTPController) *HTTPController

func WithControllerLogger(logger Logger) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		if logger != nil {
			c.logger = logger
		}
		return c
	}
}

func NewHTTPController(engine *CredentialEngine, tokens TokenService, opts ...HTTPControllerOption) *HTTPController {
	c := &HTTPController{
		engine: engine,
		tokens: tokens,
		logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.engine == nil {
		panic("Missing CredentialEngine in auth controller...")
	}

	if c.tokens == nil {
		panic("Missing TokenService in auth controller...")
	}

	return c
}

// RegisterRoutes mounts the credential endpoints on the given group.
func (c *HTTPController) RegisterRoutes(group RouteRegistrar) {
	group.Get("/health", c.Health)
	group.Post("/register", c.Register)
	group.Post("/login", c.Login)
	group.Get("/confirm", c.ConfirmEmail)
	group.Post("/resend", c.ResendConfirmation)
}

// Health reports liveness.
func (c *HTTPController) Health(ctx router.Context) error {
	return ctx.JSON(router.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Register creates an account. Failures return the complete error list so
// the frontend can annotate every field at once.
func (c *HTTPController) Register(ctx router.Context) error {
	payload := new(RegistrationPayload)

	if err := ctx.Bind(payload); err != nil {
		c.logger.Error("register parse payload", "error", err)
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "failed to parse request body",
		})
	}

	result, err := c.engine.Register(ctx.Context(), *payload)
	if err != nil {
		c.logger.Error("register failed", "email", payload.Email, "error", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{
			"error": "internal server error",
		})
	}

	if !result.Ok() {
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"errors": result.Errors,
		})
	}

	c.logger.Info("registered user", "email", payload.Email)

	return ctx.JSON(router.StatusOK, result.User)
}

// Login authenticates and returns a session token for the identity.
func (c *HTTPController) Login(ctx router.Context) error {
	payload := new(LoginPayload)

	if err := ctx.Bind(payload); err != nil {
		c.logger.Error("login parse payload", "error", err)
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "failed to parse request body",
		})
	}

	user, err := c.engine.Login(ctx.Context(), *payload)
	if err != nil {
		return c.renderEngineError(ctx, err)
	}

	token, err := c.tokens.Generate(user)
	if err != nil {
		c.logger.Error("login token generation failed", "error", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{
			"error": "internal server error",
		})
	}

	c.logger.Info("logged in", "username", payload.Username)

	return ctx.JSON(router.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}

// ConfirmEmail flips the confirmation flag for the address in the query
// string; repeating the request is harmless.
func (c *HTTPController) ConfirmEmail(ctx router.Context) error {
	email := ctx.Query("email")
	if email == "" {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "missing email parameter",
		})
	}

	ok, err := c.engine.ConfirmEmail(ctx.Context(), email)
	if err != nil {
		c.logger.Error("confirm email failed", "email", email, "error", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{
			"error": "internal server error",
		})
	}

	if !ok {
		return ctx.JSON(router.StatusNotFound, map[string]string{
			"error": "user not found",
		})
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"message": "email confirmed successfully",
	})
}

// ResendConfirmationPayload carries the address to resend to.
type ResendConfirmationPayload struct {
	Email string `form:"email" json:"email"`
}

// ResendConfirmation queues a fresh confirmation message.
func (c *HTTPController) ResendConfirmation(ctx router.Context) error {
	payload := new(ResendConfirmationPayload)

	if err := ctx.Bind(payload); err != nil {
		c.logger.Error("resend parse payload", "error", err)
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "failed to parse request body",
		})
	}

	if err := c.engine.ResendConfirmation(ctx.Context(), payload.Email); err != nil {
		return c.renderEngineError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"message": "confirmation email queued",
	})
}

// renderEngineError maps a classified engine failure onto its HTTP shape.
// Internal errors stay generic so store failures never leak details.
func (c *HTTPController) renderEngineError(ctx router.Context, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) || richErr.Category == goerrors.CategoryInternal {
		c.logger.Error("credential operation failed", "error", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{
			"error": "internal server error",
		})
	}

	return ctx.JSON(richErr.Code, map[string]string{
		"error": richErr.Message,
		"code":  richErr.TextCode,
	})
}
