package controller

import (
	"funnelapi/auth"
	"funnelapi/errs"
	"funnelapi/middleware"
	"funnelapi/utils"

	"github.com/gofiber/fiber/v2"
)

// MethodNotAllowed answers any method a resource does not define.
func MethodNotAllowed(c *fiber.Ctx) error {
	return utils.ErrorResponse(c, fiber.StatusMethodNotAllowed, "Method not allowed", nil)
}

func requireActor(c *fiber.Ctx) (*auth.Actor, error) {
	actor := middleware.CurrentActor(c)
	if actor == nil {
		return nil, errs.ErrNotAuthorized
	}
	return actor, nil
}

func pathID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if err := utils.ValidateVar("id", id, "required,uuid"); err != nil {
		return "", err
	}
	return id, nil
}

// parseBody decodes and validates a JSON body into req.
func parseBody(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return &errs.ValidationError{Err: err}
	}
	return utils.ValidateStruct(req)
}

// optionalUUID reads a query filter that must be a UUID when present.
func optionalUUID(c *fiber.Ctx, name string) (string, error) {
	v := c.Query(name)
	if v == "" {
		return "", nil
	}
	if err := utils.ValidateVar(name, v, "uuid"); err != nil {
		return "", err
	}
	return v, nil
}
