package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/campushq/exam-portal-api/internal/middleware"
)

var errNoIdentity = errors.New("request carries no identity")

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	value := c.Params(key)
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}
	return uint(parsed), nil
}

func callerID(c *fiber.Ctx) (uint, error) {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return 0, errNoIdentity
	}
	return identity.ID, nil
}
