package server

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"blogly/internal/models"

	"github.com/gofiber/fiber/v2"
)

// parseID extracts a route parameter as a positive id. Anything else is a
// page that does not exist.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		return 0, fiber.ErrNotFound
	}
	return uint(id), nil
}

// formValues returns every value submitted for key, from either a multipart
// or an urlencoded body.
func formValues(c *fiber.Ctx, key string) []string {
	if form, err := c.MultipartForm(); err == nil {
		return form.Value[key]
	}
	var values []string
	for _, v := range c.Request().PostArgs().PeekMulti(key) {
		values = append(values, string(v))
	}
	return values
}

// formIDs parses the repeated id field key. A malformed id is a 400.
func formIDs(c *fiber.Ctx, key string) ([]uint, error) {
	raw := formValues(c, key)
	ids := make([]uint, 0, len(raw))
	for _, v := range raw {
		id, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
		if err != nil || id == 0 {
			return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Invalid %s id %q", key, v))
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// checkedSet marks ids for the tag checkboxes.
func checkedSet(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// appMessage returns the user-facing message of an AppError.
func appMessage(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
