package deliveries

import (
	"context"
	"errors"
	"strings"
	"time"

	"issuebridge/internal/errmsg"
	"issuebridge/internal/utils"

	"github.com/gofiber/fiber/v3"
)

const lookupTimeout = 2 * time.Second

// Routes wires GET /deliveries/:id behind auth.
func Routes(app fiber.Router, store *Store, auth fiber.Handler) {
	group := app.Group("/deliveries")

	group.Get("/:id", auth, getHandler(store))
}

func getHandler(store *Store) fiber.Handler {
	return func(c fiber.Ctx) error {
		id := strings.TrimSpace(c.Params("id"))

		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()

		d, err := store.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return utils.StatusError(c, errmsg.DeliveryNotFound)
		}
		if err != nil {
			return utils.StatusError(c, errmsg.InternalServerError(err))
		}

		return c.JSON(d)
	}
}
