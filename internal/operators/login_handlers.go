package operators

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"issuebridge/internal/errmsg"
	"issuebridge/internal/events"
	"issuebridge/internal/models"
	"issuebridge/internal/utils"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/crypto/bcrypt"
)

const lookupTimeout = 5 * time.Second

// lookupOperator is swapped in tests that run without mongo.
var lookupOperator = func(ctx context.Context, username string) (models.Operator, error) {
	var op models.Operator
	err := op.Get(ctx, username)
	return op, err
}

func loginHandler(c fiber.Ctx) error {
	var body models.Operator
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return utils.StatusError(c, errmsg.OperatorInvalidPayload)
	}

	body.Username = strings.TrimSpace(body.Username)
	body.Password = strings.TrimSpace(body.Password)
	if body.Username == "" || body.Password == "" {
		return utils.StatusError(c, errmsg.OperatorInvalidPayload)
	}

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	op, err := lookupOperator(ctx, body.Username)
	if errors.Is(err, models.ErrOperatorNotFound) {
		return utils.StatusError(c, errmsg.OperatorNotExists)
	}
	if err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	if bcrypt.CompareHashAndPassword(
		[]byte(op.Password),
		[]byte(body.Password),
	) != nil {
		return utils.StatusError(c, errmsg.OperatorWrongPassword)
	}

	token := op.GenToken()

	events.Em.OperatorLogin(op.Username)

	op.Password = ""

	return c.JSON(fiber.Map{
		"token":    token,
		"operator": op,
	})
}
