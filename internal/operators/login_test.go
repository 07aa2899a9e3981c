package operators

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"issuebridge/internal/env"
	"issuebridge/internal/errmsg"
	"issuebridge/internal/models"
	"issuebridge/test/helpers"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testOperatorUsername = "testoperator"
	testOperatorPassword = "testoperator"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	env.JWT_SECRET = []byte("operators-test-secret")

	hash, err := bcrypt.GenerateFromPassword([]byte(testOperatorPassword), bcrypt.MinCost)
	require.NoError(t, err)

	original := lookupOperator
	lookupOperator = func(_ context.Context, username string) (models.Operator, error) {
		if username != testOperatorUsername {
			return models.Operator{}, models.ErrOperatorNotFound
		}
		return models.Operator{Username: username, Password: string(hash)}, nil
	}
	t.Cleanup(func() { lookupOperator = original })

	app := fiber.New()
	Routes(app)
	app.Get("/whoami", models.OperatorMiddleware, func(c fiber.Ctx) error {
		op, err := models.CurrentOperator(c)
		if err != nil {
			return err
		}
		return c.SendString(op.Username)
	})

	return app
}

func login(t *testing.T, app *fiber.App, username, password string) ([]byte, int) {
	t.Helper()

	sendBytes, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	require.NoError(t, err)

	return helpers.RequestRunner(t, app, http.MethodPost, "/operators/login", sendBytes, nil)
}

func TestOperatorsPing(t *testing.T) {
	app := newTestApp(t)

	body, statusCode := helpers.RequestRunner(t, app, http.MethodGet, "/operators/ping", nil, nil)
	require.Equal(t, http.StatusOK, statusCode)
	require.Equal(t, "PONG", string(body))
}

func TestOperatorsLoginSuccess(t *testing.T) {
	app := newTestApp(t)

	body, statusCode := login(t, app, testOperatorUsername, testOperatorPassword)
	require.Equal(t, http.StatusOK, statusCode)

	var payload struct {
		Token    string `json:"token"`
		Operator struct {
			Username string `json:"username"`
			Password string `json:"password"`
		} `json:"operator"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NotEmpty(t, payload.Token)
	require.Equal(t, testOperatorUsername, payload.Operator.Username)
	require.Empty(t, payload.Operator.Password)

	whoami, statusCode := helpers.RequestRunner(t, app, http.MethodGet, "/whoami", nil, &payload.Token)
	require.Equal(t, http.StatusOK, statusCode)
	require.Equal(t, testOperatorUsername, string(whoami))
}

func TestOperatorsLoginWrongPassword(t *testing.T) {
	app := newTestApp(t)

	body, statusCode := login(t, app, testOperatorUsername, "wrong-password")
	helpers.ResponseErrorCheck(t, app, errmsg.OperatorWrongPassword, body, statusCode)
}

func TestOperatorsLoginUserNotFound(t *testing.T) {
	app := newTestApp(t)

	body, statusCode := login(t, app, "missing-user", "whatever")
	helpers.ResponseErrorCheck(t, app, errmsg.OperatorNotExists, body, statusCode)
}

func TestOperatorsLoginInvalidPayload(t *testing.T) {
	app := newTestApp(t)

	body, statusCode := login(t, app, "", "")
	helpers.ResponseErrorCheck(t, app, errmsg.OperatorInvalidPayload, body, statusCode)
}

func TestOperatorMiddlewareRejectsMissingToken(t *testing.T) {
	app := newTestApp(t)

	body, statusCode := helpers.RequestRunner(t, app, http.MethodGet, "/whoami", nil, nil)
	helpers.ResponseErrorCheck(t, app, errmsg.OperatorNoToken, body, statusCode)
}

func TestOperatorMiddlewareRejectsForeignToken(t *testing.T) {
	app := newTestApp(t)

	op := models.Operator{Username: testOperatorUsername}
	env.JWT_SECRET = []byte("some-other-secret")
	token := op.GenToken()
	env.JWT_SECRET = []byte("operators-test-secret")

	body, statusCode := helpers.RequestRunner(t, app, http.MethodGet, "/whoami", nil, &token)
	helpers.ResponseErrorCheck(t, app, errmsg.OperatorInvalidToken, body, statusCode)
}
