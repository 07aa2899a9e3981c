package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"issuebridge/internal/db"
	"issuebridge/internal/env"
	"issuebridge/internal/errmsg"
	"issuebridge/internal/utils"

	sj "github.com/brianvoe/sjwt"
	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	operatorLocals = "operator"
	tokenLifetime  = 30 * 24 * time.Hour
)

var ErrOperatorNotFound = errors.New("operator does not exist")

// Operator is a person allowed to inspect delivery receipts.
type Operator struct {
	Username string `json:"username" bson:"username"`
	Password string `json:"password,omitempty" bson:"password"`
}

func (op *Operator) GenToken() string {
	claims, _ := sj.ToClaims(Operator{Username: op.Username})
	claims.SetExpiresAt(time.Now().Add(tokenLifetime))

	return claims.Generate(env.JWT_SECRET)
}

func (op *Operator) ParseToken(token string) error {
	if !sj.Verify(token, env.JWT_SECRET) {
		return errors.New("token signature mismatch")
	}

	claims, err := sj.Parse(token)
	if err != nil {
		return err
	}
	if err := claims.Validate(); err != nil {
		return err
	}

	return claims.ToStruct(op)
}

// Get loads the operator by username.
func (op *Operator) Get(ctx context.Context, username string) error {
	err := db.Operators.FindOne(ctx, bson.M{
		"username": username,
	}).Decode(op)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrOperatorNotFound
	}
	if err != nil {
		return err
	}

	if op.Password == "" {
		return ErrOperatorNotFound
	}

	return nil
}

// OperatorMiddleware requires a valid "Bearer <token>" Authorization header.
func OperatorMiddleware(c fiber.Ctx) error {
	authHeader := strings.TrimSpace(c.Get("Authorization"))

	tokens := strings.Fields(authHeader)
	if len(tokens) != 2 || !strings.EqualFold(tokens[0], "Bearer") {
		return utils.StatusError(c, errmsg.OperatorNoToken)
	}

	var op Operator
	if err := op.ParseToken(tokens[1]); err != nil || op.Username == "" {
		return utils.StatusError(c, errmsg.OperatorInvalidToken)
	}

	if err := utils.SetLocals(c, operatorLocals, op); err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	return c.Next()
}

// CurrentOperator returns the operator set by OperatorMiddleware.
func CurrentOperator(c fiber.Ctx) (Operator, error) {
	var op Operator
	err := utils.GetLocals(c, operatorLocals, &op)
	return op, err
}
