package events

import "issuebridge/internal/models"

const targetOperator = "operator"

func (e *Emitter) OperatorLogin(username string) {
	if e == nil {
		return
	}

	e.Emit(models.Event{
		Action: "operator.login",

		ActorRole: ActorOperator,
		ActorID:   username,

		TargetType: targetOperator,
		TargetID:   username,
	})
}
