package normalizer

import "encoding/json"

// issuesPayload holds the parts of an issues delivery the normalizer reads.
// Everything else in the body is ignored, whatever its shape.
type issuesPayload struct {
	Action     *string       `json:"action"`
	Issue      *issuePayload `json:"issue"`
	Repository *repoPayload  `json:"repository"`
}

type issuePayload struct {
	ID      *int64        `json:"id"`
	Title   *string       `json:"title"`
	HTMLURL *string       `json:"html_url"`
	Body    presentString `json:"body"`
	User    *userPayload  `json:"user"`
}

type userPayload struct {
	Login *string `json:"login"`
}

type repoPayload struct {
	FullName *string `json:"full_name"`
}

// nullText is how a null issue body appears in custom details. GitHub sends
// null for issues opened without a description.
const nullText = "null"

// presentString records whether a key was present at all. A JSON null counts
// as present and reads as "null".
type presentString struct {
	Value string
	Set   bool
}

func (s *presentString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = presentString{Value: nullText, Set: true}
		return nil
	}

	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	*s = presentString{Value: v, Set: true}
	return nil
}
