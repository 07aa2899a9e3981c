package models

// Header is a single name/value pair as received on the wire. Names are not
// guaranteed to be unique, so requests keep them as an ordered list.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// InboundRequest is a webhook delivery stripped of its transport.
type InboundRequest struct {
	Headers []Header `json:"headers"`
	Body    []byte   `json:"body"`
}
