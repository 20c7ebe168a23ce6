package person

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aanand-mishra/persons-api/internal/types"
)

// personRequest is the body accepted by POST and PUT.
//
// Browser forms send every value as a string, so a client may post
// {"id":"","name":"Ann","email":"ann@x.com","age":"30"}. The id is taken
// as raw JSON and dropped, whatever its type, and age accepts a number or
// a numeric string.
type personRequest struct {
	ID    json.RawMessage `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Age   age             `json:"age"`
}

func (p personRequest) toPerson() types.Person {
	return types.Person{
		Name:  p.Name,
		Email: p.Email,
		Age:   int(p.Age),
	}
}

// age decodes from 30, "30", "" or null. "" and null mean 0.
type age int

func (a *age) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*a = 0
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*a = 0
			return nil
		}
	}

	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return fmt.Errorf("field age must be an integer, got %s", data)
	}
	*a = age(n)
	return nil
}

var errTrailingData = errors.New("request body must contain a single JSON object")

// readPersonRequest decodes exactly one JSON value from body. Anything
// other than whitespace after it is an error.
func readPersonRequest(body io.Reader) (personRequest, error) {
	var req personRequest

	dec := json.NewDecoder(body)
	if err := dec.Decode(&req); err != nil {
		return personRequest{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return personRequest{}, errTrailingData
	}

	return req, nil
}
