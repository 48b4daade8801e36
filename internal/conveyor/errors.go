package conveyor

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TransportError reports a non-2xx HTTP response from the API. The raw
// response body is kept so the caller can surface it without loss.
type TransportError struct {
	Status int
	Body   string
}

func (e *TransportError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("conveyor API returned HTTP %d", e.Status)
	}
	return fmt.Sprintf("conveyor API returned HTTP %d: %s", e.Status, body)
}

// GraphQLError reports a 2xx response whose body carried a non-empty
// errors collection. Errors holds the collection exactly as returned
// by the service; nothing is dropped or summarized.
type GraphQLError struct {
	Errors json.RawMessage
}

func (e *GraphQLError) Error() string {
	if msgs := e.Messages(); len(msgs) > 0 {
		return fmt.Sprintf("conveyor API returned errors: %s", strings.Join(msgs, "; "))
	}
	return fmt.Sprintf("conveyor API returned errors: %s", string(e.Errors))
}

// Messages extracts the message field of each error entry, for
// human-readable rendering. The verbatim structure stays in Errors.
func (e *GraphQLError) Messages() []string {
	var entries []struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(e.Errors, &entries); err != nil {
		return nil
	}
	msgs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Message != "" {
			msgs = append(msgs, entry.Message)
		}
	}
	return msgs
}
