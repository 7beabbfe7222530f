package dto

import (
	"bytes"
	"encoding/json"
	"time"

	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

// Update bodies are decoded key by key so that an absent field ("leave
// unchanged") can be told apart from an explicit null ("clear").

func invalidField(key string) error {
	return apierrors.Validation("field '%s' is invalid", key)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeBody(body []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, apierrors.Validation("request body must be a JSON object")
	}
	return fields, nil
}

// decodeRequired decodes a field that may be omitted but never null.
func decodeRequired[T any](key string, raw json.RawMessage) (*T, error) {
	if isNull(raw) {
		return nil, apierrors.Validation("field '%s' cannot be null", key)
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, invalidField(key)
	}
	return &v, nil
}

func decodePatch[T any](key string, raw json.RawMessage) (services.Patch[T], error) {
	if isNull(raw) {
		return services.Clear[T](), nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return services.Patch[T]{}, invalidField(key)
	}
	return services.SetTo(v), nil
}

func decodeDatePatch(key string, raw json.RawMessage) (services.Patch[time.Time], error) {
	s, err := decodePatch[string](key, raw)
	if err != nil || s.Value == nil || *s.Value == "" {
		return services.Clear[time.Time](), err
	}
	d, err := utils.ParseDate(*s.Value)
	if err != nil {
		return services.Patch[time.Time]{}, invalidField(key)
	}
	return services.SetTo(d), nil
}

// ParseUpdateTask decodes a PUT /api/tasks/:id body. Unknown keys are ignored
// but still recorded in the history entry.
func ParseUpdateTask(body []byte) (services.UpdateTaskInput, error) {
	input := services.UpdateTaskInput{Changes: json.RawMessage(body)}
	fields, err := decodeBody(body)
	if err != nil {
		return input, err
	}

	for key, raw := range fields {
		switch key {
		case "title":
			input.Title, err = decodeRequired[string](key, raw)
		case "status":
			var s *string
			if s, err = decodeRequired[string](key, raw); err == nil {
				status := models.TaskStatus(*s)
				input.Status = &status
			}
		case "priority":
			var s *string
			if s, err = decodeRequired[string](key, raw); err == nil {
				priority := models.TaskPriority(*s)
				input.Priority = &priority
			}
		case "description":
			input.Description, err = decodePatch[string](key, raw)
		case "dueDate":
			input.DueDate, err = decodeDatePatch(key, raw)
		case "completedDate":
			input.CompletedDate, err = decodeDatePatch(key, raw)
		case "estimatedDuration":
			input.EstimatedDuration, err = decodePatch[int](key, raw)
		case "paId":
			input.PaID, err = decodePatch[uint64](key, raw)
		case "ticketUrl":
			input.TicketURL, err = decodePatch[string](key, raw)
		case "tags":
			input.Tags, err = decodePatch[[]string](key, raw)
		case "notes":
			input.Notes, err = decodePatch[string](key, raw)
		case "assigneeIds":
			var ids []uint64
			if !isNull(raw) {
				if err = json.Unmarshal(raw, &ids); err != nil {
					err = invalidField(key)
				}
			}
			if ids == nil {
				ids = []uint64{}
			}
			input.AssigneeIDs = &ids
		}
		if err != nil {
			return input, err
		}
	}

	return input, nil
}

// ParseUpdateUser decodes a PUT /api/users/:id body.
func ParseUpdateUser(body []byte) (services.UpdateUserInput, error) {
	var input services.UpdateUserInput
	fields, err := decodeBody(body)
	if err != nil {
		return input, err
	}

	for key, raw := range fields {
		switch key {
		case "fullName":
			input.FullName, err = decodePatch[string](key, raw)
		case "avatarUrl":
			input.AvatarURL, err = decodePatch[string](key, raw)
		case "role":
			if isNull(raw) {
				continue
			}
			var role *string
			if role, err = decodeRequired[string](key, raw); err == nil {
				r := models.UserRole(*role)
				input.Role = &r
			}
		}
		if err != nil {
			return input, err
		}
	}

	return input, nil
}
