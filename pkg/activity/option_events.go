package activity

import (
	"strings"
	"time"
)

const (
	VerbOptionUpdated  = "option.updated"
	VerbOptionReset    = "option.reset"
	VerbOptionLocked   = "option.locked"
	VerbOptionUnlocked = "option.unlocked"

	// ObjectTypeOption is the object type of every option event.
	ObjectTypeOption = "config.option"
)

// OptionEventInput carries the fields shared by option lifecycle events.
type OptionEventInput struct {
	ActorID    string
	Channel    string
	Holder     string
	Option     string
	Path       string
	OldValue   any
	NewValue   any
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildOptionUpdatedEvent describes a value written to an option path.
func BuildOptionUpdatedEvent(input OptionEventInput) Event {
	return buildOptionEvent(VerbOptionUpdated, input)
}

// BuildOptionResetEvent describes an option path restored to its default.
func BuildOptionResetEvent(input OptionEventInput) Event {
	return buildOptionEvent(VerbOptionReset, input)
}

// BuildOptionLockedEvent describes a registry lock placed on an option.
func BuildOptionLockedEvent(input OptionEventInput) Event {
	return buildOptionEvent(VerbOptionLocked, input)
}

// BuildOptionUnlockedEvent describes a registry lock being lifted.
func BuildOptionUnlockedEvent(input OptionEventInput) Event {
	return buildOptionEvent(VerbOptionUnlocked, input)
}

func buildOptionEvent(verb string, input OptionEventInput) Event {
	metadata := cloneMap(input.Metadata)
	set := func(key string, value any) {
		if metadata == nil {
			metadata = map[string]any{}
		}
		metadata[key] = value
	}
	if input.Holder != "" {
		set("holder", input.Holder)
	}
	if input.Option != "" {
		set("option", input.Option)
	}
	if input.Path != "" {
		set("path", input.Path)
	}
	if input.OldValue != nil {
		set("old_value", input.OldValue)
	}
	if input.NewValue != nil {
		set("new_value", input.NewValue)
	}

	objectID := strings.TrimSpace(input.Path)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Option)
	}
	if objectID == "" {
		objectID = ObjectTypeOption
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		ObjectType: ObjectTypeOption,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}
