package domain

import "strings"

// Topics are "<entity>.<action>". System and toast topics use reserved entity names.
const (
	SystemEntity = "system"
	ToastEntity  = "toast"

	ActionConnected = "connected"
	ActionPong      = "pong"
	ActionError     = "error"
	ActionList      = "list"
	ActionShow      = "show"
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionDeleted   = "deleted"

	TopicSystemConnected = SystemEntity + "." + ActionConnected
	TopicSystemPong      = SystemEntity + "." + ActionPong
	TopicSystemError     = SystemEntity + "." + ActionError
	TopicToast           = ToastEntity + "." + ActionShow
)

// ListTopic carries the list states of entity.
func ListTopic(entity string) string { return Topic(entity, ActionList) }

// Topic joins entity and action. Either part blank yields "".
func Topic(entity, action string) string {
	entity, action = strings.TrimSpace(entity), strings.ToLower(strings.TrimSpace(action))
	if entity == "" || action == "" {
		return ""
	}
	return entity + "." + action
}
