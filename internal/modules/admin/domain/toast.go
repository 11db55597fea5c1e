package domain

import "time"

type ToastLevel string

const (
	ToastSuccess ToastLevel = "success"
	ToastError   ToastLevel = "destructive"
	ToastInfo    ToastLevel = "default"
)

// Toast is a transient operator notification.
type Toast struct {
	Level   ToastLevel `json:"variant"`
	Title   string     `json:"title"`
	Message string     `json:"description"`
	Entity  string     `json:"entity,omitempty"`
	At      time.Time  `json:"at"`
}

func SuccessToast(entity, message string) Toast {
	return Toast{Level: ToastSuccess, Title: "Success", Message: message, Entity: entity, At: time.Now().UTC()}
}

func ErrorToast(entity, message string) Toast {
	return Toast{Level: ToastError, Title: "Error", Message: message, Entity: entity, At: time.Now().UTC()}
}

// ToastMessage wraps a toast for the websocket stream.
func ToastMessage(toast Toast) *Message {
	metadata := map[string]string{"variant": string(toast.Level)}
	if toast.Entity != "" {
		metadata["entity"] = toast.Entity
	}
	return &Message{
		Topic:     TopicToast,
		Entity:    ToastEntity,
		Action:    ActionShow,
		Metadata:  metadata,
		Data:      toast,
		Timestamp: toast.At,
	}
}
