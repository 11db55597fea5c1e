package port

import (
	"context"

	"nomadeAdmin/internal/modules/admin/domain"
)

// Notifier surfaces operator-facing toasts.
type Notifier interface {
	Notify(ctx context.Context, toast domain.Toast)
}

// Confirmer blocks until the operator accepts or declines a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// NotifierFunc adapts a plain function into a Notifier.
type NotifierFunc func(ctx context.Context, toast domain.Toast)

func (f NotifierFunc) Notify(ctx context.Context, toast domain.Toast) { f(ctx, toast) }

// ConfirmerFunc adapts a plain function into a Confirmer.
type ConfirmerFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmerFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}
