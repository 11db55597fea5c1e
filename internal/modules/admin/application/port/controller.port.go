package port

import (
	"context"

	"nomadeAdmin/internal/modules/admin/domain"
)

// ListPage is the type-erased view of a list controller used by the HTTP and CLI surfaces.
type ListPage interface {
	Entity() string
	Mount(ctx context.Context) error
	SetSearchTerm(ctx context.Context, term string) error
	Refresh(ctx context.Context) error
	SetPage(ctx context.Context, page int) error
	Load(ctx context.Context, term string, page int) error
	Snapshot() any
	Lookup(ctx context.Context, id string) (any, error)
	Remove(ctx context.Context, id string) error
	StatsSnapshot() (any, bool)
	Subscribe(fn func(*domain.Message)) (unsubscribe func())
}

// Form is the type-erased view of an entity form.
type Form interface {
	LoadReferences(ctx context.Context) map[string][]Option
	Set(field string, value any)
	Draft() map[string]any
	SubmitAny(ctx context.Context) (any, error)
}

// ListDirectory resolves the list controller serving a canonical entity.
type ListDirectory interface {
	List(entity string) (ListPage, bool)
}
