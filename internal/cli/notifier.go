package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"nomadeAdmin/internal/modules/admin/application/port"
	"nomadeAdmin/internal/modules/admin/domain"
)

// Notifier prints toasts as status lines.
type Notifier struct {
	mu  sync.Mutex
	out io.Writer
}

func NewNotifier(out io.Writer) *Notifier { return &Notifier{out: out} }

func (n *Notifier) Notify(_ context.Context, toast domain.Toast) {
	n.mu.Lock()
	defer n.mu.Unlock()
	label := "info"
	switch toast.Level {
	case domain.ToastSuccess:
		label = "ok"
	case domain.ToastError:
		label = "error"
	}
	fmt.Fprintf(n.out, "[%s] %s\n", label, toast.Message)
}

var _ port.Notifier = (*Notifier)(nil)
