package usecase

import (
	"context"

	"nomadeAdmin/internal/modules/admin/application/port"
	"nomadeAdmin/internal/modules/admin/domain"
)

type BroadcastUseCase struct {
	broadcaster port.Broadcaster
}

func NewBroadcastUseCase(b port.Broadcaster) *BroadcastUseCase {
	return &BroadcastUseCase{broadcaster: b}
}

func (uc *BroadcastUseCase) Execute(ctx context.Context, msg *domain.Message) {
	if uc == nil || uc.broadcaster == nil || msg == nil {
		return
	}
	uc.broadcaster.Broadcast(ctx, msg)
}

// Toast pushes toast to the websocket stream.
func (uc *BroadcastUseCase) Toast(ctx context.Context, toast domain.Toast) {
	uc.Execute(ctx, domain.ToastMessage(toast))
}
