package usecases

import "context"

// Run adapters let the scheduler treat each job as a batch returning one headline count.

func (uc *ExpireAndKickUseCase) Run(ctx context.Context) (int, error) {
	result, err := uc.Execute(ctx)
	return result.Banned, err
}

func (uc *BanRecoveryUseCase) Run(ctx context.Context) (int, error) {
	result, err := uc.Execute(ctx)
	return result.Recovered, err
}

func (uc *RefreshSnapshotsUseCase) Run(ctx context.Context) (int, error) {
	result, err := uc.Execute(ctx)
	return result.Refreshed, err
}

func (uc *ExpiryReminderUseCase) Run(ctx context.Context) (int, error) {
	result, err := uc.Execute(ctx)
	return result.Sent, err
}
