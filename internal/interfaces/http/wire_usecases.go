package http

import (
	"time"

	adminUsecases "github.com/orris-inc/vipgate/internal/application/admin/usecases"
	channelUsecases "github.com/orris-inc/vipgate/internal/application/channel/usecases"
	enforcementUsecases "github.com/orris-inc/vipgate/internal/application/enforcement/usecases"
	membershipUsecases "github.com/orris-inc/vipgate/internal/application/membership/usecases"
	subscriptionUsecases "github.com/orris-inc/vipgate/internal/application/subscription/usecases"
)

type allUseCases struct {
	recordSubscription *subscriptionUsecases.RecordSubscriptionUseCase
	manageSubscription *subscriptionUsecases.ManageSubscriptionUseCase
	canResubscribe     *subscriptionUsecases.CanResubscribeUseCase

	applyInvoices     *membershipUsecases.ApplyInvoicesUseCase
	deleteMemberships *membershipUsecases.DeleteMembershipsUseCase
	banUsers          *membershipUsecases.BanUsersUseCase
	recoverBans       *membershipUsecases.RecoverBansUseCase
	queryMemberships  *membershipUsecases.QueryMembershipsUseCase

	expireAndKick    *enforcementUsecases.ExpireAndKickUseCase
	banRecovery      *enforcementUsecases.BanRecoveryUseCase
	refreshSnapshots *enforcementUsecases.RefreshSnapshotsUseCase
	expiryReminder   *enforcementUsecases.ExpiryReminderUseCase
	settings         *enforcementUsecases.SettingsUseCase

	manageChannels *channelUsecases.ManageChannelsUseCase
	manageAdmins   *adminUsecases.ManageAdminsUseCase
}

func (c *Container) newUseCases() *allUseCases {
	r := c.repos
	sched := c.cfg.Scheduler
	ucs := &allUseCases{}

	ucs.recordSubscription = subscriptionUsecases.NewRecordSubscriptionUseCase(r.subscriptionRepo, c.clock, c.log)
	ucs.manageSubscription = subscriptionUsecases.NewManageSubscriptionUseCase(r.subscriptionRepo, c.clock, c.log)
	ucs.canResubscribe = subscriptionUsecases.NewCanResubscribeUseCase(r.membershipRepo, r.settingRepo, c.defaults, c.clock)

	ucs.applyInvoices = membershipUsecases.NewApplyInvoicesUseCase(r.subscriptionRepo, r.membershipRepo, r.logRepo, c.txMgr, c.clock, c.log)
	ucs.deleteMemberships = membershipUsecases.NewDeleteMembershipsUseCase(r.membershipRepo, r.logRepo, c.txMgr, c.clock, c.log)
	ucs.banUsers = membershipUsecases.NewBanUsersUseCase(r.membershipRepo, c.txMgr, c.clock, c.log)
	ucs.recoverBans = membershipUsecases.NewRecoverBansUseCase(r.membershipRepo, c.txMgr, c.clock, c.log)
	ucs.queryMemberships = membershipUsecases.NewQueryMembershipsUseCase(r.membershipRepo, r.logRepo, c.clock)

	jobLog := c.log.Named("enforcement")
	ucs.expireAndKick = enforcementUsecases.NewExpireAndKickUseCase(
		r.membershipRepo, r.channelRepo, r.kickRepo, r.settingRepo,
		ucs.banUsers, c.groupClient, c.clock, jobLog, sched.RemovalConcurrency,
	)
	ucs.banRecovery = enforcementUsecases.NewBanRecoveryUseCase(
		ucs.recoverBans, r.settingRepo, c.defaults, r.channelRepo, c.groupClient, jobLog, sched.RemovalConcurrency,
	)
	ucs.refreshSnapshots = enforcementUsecases.NewRefreshSnapshotsUseCase(
		r.channelRepo, r.groupMemberRepo, c.groupClient, c.clock, jobLog,
		time.Duration(sched.SnapshotStaleMinutes)*time.Minute,
	)
	ucs.expiryReminder = enforcementUsecases.NewExpiryReminderUseCase(
		r.membershipRepo, c.notifier, c.clock, jobLog,
		time.Duration(sched.ReminderWindowDays)*24*time.Hour,
	)
	ucs.settings = enforcementUsecases.NewSettingsUseCase(r.settingRepo, c.defaults, c.clock, c.log)

	ucs.manageChannels = channelUsecases.NewManageChannelsUseCase(r.channelRepo, r.kickRepo, c.groupClient, c.clock, c.log)
	ucs.manageAdmins = adminUsecases.NewManageAdminsUseCase(r.adminRepo, c.clock, c.log)

	return ucs
}

// ApplyInvoices exposes the batch apply use case to the operator CLI.
func (c *Container) ApplyInvoices() *membershipUsecases.ApplyInvoicesUseCase {
	return c.ucs.applyInvoices
}

// Settings exposes the enforcement settings use case to the operator CLI.
func (c *Container) Settings() *enforcementUsecases.SettingsUseCase {
	return c.ucs.settings
}

// Admins exposes admin management for bootstrapping.
func (c *Container) Admins() *adminUsecases.ManageAdminsUseCase {
	return c.ucs.manageAdmins
}
