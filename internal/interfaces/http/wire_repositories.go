package http

import (
	"gorm.io/gorm"

	"github.com/orris-inc/vipgate/internal/infrastructure/repository"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	subscriptionRepo *repository.SubscriptionRepository
	membershipRepo   *repository.MembershipRepository
	logRepo          *repository.MembershipLogRepository
	channelRepo      *repository.ChannelRepository
	groupMemberRepo  *repository.GroupMemberRepository
	kickRepo         *repository.KickRecordRepository
	settingRepo      *repository.EnforcementSettingRepository
	adminRepo        *repository.AdminRepository
}

func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		subscriptionRepo: repository.NewSubscriptionRepository(db, log),
		membershipRepo:   repository.NewMembershipRepository(db, log),
		logRepo:          repository.NewMembershipLogRepository(db),
		channelRepo:      repository.NewChannelRepository(db),
		groupMemberRepo:  repository.NewGroupMemberRepository(db),
		kickRepo:         repository.NewKickRecordRepository(db),
		settingRepo:      repository.NewEnforcementSettingRepository(db),
		adminRepo:        repository.NewAdminRepository(db),
	}
}
