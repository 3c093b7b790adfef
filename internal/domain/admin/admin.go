package admin

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Level int

const (
	LevelOrdinary Level = 1
	LevelSuper    Level = 10
)

func (l Level) IsValid() bool {
	return l == LevelOrdinary || l == LevelSuper
}

func (l Level) IsSuper() bool {
	return l >= LevelSuper
}

// Role is the authorization subject name for the level.
func (l Level) Role() string {
	if l.IsSuper() {
		return "super_admin"
	}
	return "admin"
}

var (
	ErrInvalidUserID    = errors.New("user id is required")
	ErrInvalidLevel     = errors.New("invalid admin level")
	ErrNotAdmin         = errors.New("operator is not an admin")
	ErrSuperRequired    = errors.New("only a super admin may manage super admins")
	ErrAlreadyAdmin     = errors.New("user is already an admin")
	ErrAdminNotFound    = errors.New("admin not found")
	ErrCannotRemoveSelf = errors.New("admins cannot remove themselves")
)

type Admin struct {
	id        uint
	userID    int64
	username  string
	level     Level
	remark    string
	createdAt time.Time
}

func NewAdmin(userID int64, username string, level Level, remark string, now time.Time) (*Admin, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	if level == 0 {
		level = LevelOrdinary
	}
	if !level.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	return &Admin{userID: userID, username: username, level: level, remark: remark, createdAt: now}, nil
}

func ReconstructAdmin(id uint, userID int64, username string, level Level, remark string, createdAt time.Time) *Admin {
	return &Admin{id: id, userID: userID, username: username, level: level, remark: remark, createdAt: createdAt}
}

func (a *Admin) ID() uint             { return a.id }
func (a *Admin) UserID() int64        { return a.userID }
func (a *Admin) Username() string     { return a.username }
func (a *Admin) Level() Level         { return a.level }
func (a *Admin) Remark() string       { return a.remark }
func (a *Admin) CreatedAt() time.Time { return a.createdAt }

func (a *Admin) SetID(id uint) {
	a.id = id
}

// CanManage reports whether operator may create or remove an admin at target level.
func CanManage(operator *Admin, target Level) error {
	if operator == nil {
		return ErrNotAdmin
	}
	if target.IsSuper() && !operator.level.IsSuper() {
		return ErrSuperRequired
	}
	return nil
}

type Repository interface {
	Create(ctx context.Context, a *Admin) error
	// GetByUserID returns nil, nil when userID is not an admin.
	GetByUserID(ctx context.Context, userID int64) (*Admin, error)
	DeleteByUserID(ctx context.Context, userID int64) error
	// List orders super admins first.
	List(ctx context.Context) ([]*Admin, error)
}
