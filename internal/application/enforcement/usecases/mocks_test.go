package usecases

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/orris-inc/vipgate/internal/domain/channel"
)

type mockGroupClient struct {
	mock.Mock
}

func (m *mockGroupClient) RemoveMember(ctx context.Context, ref channel.Ref, userID int64) (channel.KickOutcome, error) {
	args := m.Called(ref.URL, userID)
	return args.Get(0).(channel.KickOutcome), args.Error(1)
}

func (m *mockGroupClient) RestoreMember(ctx context.Context, ref channel.Ref, userID int64) error {
	args := m.Called(ref.URL, userID)
	return args.Error(0)
}

func (m *mockGroupClient) ResolveChannel(ctx context.Context, ref channel.Ref) (channel.Resolution, error) {
	args := m.Called(ref.URL)
	return args.Get(0).(channel.Resolution), args.Error(1)
}

func (m *mockGroupClient) ListMembers(ctx context.Context, chatID int64, offset, limit int) ([]channel.GroupMember, error) {
	args := m.Called(chatID, offset, limit)
	members, _ := args.Get(0).([]channel.GroupMember)
	return members, args.Error(1)
}

type recordingNotifier struct {
	mu      sync.Mutex
	sent    map[int64]string
	failFor map[int64]error
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{sent: map[int64]string{}, failFor: map[int64]error{}}
}

func (n *recordingNotifier) SendMessage(ctx context.Context, userID int64, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err, ok := n.failFor[userID]; ok {
		return err
	}
	n.sent[userID] = text
	return nil
}
