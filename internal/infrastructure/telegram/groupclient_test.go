package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/vipgate/internal/domain/channel"
	sharedConfig "github.com/orris-inc/vipgate/internal/shared/config"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

type fakeBotAPI struct {
	mu       sync.Mutex
	calls    []string
	bodies   []map[string]any
	handlers map[string]func(body map[string]any) (int, string)
}

func newFakeBotAPI(t *testing.T) (*fakeBotAPI, *BotService) {
	t.Helper()
	fake := &fakeBotAPI{handlers: map[string]func(map[string]any) (int, string){}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.URL.Path[strings.LastIndexByte(r.URL.Path, '/')+1:]
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		fake.mu.Lock()
		fake.calls = append(fake.calls, method)
		fake.bodies = append(fake.bodies, body)
		h := fake.handlers[method]
		fake.mu.Unlock()

		status, payload := http.StatusOK, `{"ok":true,"result":true}`
		if h != nil {
			status, payload = h(body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)

	bot := NewBotService(sharedConfig.TelegramConfig{
		BotToken:   "123:abc",
		APIBaseURL: srv.URL,
		MaxRetries: 3,
	}, logger.NewNopLogger())
	return fake, bot
}

func (f *fakeBotAPI) on(method string, h func(body map[string]any) (int, string)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method] = h
}

func (f *fakeBotAPI) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == method {
			n++
		}
	}
	return n
}

func apiError(code int, description string) (int, string) {
	payload, _ := json.Marshal(map[string]any{"ok": false, "error_code": code, "description": description})
	return code, string(payload)
}

func TestChatTarget(t *testing.T) {
	id := int64(-100123)
	tests := []struct {
		name    string
		ref     channel.Ref
		want    any
		wantErr bool
	}{
		{name: "resolved id wins", ref: channel.Ref{ChatID: &id, URL: "https://t.me/x"}, want: id},
		{name: "public link", ref: channel.Ref{URL: "https://t.me/vipclub"}, want: "@vipclub"},
		{name: "link without scheme", ref: channel.Ref{URL: "t.me/vipclub/12"}, want: "@vipclub"},
		{name: "username", ref: channel.Ref{URL: "@vipclub"}, want: "@vipclub"},
		{name: "numeric string", ref: channel.Ref{URL: "-1001"}, want: int64(-1001)},
		{name: "private invite", ref: channel.Ref{URL: "https://t.me/+AbCdEf"}, wantErr: true},
		{name: "legacy invite", ref: channel.Ref{URL: "https://t.me/joinchat/AbCdEf"}, wantErr: true},
		{name: "empty", ref: channel.Ref{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := chatTarget(tt.ref)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnresolvableRef)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGroupClient_RemoveMemberOutcomes(t *testing.T) {
	fake, bot := newFakeBotAPI(t)
	client := NewGroupClient(bot, logger.NewNopLogger())
	ref := channel.Ref{URL: "https://t.me/vipclub"}
	ctx := context.Background()

	outcome, err := client.RemoveMember(ctx, ref, 1)
	require.NoError(t, err)
	assert.Equal(t, channel.KickOutcomeRemoved, outcome)
	assert.Equal(t, 1, fake.count("banChatMember"))
	assert.Equal(t, 1, fake.count("unbanChatMember"))

	fake.on("banChatMember", func(map[string]any) (int, string) {
		return apiError(400, "Bad Request: PARTICIPANT_ID_INVALID")
	})
	outcome, err = client.RemoveMember(ctx, ref, 2)
	require.NoError(t, err)
	assert.Equal(t, channel.KickOutcomeNotParticipant, outcome)

	fake.on("banChatMember", func(map[string]any) (int, string) {
		return apiError(400, "Bad Request: not enough rights to restrict/unrestrict chat member")
	})
	outcome, err = client.RemoveMember(ctx, ref, 3)
	require.Error(t, err)
	assert.Equal(t, channel.KickOutcomeNoPermission, outcome)

	fake.on("banChatMember", func(map[string]any) (int, string) {
		return apiError(400, "Bad Request: chat not found")
	})
	outcome, err = client.RemoveMember(ctx, ref, 4)
	require.Error(t, err)
	assert.Equal(t, channel.KickOutcomeError, outcome)
	assert.Equal(t, 4, fake.count("banChatMember"), "api errors other than 429 are not retried")
}

func TestBotService_RetriesRateLimit(t *testing.T) {
	fake, bot := newFakeBotAPI(t)
	var attempts atomic.Int32
	fake.on("unbanChatMember", func(map[string]any) (int, string) {
		if attempts.Add(1) == 1 {
			return http.StatusTooManyRequests, `{"ok":false,"error_code":429,"description":"Too Many Requests: retry after 1","parameters":{"retry_after":1}}`
		}
		return http.StatusOK, `{"ok":true,"result":true}`
	})

	client := NewGroupClient(bot, logger.NewNopLogger())
	require.NoError(t, client.RestoreMember(context.Background(), channel.Ref{URL: "@vipclub"}, 9))
	assert.EqualValues(t, 2, attempts.Load())
}

func TestGroupClient_ResolveChannel(t *testing.T) {
	fake, bot := newFakeBotAPI(t)
	fake.on("getChat", func(body map[string]any) (int, string) {
		return http.StatusOK, `{"ok":true,"result":{"id":-1009,"type":"supergroup","title":"VIP"}}`
	})
	fake.on("getMe", func(map[string]any) (int, string) {
		return http.StatusOK, `{"ok":true,"result":{"id":777,"is_bot":true,"first_name":"gate"}}`
	})
	fake.on("getChatMember", func(body map[string]any) (int, string) {
		return http.StatusOK, `{"ok":true,"result":{"status":"administrator","user":{"id":777,"is_bot":true}}}`
	})

	client := NewGroupClient(bot, logger.NewNopLogger())
	res, err := client.ResolveChannel(context.Background(), channel.Ref{URL: "https://t.me/vipclub"})
	require.NoError(t, err)
	assert.Equal(t, channel.Resolution{ChatID: -1009, Title: "VIP", BotJoined: true}, res)

	_, err = client.ResolveChannel(context.Background(), channel.Ref{URL: "https://t.me/vipclub"})
	require.NoError(t, err)
	assert.Equal(t, 1, fake.count("getMe"), "bot id is cached")

	fake.mu.Lock()
	assert.Equal(t, "@vipclub", fake.bodies[0]["chat_id"])
	fake.mu.Unlock()
}

func TestGroupClient_ListMembersPagesAdministrators(t *testing.T) {
	fake, bot := newFakeBotAPI(t)
	fake.on("getChatAdministrators", func(map[string]any) (int, string) {
		return http.StatusOK, `{"ok":true,"result":[
			{"status":"creator","user":{"id":1,"first_name":"Ann","username":"ann"}},
			{"status":"administrator","user":{"id":2,"is_bot":true,"first_name":"gate"}},
			{"status":"administrator","user":{"id":3,"first_name":""}}
		]}`
	})

	client := NewGroupClient(bot, logger.NewNopLogger())
	first, err := client.ListMembers(context.Background(), -1009, 0, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "ann", first[0].Username)
	assert.True(t, first[1].IsBot)

	rest, err := client.ListMembers(context.Background(), -1009, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.True(t, rest[0].IsDeleted)

	none, err := client.ListMembers(context.Background(), -1009, 4, 2)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestIsBotBlocked(t *testing.T) {
	fake, bot := newFakeBotAPI(t)
	fake.on("sendMessage", func(map[string]any) (int, string) {
		return apiError(403, "Forbidden: bot was blocked by the user")
	})
	err := bot.SendMessage(context.Background(), 5, "hi")
	require.Error(t, err)
	assert.True(t, IsBotBlocked(err))
	assert.Equal(t, 1, fake.count("sendMessage"))
}
