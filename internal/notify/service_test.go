package notify

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/gyaan-ai/levelup-sub000/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func newTestService(rdb *redis.Client) *Service {
	return &Service{
		redis:    rdb,
		from:     "noreply@levelup.app",
		fromName: "LevelUp",
		smtpHost: "smtp.test.com",
		smtpPort: "587",
		smtpUser: "test@example.com",
		smtpPass: "password",
	}
}

func TestSend(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush(queueKey, `.*`).SetVal(1)

	svc := newTestService(db)

	err := svc.Send(ctx, "test", "parent@example.com", "Pat", "Hello", "Test body")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendQueueFailure(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush(queueKey, `.*`).SetErr(assert.AnError)

	svc := newTestService(db)

	err := svc.Send(ctx, "test", "parent@example.com", "Pat", "Hello", "Test body")
	assert.Error(t, err)
}

func TestSendSessionBooked(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush(queueKey, `.*`).SetVal(1)

	svc := newTestService(db)

	when := time.Now().Add(48 * time.Hour)
	err := svc.SendSessionBooked(ctx, "parent@example.com", "Pat", "Coach Jordan", when)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendSessionCancelledMentionsCredit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	// The queued payload carries the credit amount in dollars.
	mock.Regexp().ExpectLPush(queueKey, `.*120\.00.*`).SetVal(1)

	svc := newTestService(db)

	err := svc.SendSessionCancelled(ctx, "parent@example.com", "Pat", time.Now().Add(48*time.Hour), 12000)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendJoinRequestResolved(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush(queueKey, `.*`).SetVal(1)
	mock.Regexp().ExpectLPush(queueKey, `.*`).SetVal(1)

	svc := newTestService(db)
	when := time.Now().Add(48 * time.Hour)

	assert.NoError(t, svc.SendJoinRequestResolved(ctx, "sam@example.com", "Sam", true, when))
	assert.NoError(t, svc.SendJoinRequestResolved(ctx, "sam@example.com", "Sam", false, when))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueLength(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.ExpectLLen(queueKey).SetVal(3)

	svc := newTestService(db)
	assert.Equal(t, int64(3), svc.QueueLength(ctx))
}
