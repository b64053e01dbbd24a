package joinrequest

import (
	"context"
	"errors"

	"github.com/gyaan-ai/levelup-sub000/internal/auth"
	"github.com/gyaan-ai/levelup-sub000/internal/logger"
	"github.com/gyaan-ai/levelup-sub000/internal/metrics"
	"github.com/gyaan-ai/levelup-sub000/internal/notify"
	"github.com/gyaan-ai/levelup-sub000/internal/session"
	"github.com/gyaan-ai/levelup-sub000/internal/user"
)

var (
	ErrNotAuthorized   = errors.New("actor is not allowed to perform this operation")
	ErrNotOpenPartner  = errors.New("session does not accept join requests")
	ErrOwnSession      = errors.New("cannot request to join your own session")
	ErrAthleteNotOwned = errors.New("youth athlete does not belong to the requesting parent")
)

type Service interface {
	Submit(ctx context.Context, actor auth.Actor, sessionID int, req SubmitRequest) (*JoinRequest, error)
	ListForSession(ctx context.Context, actor auth.Actor, sessionID int) ([]JoinRequest, error)
	ListMine(ctx context.Context, actor auth.Actor) ([]JoinRequest, error)
	Approve(ctx context.Context, actor auth.Actor, requestID int) error
	Decline(ctx context.Context, actor auth.Actor, requestID int) error
}

type service struct {
	repo        Repository
	sessionRepo session.Repository
	userRepo    user.Repository
	notifier    *notify.Service
}

func NewService(repo Repository, sessionRepo session.Repository, userRepo user.Repository, notifier *notify.Service) Service {
	return &service{
		repo:        repo,
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

func (s *service) Submit(ctx context.Context, actor auth.Actor, sessionID int, req SubmitRequest) (*JoinRequest, error) {
	if !actor.IsParent() {
		return nil, ErrNotAuthorized
	}

	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.OrgID != actor.OrgID {
		return nil, session.ErrNotFound
	}
	if sess.Mode != session.ModePartnerOpen {
		return nil, ErrNotOpenPartner
	}
	if sess.ParentID == actor.ID {
		return nil, ErrOwnSession
	}

	// Friendly fast path; approval re-checks under the session lock.
	if !session.IsActive(sess.Status) {
		return nil, session.ErrSessionNotOpen
	}
	if sess.CurrentParticipants >= sess.MaxParticipants {
		return nil, session.ErrSessionFull
	}

	ya, err := s.userRepo.GetYouthAthlete(ctx, req.YouthAthleteID)
	if err != nil || ya.ParentID != actor.ID {
		return nil, ErrAthleteNotOwned
	}

	created, err := s.repo.Submit(ctx, &JoinRequest{
		SessionID:      sessionID,
		ParentID:       actor.ID,
		YouthAthleteID: req.YouthAthleteID,
		Message:        req.Message,
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordJoinRequest("submitted")

	if host, err := s.userRepo.FindByID(ctx, sess.ParentID); err == nil {
		s.notifier.SendJoinRequestReceived(ctx, host.Email, host.Name, ya.Name, sess.ScheduledAt)
	}

	return created, nil
}

func (s *service) ListForSession(ctx context.Context, actor auth.Actor, sessionID int) ([]JoinRequest, error) {
	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !canResolve(actor, sess) {
		return nil, ErrNotAuthorized
	}
	return s.repo.ListBySession(ctx, sessionID)
}

func (s *service) ListMine(ctx context.Context, actor auth.Actor) ([]JoinRequest, error) {
	return s.repo.ListByParent(ctx, actor.ID)
}

// canResolve gates arbitration: the hosting parent or an admin.
func canResolve(actor auth.Actor, sess *session.Session) bool {
	if actor.OrgID != sess.OrgID {
		return false
	}
	return actor.IsAdmin() || (actor.IsParent() && sess.ParentID == actor.ID)
}

func (s *service) Approve(ctx context.Context, actor auth.Actor, requestID int) error {
	req, sess, err := s.loadForResolve(ctx, actor, requestID)
	if err != nil {
		return err
	}

	err = s.repo.Approve(ctx, requestID, actor.ID, sess.PricePerSeatCents)
	if err != nil {
		if errors.Is(err, session.ErrSessionFull) {
			metrics.RecordJoinApproveRaceLoss()
			logger.Infof("Approval of request %d lost the seat race for session %d", requestID, sess.ID)
		}
		return err
	}

	metrics.RecordJoinRequest("approved")
	s.notifyResolved(ctx, req, sess, true)
	return nil
}

func (s *service) Decline(ctx context.Context, actor auth.Actor, requestID int) error {
	req, sess, err := s.loadForResolve(ctx, actor, requestID)
	if err != nil {
		return err
	}

	if err := s.repo.Decline(ctx, requestID, actor.ID); err != nil {
		return err
	}

	metrics.RecordJoinRequest("declined")
	s.notifyResolved(ctx, req, sess, false)
	return nil
}

func (s *service) loadForResolve(ctx context.Context, actor auth.Actor, requestID int) (*JoinRequest, *session.Session, error) {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}

	sess, err := s.sessionRepo.GetByID(ctx, req.SessionID)
	if err != nil {
		return nil, nil, err
	}

	if !canResolve(actor, sess) {
		return nil, nil, ErrNotAuthorized
	}

	return req, sess, nil
}

func (s *service) notifyResolved(ctx context.Context, req *JoinRequest, sess *session.Session, approved bool) {
	if requester, err := s.userRepo.FindByID(ctx, req.ParentID); err == nil {
		s.notifier.SendJoinRequestResolved(ctx, requester.Email, requester.Name, approved, sess.ScheduledAt)
	}
}
