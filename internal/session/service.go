package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gyaan-ai/levelup-sub000/internal/auth"
	"github.com/gyaan-ai/levelup-sub000/internal/credit"
	"github.com/gyaan-ai/levelup-sub000/internal/facility"
	"github.com/gyaan-ai/levelup-sub000/internal/logger"
	"github.com/gyaan-ai/levelup-sub000/internal/metrics"
	"github.com/gyaan-ai/levelup-sub000/internal/notify"
	"github.com/gyaan-ai/levelup-sub000/internal/payment"
	"github.com/gyaan-ai/levelup-sub000/internal/user"
)

var (
	ErrNotAuthorized         = errors.New("actor is not allowed to perform this operation")
	ErrNoParticipants        = errors.New("at least one youth athlete is required")
	ErrInvalidMode           = errors.New("unknown scheduling mode")
	ErrWrongParticipantCount = errors.New("participant count does not match the scheduling mode")
	ErrNoFacility            = errors.New("no facility given and the coach has no default facility")
	ErrNotACoach             = errors.New("selected user is not a coach")
	ErrAthleteNotOwned       = errors.New("youth athlete does not belong to the booking parent")
	ErrPastSession           = errors.New("cannot book a session in the past")
	ErrOwnSession            = errors.New("cannot join your own session")
	ErrCodeExhausted         = errors.New("could not allocate a unique invite code")
)

// CheckoutProvider is the payment collaborator. Checkout creation is fire
// and forget: its absence or failure never blocks a booking.
type CheckoutProvider interface {
	Enabled() bool
	CreateCheckout(ctx context.Context, sessionID int, amountCents int64, description string) (checkoutID, url string, err error)
}

type PaymentStore interface {
	Create(ctx context.Context, sessionID int, checkoutID string, amountCents int64) (*payment.Payment, error)
	SetStatus(ctx context.Context, sessionID int, status string) error
}

type Service interface {
	Create(ctx context.Context, actor auth.Actor, req CreateSessionRequest) (*CreateSessionResponse, error)
	Get(ctx context.Context, actor auth.Actor, sessionID int) (*Session, error)
	ListMine(ctx context.Context, actor auth.Actor) ([]Session, error)
	ListOpen(ctx context.Context, actor auth.Actor) ([]Session, error)
	Cancel(ctx context.Context, actor auth.Actor, sessionID int, reason string) (*CancelSessionResponse, error)
	Reschedule(ctx context.Context, actor auth.Actor, sessionID int, newTime time.Time) error
	Complete(ctx context.Context, actor auth.Actor, sessionID int) error
	MarkNoShow(ctx context.Context, actor auth.Actor, sessionID int) error
	ResolveByCode(ctx context.Context, actor auth.Actor, code string) (*Session, error)
	JoinByCode(ctx context.Context, actor auth.Actor, code string, youthAthleteID int) (*Participant, error)
	ConfirmPayment(ctx context.Context, sessionID int) error
}

type service struct {
	repo         Repository
	creditRepo   credit.Repository
	facilityRepo facility.Repository
	userRepo     user.Repository
	checkout     CheckoutProvider
	payments     PaymentStore
	notifier     *notify.Service
}

func NewService(
	repo Repository,
	creditRepo credit.Repository,
	facilityRepo facility.Repository,
	userRepo user.Repository,
	checkout CheckoutProvider,
	payments PaymentStore,
	notifier *notify.Service,
) Service {
	return &service{
		repo:         repo,
		creditRepo:   creditRepo,
		facilityRepo: facilityRepo,
		userRepo:     userRepo,
		checkout:     checkout,
		payments:     payments,
		notifier:     notifier,
	}
}

func (s *service) Create(ctx context.Context, actor auth.Actor, req CreateSessionRequest) (*CreateSessionResponse, error) {
	if !actor.IsParent() && !actor.IsAdmin() {
		return nil, ErrNotAuthorized
	}

	if !ValidMode(req.Mode) {
		return nil, ErrInvalidMode
	}
	if len(req.YouthAthleteIDs) == 0 {
		return nil, ErrNoParticipants
	}
	if req.ScheduledAt.Before(time.Now()) {
		return nil, ErrPastSession
	}

	// Partner modes reserve the second seat for another family; the host
	// books exactly one athlete. Sibling sessions are two athletes of the
	// same family, private exactly one.
	switch req.Mode {
	case ModePrivate:
		if len(req.YouthAthleteIDs) != 1 {
			return nil, ErrWrongParticipantCount
		}
	case ModeSibling:
		if len(req.YouthAthleteIDs) != 2 {
			return nil, ErrWrongParticipantCount
		}
	case ModePartnerInvite, ModePartnerOpen:
		if len(req.YouthAthleteIDs) != 1 {
			return nil, ErrWrongParticipantCount
		}
	}

	for _, athleteID := range req.YouthAthleteIDs {
		ya, err := s.userRepo.GetYouthAthlete(ctx, athleteID)
		if err != nil {
			return nil, ErrAthleteNotOwned
		}
		if ya.ParentID != actor.ID {
			return nil, ErrAthleteNotOwned
		}
	}

	coach, err := s.userRepo.FindByID(ctx, req.CoachID)
	if err != nil || coach.Role != auth.RoleAthlete || coach.OrgID != actor.OrgID {
		return nil, ErrNotACoach
	}

	facilityID, err := s.resolveFacility(ctx, actor.OrgID, req.FacilityID, coach)
	if err != nil {
		return nil, err
	}

	maxParticipants := SeatsForMode(req.Mode)
	perSeat := req.Pricing.TotalCents / int64(maxParticipants)

	sess := &Session{
		OrgID:              actor.OrgID,
		ParentID:           actor.ID,
		CoachID:            coach.ID,
		FacilityID:         facilityID,
		Mode:               req.Mode,
		Status:             StatusPendingPayment,
		ScheduledAt:        req.ScheduledAt,
		DurationMinutes:    SessionDurationMinutes,
		MaxParticipants:    maxParticipants,
		TotalCents:         req.Pricing.TotalCents,
		AthletePayoutCents: req.Pricing.AthletePayoutCents,
		OrgFeeCents:        req.Pricing.OrgFeeCents,
		StripeFeeCents:     req.Pricing.StripeFeeCents,
		PricePerSeatCents:  perSeat,
	}

	participants := make([]Participant, 0, len(req.YouthAthleteIDs))
	for _, athleteID := range req.YouthAthleteIDs {
		participants = append(participants, Participant{
			YouthAthleteID: athleteID,
			ParentID:       actor.ID,
			AmountCents:    req.Pricing.TotalCents / int64(len(req.YouthAthleteIDs)),
		})
	}

	created, err := s.createWithCode(ctx, sess, participants)
	if err != nil {
		return nil, err
	}

	metrics.RecordSessionCreated(created.Mode)

	resp := &CreateSessionResponse{
		SessionID:  created.ID,
		Mode:       created.Mode,
		InviteCode: created.PartnerInviteCode,
	}

	if s.checkout != nil && s.checkout.Enabled() {
		checkoutID, url, err := s.checkout.CreateCheckout(ctx, created.ID, created.TotalCents,
			fmt.Sprintf("Training session with %s", coach.Name))
		if err != nil {
			metrics.RecordCheckout("failed")
			logger.Errorf("Failed to create checkout for session %d: %v", created.ID, err)
		} else {
			metrics.RecordCheckout("created")
			if _, err := s.payments.Create(ctx, created.ID, checkoutID, created.TotalCents); err != nil {
				logger.Errorf("Failed to record payment for session %d: %v", created.ID, err)
			}
			resp.CheckoutURL = &url
		}
	}

	if parent, err := s.userRepo.FindByID(ctx, actor.ID); err == nil {
		s.notifier.SendSessionBooked(ctx, parent.Email, parent.Name, coach.Name, created.ScheduledAt)
	}

	return resp, nil
}

// createWithCode inserts the session, allocating a tenant-unique invite
// code for partner_invite mode. The unique index is the authority; a
// collision surfaces as ErrCodeTaken and we regenerate.
func (s *service) createWithCode(ctx context.Context, sess *Session, participants []Participant) (*Session, error) {
	if sess.Mode != ModePartnerInvite {
		return s.repo.CreateWithParticipants(ctx, sess, participants)
	}

	for attempt := 0; attempt < maxInviteCodeAttempts; attempt++ {
		code, err := GenerateInviteCode()
		if err != nil {
			return nil, err
		}
		sess.PartnerInviteCode = &code

		created, err := s.repo.CreateWithParticipants(ctx, sess, participants)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, ErrCodeTaken) {
			return nil, err
		}
		metrics.RecordInviteCodeRetry()
		logger.Infof("Invite code collision on attempt %d, regenerating", attempt+1)
	}

	return nil, ErrCodeExhausted
}

func (s *service) resolveFacility(ctx context.Context, orgID int, explicit *int, coach *user.User) (int, error) {
	if explicit != nil {
		f, err := s.facilityRepo.GetByID(ctx, *explicit)
		if err != nil || f.OrgID != orgID {
			return 0, ErrNoFacility
		}
		return f.ID, nil
	}

	if coach.DefaultFacilityID != nil {
		return *coach.DefaultFacilityID, nil
	}

	return 0, ErrNoFacility
}

func (s *service) Get(ctx context.Context, actor auth.Actor, sessionID int) (*Session, error) {
	sess, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.OrgID != actor.OrgID {
		return nil, ErrNotFound
	}
	return sess, nil
}

func (s *service) ListMine(ctx context.Context, actor auth.Actor) ([]Session, error) {
	if actor.IsCoach() {
		return s.repo.ListByCoach(ctx, actor.ID)
	}
	return s.repo.ListByParent(ctx, actor.ID)
}

func (s *service) ListOpen(ctx context.Context, actor auth.Actor) ([]Session, error) {
	return s.repo.ListOpenPartner(ctx, actor.OrgID)
}

// canManage is the single authorization check for lifecycle mutations: the
// owning parent, the assigned coach, or an admin.
func canManage(actor auth.Actor, sess *Session) bool {
	if actor.OrgID != sess.OrgID {
		return false
	}
	switch {
	case actor.IsAdmin():
		return true
	case actor.IsParent() && sess.ParentID == actor.ID:
		return true
	case actor.IsCoach() && sess.CoachID == actor.ID:
		return true
	}
	return false
}

func (s *service) Cancel(ctx context.Context, actor auth.Actor, sessionID int, reason string) (*CancelSessionResponse, error) {
	sess, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !canManage(actor, sess) {
		return nil, ErrNotAuthorized
	}

	// The repository re-checks under a row lock; this is just a friendlier
	// fast path for the common cases.
	if sess.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if !IsActive(sess.Status) {
		return nil, ErrNotCancellable
	}

	priorStatus, err := s.repo.Cancel(ctx, sessionID, actor.ID, reason)
	if err != nil {
		return nil, err
	}

	metrics.RecordCancellation(actor.Role)

	resp := &CancelSessionResponse{Message: "Session cancelled"}

	decision := credit.Decide(priorStatus, sess.ScheduledAt, sess.TotalCents, actor, sess.ParentID, time.Now())
	if decision.Issue {
		// Credit issuance is best-effort: the cancellation has already
		// committed and must not be unwound by a ledger failure.
		description := fmt.Sprintf("Credit for cancelled session #%d", sess.ID)
		cr, err := s.creditRepo.Create(ctx, sess.ParentID, decision.AmountCents, decision.Source, &sess.ID, description)
		if err != nil {
			logger.Errorf("Failed to issue credit for session %d: %v", sess.ID, err)
		} else {
			if err := s.repo.LinkCredit(ctx, sess.ID, cr.ID); err != nil {
				logger.Errorf("Failed to link credit %d to session %d: %v", cr.ID, sess.ID, err)
			}
			metrics.RecordCreditIssued(cr.AmountCents)
			resp.CreditIssued = true
			resp.CreditAmountCents = cr.AmountCents
			resp.Message = fmt.Sprintf("Session cancelled; a $%.2f credit was added to your account",
				float64(cr.AmountCents)/100)
		}
	}

	var creditCents int64
	if resp.CreditIssued {
		creditCents = resp.CreditAmountCents
	}
	if parent, err := s.userRepo.FindByID(ctx, sess.ParentID); err == nil {
		s.notifier.SendSessionCancelled(ctx, parent.Email, parent.Name, sess.ScheduledAt, creditCents)
	}

	return resp, nil
}

func (s *service) Reschedule(ctx context.Context, actor auth.Actor, sessionID int, newTime time.Time) error {
	sess, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}

	if !canManage(actor, sess) {
		return ErrNotAuthorized
	}
	if !IsActive(sess.Status) {
		return ErrNotReschedulable
	}
	if newTime.Before(time.Now()) {
		return ErrPastSession
	}

	if err := s.repo.UpdateSchedule(ctx, sessionID, newTime); err != nil {
		return err
	}

	if parent, err := s.userRepo.FindByID(ctx, sess.ParentID); err == nil {
		s.notifier.SendSessionRescheduled(ctx, parent.Email, parent.Name, sess.ScheduledAt, newTime)
	}

	return nil
}

func (s *service) Complete(ctx context.Context, actor auth.Actor, sessionID int) error {
	return s.closeOut(ctx, actor, sessionID, s.repo.MarkCompleted)
}

func (s *service) MarkNoShow(ctx context.Context, actor auth.Actor, sessionID int) error {
	return s.closeOut(ctx, actor, sessionID, s.repo.MarkNoShow)
}

func (s *service) closeOut(ctx context.Context, actor auth.Actor, sessionID int, mark func(context.Context, int) error) error {
	sess, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}

	// Only the coach who ran the session, or an admin, can close it out.
	if actor.OrgID != sess.OrgID || (!actor.IsAdmin() && !(actor.IsCoach() && sess.CoachID == actor.ID)) {
		return ErrNotAuthorized
	}

	return mark(ctx, sessionID)
}

func (s *service) ResolveByCode(ctx context.Context, actor auth.Actor, code string) (*Session, error) {
	return s.repo.GetByInviteCode(ctx, actor.OrgID, code)
}

func (s *service) JoinByCode(ctx context.Context, actor auth.Actor, code string, youthAthleteID int) (*Participant, error) {
	if !actor.IsParent() {
		return nil, ErrNotAuthorized
	}

	sess, err := s.repo.GetByInviteCode(ctx, actor.OrgID, code)
	if err != nil {
		return nil, err
	}

	if sess.ParentID == actor.ID {
		return nil, ErrOwnSession
	}

	ya, err := s.userRepo.GetYouthAthlete(ctx, youthAthleteID)
	if err != nil || ya.ParentID != actor.ID {
		return nil, ErrAthleteNotOwned
	}

	p, err := s.repo.AddParticipant(ctx, sess.ID, Participant{
		YouthAthleteID: youthAthleteID,
		ParentID:       actor.ID,
		AmountCents:    sess.PricePerSeatCents,
	})
	if err != nil {
		return nil, err
	}

	if host, err := s.userRepo.FindByID(ctx, sess.ParentID); err == nil {
		s.notifier.SendJoinRequestReceived(ctx, host.Email, host.Name, ya.Name, sess.ScheduledAt)
	}

	return p, nil
}

// ConfirmPayment is invoked by the payment webhook. Cancellation wins the
// race: a confirmation that arrives after a cancel marks the payment
// orphaned for a manual refund instead of reviving the session.
func (s *service) ConfirmPayment(ctx context.Context, sessionID int) error {
	err := s.repo.ConfirmPayment(ctx, sessionID)
	if err == nil {
		if s.payments != nil {
			if perr := s.payments.SetStatus(ctx, sessionID, payment.StatusPaid); perr != nil {
				logger.Errorf("Failed to mark payment paid for session %d: %v", sessionID, perr)
			}
		}
		return nil
	}

	if errors.Is(err, ErrNotPendingPayment) {
		sess, gerr := s.repo.GetByID(ctx, sessionID)
		if gerr == nil && sess.Status == StatusCancelled {
			logger.Errorf("Payment confirmed for already-cancelled session %d, flagging for refund", sessionID)
			if s.payments != nil {
				if perr := s.payments.SetStatus(ctx, sessionID, payment.StatusOrphaned); perr != nil {
					logger.Errorf("Failed to mark payment orphaned for session %d: %v", sessionID, perr)
				}
			}
		}
	}

	return err
}
