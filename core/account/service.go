package account

import (
	"context"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/gradeboard/gradeboard/core"
)

var (
	ErrNotFound       = errors.New("account not found")
	ErrEmailExists    = errors.New("an account with this email already exists")
	ErrUsernameExists = errors.New("an account with this username already exists")
	ErrSessionGone    = errors.New("session not found")
)

type (
	Repository interface {
		CreateAccount(ctx context.Context, acct Account) (Account, error)
		GetAccountByID(ctx context.Context, id string) (Account, error)
		GetAccountByUsernameOrEmail(ctx context.Context, username string) (Account, error)
		GetAccountByEmail(ctx context.Context, email string) (Account, error)
		UpdateAccount(ctx context.Context, acct Account) (Account, error)
	}

	// SessionRegistry tracks live sessions so check-auth can fail closed and
	// logout can revoke server-side.
	SessionRegistry interface {
		Put(ctx context.Context, s Session) error
		Get(ctx context.Context, id string) (Session, error)
		FindByUser(ctx context.Context, role, userID string) (Session, error)
		Delete(ctx context.Context, id string) error
		DeleteByUser(ctx context.Context, role, userID string) error
	}

	Service struct {
		repo     Repository
		sessions SessionRegistry
		mailSvc  core.EmailService
		conf     *core.Config
	}
)

func NewService(repo Repository, sessions SessionRegistry, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{repo: repo, sessions: sessions, mailSvc: mailSvc, conf: conf}
}

func (svc *Service) Create(ctx context.Context, na NewAccount) (Account, error) {
	now := time.Now().UTC()
	acct := Account{
		ID:        uuid.New().String(),
		Name:      na.Name,
		Username:  core.CleanString(na.Username, true /* lower */),
		Email:     core.CleanString(na.Email, true /* lower */),
		Role:      na.Role,
		RecordID:  na.RecordID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := acct.SetPassword(na.Password); err != nil {
		return Account{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateAccount(ctx, acct)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Account, error) {
	return svc.repo.GetAccountByID(ctx, id)
}

func (svc *Service) GetByUsernameOrEmail(ctx context.Context, uname string) (Account, error) {
	return svc.repo.GetAccountByUsernameOrEmail(ctx, core.CleanString(uname, true /* lower */))
}

func (svc *Service) SetLastLogin(ctx context.Context, acct Account) (Account, error) {
	acct.LastLogin = time.Now().UTC()
	return svc.repo.UpdateAccount(ctx, acct)
}

// OpenSession registers a live session for the account's linked record.
// Any previous session for the same user is superseded.
func (svc *Service) OpenSession(ctx context.Context, acct Account) (Session, error) {
	now := time.Now().UTC()
	s := Session{
		ID:        uuid.New().String(),
		Role:      acct.Role,
		UserID:    acct.RecordID,
		IssuedAt:  now,
		ExpiresAt: now.Add(svc.conf.Server.SessionTTL),
	}
	if err := svc.sessions.DeleteByUser(ctx, acct.Role, acct.RecordID); err != nil && errors.Cause(err) != ErrSessionGone {
		return Session{}, errors.Wrap(err, "superseding previous session")
	}
	if err := svc.sessions.Put(ctx, s); err != nil {
		return Session{}, errors.Wrap(err, "registering session")
	}
	return s, nil
}

// CheckAuth reports whether a live, unexpired session exists for the given
// role and user id. Any ambiguity resolves to unauthenticated.
func (svc *Service) CheckAuth(ctx context.Context, role, userID string) (bool, error) {
	if !ValidRole(role) || userID == "" {
		return false, nil
	}
	s, err := svc.sessions.FindByUser(ctx, role, userID)
	if err != nil {
		if errors.Cause(err) == ErrSessionGone {
			return false, nil
		}
		return false, errors.Wrap(err, "finding session")
	}
	if s.Expired(time.Now().UTC()) {
		_ = svc.sessions.Delete(ctx, s.ID)
		return false, nil
	}
	return true, nil
}

// CloseSession revokes the session; best-effort by contract, so a missing
// session is not an error.
func (svc *Service) CloseSession(ctx context.Context, role, userID string) error {
	if err := svc.sessions.DeleteByUser(ctx, role, userID); err != nil && errors.Cause(err) != ErrSessionGone {
		return errors.Wrap(err, "deleting session")
	}
	return nil
}

// RequestPasswordReset emails a reset link to the account's address.
func (svc *Service) RequestPasswordReset(ctx context.Context, email string) error {
	acct, err := svc.repo.GetAccountByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	token, err := MakeToken(acct)
	if err != nil {
		return errors.Wrap(err, "generating reset token")
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: acct.Name, Address: acct.Email}},
		Subject:      "Password Reset",
		TemplateName: "password-reset",
		TemplateData: struct {
			Name, UID, Token string
		}{acct.Name, EncodeUID(acct), token},
	})
	return nil
}

func (svc *Service) ResetPassword(ctx context.Context, rp ResetAccountPassword) error {
	id, err := decodeUID(rp.UID)
	if err != nil {
		return core.NewValidationError(errInvalidToken, core.FieldError{Field: "token", Error: errInvalidToken.Error()})
	}
	acct, err := svc.repo.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			// do not disclose which part failed
			return core.NewValidationError(errInvalidToken, core.FieldError{Field: "token", Error: errInvalidToken.Error()})
		}
		return err
	}
	if err = verifyToken(acct, rp.Token); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "token", Error: err.Error()})
	}
	if err = acct.SetPassword(rp.Password); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	acct.UpdatedAt = time.Now().UTC()
	if _, err = svc.repo.UpdateAccount(ctx, acct); err != nil {
		return errors.Wrap(err, "saving new password")
	}
	// a password change revokes any live session
	return svc.CloseSession(ctx, acct.Role, acct.RecordID)
}
