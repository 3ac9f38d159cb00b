package echoapi

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/gradeboard/gradeboard/core"
	"github.com/gradeboard/gradeboard/core/account"
)

const contextTokenKey = "accountToken"

// Claims represents the authorization claims transmitted via a JWT.
// Id carries the server-side session the token was issued against.
type Claims struct {
	jwt.StandardClaims
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`     // student -> STUDENT DASHBOARD; teacher -> TEACHER DASHBOARD
	RecordID string `json:"recordId,omitempty"` // linked Student/Teacher record
}

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    conf.SecretKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	}
}

// GetAccountClaims builds the claims for an account and its live session.
func GetAccountClaims(conf *core.Config, acct account.Account, session account.Session) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        session.ID,
			Issuer:    conf.AppName,
			Subject:   acct.ID,
			Audience:  "Gradeboard",
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Username: acct.Username,
		Email:    acct.Email,
		Role:     acct.Role,
		RecordID: acct.RecordID,
	}
}

// authenticate checks credentials, records the login and opens a fresh session.
func authenticate(ctx context.Context, uname, pwd string, svc *account.Service, conf *core.Config) (*Claims, error) {
	acct, err := svc.GetByUsernameOrEmail(ctx, uname)
	if err != nil {
		if errors.Cause(err) == account.ErrNotFound {
			return nil, errAuthenticationFailed
		}
		return nil, errors.Wrap(err, "finding account by username or email")
	}
	if err = acct.CheckPassword(pwd); err != nil {
		return nil, errAuthenticationFailed
	}
	if !acct.IsActive {
		return nil, errAccountDeactivated
	}
	acct, err = svc.SetLastLogin(ctx, acct)
	if err != nil {
		return nil, errors.Wrap(err, "setting lastLogin")
	}
	session, err := svc.OpenSession(ctx, acct)
	if err != nil {
		return nil, errors.Wrap(err, "opening session")
	}
	return GetAccountClaims(conf, acct, session), nil
}

// GenerateToken generates a signed JWT token string representing the account Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(middleware.AlgorithmHS256)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(conf.SecretKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// roleMiddleware restricts an endpoint to accounts holding one of the roles.
func roleMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}
