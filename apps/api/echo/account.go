package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gradeboard/gradeboard/core"
	"github.com/gradeboard/gradeboard/core/account"
	"github.com/gradeboard/gradeboard/core/student"
	"github.com/gradeboard/gradeboard/core/teacher"
)

type accountApi struct {
	svc        *account.Service
	studentSvc *student.Service
	teacherSvc *teacher.Service
	conf       *core.Config
	validate   *validator.Validate
}

func registerAccountAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := accountApi{
		svc:        deps.AccountSvc,
		studentSvc: deps.StudentSvc,
		teacherSvc: deps.TeacherSvc,
		conf:       deps.Conf,
		validate:   deps.Validate,
	}

	// un-authed endpoints
	g.POST("/login", api.login)
	g.GET("/check-auth", api.checkAuth)
	g.POST("/password-reset", api.resetPassword)
	g.POST("/password-reset-confirm", api.confirmPasswordReset)

	// authed endpoints
	g.POST("/logout", api.logout, jwt)
}

// Handlers

func (api *accountApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := authenticate(ctx.Request().Context(), data.Username, data.Password, api.svc, api.conf)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	token, err := GenerateToken(api.conf, claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	usr, err := api.lookupRecord(ctx, claims.Role, claims.RecordID)
	if err != nil {
		return errors.Wrap(err, "finding linked record")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, UserType: claims.Role, User: usr})
}

// checkAuth reports whether a live session exists for the given role and
// record id. Lookups and registry failures all present as unauthenticated;
// the dashboard gate treats anything but a clean yes as a denial anyway.
func (api *accountApi) checkAuth(ctx echo.Context) error {
	role := ctx.QueryParam("userType")
	userID := ctx.QueryParam("userId")

	ok, err := api.svc.CheckAuth(ctx.Request().Context(), role, userID)
	if err != nil || !ok {
		return ctx.JSON(http.StatusOK, CheckAuthResponse{Authenticated: false})
	}

	usr, err := api.lookupRecord(ctx, role, userID)
	if err != nil {
		return ctx.JSON(http.StatusOK, CheckAuthResponse{Authenticated: false})
	}
	return ctx.JSON(http.StatusOK, CheckAuthResponse{Authenticated: true, User: usr})
}

func (api *accountApi) logout(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if err = api.svc.CloseSession(ctx.Request().Context(), claims.Role, claims.RecordID); err != nil {
		return errors.Wrap(err, "closing session")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

func (api *accountApi) resetPassword(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.RequestPasswordReset(ctx.Request().Context(), data.Email); !(err == nil || errors.Cause(err) == account.ErrNotFound) {
		// do not return errors to attackers
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "requesting password reset"))
	}
	return ctx.JSON(http.StatusOK, MessageResponse{
		Message: "If the email address supplied is associated with an active account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})
}

func (api *accountApi) confirmPasswordReset(ctx echo.Context) error {
	var data account.ResetAccountPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetAccountPassword")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.ResetPassword(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Password has been reset with the new password."})
}

// lookupRecord resolves the Student or Teacher record an account links to.
func (api *accountApi) lookupRecord(ctx echo.Context, role, recordID string) (interface{}, error) {
	switch role {
	case account.RoleStudent:
		return api.studentSvc.GetByID(ctx.Request().Context(), recordID)
	case account.RoleTeacher:
		return api.teacherSvc.GetByID(ctx.Request().Context(), recordID)
	}
	return nil, account.ErrNotFound
}

// Request/Response serializers

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token    string      `json:"token"`
		UserType string      `json:"userType"`
		User     interface{} `json:"user"`
	}

	CheckAuthResponse struct {
		Authenticated bool        `json:"authenticated"`
		User          interface{} `json:"user,omitempty"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	MessageResponse struct {
		Message string `json:"message"`
	}
)

func (r *LoginRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

func (r *PasswordResetRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}
