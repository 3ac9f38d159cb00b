package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gradeboard/gradeboard/core/account"
	"github.com/gradeboard/gradeboard/core/ranking"
	"github.com/gradeboard/gradeboard/core/student"
)

type studentApi struct {
	svc    *student.Service
	engine *ranking.Engine
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := studentApi{
		svc:    deps.StudentSvc,
		engine: deps.Engine,
	}

	g.GET("/students", api.query)
	g.GET("/student/:id", api.retrieve)
	g.GET("/student/:id/result", api.result)

	// only teachers record marks
	g.POST("/student/:id/marks", api.updateMarks, jwt, roleMiddleware(account.RoleTeacher))
}

// Handlers

func (api *studentApi) query(ctx echo.Context) error {
	students, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	st, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding student by ID")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentApi) updateMarks(ctx echo.Context) error {
	var data student.UpdateMarks
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateMarks")
	}

	st, err := api.svc.UpdateMarks(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating marks")
	}
	return ctx.JSON(http.StatusOK, UpdateMarksResponse{Message: "Marks updated successfully", Student: st})
}

// result assembles the per-subject report card for one student.
func (api *studentApi) result(ctx echo.Context) error {
	st, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding student by ID")
	}
	res, err := api.engine.Result(st)
	if err != nil {
		return errors.Wrap(err, "computing result")
	}
	return ctx.JSON(http.StatusOK, res)
}

type UpdateMarksResponse struct {
	Message string          `json:"message"`
	Student student.Student `json:"student"`
}
