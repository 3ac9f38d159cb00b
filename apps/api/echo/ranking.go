package echoapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/gradeboard/gradeboard/core/ranking"
	"github.com/gradeboard/gradeboard/core/student"
)

type rankingApi struct {
	svc    *student.Service
	engine *ranking.Engine
}

func registerRankingAPI(g *echo.Group, deps ServerDeps) {
	api := rankingApi{
		svc:    deps.StudentSvc,
		engine: deps.Engine,
	}

	g.GET("/rankings", api.rankings)
	g.GET("/rankings/export", api.export)
}

type RankingsResponse struct {
	Rankings []ranking.Entry `json:"rankings"`
	Stats    ranking.Stats   `json:"stats"`
}

func (api *rankingApi) rank(ctx echo.Context) (RankingsResponse, error) {
	students, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return RankingsResponse{}, errors.Wrap(err, "querying students")
	}
	entries, stats, err := api.engine.Rank(students)
	if err != nil {
		return RankingsResponse{}, errors.Wrap(err, "ranking students")
	}
	return RankingsResponse{Rankings: entries, Stats: stats}, nil
}

func (api *rankingApi) rankings(ctx echo.Context) error {
	res, err := api.rank(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

// export streams the current rankings as an XLSX workbook (the dashboard's
// "Download Report" action).
func (api *rankingApi) export(ctx echo.Context) error {
	res, err := api.rank(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil {
			ctx.Logger().Errorf("closing workbook: %v", cerr)
		}
	}()

	const sheet = "Rankings"
	if err = f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return errors.Wrap(err, "naming sheet")
	}

	headers := []interface{}{"Rank", "Name", "Roll No", "Total Marks", "Percentage", "Grade"}
	if err = f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return errors.Wrap(err, "writing header row")
	}
	for i, entry := range res.Rankings {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{entry.Rank, entry.Name, entry.RollNo, entry.TotalMarks, entry.Percentage, entry.Grade}
		if err = f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrap(err, "writing ranking row")
		}
	}

	var buf bytes.Buffer
	if err = f.Write(&buf); err != nil {
		return errors.Wrap(err, "serializing workbook")
	}

	filename := fmt.Sprintf("rankings-%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return ctx.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
