package http

import (
	"net/http"
	"net/url"
	"strings"

	"driverdesk/internal/core/application/usecases/commands"
	"driverdesk/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// noteID reads the :id path parameter.
func noteID(ctx echo.Context) (int64, error) {
	var id int64
	if err := echo.PathParamsBinder(ctx).MustInt64("id", &id).BindError(); err != nil {
		return 0, errBadRequest("note id must be an integer")
	}
	return id, nil
}

// orderParam reads the :order path parameter as a "#"-prefixed order name.
func orderParam(ctx echo.Context) string {
	name := ctx.Param("order")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	name = strings.TrimSpace(name)
	if name != "" && !strings.HasPrefix(name, "#") {
		name = "#" + name
	}
	return name
}

// ListNotes handles GET /notes?driver=&history=.
func (s *Server) ListNotes(ctx echo.Context) error {
	var history bool
	if err := echo.QueryParamsBinder(ctx).Bool("history", &history).BindError(); err != nil {
		return s.fail(ctx, errBadRequest("history must be a boolean"))
	}

	query, err := queries.NewListNotesQuery(ctx.QueryParam("driver"), history)
	if err != nil {
		return s.fail(ctx, err)
	}

	notes, err := s.queries.ListNotes.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, notes)
}

// GetNote handles GET /notes/:id?driver=.
func (s *Server) GetNote(ctx echo.Context) error {
	id, err := noteID(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetNoteQuery(ctx.QueryParam("driver"), id)
	if err != nil {
		return s.fail(ctx, err)
	}

	detail, err := s.queries.GetNote.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, detail)
}

// RemoveNoteItem handles DELETE /notes/:id/items/:order?driver=.
// The order name may be sent with or without its leading '#'.
func (s *Server) RemoveNoteItem(ctx echo.Context) error {
	id, err := noteID(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	command, err := commands.NewRemoveNoteItemCommand(ctx.QueryParam("driver"), id, orderParam(ctx))
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.commands.RemoveNoteItem.Handle(ctx.Request().Context(), command); err != nil {
		return s.fail(ctx, err)
	}
	return success(ctx)
}

// ApproveNote handles POST /notes/:id/approve?driver=.
func (s *Server) ApproveNote(ctx echo.Context) error {
	id, err := noteID(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	command, err := commands.NewApproveNoteCommand(ctx.QueryParam("driver"), id)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.commands.ApproveNote.Handle(ctx.Request().Context(), command); err != nil {
		return s.fail(ctx, err)
	}
	return success(ctx)
}
