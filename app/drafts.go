package main

import (
	"errors"
	"net/http"

	"github.com/sushihentaime/blogspot/internal/postservice"
)

func (app *application) saveDraftHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	var input postservice.SaveDraftRequest
	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	draft, err := app.postService.SaveDraft(r.Context(), user.ID, &input)
	if err != nil {
		switch {
		case errors.Is(err, postservice.ErrDraftNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.Is(err, postservice.ErrNotOwner):
			app.forbiddenErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"draft": draft}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getDraftsHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	drafts, err := app.postService.GetDrafts(r.Context(), user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"drafts": drafts}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getDraftHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	draft, err := app.postService.GetDraftByID(r.Context(), user.ID, id)
	if err != nil {
		switch {
		case errors.Is(err, postservice.ErrDraftNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.Is(err, postservice.ErrNotOwner):
			app.forbiddenErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"draft": draft}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteDraftHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.postService.DeleteDraft(r.Context(), user.ID, id)
	if err != nil {
		switch {
		case errors.Is(err, postservice.ErrDraftNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.Is(err, postservice.ErrNotOwner):
			app.forbiddenErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "draft deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
