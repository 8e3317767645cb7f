package main

import (
	"errors"
	"net/http"

	"github.com/sushihentaime/blogspot/internal/engagementservice"
)

func (app *application) toggleLikeHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	liked, err := app.engagementService.ToggleLike(r.Context(), user.ID, id)
	if err != nil {
		switch {
		case errors.Is(err, engagementservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"liked": liked}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) toggleBookmarkHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	bookmarked, err := app.engagementService.ToggleBookmark(r.Context(), user.ID, id)
	if err != nil {
		switch {
		case errors.Is(err, engagementservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"bookmarked": bookmarked}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type toggleReactionRequest struct {
	Type string `json:"type"`
}

func (app *application) toggleReactionHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input toggleReactionRequest
	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	summary, err := app.engagementService.ToggleReaction(r.Context(), user.ID, id, input.Type)
	if err != nil {
		switch {
		case errors.Is(err, engagementservice.ErrInvalidReactionType):
			app.badRequestErrorResponse(w, r, err)
		case errors.Is(err, engagementservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"reactions": summary}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getReactionsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	summary, err := app.engagementService.GetReactions(r.Context(), id, app.viewerID(r))
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"reactions": summary}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getBookmarksHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	params, err := app.readPageParams(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	page, err := app.postService.GetBookmarkedPosts(r.Context(), user.ID, params)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"posts": page}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
