package main

import "net/http"

func (app *application) homeFeedHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	params, err := app.readPageParams(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	page, err := app.feedService.HomeFeed(r.Context(), user.ID, params)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"posts": page}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) trendingFeedHandler(w http.ResponseWriter, r *http.Request) {
	params, err := app.readPageParams(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	page, err := app.feedService.Trending(r.Context(), app.viewerID(r), params)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"posts": page}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) latestFeedHandler(w http.ResponseWriter, r *http.Request) {
	params, err := app.readPageParams(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	page, err := app.feedService.Latest(r.Context(), app.viewerID(r), params)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"posts": page}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
