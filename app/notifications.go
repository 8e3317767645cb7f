package main

import "net/http"

func (app *application) getNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	params, err := app.readPageParams(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	page, err := app.notificationService.GetNotifications(r.Context(), user.ID, params)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"notifications": page}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getUnreadCountHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	count, err := app.notificationService.GetUnreadCount(r.Context(), user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"unread_count": count}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) markNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.notificationService.MarkRead(r.Context(), user.ID, id)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "notification marked as read"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) markAllNotificationsReadHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	err := app.notificationService.MarkAllRead(r.Context(), user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "all notifications marked as read"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
