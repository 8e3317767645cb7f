package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)

	// user service
	router.HandlerFunc(http.MethodPost, "/v1/users/register", app.registerUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/users/login", app.loginUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/users/logout", app.requireAuthUser(app.logoutUserHandler))
	router.HandlerFunc(http.MethodPut, "/v1/users/profile", app.requireAuthUser(app.updateProfileHandler))
	router.HandlerFunc(http.MethodGet, "/v1/users/suggested", app.requireAuthUser(app.suggestedUsersHandler))
	router.HandlerFunc(http.MethodGet, "/v1/users/analytics", app.requireAuthUser(app.creatorAnalyticsHandler))
	router.HandlerFunc(http.MethodGet, "/v1/users/username/:username", app.getProfileByUsernameHandler)
	router.HandlerFunc(http.MethodGet, "/v1/users/id/:id", app.getProfileHandler)
	router.HandlerFunc(http.MethodPost, "/v1/users/id/:id/follow", app.requireAuthUser(app.toggleFollowHandler))
	router.HandlerFunc(http.MethodGet, "/v1/users/id/:id/followers", app.getFollowersHandler)
	router.HandlerFunc(http.MethodGet, "/v1/users/id/:id/following", app.getFollowingHandler)

	// post service. The by-id routes live under /v1/posts/id so that the
	// static siblings (search, slug, user) can share the /v1/posts prefix
	// without conflicting with a wildcard segment.
	router.HandlerFunc(http.MethodPost, "/v1/posts", app.requireAuthUser(app.createPostHandler))
	router.HandlerFunc(http.MethodGet, "/v1/posts/search", app.searchPostsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/posts/slug/:slug", app.getPostBySlugHandler)
	router.HandlerFunc(http.MethodGet, "/v1/posts/user/:id", app.getPostsByUserHandler)
	router.HandlerFunc(http.MethodGet, "/v1/posts/id/:id", app.getPostHandler)
	router.HandlerFunc(http.MethodPut, "/v1/posts/id/:id", app.requireAuthUser(app.updatePostHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/posts/id/:id", app.requireAuthUser(app.deletePostHandler))
	router.HandlerFunc(http.MethodPost, "/v1/posts/id/:id/images", app.requireAuthUser(app.addImageHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/posts/id/:id/images/:imageId", app.requireAuthUser(app.removeImageHandler))
	router.HandlerFunc(http.MethodPost, "/v1/posts/id/:id/comments", app.requireAuthUser(app.addCommentHandler))
	router.HandlerFunc(http.MethodGet, "/v1/posts/id/:id/comments", app.getCommentsHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/comments/:id", app.requireAuthUser(app.deleteCommentHandler))

	// engagement service
	router.HandlerFunc(http.MethodPost, "/v1/posts/id/:id/like", app.requireAuthUser(app.toggleLikeHandler))
	router.HandlerFunc(http.MethodPost, "/v1/posts/id/:id/bookmark", app.requireAuthUser(app.toggleBookmarkHandler))
	router.HandlerFunc(http.MethodPost, "/v1/posts/id/:id/reactions", app.requireAuthUser(app.toggleReactionHandler))
	router.HandlerFunc(http.MethodGet, "/v1/posts/id/:id/reactions", app.getReactionsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/bookmarks", app.requireAuthUser(app.getBookmarksHandler))

	// feed service
	router.HandlerFunc(http.MethodGet, "/v1/feed/home", app.requireAuthUser(app.homeFeedHandler))
	router.HandlerFunc(http.MethodGet, "/v1/feed/trending", app.trendingFeedHandler)
	router.HandlerFunc(http.MethodGet, "/v1/feed/latest", app.latestFeedHandler)

	// notification service
	router.HandlerFunc(http.MethodGet, "/v1/notifications", app.requireAuthUser(app.getNotificationsHandler))
	router.HandlerFunc(http.MethodGet, "/v1/notifications/unread-count", app.requireAuthUser(app.getUnreadCountHandler))
	router.HandlerFunc(http.MethodPut, "/v1/notifications/read-all", app.requireAuthUser(app.markAllNotificationsReadHandler))
	router.HandlerFunc(http.MethodPut, "/v1/notifications/id/:id/read", app.requireAuthUser(app.markNotificationReadHandler))

	// drafts
	router.HandlerFunc(http.MethodPost, "/v1/drafts", app.requireAuthUser(app.saveDraftHandler))
	router.HandlerFunc(http.MethodGet, "/v1/drafts", app.requireAuthUser(app.getDraftsHandler))
	router.HandlerFunc(http.MethodGet, "/v1/drafts/:id", app.requireAuthUser(app.getDraftHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/drafts/:id", app.requireAuthUser(app.deleteDraftHandler))

	return app.recoverPanic(app.rateLimit(app.logRequest(app.authenticate(router))))
}
