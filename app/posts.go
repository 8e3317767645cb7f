package main

import (
	"errors"
	"net/http"

	"github.com/sushihentaime/blogspot/internal/common"
	"github.com/sushihentaime/blogspot/internal/postservice"
)

func (app *application) createPostHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	var input postservice.CreatePostRequest
	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, err := app.postService.CreatePost(r.Context(), user.ID, &input)
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"post": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getPostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, err := app.postService.GetPostByID(r.Context(), id, app.viewerID(r))
	if err != nil {
		switch {
		case errors.Is(err, postservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"post": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getPostBySlugHandler(w http.ResponseWriter, r *http.Request) {
	slug, err := app.readSlugParam(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, err := app.postService.GetPostBySlug(r.Context(), slug, app.viewerID(r))
	if err != nil {
		switch {
		case errors.Is(err, postservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"post": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updatePostHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input postservice.UpdatePostRequest
	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, err := app.postService.UpdatePost(r.Context(), user.ID, user.IsAdmin, id, &input)
	if err != nil {
		switch {
		case errors.Is(err, postservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.Is(err, postservice.ErrNotOwner):
			app.forbiddenErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"post": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deletePostHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.postService.DeletePost(r.Context(), user.ID, user.IsAdmin, id)
	if err != nil {
		switch {
		case errors.Is(err, postservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.Is(err, postservice.ErrNotOwner):
			app.forbiddenErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "post deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getPostsByUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	params, err := app.readPageParams(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	page, err := app.postService.GetPostsByUser(r.Context(), id, app.viewerID(r), params)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"posts": page}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) searchPostsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		app.badRequestErrorResponse(w, r, errors.New("missing q parameter"))
		return
	}

	params, err := app.readPageParams(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	page, err := app.postService.SearchPosts(r.Context(), query, app.viewerID(r), params)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"posts": page}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) addImageHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input postservice.AddImageRequest
	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	image, err := app.postService.AddImage(r.Context(), user.ID, id, &input)
	if err != nil {
		switch {
		case errors.Is(err, postservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.Is(err, postservice.ErrNotOwner):
			app.forbiddenErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"image": image}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) removeImageHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	postID, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	imageID, err := app.readIDParam(r, "imageId")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.postService.RemoveImage(r.Context(), user.ID, postID, imageID)
	if err != nil {
		switch {
		case errors.Is(err, postservice.ErrRecordNotFound), errors.Is(err, postservice.ErrImageNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.Is(err, postservice.ErrNotOwner):
			app.forbiddenErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "image removed"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) addCommentHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input postservice.AddCommentRequest
	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	comment, err := app.postService.AddComment(r.Context(), user.ID, id, &input)
	if err != nil {
		switch {
		case errors.Is(err, postservice.ErrRecordNotFound), errors.Is(err, postservice.ErrCommentNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"comment": comment}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getCommentsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	params, err := app.readPageParams(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	page, err := app.postService.GetComments(r.Context(), id, params)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"comments": page}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.postService.DeleteComment(r.Context(), user.ID, id)
	if err != nil {
		switch {
		case errors.Is(err, postservice.ErrCommentNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.Is(err, postservice.ErrNotOwner):
			app.forbiddenErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "comment deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
