package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/sushihentaime/blogspot/internal/common"
)

type envelope map[string]any

func (app *application) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	json, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}

	for key, values := range headers {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(json)

	return nil
}

func (app *application) parseJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	maxBytes := 1_048_576
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	err := decoder.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("request body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("request body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("request body contains an invalid value for the %q field", unmarshalTypeError.Field)
			}
			return fmt.Errorf("request body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("request body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("request body contains unknown field %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("request body must not be larger than %d bytes", maxBytesError.Limit)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}
	err = decoder.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("request body must only contain a single JSON value")
	}
	return nil
}

func (app *application) readIDParam(r *http.Request, key string) (int, error) {
	params := httprouter.ParamsFromContext(r.Context())

	id, err := strconv.Atoi(params.ByName(key))
	if err != nil || id < 1 {
		return 0, errors.New("invalid ID parameter")
	}

	return id, nil
}

func (app *application) readSlugParam(r *http.Request) (string, error) {
	params := httprouter.ParamsFromContext(r.Context())

	slug := params.ByName("slug")
	if slug == "" {
		return "", errors.New("invalid slug parameter")
	}

	return slug, nil
}

func (app *application) readUsernameParam(r *http.Request) (string, error) {
	params := httprouter.ParamsFromContext(r.Context())

	username := params.ByName("username")
	if username == "" {
		return "", errors.New("invalid username parameter")
	}

	return username, nil
}

// readPageParams reads page/page_size query parameters. Out-of-range values
// fall back to the service defaults via Normalize rather than erroring.
func (app *application) readPageParams(r *http.Request) (common.PageParams, error) {
	query := r.URL.Query()

	var params common.PageParams

	if s := query.Get("page"); s != "" {
		page, err := strconv.Atoi(s)
		if err != nil {
			return params, errors.New("invalid page parameter")
		}
		params.Page = page
	}

	if s := query.Get("page_size"); s != "" {
		pageSize, err := strconv.Atoi(s)
		if err != nil {
			return params, errors.New("invalid page_size parameter")
		}
		params.PageSize = pageSize
	}

	return params.Normalize(), nil
}

func (app *application) extractTokenFromHeader(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}
