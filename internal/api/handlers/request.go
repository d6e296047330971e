package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/markdave123-py/SpiderCare/internal/apierr"
	"github.com/markdave123-py/SpiderCare/internal/requestdata"
)

const maxBodyBytes = 1 << 20

// decode reads a JSON body into dst. An empty body leaves dst zeroed.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apierr.New(http.StatusBadRequest, "Invalid request body", err)
	}
	return nil
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

// userID is only called behind RequireAuth.
func userID(r *http.Request) (string, error) {
	id := requestdata.UserID(r.Context())
	if id == "" {
		return "", apierr.Unauthorized("Authentication required")
	}
	return id, nil
}

func param(params []string) string {
	if len(params) == 0 {
		return ""
	}
	return params[0]
}
