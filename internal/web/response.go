// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

package web

import (
	"encoding/json"
	"net/http"

	"github.com/zusammen-umzuege/zusammen/pkg/errutil"
)

// maxBodySize caps JSON request bodies.
const maxBodySize = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // response write error means the client is gone
	json.NewEncoder(w).Encode(v)
}

func errorBody(key string) map[string]string {
	return map[string]string{"error": key}
}

// writeError maps a service error to its HTTP status and user-safe key.
func writeError(w http.ResponseWriter, err error) {
	status, key := errutil.HTTPStatus(err)
	writeJSON(w, status, errorBody(key))
}

// decodeJSON reads a bounded JSON body into v. Reports whether decoding
// succeeded; on failure the 400 response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(errutil.KeyError))
		return false
	}
	return true
}
