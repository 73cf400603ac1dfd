package httpapi

import (
	"bytes"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
)

const internalErrorTitle = "internal server error"

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Stack   string `json:"stack"`
}

// writeJSON encodes payload with two-space indentation. Nothing is written
// to w when encoding fails, so callers can still answer with an error.
func writeJSON(w http.ResponseWriter, status int, payload any) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	enc := sonic.ConfigDefault.NewEncoder(buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return crerr.Wrap(err, "encode response body")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(bytes.TrimRight(buf.B, "\n"))
	return nil
}

func writeNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("Not Found"))
}

// writeInternalError answers 500 with the error envelope. The stack field
// carries the cockroachdb/errors verbose rendering when exposeStack is set.
func writeInternalError(w http.ResponseWriter, err error, exposeStack bool) {
	if err == nil {
		err = crerr.New(internalErrorTitle)
	}

	body := errorResponse{
		Error:   internalErrorTitle,
		Message: err.Error(),
	}
	if exposeStack {
		body.Stack = fmt.Sprintf("%+v", err)
	}

	if encodeErr := writeJSON(w, http.StatusInternalServerError, body); encodeErr != nil {
		http.Error(w, internalErrorTitle, http.StatusInternalServerError)
	}
}
