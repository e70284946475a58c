package insights

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
	StatusNoData Status = "no_data"
)

// ErrorKind classifies why a completion failed.
type ErrorKind string

const (
	KindAuth         ErrorKind = "auth"
	KindRateLimit    ErrorKind = "rate_limit"
	KindTimeout      ErrorKind = "timeout"
	KindCanceled     ErrorKind = "canceled"
	KindNetwork      ErrorKind = "network"
	KindUpstream     ErrorKind = "upstream"
	KindUnconfigured ErrorKind = "unconfigured"
)

var (
	ErrNotConfigured   = errors.New("OpenAI API key is not configured")
	ErrEmptyCompletion = errors.New("completion returned no choices")
)

// Result is the outcome of one question. Exactly one of Text or Error is set
// when Status is ok or failed respectively.
type Result struct {
	Question  string    `json:"question"`
	Status    Status    `json:"status"`
	Text      string    `json:"text,omitempty"`
	ErrorKind ErrorKind `json:"error_kind,omitempty"`
	Error     string    `json:"error,omitempty"`
}

func (r Result) OK() bool {
	return r.Status == StatusOK
}

func success(question, text string) Result {
	return Result{Question: question, Status: StatusOK, Text: text}
}

func failure(question string, err error) Result {
	return Result{
		Question:  question,
		Status:    StatusFailed,
		ErrorKind: Classify(err),
		Error:     err.Error(),
	}
}

func noData(question string) Result {
	return Result{Question: question, Status: StatusNoData}
}

// Classify maps a completion error onto an ErrorKind.
func Classify(err error) ErrorKind {
	if errors.Is(err, ErrNotConfigured) {
		return KindUnconfigured
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return kindForStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return kindForStatus(reqErr.HTTPStatusCode)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindNetwork
	}
	return KindUpstream
}

func kindForStatus(code int) ErrorKind {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusTooManyRequests:
		return KindRateLimit
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return KindTimeout
	default:
		return KindUpstream
	}
}
