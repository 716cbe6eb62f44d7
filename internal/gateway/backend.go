package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoCredentials is returned before any network call when neither key is set.
	ErrNoCredentials = errors.New("NO_BACKEND_CREDENTIALS")
	// ErrDispatchFailed wraps the last attempt error when no backend produced text.
	ErrDispatchFailed = errors.New("DISPATCH_FAILED")
	// ErrHostedRejected marks a non-success status from the hosted backend,
	// which ends the dispatch. It also matches ErrDispatchFailed.
	ErrHostedRejected = fmt.Errorf("%w: hosted backend rejected the request", ErrDispatchFailed)
)

type Shape string

const (
	ShapeLocal  Shape = "local"
	ShapeHosted Shape = "hosted"
)

type ErrorKind string

const (
	ErrorKindNetwork   ErrorKind = "network"
	ErrorKindNon2xx    ErrorKind = "non2xx"
	ErrorKindMalformed ErrorKind = "malformed"
)

const DefaultLocalBaseURL = "http://localhost:11434"

// Environment variables read per request by CredentialsFromEnv.
const (
	EnvLocalKey     = "OLLAMA_API_KEY"
	EnvLocalBaseURL = "OLLAMA_BASE_URL"
	EnvHostedKey    = "OPENAI_API_KEY"
)

type BackendCredentials struct {
	LocalKey     string
	LocalBaseURL string
	HostedKey    string
}

// CredentialsFromEnv builds credentials from getenv, normally os.Getenv.
func CredentialsFromEnv(getenv func(string) string) BackendCredentials {
	creds := BackendCredentials{
		LocalKey:     strings.TrimSpace(getenv(EnvLocalKey)),
		LocalBaseURL: strings.TrimSpace(getenv(EnvLocalBaseURL)),
		HostedKey:    strings.TrimSpace(getenv(EnvHostedKey)),
	}
	if creds.LocalBaseURL == "" {
		creds.LocalBaseURL = DefaultLocalBaseURL
	}
	return creds
}

func (c BackendCredentials) HasLocal() bool  { return c.LocalKey != "" }
func (c BackendCredentials) HasHosted() bool { return c.HostedKey != "" }

func (c BackendCredentials) Validate() error {
	if !c.HasLocal() && !c.HasHosted() {
		return ErrNoCredentials
	}
	return nil
}

func (c BackendCredentials) localBaseURL() string {
	if c.LocalBaseURL == "" {
		return DefaultLocalBaseURL
	}
	return strings.TrimRight(c.LocalBaseURL, "/")
}

// AttemptResult is the outcome of exactly one HTTP call to one backend.
type AttemptResult struct {
	Shape      Shape
	Succeeded  bool
	RawText    string
	ErrorKind  ErrorKind
	StatusCode int
	Err        error
}

func (r AttemptResult) Error() error {
	if r.Succeeded {
		return nil
	}
	return &AttemptError{Shape: r.Shape, Kind: r.ErrorKind, StatusCode: r.StatusCode, Err: r.Err}
}

type AttemptError struct {
	Shape      Shape
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *AttemptError) Error() string {
	msg := fmt.Sprintf("%s backend: %s", e.Shape, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AttemptError) Unwrap() error { return e.Err }

// Backend performs one call with no internal retries.
type Backend interface {
	Shape() Shape
	Call(ctx context.Context, pair PromptPair, creds BackendCredentials) AttemptResult
}

func failed(shape Shape, kind ErrorKind, status int, err error) AttemptResult {
	return AttemptResult{Shape: shape, ErrorKind: kind, StatusCode: status, Err: err}
}
