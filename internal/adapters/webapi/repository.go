package webapi

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/kiryu-dev/battleship/internal/domain"
	"github.com/kiryu-dev/battleship/pkg/utils"
	"github.com/pkg/errors"
)

const (
	clientTimeout       = 5 * time.Second
	syncStatesEndpoint  = "/sync"
	healthCheckEndpoint = "/health"
)

// repository talks to peer servers over their plain HTTP endpoints.
type repository struct {
	cli *http.Client
}

func New() repository {
	return repository{
		cli: &http.Client{Timeout: clientTimeout},
	}
}

// Sync posts the match views to the peer at addr.
func (r repository) Sync(ctx context.Context, addr string, states map[string]domain.MatchView) error {
	var body bytes.Buffer
	if err := utils.EncodeJson(&body, states); err != nil {
		return errors.WithMessage(err, "encode match states")
	}
	resp, err := r.do(ctx, http.MethodPost, addr+syncStatesEndpoint, &body)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	return nil
}

func (r repository) HealthCheck(ctx context.Context, addr string) (*domain.HealthCheckResponse, error) {
	resp, err := r.do(ctx, http.MethodGet, addr+healthCheckEndpoint, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	result, err := utils.DecodeJson[domain.HealthCheckResponse](resp.Body)
	if err != nil {
		return nil, errors.WithMessage(err, "decode health response")
	}
	return &result, nil
}

// do sends the request and fails on any status other than 200. The
// caller closes the body of a successful response.
func (r repository) do(ctx context.Context, method, url string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, errors.WithMessagef(err, "new %s request", method)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := r.cli.Do(req)
	if err != nil {
		return nil, errors.WithMessagef(err, "call http endpoint '%s'", req.URL.Path)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, errors.Errorf("unexpected response status '%s'", resp.Status)
	}
	return resp, nil
}
