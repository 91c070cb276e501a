package manager

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/travigo/linkedconnections/pkg/dataimporter/datasets"
)

const downloadRetries = 4

func isValidUrl(toTest string) bool {
	_, err := url.ParseRequestURI(toTest)
	if err != nil {
		return false
	}

	u, err := url.Parse(toTest)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}

	return true
}

func newDownloadRequest(ctx context.Context, source string, authentication datasets.SourceAuthentication) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("user-agent", "curl/7.54.1")

	query := req.URL.Query()
	for key, value := range authentication.Query {
		query.Set(key, os.ExpandEnv(value))
	}
	req.URL.RawQuery = query.Encode()

	for key, value := range authentication.Header {
		req.Header.Set(key, os.ExpandEnv(value))
	}

	if authentication.Basic.Username != "" {
		req.SetBasicAuth(os.ExpandEnv(authentication.Basic.Username), os.ExpandEnv(authentication.Basic.Password))
	}

	return req, nil
}

// tempDownloadFile fetches source into a temporary file and returns its path.
// Server errors and timeouts are retried with exponential backoff, client
// errors fail straight away.
func tempDownloadFile(ctx context.Context, source string, authentication datasets.SourceAuthentication) (string, error) {
	client := &http.Client{Timeout: 5 * time.Minute}

	retryBackoff := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), downloadRetries),
		ctx,
	)

	operation := func() (*http.Response, error) {
		req, err := newDownloadRequest(ctx, source, authentication)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			return nil, fmt.Errorf("download %s: %s", source, resp.Status)
		}
		if resp.StatusCode >= http.StatusBadRequest {
			resp.Body.Close()
			return nil, backoff.Permanent(fmt.Errorf("download %s: %s", source, resp.Status))
		}

		return resp, nil
	}

	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("wait", wait.String()).Msg("Download failed, retrying")
	}

	resp, err := backoff.RetryNotifyWithData(operation, retryBackoff, notify)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	tmpFile, err := os.CreateTemp(os.TempDir(), "lc-data-importer-")
	if err != nil {
		return "", fmt.Errorf("cannot create temporary file: %w", err)
	}
	defer tmpFile.Close()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		os.Remove(tmpFile.Name())
		return "", err
	}

	return tmpFile.Name(), nil
}
