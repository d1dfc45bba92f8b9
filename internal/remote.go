package internal

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/earthboundkid/versioninfo/v2"
	"github.com/rs/zerolog/log"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// RemoteSource fetches images referenced by http(s) URL
type RemoteSource struct {
	userAgent string
	client    HTTPClient
}

func NewRemoteSource(timeout time.Duration) *RemoteSource {
	return &RemoteSource{
		userAgent: "imgpipe/" + versioninfo.Short(),
		client:    &http.Client{Timeout: timeout},
	}
}

func (rs *RemoteSource) Fetch(url string) (io.ReadCloser, error) {
	log.Debug().Str("url", url).Msg("retrieving remote image")
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", rs.userAgent)
	req.Header.Set("Accept", "image/*")

	res, err := rs.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from %s: %w", url, err)
	}

	if res.StatusCode > 299 {
		_ = res.Body.Close()
		return nil, fmt.Errorf("http status response from %s: %s", url, res.Status)
	}

	return res.Body, nil
}
