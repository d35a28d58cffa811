package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"windfarm-observer/src/helpers"
	"windfarm-observer/src/logger"
	"windfarm-observer/src/models"
)

const defaultUserAgent = "windfarm-observer/1.0"

type AsyncNetworkManager struct {
	Config    *models.MConfig
	Client    *http.Client
	Logger    *logger.Logger
	BaseDelay time.Duration
}

// -----------------------------------------------------------------------------

func NewAsyncNetworkManager(cfg *models.MConfig, log *logger.Logger) *AsyncNetworkManager {
	nm := &AsyncNetworkManager{
		Config:    cfg,
		Logger:    log,
		BaseDelay: time.Second,
	}
	nm.Client = nm.createClient()
	return nm
}

// -----------------------------------------------------------------------------

func (nm *AsyncNetworkManager) createClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if nm.Config.Network.Proxy != "" {
		proxyURL, err := url.Parse(nm.Config.Network.Proxy)
		if err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		} else {
			nm.Logger.Warning("Ignoring invalid proxy %q: %v", nm.Config.Network.Proxy, err)
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   time.Duration(nm.Config.Network.RequestTimeout) * time.Second,
	}
}

// -----------------------------------------------------------------------------

// Get performs a GET request with retries and exponential backoff.
func (nm *AsyncNetworkManager) Get(ctx context.Context, urlStr string, params map[string]string) ([]byte, error) {
	reqURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, helpers.NewValidation("invalid url %q: %v", urlStr, err)
	}

	q := reqURL.Query()
	for k, v := range params {
		q.Add(k, v)
	}
	reqURL.RawQuery = q.Encode()
	finalURL := reqURL.String()

	body, err := helpers.RetryWithBackoff(nm.Logger, "GET "+reqURL.Host, nm.Config.Network.MaxRetries+1, nm.BaseDelay, func() ([]byte, error) {
		return nm.fetch(ctx, finalURL)
	})
	if err != nil {
		return nil, helpers.NewNetwork("download "+finalURL, err)
	}
	return body, nil
}

// -----------------------------------------------------------------------------

func (nm *AsyncNetworkManager) fetch(ctx context.Context, finalURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalURL, nil)
	if err != nil {
		return nil, err
	}
	ua := nm.Config.Network.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	resp, err := nm.Client.Do(req)
	if err != nil {
		nm.Logger.Info("Request failed: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
