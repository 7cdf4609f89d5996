package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/deltakit/deltakit/auth"
	corehub "github.com/deltakit/deltakit/core/hub"
	"github.com/deltakit/deltakit/infra/logger"
)

// HTTPLoader loads delta artifacts from a remote hub. A location is either
// a full http(s) URL of an artifact directory or an artifact name resolved
// against the hub base URL. Credentials, when set, are applied to every
// request.
type HTTPLoader struct {
	base   string
	creds  auth.Credentials
	client *http.Client
	log    logger.Logger
}

// NewHTTPLoader returns a loader for the hub at base. creds may be nil for
// unauthenticated hubs.
func NewHTTPLoader(base string, creds auth.Credentials) *HTTPLoader {
	return &HTTPLoader{
		base:   strings.TrimRight(base, "/"),
		creds:  creds,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    logger.New("hub"),
	}
}

func (l *HTTPLoader) resolve(location, file string) string {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return strings.TrimRight(location, "/") + "/" + file
	}
	return l.base + "/api/artifacts/" + location + "/" + file
}

func (l *HTTPLoader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("artifact request %s: %w", url, err)
	}
	if l.creds != nil {
		if err := l.creds.SetAuthHeader(req); err != nil {
			return nil, fmt.Errorf("hub auth: %w", err)
		}
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// LoadConfigMap fetches the raw config mapping stored at location.
func (l *HTTPLoader) LoadConfigMap(ctx context.Context, location string) (map[string]any, error) {
	url := l.resolve(location, corehub.ConfigFile)
	data, err := l.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), kjson.Parser()); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", url, err)
	}
	l.log.Debugw("fetched delta config", map[string]any{"url": url})
	return k.Raw(), nil
}

// LoadCheckpoint fetches the delta checkpoint stored at location.
func (l *HTTPLoader) LoadCheckpoint(ctx context.Context, location string) (*corehub.Checkpoint, error) {
	url := l.resolve(location, corehub.CheckpointFile)
	data, err := l.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	var ck corehub.Checkpoint
	if err := json.Unmarshal(data, &ck); err != nil {
		return nil, fmt.Errorf("parse checkpoint %s: %w", url, err)
	}
	l.log.Debugw("fetched delta checkpoint", map[string]any{"url": url, "blocks": len(ck.Params)})
	return &ck, nil
}
