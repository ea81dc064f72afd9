package upload

import (
	"context"
	"fmt"
	"net/url"
)

// StaticResolver serves uploads from a fixed base URL, e.g. a CDN or the
// static file route of the API.
type StaticResolver struct {
	base *url.URL
}

// NewStaticResolver parses baseURL, which must be absolute.
func NewStaticResolver(baseURL string) (*StaticResolver, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse upload base url: %w", err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("upload base url %q must be absolute", baseURL)
	}
	return &StaticResolver{base: u}, nil
}

// GetImage returns {base}/{namespace}/{fileRef}.
func (r *StaticResolver) GetImage(_ context.Context, fileRef, namespace string) (string, error) {
	key, err := objectKey(fileRef, namespace)
	if err != nil {
		return "", err
	}
	return r.base.JoinPath(key).String(), nil
}
