package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	perr "gitevents/internal/platform/errors"
)

const maxDoc = 4 << 20

// GetContent performs GET /repos/{owner}/{repo}/contents/{path}?ref={ref}
// files over the contents API size limit are completed from the git blobs API
func (c *Client) GetContent(ctx context.Context, owner, repo, path, ref string) (Content, error) {
	p := fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, escapePath(path))
	if ref != "" {
		p += "?ref=" + url.QueryEscape(ref)
	}
	var out Content
	if err := c.getJSON(ctx, p, &out); err != nil {
		return Content{}, err
	}
	if out.Type != "file" {
		return Content{}, perr.Newf(perr.ErrorCodeInvalidArgument, "github %s is a %s, not a file", path, out.Type)
	}
	if out.Encoding != "base64" && out.SHA != "" {
		b, err := c.GetBlob(ctx, owner, repo, out.SHA)
		if err != nil {
			return Content{}, err
		}
		out.Encoding, out.Content = b.Encoding, b.Content
	}
	return out, nil
}

// GetBlob performs GET /repos/{owner}/{repo}/git/blobs/{sha}
func (c *Client) GetBlob(ctx context.Context, owner, repo, sha string) (Blob, error) {
	var out Blob
	err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/git/blobs/%s", owner, repo, sha), &out)
	return out, err
}

// PutContent performs PUT /repos/{owner}/{repo}/contents/{path}
// a stale or missing sha comes back as 409 or 422
func (c *Client) PutContent(ctx context.Context, owner, repo, path string, in PutContentRequest) (PutContentResponse, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return PutContentResponse{}, perr.Wrap(err, perr.ErrorCodeJSON, "github encode contents request")
	}
	p := fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, escapePath(path))
	resp, err := c.Do(ctx, http.MethodPut, p, body)
	if err != nil {
		return PutContentResponse{}, err
	}
	var out PutContentResponse
	if err := c.decode(resp, p, &out); err != nil {
		return PutContentResponse{}, err
	}
	return out, nil
}

// UserByLogin performs GET /users/{login}
func (c *Client) UserByLogin(ctx context.Context, login string) (User, error) {
	var out User
	err := c.getJSON(ctx, "/users/"+url.PathEscape(login), &out)
	return out, err
}

// RateLimit performs GET /rate_limit, which does not count against the quota
func (c *Client) RateLimit(ctx context.Context) (RateLimit, error) {
	var out RateLimit
	err := c.getJSON(ctx, "/rate_limit", &out)
	return out, err
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	resp, err := c.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.decode(resp, path, dst)
}

func (c *Client) decode(resp *http.Response, path string, dst any) error {
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("path", path).Msg("github close body failed")
		}
	}()
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxDoc))
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "github read body")
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "github decode "+path)
	}
	return nil
}

// escapePath escapes each segment of a repository path, keeping the slashes
func escapePath(p string) string {
	segs := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
