/*
Copyright 2022.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package harborclient lists repositories and tags from a Harbor project,
// backing JukeBoxSource{Kind: Harbor}. Uses hashicorp/go-retryablehttp so
// a transient Harbor API hiccup doesn't fail an entire catalogue refresh
// cycle, the same resilience pattern the flux-operator example applies to
// its own registry polling.
package harborclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/sebt3/vynil/internal/vynilerrors"
)

// Repository is one Harbor repository entry.
type Repository struct {
	Name string `json:"name"`
}

// Artifact is one Harbor artifact (image) entry, with its tags.
type Artifact struct {
	Tags []struct {
		Name string `json:"name"`
	} `json:"tags"`
}

// Client queries the Harbor v2.0 REST API.
type Client struct {
	baseURL  string
	project  string
	username string
	password string
	http     *retryablehttp.Client
}

// NewClient builds a Client against baseURL (e.g. "https://harbor.example.com")
// for the given project, with basic-auth credentials.
func NewClient(baseURL, project, username, password string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.Logger = nil
	return &Client{baseURL: baseURL, project: project, username: username, password: password, http: rc}
}

// ListRepositories returns every repository under the configured project.
func (c *Client) ListRepositories(ctx context.Context) ([]Repository, error) {
	url := fmt.Sprintf("%s/api/v2.0/projects/%s/repositories", c.baseURL, c.project)
	var repos []Repository
	if err := c.getJSON(ctx, url, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// ListTags returns every tag of repository (a repository Name as returned
// by ListRepositories).
func (c *Client) ListTags(ctx context.Context, repository string) ([]string, error) {
	url := fmt.Sprintf("%s/api/v2.0/projects/%s/repositories/%s/artifacts?with_tag=true", c.baseURL, c.project, repository)
	var artifacts []Artifact
	if err := c.getJSON(ctx, url, &artifacts); err != nil {
		return nil, err
	}
	var tags []string
	for _, a := range artifacts {
		for _, t := range a.Tags {
			tags = append(tags, t.Name)
		}
	}
	return tags, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return vynilerrors.Serialization(err, "build Harbor request for %s", url)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return vynilerrors.APIServer(err, "query Harbor at %s", url)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return vynilerrors.MissingResource("Harbor returned %d for %s", resp.StatusCode, url)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return vynilerrors.Serialization(err, "decode Harbor response from %s", url)
	}
	return nil
}
