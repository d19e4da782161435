// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/inframock/internal/cacheutil"
	"github.com/tfctl/inframock/internal/log"
)

// DefaultTemplateURL is the versioned location of the infrastructure
// templates. {resource} is replaced by the resource group name.
const DefaultTemplateURL = "https://raw.githubusercontent.com/biomage-ltd/iac/master/cf/{resource}.yaml"

// ErrEmptyTemplate is returned when a template declares no resources.
var ErrEmptyTemplate = errors.New("template declares no resources")

var cacheSubdirs = []string{"templates"}

// TemplateFetcher returns the template body for a resource group.
type TemplateFetcher interface {
	Fetch(ctx context.Context, resource string) ([]byte, error)
}

// HTTPTemplates fetches templates over HTTP from a URL pattern, keeping a
// copy of each in Cache.
type HTTPTemplates struct {
	Pattern string
	Client  *http.Client
	Cache   cacheutil.Cache
}

// NewHTTPTemplates returns an HTTPTemplates for pattern. An empty pattern
// selects DefaultTemplateURL.
func NewHTTPTemplates(pattern string, cache cacheutil.Cache) *HTTPTemplates {
	if pattern == "" {
		pattern = DefaultTemplateURL
	}
	return &HTTPTemplates{Pattern: pattern, Client: cleanhttp.DefaultClient(), Cache: cache}
}

// URL returns the template location for resource.
func (h *HTTPTemplates) URL(resource string) string {
	return strings.ReplaceAll(h.Pattern, "{resource}", resource)
}

// Fetch implements TemplateFetcher.
func (h *HTTPTemplates) Fetch(ctx context.Context, resource string) ([]byte, error) {
	url := h.URL(resource)

	if entry, ok := h.Cache.Read(cacheSubdirs, url); ok {
		log.Debugf("template %s served from cache", url)
		return entry.Data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch template %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch template %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", url, err)
	}

	if err := h.Cache.Write(cacheSubdirs, url, body); err != nil {
		log.WithError(err).Warnf("failed to cache template %s", url)
	}
	return body, nil
}

// Resource is a logical resource declared by a template.
type Resource struct {
	LogicalID string
	Type      string
}

// Summary describes a template without evaluating it.
type Summary struct {
	Description string
	Resources   []Resource
}

// Summarize reads the Description and Resources sections of a CloudFormation
// template. Short-form intrinsic tags (!Ref, !Sub, ...) are left untouched, so
// templates do not need a CloudFormation-aware YAML loader.
func Summarize(body []byte) (Summary, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(body, &doc); err != nil {
		return Summary{}, fmt.Errorf("failed to parse template: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return Summary{}, errors.New("template is not a mapping")
	}

	var s Summary
	root := doc.Content[0]
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		switch key.Value {
		case "Description":
			s.Description = val.Value
		case "Resources":
			if val.Kind != yaml.MappingNode {
				return Summary{}, errors.New("template Resources is not a mapping")
			}
			for j := 0; j+1 < len(val.Content); j += 2 {
				s.Resources = append(s.Resources, Resource{
					LogicalID: val.Content[j].Value,
					Type:      scalarField(val.Content[j+1], "Type"),
				})
			}
		}
	}

	if len(s.Resources) == 0 {
		return Summary{}, ErrEmptyTemplate
	}
	return s, nil
}

// scalarField returns the scalar value under key in mapping node n.
func scalarField(n *yaml.Node, key string) string {
	if n.Kind != yaml.MappingNode {
		return ""
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key && n.Content[i+1].Kind == yaml.ScalarNode {
			return n.Content[i+1].Value
		}
	}
	return ""
}
