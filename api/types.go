// Package api - API types for the deficit calculator
// These types define the contract for the HTTP endpoints.
// The API is stateless: every response is a function of the request and the
// reference data loaded at startup.
package api

import (
	"github.com/shopspring/decimal"

	"gear-cost/core/catalog"
	"gear-cost/core/gear"
	"gear-cost/core/ladder"
	"gear-cost/core/refdata"
	"gear-cost/core/types"
)

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes a failed request
type ErrorBody struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// Error codes
const (
	CodeInvalidJSON     = "INVALID_JSON"
	CodeValidation      = "VALIDATION_ERROR"
	CodeUnknownTier     = "UNKNOWN_TIER"
	CodeNotFound        = "NOT_FOUND"
	CodeUnsupported     = "UNSUPPORTED_FORMAT"
	CodeRateLimited     = "RATE_LIMITED"
	CodeInternal        = "INTERNAL_ERROR"
	CodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// TiersResponse is returned by GET /tiers
type TiersResponse struct {
	Tiers     []ladder.Tier        `json:"tiers"`
	Resources []types.ResourceKind `json:"resources"`
	Default   string               `json:"default"`
	Source    string               `json:"source"`
}

// BundleInfo is one catalog bundle with its parsed price
type BundleInfo struct {
	Key      string           `json:"key"`
	Category string           `json:"category"`
	Package  string           `json:"package"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Contents []catalog.Entry  `json:"contents"`
}

// BundlesResponse is returned by GET /bundles
type BundlesResponse struct {
	Categories []string     `json:"categories"`
	Bundles    []BundleInfo `json:"bundles"`
	Source     string       `json:"source"`
}

// ResourceInfo pairs a tracked resource with its display label
type ResourceInfo struct {
	Kind  types.ResourceKind `json:"kind"`
	Label string             `json:"label"`
}

// LayoutResponse is returned by GET /layout
type LayoutResponse struct {
	Groups            []gear.Group   `json:"groups"`
	Resources         []ResourceInfo `json:"resources"`
	PriceTiers        []string       `json:"price_tiers"`
	ArtisanCategories []string       `json:"artisan_categories"`
	DefaultTier       string         `json:"default_tier"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status  string         `json:"status"`
	Version string         `json:"version"`
	Time    string         `json:"time"`
	Source  refdata.Source `json:"source"`
	Tiers   int            `json:"tiers"`
	Bundles int            `json:"bundles"`
}

// VersionResponse is returned by GET /version
type VersionResponse struct {
	Version    string `json:"version"`
	Engine     string `json:"engine"`
	APIVersion string `json:"api_version"`
}

func bundleInfos(c *catalog.Catalog, category string) []BundleInfo {
	var out []BundleInfo
	for _, def := range c.Definitions() {
		if category != "" && def.Key.Category != category {
			continue
		}
		info := BundleInfo{
			Key:      def.Key.String(),
			Category: def.Key.Category,
			Package:  def.Key.Package,
			Contents: def.Entries,
		}
		if price, ok := c.Price(def.Key); ok {
			info.Price = &price
		}
		out = append(out, info)
	}
	return out
}

func layout() LayoutResponse {
	resources := make([]ResourceInfo, 0, len(gear.Resources()))
	for _, kind := range gear.Resources() {
		resources = append(resources, ResourceInfo{Kind: kind, Label: gear.Label(kind)})
	}
	return LayoutResponse{
		Groups:            gear.Groups(),
		Resources:         resources,
		PriceTiers:        append([]string(nil), gear.PriceTiers...),
		ArtisanCategories: append([]string(nil), gear.ArtisanCategories...),
		DefaultTier:       gear.DefaultTier,
	}
}
