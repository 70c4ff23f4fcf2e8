package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

var allowedServiceTypes = []string{"takeout", "delivery", "dine-in", "at-home"}

var profileIDPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// RestaurantInput is a decoded restaurant payload awaiting validation. The
// Invalid flags report fields that were present in the request but not an
// array of strings; the HTTP layer sets them while decoding.
type RestaurantInput struct {
	Name                       string
	FoodTypes                  []string
	ServiceTypes               []string
	MenuLink                   string
	ProfilesInvalid            bool
	DietaryRestrictionsInvalid bool
}

// ValidateRestaurantData accumulates every applicable validation error. The
// input is valid exactly when the returned slice is empty. The strings are
// client-facing and joined verbatim into the error response.
func ValidateRestaurantData(input RestaurantInput) []string {
	var problems []string
	if strings.TrimSpace(input.Name) == "" {
		problems = append(problems, "Restaurant name is required")
	}
	if len(input.FoodTypes) == 0 {
		problems = append(problems, "At least one food type is required")
	}
	if len(input.ServiceTypes) == 0 {
		problems = append(problems, "At least one service type is required")
	} else if valid, invalid := ValidateServiceTypes(input.ServiceTypes); !valid {
		problems = append(problems, fmt.Sprintf("Invalid service types: %s", strings.Join(invalid, ", ")))
	}
	if input.ProfilesInvalid {
		problems = append(problems, "Profiles must be an array")
	}
	if input.DietaryRestrictionsInvalid {
		problems = append(problems, "Dietary restrictions must be an array")
	}
	if ValidateURL(input.MenuLink) != nil {
		problems = append(problems, "Menu link must be a valid URL")
	}
	return problems
}

// ValidateServiceTypes checks every value against the allowed set and returns
// the offenders in input order.
func ValidateServiceTypes(values []string) (bool, []string) {
	var invalid []string
	for _, value := range values {
		if !isAllowedServiceType(value) {
			invalid = append(invalid, value)
		}
	}
	return len(invalid) == 0, invalid
}

func isAllowedServiceType(value string) bool {
	for _, allowed := range allowedServiceTypes {
		if value == allowed {
			return true
		}
	}
	return false
}

// IsValidProfileID reports whether the id is all lowercase letters, digits,
// and hyphens. The whole string must match.
func IsValidProfileID(id string) bool {
	return profileIDPattern.MatchString(id)
}

// ValidateURL treats the empty string as valid (the field is optional) and
// otherwise requires an absolute URL with a host.
func ValidateURL(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return errors.New("URL must be absolute")
	}
	return nil
}

// ProbeURL checks reachability with a HEAD request. No write path calls this;
// stored links are validated syntactically only.
func ProbeURL(ctx context.Context, client *http.Client, raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if err := ValidateURL(trimmed); err != nil {
		return err
	}
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, trimmed, nil)
	if err != nil {
		return fmt.Errorf("build probe request: %w", err)
	}
	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("url unreachable: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("url returned status %d", res.StatusCode)
	}
	return nil
}
