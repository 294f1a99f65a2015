// Package security provides security utilities for the torii application.
// This includes validation of user-supplied URLs before they are stored.
package security

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// IsPrivateIP checks if the given IP address is a private, localhost, or
// link-local address. Returns false for public IPs and invalid IP strings.
func IsPrivateIP(ipStr string) bool {
	if ipStr == "" {
		return false
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}

	if ip.IsLoopback() {
		return true
	}
	if ip.IsPrivate() {
		return true
	}
	if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}

	return false
}

// IsLocalhost checks if the given host is localhost.
// Accepts: "localhost", "127.0.0.1", "::1", "[::1]", "0.0.0.0"
func IsLocalhost(host string) bool {
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")

	switch host {
	case "localhost", "127.0.0.1", "::1", "0.0.0.0":
		return true
	}

	ip := net.ParseIP(host)
	if ip != nil && ip.IsLoopback() {
		return true
	}

	return false
}

// ValidateProfileURL validates a user-supplied profile photo URL before it
// is written to storage. It checks:
//   - URL is valid and has an https scheme (http allowed for localhost in
//     development when allowLocal is true)
//   - Host is present and is not a private IP address
//
// Returns nil if the URL is acceptable, or an error describing the issue.
func ValidateProfileURL(urlStr string, allowLocal bool) error {
	if urlStr == "" {
		return fmt.Errorf("URL is empty")
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %q (only http and https are allowed)", parsed.Scheme)
	}

	host := extractHostWithoutPort(parsed.Host)
	if host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}

	isLocal := IsLocalhost(host)

	if scheme == "http" && !(allowLocal && isLocal) {
		return fmt.Errorf("HTTPS is required for profile URLs")
	}

	if isLocal && !allowLocal {
		return fmt.Errorf("localhost URLs are not allowed")
	}

	if !isLocal && IsPrivateIP(host) {
		return fmt.Errorf("private IP addresses are not allowed")
	}

	return nil
}

// extractHostWithoutPort strips an optional port from a URL host
func extractHostWithoutPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
