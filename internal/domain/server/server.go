package server

import (
	"fmt"
	"strings"
	"time"
)

// Protocol identifies the backend protocol family of a VPN server.
type Protocol string

const (
	ProtocolOutline Protocol = "outline"
	ProtocolV2Ray   Protocol = "v2ray"
)

// Valid reports whether p is a known protocol.
func (p Protocol) Valid() bool {
	return p == ProtocolOutline || p == ProtocolV2Ray
}

// Server represents a backend VPN host exposing a REST control API.
type Server struct {
	ID            uint
	Name          string
	Country       string
	Protocol      Protocol
	APIURL        string
	APICredential string
	Domain        string
	Active        bool
	AccessLevel   int
	// InsecureSkipVerify disables TLS verification for self-signed backends.
	// This is per-server configuration, never a default.
	InsecureSkipVerify bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// New creates a server after validating the control-API coordinates.
func New(name, country string, protocol Protocol, apiURL, apiCredential, domain string, accessLevel int) (*Server, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if !protocol.Valid() {
		return nil, fmt.Errorf("invalid protocol: %s", protocol)
	}
	if strings.TrimSpace(apiURL) == "" {
		return nil, fmt.Errorf("api_url is required")
	}

	now := time.Now().UTC()
	return &Server{
		Name:          name,
		Country:       country,
		Protocol:      protocol,
		APIURL:        apiURL,
		APICredential: apiCredential,
		Domain:        domain,
		Active:        true,
		AccessLevel:   accessLevel,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
