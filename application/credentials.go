package application

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
)

type CredentialsType string

const (
	CredentialsAnonymous CredentialsType = "anonymous"
	CredentialsBasic     CredentialsType = "basic"
	CredentialsCertPEM   CredentialsType = "cert.PEM"
)

// Credentials is the stored credential descriptor, tagged by Type. Only the
// fields of the tagged variant are meaningful.
type Credentials struct {
	Type CredentialsType `json:"type"`

	// basic
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`

	// cert.PEM, PEM-encoded material
	CACert     string `json:"caCert,omitempty"`
	Cert       string `json:"cert,omitempty"`
	PrivateKey string `json:"privateKey,omitempty"`
}

// ResolvedCredentials are the concrete connection parameters derived from a
// credential descriptor.
type ResolvedCredentials struct {
	Username string
	Password string
	TLS      *tls.Config
}

// CredentialsError reports unusable credential material.
type CredentialsError struct {
	Type CredentialsType
	Err  error
}

func (e *CredentialsError) Error() string {
	return fmt.Sprintf("resolve %s credentials: %v", e.Type, e.Err)
}

func (e *CredentialsError) Unwrap() error { return e.Err }

// Resolve converts the descriptor into connection parameters. With ssl set,
// anonymous and basic credentials yield a default TLS config; cert.PEM parses
// its material and fails with a *CredentialsError when it is unusable.
func (c Credentials) Resolve(ssl bool) (ResolvedCredentials, error) {
	switch c.Type {
	case CredentialsAnonymous:
		return ResolvedCredentials{TLS: defaultTLSConfig(ssl)}, nil
	case CredentialsBasic:
		return ResolvedCredentials{
			Username: c.Username,
			Password: c.Password,
			TLS:      defaultTLSConfig(ssl),
		}, nil
	case CredentialsCertPEM:
		if !ssl {
			return ResolvedCredentials{}, nil
		}
		tlsConfig, err := c.buildTLSConfig()
		if err != nil {
			return ResolvedCredentials{}, &CredentialsError{Type: c.Type, Err: err}
		}
		return ResolvedCredentials{TLS: tlsConfig}, nil
	default:
		return ResolvedCredentials{}, &CredentialsError{Type: c.Type, Err: fmt.Errorf("unsupported credentials type")}
	}
}

func defaultTLSConfig(ssl bool) *tls.Config {
	if !ssl {
		return nil
	}
	return &tls.Config{MinVersion: tls.VersionTLS12}
}

func (c Credentials) buildTLSConfig() (*tls.Config, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}

	if c.CACert != "" {
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM([]byte(c.CACert)) {
			return nil, fmt.Errorf("failed to parse CA certificate")
		}
		tlsConfig.RootCAs = pool
	}

	if c.Cert != "" || c.PrivateKey != "" {
		cert, err := tls.X509KeyPair([]byte(c.Cert), []byte(c.PrivateKey))
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}
