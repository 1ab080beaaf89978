package main

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/zhengfish/cloudvpn/pkg/config"
)

// loadTLSConfig builds the *tls.Config every secure channel on this daemon
// uses, both for accepting inbound handshakes and dialing outbound ones.
// Issuing or rotating the certificate material named here is explicitly out
// of scope (spec.md §1); this only loads what an operator already
// provisioned.
func loadTLSConfig(cfg config.TLS) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("load certificate: %w", err)
	}
	tlsCfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		ClientAuth:   tls.RequireAndVerifyClientCert,
		MinVersion:   tls.VersionTLS12,
	}
	if cfg.ClientCAFile == "" {
		return tlsCfg, nil
	}
	pem, err := os.ReadFile(cfg.ClientCAFile)
	if err != nil {
		return nil, fmt.Errorf("read client CA: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates parsed from %s", cfg.ClientCAFile)
	}
	tlsCfg.ClientCAs = pool
	tlsCfg.RootCAs = pool
	return tlsCfg, nil
}
