package config

// TLS names the certificate material the secure channel collaborator loads
// at startup. Issuing or rotating that material is explicitly out of scope
// (spec.md §1 non-goal of key management); this section only tells the
// daemon where to find files an operator already provisioned.
type TLS struct {
	CertFile string `yaml:"CertFile"`
	KeyFile  string `yaml:"KeyFile"`
	// ClientCAFile, if set, is used to verify peer certificates instead of
	// the system trust store, for mesh deployments using a private CA.
	ClientCAFile string `yaml:"ClientCAFile"`
}

// Validate checks that the minimum certificate material is named.
func (t TLS) Validate() error {
	if t.CertFile == "" {
		return errRequired("CertFile")
	}
	if t.KeyFile == "" {
		return errRequired("KeyFile")
	}
	return nil
}
