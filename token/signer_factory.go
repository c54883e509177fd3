package token

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// SignerConfig selects how the dev server signs tokens.
type SignerConfig struct {
	Secret  string // HS256 shared secret, takes precedence
	KeyID   string
	KeyFile string // PEM file holding the RS256 key, created when missing
}

// NewSigner returns an HMAC signer when a secret is configured and an RS256
// key pair signer otherwise. With a KeyFile the key survives restarts, so
// tokens already held by clients stay verifiable.
func NewSigner(cfg SignerConfig) (Signer, error) {
	if cfg.Secret != "" {
		return NewHMACSigner(cfg.Secret), nil
	}
	if cfg.KeyFile == "" {
		keyPair, err := GenerateRSAKeyPair(cfg.KeyID, 2048)
		if err != nil {
			return nil, err
		}
		return NewKeyPairSigner(keyPair), nil
	}

	keyPair, err := loadOrCreateKeyPair(cfg.KeyID, cfg.KeyFile)
	if err != nil {
		return nil, err
	}
	return NewKeyPairSigner(keyPair), nil
}

func loadOrCreateKeyPair(keyID, path string) (*KeyPair, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return LoadRSAKeyPairFromPEM(keyID, string(data))
	}
	if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "failed to read key file %s", path)
	}

	keyPair, err := GenerateRSAKeyPair(keyID, 2048)
	if err != nil {
		return nil, err
	}
	privatePEM, err := keyPair.ExportPrivateKeyPEM()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrapf(err, "failed to create key directory for %s", path)
	}
	if err := os.WriteFile(path, []byte(privatePEM), 0o600); err != nil {
		return nil, errors.Wrapf(err, "failed to write key file %s", path)
	}
	return keyPair, nil
}
