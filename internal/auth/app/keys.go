package app

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/covenhall/arcana/pkg/cryptox"
	"github.com/covenhall/arcana/pkg/jwtx"
)

// InitSigningKey loads the Ed25519 signing key from cfg.SigningKeyFile,
// generating and persisting a fresh one when the file does not exist.
// Tokens therefore survive restarts as long as the key file does. The
// kid is derived from the public key so it is stable for a given key
// and changes whenever the key is replaced.
func InitSigningKey(cfg Config, logger *slog.Logger) (*jwtx.Signer, *jwtx.Verifier, error) {
	pemKey, err := os.ReadFile(cfg.SigningKeyFile)
	if errors.Is(err, fs.ErrNotExist) {
		pemKey, err = cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate signing key: %w", err)
		}
		if err := os.WriteFile(cfg.SigningKeyFile, pemKey, 0o600); err != nil {
			return nil, nil, fmt.Errorf("failed to persist signing key: %w", err)
		}
		logger.Info("generated new signing key", "path", cfg.SigningKeyFile)
	} else if err != nil {
		return nil, nil, fmt.Errorf("failed to read signing key: %w", err)
	}

	key, err := cryptox.ParseEd25519Key(pemKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse signing key: %w", err)
	}

	signer, err := jwtx.NewSigner(keyID(key.Public().(ed25519.PublicKey)), key)
	if err != nil {
		return nil, nil, err
	}
	verifier := jwtx.NewVerifier(signer.Public(), cfg.Issuer)

	logger.Info("signing key loaded", "kid", signer.KID(), "issuer", cfg.Issuer)
	return signer, verifier, nil
}

func keyID(pub ed25519.PublicKey) string {
	sum := sha256.Sum256(pub)
	return base64.RawURLEncoding.EncodeToString(sum[:6])
}
