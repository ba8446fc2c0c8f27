package signer

import (
	"fmt"
	"os"

	"github.com/make-software/casper-go-sdk/types/keypair"
	"github.com/rs/zerolog/log"

	"github.com/backit-onchain/oracle/pkg/casper"
)

const keyFilePerms os.FileMode = 0600

// GenerateKeyFile writes a new secret key of the given algorithm to path and returns it.
// An existing file is never overwritten.
func GenerateKeyFile(path string, algorithm casper.Algorithm) (keypair.PrivateKey, error) {
	if _, err := os.Stat(path); err == nil {
		return keypair.PrivateKey{}, fmt.Errorf("key file %q already exists", path)
	} else if !os.IsNotExist(err) {
		return keypair.PrivateKey{}, fmt.Errorf("failed to stat key file %q: %w", path, err)
	}

	data, err := casper.GenerateSecretKeyPEM(algorithm)
	if err != nil {
		return keypair.PrivateKey{}, fmt.Errorf("failed to generate private key: %w", err)
	}
	key, err := casper.ParseSecretKeyPEM(data)
	if err != nil {
		return keypair.PrivateKey{}, fmt.Errorf("failed to decode generated key: %w", err)
	}

	log.Debug().Msgf("creating %s key file '%s'", algorithm, path)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, keyFilePerms)
	if err != nil {
		return keypair.PrivateKey{}, fmt.Errorf("failed to create key file: %w", err)
	}
	if _, err = file.Write(data); err != nil {
		_ = file.Close()
		return keypair.PrivateKey{}, fmt.Errorf("failed to write key file: %w", err)
	}
	if err = file.Close(); err != nil {
		return keypair.PrivateKey{}, fmt.Errorf("failed to close key file: %w", err)
	}
	return key, nil
}
