package fileserver

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// writeKeyPair writes a self-signed localhost certificate and key under
// dir and returns their paths.
func writeKeyPair(t *testing.T, dir string) (string, string) {
	t.Helper()

	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "localhost"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		DNSNames:     []string{"localhost"},
		IPAddresses:  []net.IP{net.IPv4(127, 0, 0, 1)},
	}
	certBytes, err := x509.CreateCertificate(rand.Reader, &template, &template, &privateKey.PublicKey, privateKey)
	require.NoError(t, err)
	keyBytes, err := x509.MarshalECPrivateKey(privateKey)
	require.NoError(t, err)

	certFile := filepath.Join(dir, "server.crt")
	keyFile := filepath.Join(dir, "server.key")
	err = os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certBytes}), 0o600)
	require.NoError(t, err)
	err = os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyBytes}), 0o600)
	require.NoError(t, err)
	return certFile, keyFile
}

func TestLoadKeyPair(t *testing.T) {
	certFile, keyFile := writeKeyPair(t, t.TempDir())
	keyPair, err := LoadKeyPair(certFile, keyFile)
	require.NoError(t, err)
	require.NotEmpty(t, keyPair.Certificate)
}

func TestLoadKeyPairMissing(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "server.crt")
	keyFile := filepath.Join(dir, "server.key")

	_, err := LoadKeyPair(certFile, keyFile)
	require.Error(t, err)
	require.Contains(t, err.Error(), certFile)
	require.Contains(t, err.Error(), keyFile)

	certFile, _ = writeKeyPair(t, dir)
	missingKey := filepath.Join(dir, "missing.key")
	_, err = LoadKeyPair(certFile, missingKey)
	require.Error(t, err)
	require.Contains(t, err.Error(), missingKey)
	require.NotContains(t, err.Error(), certFile)
}

func TestLoadKeyPairInvalid(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "server.crt")
	keyFile := filepath.Join(dir, "server.key")
	require.NoError(t, os.WriteFile(certFile, []byte("not a certificate"), 0o600))
	require.NoError(t, os.WriteFile(keyFile, []byte("not a key"), 0o600))

	_, err := LoadKeyPair(certFile, keyFile)
	require.Error(t, err)
}
