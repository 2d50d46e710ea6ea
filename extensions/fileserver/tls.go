package fileserver

import (
	"crypto/tls"
	"strings"

	"github.com/sagernet/sing/common"
	E "github.com/sagernet/sing/common/exceptions"
)

// LoadKeyPair loads the server certificate chain and private key. Missing
// files are reported before any parsing happens, naming every absent path
// so the operator can fix both in one go.
func LoadKeyPair(certFile string, keyFile string) (tls.Certificate, error) {
	var missing []string
	if !common.FileExists(certFile) {
		missing = append(missing, certFile)
	}
	if !common.FileExists(keyFile) {
		missing = append(missing, keyFile)
	}
	if len(missing) > 0 {
		return tls.Certificate{}, E.New("certificate files not found: ", strings.Join(missing, ", "))
	}
	keyPair, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return tls.Certificate{}, E.Cause(err, "load key pair")
	}
	return keyPair, nil
}
