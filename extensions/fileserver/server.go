package fileserver

import (
	"crypto/tls"
	stdlog "log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/localserve/httpsd/extensions/log"
	"github.com/sagernet/sing/common"
	E "github.com/sagernet/sing/common/exceptions"
	"github.com/sirupsen/logrus"
)

var logger = log.NewLogger("fileserver")

type Options struct {
	Bind     string // empty binds all interfaces
	Port     uint16
	CertFile string
	KeyFile  string
	Root     string // empty serves the working directory
	Compress bool
}

type Server struct {
	addr       string
	root       string
	tlsConfig  *tls.Config
	httpServer *http.Server
	listener   net.Listener
}

// New loads the key pair and resolves the serving root. Everything that
// can fail at startup fails here, before any socket is opened.
func New(options Options) (*Server, error) {
	keyPair, err := LoadKeyPair(options.CertFile, options.KeyFile)
	if err != nil {
		return nil, err
	}
	root := options.Root
	if root == "" {
		root, err = os.Getwd()
		if err != nil {
			return nil, E.Cause(err, "resolve working directory")
		}
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return nil, E.Cause(err, "resolve serving root")
	}
	rootInfo, err := os.Stat(root)
	if err != nil {
		return nil, E.Cause(err, "stat serving root")
	}
	if !rootInfo.IsDir() {
		return nil, E.New("serving root ", root, " is not a directory")
	}
	return &Server{
		addr:      net.JoinHostPort(options.Bind, strconv.Itoa(int(options.Port))),
		root:      root,
		tlsConfig: &tls.Config{Certificates: []tls.Certificate{keyPair}},
		httpServer: &http.Server{
			Handler: buildHandler(root, options.Compress),
			// handshake failures on individual connections land here
			ErrorLog: stdlog.New(logger.WriterLevel(logrus.DebugLevel), "", 0),
		},
	}, nil
}

func (s *Server) Root() string {
	return s.root
}

// Addr reports the bound address, valid after Start.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *Server) Start() error {
	tcpListener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return E.Cause(err, "open listener")
	}
	s.listener = tls.NewListener(tcpListener, s.tlsConfig)
	go func() {
		serveErr := s.httpServer.Serve(s.listener)
		if serveErr != nil && serveErr != http.ErrServerClosed {
			logger.Warn(serveErr)
		}
	}()
	return nil
}

func (s *Server) Close() error {
	return common.Close(s.httpServer)
}
