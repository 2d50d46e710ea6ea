package main

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"os/signal"
	"syscall"

	"github.com/localserve/httpsd/extensions/fileserver"
	_ "github.com/localserve/httpsd/extensions/log"
	E "github.com/sagernet/sing/common/exceptions"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type Flags struct {
	Bind       string `json:"bind"`
	Port       uint16 `json:"port"`
	CertFile   string `json:"cert_file"`
	KeyFile    string `json:"key_file"`
	Root       string `json:"root"`
	Compress   bool   `json:"compress"`
	Verbose    bool   `json:"verbose"`
	ConfigFile string
}

const (
	defaultPort     = 8443
	defaultCertFile = "certs/server.crt"
	defaultKeyFile  = "certs/server.key"
)

func main() {
	f := new(Flags)

	command := &cobra.Command{
		Use:   "httpsd",
		Short: "local development HTTPS file server",
		Run: func(cmd *cobra.Command, args []string) {
			run(cmd, f)
		},
	}

	command.Flags().StringVarP(&f.Bind, "bind", "b", "", "Store the bind address. Empty for all interfaces.")
	command.Flags().Uint16VarP(&f.Port, "port", "p", 0, "Store the listen port. Defaults to 8443.")
	command.Flags().StringVar(&f.CertFile, "cert", "", "Store the server certificate path. Defaults to certs/server.crt.")
	command.Flags().StringVar(&f.KeyFile, "key", "", "Store the private key path. Defaults to certs/server.key.")
	command.Flags().StringVarP(&f.Root, "root", "d", "", "Store the serving root. Empty for the working directory.")
	command.Flags().BoolVar(&f.Compress, "compress", false, "Enable gzip response compression.")
	command.Flags().StringVarP(&f.ConfigFile, "config", "c", "", "Use a configuration file.")
	command.Flags().BoolVarP(&f.Verbose, "verbose", "v", false, "Enable verbose mode.")
	err := command.Execute()
	if err != nil {
		logrus.Fatal(err)
	}
}

// merge fills in values from a configuration file, keeping anything the
// operator set explicitly on the command line.
func (f *Flags) merge(other *Flags) {
	if other.Bind != "" && f.Bind == "" {
		f.Bind = other.Bind
	}
	if other.Port != 0 && f.Port == 0 {
		f.Port = other.Port
	}
	if other.CertFile != "" && f.CertFile == "" {
		f.CertFile = other.CertFile
	}
	if other.KeyFile != "" && f.KeyFile == "" {
		f.KeyFile = other.KeyFile
	}
	if other.Root != "" && f.Root == "" {
		f.Root = other.Root
	}
	if other.Compress {
		f.Compress = true
	}
	if other.Verbose {
		f.Verbose = true
	}
}

func (f *Flags) applyDefaults() {
	if f.Port == 0 {
		f.Port = defaultPort
	}
	if f.CertFile == "" {
		f.CertFile = defaultCertFile
	}
	if f.KeyFile == "" {
		f.KeyFile = defaultKeyFile
	}
}

func newServer(f *Flags) (*fileserver.Server, error) {
	if f.ConfigFile != "" {
		content, err := ioutil.ReadFile(f.ConfigFile)
		if err != nil {
			return nil, E.Cause(err, "read config file")
		}
		flagsNew := new(Flags)
		err = json.Unmarshal(content, flagsNew)
		if err != nil {
			return nil, E.Cause(err, "decode config file")
		}
		f.merge(flagsNew)
	}
	f.applyDefaults()

	if f.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	return fileserver.New(fileserver.Options{
		Bind:     f.Bind,
		Port:     f.Port,
		CertFile: f.CertFile,
		KeyFile:  f.KeyFile,
		Root:     f.Root,
		Compress: f.Compress,
	})
}

func run(cmd *cobra.Command, f *Flags) {
	server, err := newServer(f)
	if err != nil {
		logrus.Fatal(err)
	}
	err = server.Start()
	if err != nil {
		logrus.Fatal(err)
	}

	host := f.Bind
	if host == "" {
		host = "localhost"
	}
	logrus.Info("HTTPS server running on https://", host, ":", f.Port)
	logrus.Info("serving files from ", server.Root())
	logrus.Info("certificate: ", f.CertFile)
	logrus.Info("private key: ", f.KeyFile)
	logrus.Info("your browser will warn about the self-signed certificate, choose Advanced and proceed to continue")
	logrus.Info("press Ctrl+C to stop")

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, os.Interrupt, syscall.SIGTERM)
	<-osSignals

	server.Close()
	logrus.Info("server stopped")
}
