// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"gitlab.com/jaxnet/auxpowd/corelog"
	"gitlab.com/jaxnet/auxpowd/database"
	"gitlab.com/jaxnet/auxpowd/node/headerchain"
	"gitlab.com/jaxnet/auxpowd/types/chaincfg"
	"gopkg.in/yaml.v3"

	// registered database drivers
	_ "gitlab.com/jaxnet/auxpowd/database/bdb"
	_ "gitlab.com/jaxnet/auxpowd/database/ldb"
)

const (
	defaultConfigFilename = "auxpowd.toml"
	defaultDataDirname    = "data"
	defaultLogLevel       = "info"
	defaultDBType         = "leveldb"
	defaultNet            = "mainnet"
	defaultMetricsAddr    = ":9110"
	defaultBatchSize      = 2000
	headerDbNamePrefix    = "headers"
)

var (
	defaultHomeDir = appDataDir("auxpowd")
	knownDBTypes   = database.SupportedDrivers()
)

// Config defines the configuration options for auxpowd.
type Config struct {
	ConfigFile  string `short:"C" long:"configfile" no-ini:"true" description:"Path to configuration file (.toml, .yaml or .conf)" yaml:"-" toml:"-"`
	ShowVersion bool   `short:"V" long:"version" no-ini:"true" description:"Display version information and exit" yaml:"-" toml:"-"`

	Net         string   `long:"net" description:"Network to validate headers for {mainnet, testnet, regtest}" yaml:"net" toml:"net"`
	DataDir     string   `short:"b" long:"datadir" description:"Directory to store headers" yaml:"data_dir" toml:"data_dir"`
	DbType      string   `long:"dbtype" description:"Database backend to use for the header store" yaml:"db_type" toml:"db_type"`
	DebugLevel  string   `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems" yaml:"debug_level" toml:"debug_level"`
	MetricsAddr string   `long:"metrics" description:"Address of the prometheus exporter, empty to disable" yaml:"metrics_addr" toml:"metrics_addr"`
	CacheSize   int      `long:"cachesize" description:"Number of verified header hashes to remember" yaml:"cache_size" toml:"cache_size"`
	Workers     int      `short:"j" long:"workers" description:"Number of parallel proof-of-work validators" yaml:"workers" toml:"workers"`
	BatchSize   int      `long:"batchsize" description:"Number of headers validated per parallel batch" yaml:"batch_size" toml:"batch_size"`
	HeaderFiles []string `short:"i" long:"import" description:"File with one hex encoded header per line, may be repeated" yaml:"header_files" toml:"header_files"`

	Log corelog.Config `group:"Logging Options" namespace:"log" yaml:"log" toml:"log"`

	params *chaincfg.Params
}

// Default returns the configuration used when neither a config file nor
// command line options are given.
func Default() Config {
	return Config{
		ConfigFile:  filepath.Join(defaultHomeDir, defaultConfigFilename),
		Net:         defaultNet,
		DataDir:     filepath.Join(defaultHomeDir, defaultDataDirname),
		DbType:      defaultDBType,
		DebugLevel:  defaultLogLevel,
		MetricsAddr: defaultMetricsAddr,
		CacheSize:   headerchain.DefaultCacheSize,
		Workers:     runtime.NumCPU(),
		BatchSize:   defaultBatchSize,
		Log:         corelog.Config{}.Default(),
	}
}

// Params returns the network parameters selected by Net.  It is only valid
// after Load.
func (cfg *Config) Params() *chaincfg.Params {
	return cfg.params
}

// DBPath returns the location of the header store for the configured
// backend.
func (cfg *Config) DBPath() string {
	return filepath.Join(cfg.DataDir, headerDbNamePrefix+"_"+cfg.DbType)
}

// newConfigParser returns a new command line flags parser.
func newConfigParser(cfg *Config, options flags.Options) *flags.Parser {
	return flags.NewParser(cfg, options)
}

// Load initializes and parses the config using a config file and the passed
// command line arguments.
//
// The configuration proceeds as follows:
// 	1) Start with a default config with sane settings
// 	2) Pre-parse the command line to check for an alternative config file
// 	3) Load configuration file overwriting defaults with any specified options
// 	4) Parse CLI options and overwrite/add any specified options
//
// A missing config file is not an error.  Command line options always take
// precedence.
func Load(args []string) (*Config, []string, error) {
	cfg := Default()

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified.
	preCfg := cfg
	preParser := newConfigParser(&preCfg, flags.HelpFlag)
	if _, err := preParser.ParseArgs(args); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			return nil, nil, err
		}
	}

	if preCfg.ShowVersion {
		cfg.ShowVersion = true
		return &cfg, nil, nil
	}

	parser := newConfigParser(&cfg, flags.Default&^flags.PrintErrors)
	configFile := cleanAndExpandPath(preCfg.ConfigFile)
	if fileExists(configFile) {
		if err := loadFile(parser, &cfg, configFile); err != nil {
			return nil, nil, errors.Wrapf(err, "unable to load config file %s", configFile)
		}
	}
	cfg.ConfigFile = configFile

	// Parse command line options again to ensure they take precedence.
	remainingArgs, err := parser.ParseArgs(args)
	if err != nil {
		return nil, nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}
	return &cfg, remainingArgs, nil
}

// loadFile decodes the config file picked by its extension into cfg.
func loadFile(parser *flags.Parser, cfg *Config, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".conf", ".ini":
		return flags.NewIniParser(parser).ParseFile(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.NewDecoder(file).Decode(cfg)
	case ".toml":
		return toml.NewDecoder(file).Decode(cfg)
	default:
		return errors.Errorf("invalid file extension %q, must be .toml, .yaml or .conf", filepath.Ext(path))
	}
}

func (cfg *Config) validate() error {
	params, err := chaincfg.ChainFromName(cfg.Net)
	if err != nil {
		return errors.Wrapf(err, "invalid network %q", cfg.Net)
	}
	cfg.params = params
	cfg.Net = params.Name

	if !validDBType(cfg.DbType) {
		return errors.Errorf("the specified database type [%v] is invalid -- "+
			"supported types %v", cfg.DbType, knownDBTypes)
	}

	if cfg.DebugLevel != "show" {
		if err := validateDebugLevels(cfg.DebugLevel); err != nil {
			return err
		}
	}

	if cfg.CacheSize < 0 {
		return errors.Errorf("cache size must not be negative, got %d", cfg.CacheSize)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}

	// Append the network type to the data directory so it is "namespaced"
	// per network.
	cfg.DataDir = filepath.Join(cleanAndExpandPath(cfg.DataDir), params.Name)
	cfg.Log.Directory = cleanAndExpandPath(cfg.Log.Directory)
	for i, file := range cfg.HeaderFiles {
		cfg.HeaderFiles[i] = cleanAndExpandPath(file)
	}
	return nil
}

// validDBType returns whether or not dbType is a supported database type.
func validDBType(dbType string) bool {
	for _, knownType := range knownDBTypes {
		if dbType == knownType {
			return true
		}
	}
	return false
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	if path == "" {
		return path
	}
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = strings.Replace(path, "~", homeDir, 1)
		}
	}
	return filepath.Clean(os.ExpandEnv(path))
}

// fileExists reports whether the named file exists.
func fileExists(name string) bool {
	info, err := os.Stat(name)
	return err == nil && !info.IsDir()
}

// appDataDir returns the per-user directory of the application, falling
// back to the working directory when the home directory is unknown.
func appDataDir(appName string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "." + appName
	}
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		if dir, err := os.UserConfigDir(); err == nil {
			return filepath.Join(dir, strings.ToUpper(appName[:1])+appName[1:])
		}
	}
	return filepath.Join(homeDir, "."+appName)
}
