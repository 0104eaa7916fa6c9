package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/APTrust/bagit-packager/constants"
	"github.com/APTrust/bagit-packager/util"
	"github.com/op/go-logging"
	"github.com/spf13/viper"
)

type Config struct {
	BagInfoTemplate    string
	ConfigDir          string
	ConfigName         string
	DepositBucket      string
	LogDir             string
	LogLevel           logging.Level
	ManifestAlgorithms []string
	S3Credentials      S3Credentials
	S3UseSSL           bool
	TagFileEncoding    string
	WorkingDir         string
}

type S3Credentials struct {
	Host      string
	KeyID     string
	SecretKey string
}

var logLevels = map[string]logging.Level{
	"CRITICAL": logging.CRITICAL,
	"ERROR":    logging.ERROR,
	"WARNING":  logging.WARNING,
	"NOTICE":   logging.NOTICE,
	"INFO":     logging.INFO,
	"DEBUG":    logging.DEBUG,
}

// Returns a new config based on ENV vars APT_CONFIG_DIR and
// APT_PACKAGER_CONFIG. This panics if the config can't be loaded,
// because none of the apps can do anything useful without it.
func NewConfig() *Config {
	configDir, envName := getEnvVars()
	config, err := LoadConfig(configDir, envName)
	if err != nil {
		panic(err)
	}
	return config
}

// LoadConfig loads the settings in configDir/.env.<envName>.
func LoadConfig(configDir, envName string) (*Config, error) {
	config, err := loadConfig(configDir, envName)
	if err != nil {
		return nil, err
	}
	if err = config.expandPaths(); err != nil {
		return nil, err
	}
	if err = config.sanityCheck(); err != nil {
		return nil, err
	}
	if err = config.makeDirs(); err != nil {
		return nil, err
	}
	return config, nil
}

func loadConfig(configDir, envName string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(configDir)
	v.SetConfigName(".env." + envName)
	v.SetConfigType("env")
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("TAG_FILE_ENCODING", constants.DefaultTagEncoding)
	v.SetDefault("MANIFEST_ALGORITHMS", constants.DefaultAlgorithm)
	v.SetDefault("S3_USE_SSL", true)
	err := v.ReadInConfig()
	if err != nil {
		return nil, fmt.Errorf("Fatal error config file: %s", err)
	}
	return &Config{
		BagInfoTemplate:    v.GetString("BAG_INFO_TEMPLATE"),
		ConfigDir:          configDir,
		ConfigName:         envName,
		DepositBucket:      v.GetString("DEPOSIT_BUCKET"),
		LogDir:             v.GetString("LOG_DIR"),
		LogLevel:           logLevels[strings.ToUpper(v.GetString("LOG_LEVEL"))],
		ManifestAlgorithms: splitList(v.GetString("MANIFEST_ALGORITHMS")),
		S3Credentials: S3Credentials{
			Host:      v.GetString("S3_HOST"),
			KeyID:     v.GetString("S3_KEY"),
			SecretKey: v.GetString("S3_SECRET"),
		},
		S3UseSSL:        v.GetBool("S3_USE_SSL"),
		TagFileEncoding: v.GetString("TAG_FILE_ENCODING"),
		WorkingDir:      v.GetString("WORKING_DIR"),
	}, nil
}

func getEnvVars() (string, string) {
	configDir := getRequiredEnvVar("APT_CONFIG_DIR")
	envName := getRequiredEnvVar("APT_PACKAGER_CONFIG")
	return configDir, envName
}

func getRequiredEnvVar(varName string) string {
	value := os.Getenv(varName)
	if value == "" {
		panic(fmt.Sprintf("Required env var %s not set", varName))
	}
	return value
}

// splitList splits a comma-separated setting like "md5,sha256"
// into its lowercased parts.
func splitList(value string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Expand ~ to home dir in path settings. The bag-info template path
// is relative to the config dir unless it's absolute.
func (c *Config) expandPaths() (err error) {
	if c.LogDir, err = util.ExpandTilde(c.LogDir); err != nil {
		return err
	}
	if c.WorkingDir, err = util.ExpandTilde(c.WorkingDir); err != nil {
		return err
	}
	if c.BagInfoTemplate, err = util.ExpandTilde(c.BagInfoTemplate); err != nil {
		return err
	}
	if c.BagInfoTemplate != "" && !filepath.IsAbs(c.BagInfoTemplate) {
		c.BagInfoTemplate = filepath.Join(c.ConfigDir, c.BagInfoTemplate)
	}
	return nil
}

func (c *Config) sanityCheck() error {
	if len(c.ManifestAlgorithms) == 0 {
		return fmt.Errorf("Config %s: MANIFEST_ALGORITHMS cannot be empty", c.ConfigName)
	}
	for _, alg := range c.ManifestAlgorithms {
		if !util.StringListContains(constants.DigestAlgorithms, alg) {
			return fmt.Errorf("Config %s: unsupported manifest algorithm '%s'", c.ConfigName, alg)
		}
	}
	if c.TagFileEncoding == "" {
		return fmt.Errorf("Config %s: TAG_FILE_ENCODING cannot be empty", c.ConfigName)
	}
	return nil
}

func (c *Config) makeDirs() error {
	dirs := []string{
		c.LogDir,
		c.WorkingDir,
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return err
		}
	}
	return nil
}
