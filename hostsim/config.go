package hostsim

import (
	"fmt"
	"os"
	"strconv"

	"github.com/segmentio/ksuid"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/wasm-contract-sdk/contract"
	"github.com/wippyai/wasm-contract-sdk/easycodec"
	"github.com/wippyai/wasm-contract-sdk/errors"
)

// Config describes the simulated chain a contract runs on.
type Config struct {
	Failures    map[string]int32 `yaml:"failures"`
	Contract    string           `yaml:"contract"`
	TxID        string           `yaml:"tx_id"`
	DataDir     string           `yaml:"data_dir"`
	Creator     Identity         `yaml:"creator"`
	Sender      Identity         `yaml:"sender"`
	Logging     Logging          `yaml:"logging"`
	BlockHeight uint64           `yaml:"block_height"`
	MemoryPages uint32           `yaml:"memory_pages"`
}

// Identity is the organization, role and public key of a chain member.
type Identity struct {
	OrgID string `yaml:"org_id"`
	Role  string `yaml:"role"`
	PK    string `yaml:"pk"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Contract: "contract",
		Creator: Identity{
			OrgID: "org1",
			Role:  "admin",
			PK:    "creator-pk",
		},
		Sender: Identity{
			OrgID: "org1",
			Role:  "client",
			PK:    "sender-pk",
		},
		BlockHeight: 1,
		MemoryPages: 16,
		Logging: Logging{
			Level: "info",
		},
	}
}

// LoadConfig reads a YAML configuration. Fields absent from the file keep
// their DefaultConfig values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "read config file")
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "parse config file")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the simulator cannot run with.
func (c *Config) Validate() error {
	if c.Contract == "" {
		return errors.InvalidInput(errors.PhaseConfig, "contract name cannot be empty")
	}
	if c.MemoryPages == 0 || c.MemoryPages > 65536 {
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("memory_pages %d outside [1, 65536]", c.MemoryPages))
	}
	if c.Logging.Level != "" {
		if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
			return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "logging.level")
		}
	}
	for method, code := range c.Failures {
		if code == 0 {
			return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("failure code for %s must be nonzero", method))
		}
	}
	return nil
}

// Level returns the configured log level, defaulting to info.
func (c *Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// Args builds the invocation arguments of one call: the context pointer and
// chain parameters followed by the caller's own arguments.
func (c *Config) Args(ctxPtr int32, user *easycodec.Codec) *easycodec.Codec {
	txID := c.TxID
	if txID == "" {
		txID = ksuid.New().String()
	}

	args := easycodec.New()
	args.AddBytes(contract.ParamContextPtr, []byte(strconv.FormatInt(int64(ctxPtr), 10)))
	args.AddBytes(contract.ParamCreatorOrgID, []byte(c.Creator.OrgID))
	args.AddBytes(contract.ParamCreatorRole, []byte(c.Creator.Role))
	args.AddBytes(contract.ParamCreatorPK, []byte(c.Creator.PK))
	args.AddBytes(contract.ParamSenderOrgID, []byte(c.Sender.OrgID))
	args.AddBytes(contract.ParamSenderRole, []byte(c.Sender.Role))
	args.AddBytes(contract.ParamSenderPK, []byte(c.Sender.PK))
	args.AddBytes(contract.ParamBlockHeight, []byte(strconv.FormatUint(c.BlockHeight, 10)))
	args.AddBytes(contract.ParamTxID, []byte(txID))
	if user != nil {
		for _, r := range user.Records() {
			args.Put(r)
		}
	}
	return args
}
