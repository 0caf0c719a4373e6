package config

import (
	"os"

	"github.com/kiryu-dev/battleship/internal/domain"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	ErrNotEnoughServers = errors.New("there are not enough specified servers")
	ErrInvalidGame      = errors.New("invalid game config")
)

const minServerCount = 2

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type GameConfig struct {
	GridSize int                 `yaml:"grid_size"`
	Fleet    []int               `yaml:"fleet"`
	Variant  domain.Variant      `yaml:"variant"`
	Opponent domain.OpponentKind `yaml:"opponent"`
	Seed     int64               `yaml:"seed"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type LogConfig struct {
	Debug bool `yaml:"debug"`
}

type config struct {
	Game     GameConfig     `yaml:"game"`
	Servers  []ServerConfig `yaml:"outer_servers"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

func defaultConfig() config {
	return config{
		Game: GameConfig{
			GridSize: 10,
			Fleet:    []int{5, 4, 3, 2, 1},
			Variant:  domain.SimpleVariant,
			Opponent: domain.DensityOpponent,
		},
	}
}

func New(cfgPath string) (config, error) {
	file, err := os.Open(cfgPath)
	if err != nil {
		return config{}, err
	}
	defer func() {
		_ = file.Close()
	}()
	cfg := defaultConfig()
	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return config{}, errors.WithMessage(err, "decode yaml")
	}
	if len(cfg.Servers) > 0 && len(cfg.Servers) < minServerCount {
		return config{}, ErrNotEnoughServers
	}
	if err := cfg.Game.validate(); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func (g GameConfig) validate() error {
	if g.GridSize <= 0 {
		return errors.WithMessagef(ErrInvalidGame, "grid size %d", g.GridSize)
	}
	if len(g.Fleet) == 0 {
		return errors.WithMessage(ErrInvalidGame, "empty fleet")
	}
	for _, length := range g.Fleet {
		if length <= 0 || length > g.GridSize {
			return errors.WithMessagef(ErrInvalidGame, "ship length %d on %dx%d grid", length, g.GridSize, g.GridSize)
		}
	}
	switch g.Variant {
	case domain.SimpleVariant, domain.SalvoVariant:
	default:
		return errors.WithMessagef(ErrInvalidGame, "unknown variant '%s'", g.Variant)
	}
	switch g.Opponent {
	case domain.DensityOpponent, domain.NaiveOpponent:
	default:
		return errors.WithMessagef(ErrInvalidGame, "unknown opponent '%s'", g.Opponent)
	}
	return nil
}
