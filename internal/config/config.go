package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/inamate/inamate/board-go/internal/board"
	"github.com/inamate/inamate/board-go/internal/frame"
)

type Config struct {
	Port               int    `envconfig:"PORT" default:"8080"`
	DatabaseURL        string `envconfig:"DATABASE_URL"`
	SnapshotDir        string `envconfig:"SNAPSHOT_DIR" default:"./data/boards"`
	AssetDir           string `envconfig:"ASSET_DIR" default:"./data/assets"`
	IconDir            string `envconfig:"ICON_DIR"`
	JWTSecret          string `envconfig:"JWT_SECRET" default:"dev-secret-change-in-production"`
	AccessPasscodeHash string `envconfig:"ACCESS_PASSCODE_HASH"`
	AllowedOrigins     string `envconfig:"ALLOWED_ORIGINS" default:"localhost:5173,localhost:3000"`
	LogLevel           string `envconfig:"LOG_LEVEL" default:"info"`

	BoardWidth      float64 `envconfig:"BOARD_WIDTH" default:"1920"`
	BoardHeight     float64 `envconfig:"BOARD_HEIGHT" default:"1080"`
	BoardMaxScale   float64 `envconfig:"BOARD_MAX_SCALE" default:"2"`
	BoardMinScale   float64 `envconfig:"BOARD_MIN_SCALE" default:"0.5"`
	WidgetMinSize   float64 `envconfig:"WIDGET_MIN_SIZE" default:"50"`
	HistoryCapacity int     `envconfig:"HISTORY_CAPACITY" default:"99"`
	MoveMinSpace    float64 `envconfig:"MOVE_MIN_SPACE" default:"0"`
	SizeMinDiff     int     `envconfig:"SIZE_MIN_DIFF" default:"0"`
	RotateMinDegree float64 `envconfig:"ROTATE_MIN_DEGREE" default:"0"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.BoardWidth <= 0 || cfg.BoardHeight <= 0 {
		return nil, fmt.Errorf("board size must be positive, got %vx%v", cfg.BoardWidth, cfg.BoardHeight)
	}
	if cfg.BoardMinScale <= 0 || cfg.BoardMaxScale < cfg.BoardMinScale {
		return nil, fmt.Errorf("invalid board scale range [%v, %v]", cfg.BoardMinScale, cfg.BoardMaxScale)
	}
	return &cfg, nil
}

// Board projects the board settings into board.Options. Services such as
// icons, image loading and task execution are left for the caller.
func (c *Config) Board() board.Options {
	opts := board.DefaultOptions(c.BoardWidth, c.BoardHeight)
	opts.MinScale = c.BoardMinScale
	opts.MaxScale = c.BoardMaxScale
	opts.MinSize = c.WidgetMinSize
	opts.HistoryCapacity = c.HistoryCapacity
	opts.Thresholds = frame.Thresholds{
		MoveMinSpace:    c.MoveMinSpace,
		SizeMinDiff:     c.SizeMinDiff,
		RotateMinDegree: c.RotateMinDegree,
	}
	return opts
}

// Origins splits ALLOWED_ORIGINS.
func (c *Config) Origins() []string {
	var out []string
	for o := range strings.SplitSeq(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Level parses LOG_LEVEL, falling back to info.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
