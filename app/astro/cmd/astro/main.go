package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/astro_companion/app/astro/pkg/config"
	"github.com/iWorld-y/astro_companion/app/astro/pkg/engine"
	"github.com/iWorld-y/astro_companion/app/astro/pkg/logger"
	"github.com/iWorld-y/astro_companion/app/astro/pkg/metrics"
	"github.com/iWorld-y/astro_companion/app/astro/pkg/storage"
)

var (
	configPath string

	cfg   *config.Config
	store *storage.Storage
	eng   *engine.Engine
)

var rootCmd = &cobra.Command{
	Use:           "astro",
	Short:         "Astrology companion: profile, birth chart, compatibility and conversations",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(configPath)
		if errors.Is(err, fs.ErrNotExist) {
			cfg = config.Default()
		} else if err != nil {
			return fmt.Errorf("无法加载配置文件: %w", err)
		}

		if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
			return fmt.Errorf("无法初始化日志: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			logger.Log.Warnf("配置不完整，部分功能不可用: %v", err)
		}

		store, err = storage.NewStorage(cfg.Store)
		if err != nil {
			return fmt.Errorf("无法打开存储: %w", err)
		}

		eng, err = engine.NewEngine(cmd.Context(), cfg, store, metrics.NewManager())
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			_ = store.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "配置文件路径")
	rootCmd.AddCommand(profileCmd, chartCmd, compatCmd, askCmd, topicsCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if logger.Log != nil {
			logger.Log.Error(err)
		}
		log.SetFlags(0)
		log.Printf("错误: %v", err)
		os.Exit(1)
	}
}
