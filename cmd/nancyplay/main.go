// Package main provides the player binary that loads a game installation and
// runs its scenes headless or through the system speaker.
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cory-johannsen/nancy/internal/audio"
	"github.com/cory-johannsen/nancy/internal/config"
	"github.com/cory-johannsen/nancy/internal/engine"
	"github.com/cory-johannsen/nancy/internal/game/hint"
	"github.com/cory-johannsen/nancy/internal/game/scene"
	"github.com/cory-johannsen/nancy/internal/game/script"
	"github.com/cory-johannsen/nancy/internal/observability"
	"github.com/cory-johannsen/nancy/internal/resource"
	"github.com/cory-johannsen/nancy/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/nancy1.yaml", "path to configuration file")
	envPath := flag.String("env", ".env", "optional dotenv file applied before the configuration")
	duration := flag.Duration("duration", 0, "stop after this long; 0 = run until interrupted")
	flag.Parse()

	if err := godotenv.Load(*envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading %s: %v", *envPath, err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, zap.String("game", cfg.Game.Title))
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting player",
		zap.String("data_dir", cfg.Game.DataDir),
		zap.Uint16("start_scene", cfg.Game.StartScene),
		zap.String("audio_output", cfg.Engine.AudioOutput),
	)

	rulesPath := cfg.Game.Path(cfg.Game.HintRules)
	table, err := hint.LoadTableFromFile(rulesPath)
	if err != nil {
		logger.Fatal("loading hint rules", zap.String("path", rulesPath), zap.Error(err))
	}
	hints := hint.NewSystem(table, hint.Nancy1Layout, hint.OpenPath(cfg.Game.Path(cfg.Game.HintFile)), logger)
	logger.Info("hint rules loaded", zap.String("title", table.Title), zap.Int("rules", len(table.Rules)))

	initial := scene.Initial{
		Scene:      script.SceneChange{SceneID: cfg.Game.StartScene},
		Difficulty: cfg.Game.StartDifficulty,
	}
	copy(initial.HintsPerDifficulty[:], cfg.Game.HintsPerDifficulty)
	state, err := scene.New(initial, logger)
	if err != nil {
		logger.Fatal("creating scene state", zap.Error(err))
	}

	mixer := audio.NewMixer(os.DirFS(cfg.Game.Path(cfg.Game.SoundDir)), cfg.Engine.SampleRate, logger)
	if err := mixer.Open(audio.Output(cfg.Engine.AudioOutput)); err != nil {
		logger.Fatal("opening audio output", zap.Error(err))
	}
	images := resource.NewImages(os.DirFS(cfg.Game.Path(cfg.Game.ImageDir)), logger)

	var pickup *script.Sound
	if cfg.Game.PickupSound != "" {
		pickup = &script.Sound{Name: cfg.Game.PickupSound, Category: script.CategoryNormal, NumLoops: 1, Volume: 100}
	}

	eng := engine.New(engine.Options{
		Scripts:      os.DirFS(cfg.Game.Path(cfg.Game.ScriptDir)),
		TickInterval: cfg.Engine.TickInterval,
		PickupSound:  pickup,
	}, state, mixer, images, hints, logger)

	lc := server.NewLifecycle(logger)
	lc.Add("engine", server.ServiceFunc(eng.Run))
	lc.OnStop("mixer", mixer.Close)

	ctx := context.Background()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	logger.Info("player initialized", zap.Duration("startup", time.Since(start)))
	if err := lc.Run(ctx); err != nil {
		logger.Fatal("player stopped", zap.Error(err))
	}
	logger.Info("player exited",
		zap.Stringer("mode", eng.Mode()),
		zap.Uint16("scene", state.CurrentScene().SceneID),
		zap.Int("images_cached", images.Cached()),
	)
}
