package main

import (
	"errors"
	"flag"
	"os"

	"chosenoffset.com/softshadow/internal/config"
	"chosenoffset.com/softshadow/internal/game"
	"chosenoffset.com/softshadow/internal/logging"
	"chosenoffset.com/softshadow/internal/placeholders"
	ebitenrender "chosenoffset.com/softshadow/internal/render/ebiten"
	"chosenoffset.com/softshadow/internal/render/lighting"
	"chosenoffset.com/softshadow/internal/settings"
	"chosenoffset.com/softshadow/internal/world/scene"
)

func main() {
	configPath := flag.String("config", "softshadow.yaml", "Viewer config file (defaults are used if missing)")
	scenesDir := flag.String("scenes", "", "Scene directory, overrides the config")
	initial := flag.String("scene", "", "Scene to open first")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	log := logging.New("softshadow", *debug)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Errorf("Failed to load config: %v", err)
		os.Exit(1)
	}
	if *scenesDir != "" {
		cfg.Scenes.Dir = *scenesDir
	}
	if *initial != "" {
		cfg.Scenes.Initial = *initial
	}
	if cfg.Debug {
		log.SetDebug(true)
	}

	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	images := ebitenrender.NewResourceLoader()
	engine := ebitenrender.NewEngine()

	assets := lighting.LoadAssets(renderer, images, cfg.AssetPaths(), log.With("assets"))
	if assets.PenumbraTexture == nil {
		log.Infof("Generating %dpx penumbra texture", cfg.Assets.PenumbraSize)
		assets.PenumbraTexture = renderer.NewImageFromImage(placeholders.PenumbraTexture(cfg.Assets.PenumbraSize))
	}
	defer assets.Dispose()

	lights := lighting.NewLightSystem(renderer, assets, log.With("lighting"))
	store := settings.NewManager(settings.Open("softshadow", log), log.With("settings"))
	loader := scene.NewLoader(renderer, images, log.With("scene"))

	log.Infof("Scanning %s for scenes...", cfg.Scenes.Dir)
	entries, err := scene.ScanDirectory(cfg.Scenes.Dir)
	if err != nil {
		log.Errorf("Failed to scan scene directory: %v", err)
		os.Exit(1)
	}

	manager := game.NewManager(renderer, inputMgr, loader, lights, cfg, store, log)
	manager.Scenes = entries
	defer manager.Dispose()
	if err := manager.Start(); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	// Set up the window
	engine.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	engine.SetWindowTitle(cfg.Window.Title)
	engine.SetWindowResizable(cfg.Window.Resizable)

	log.Infof("Starting viewer...")
	if err := engine.RunGame(manager); err != nil && !errors.Is(err, game.ErrQuit) {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}
