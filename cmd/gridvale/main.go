package main

import (
	"flag"
	"log"

	"gridvale/internal/config"
	"gridvale/internal/game"
	"gridvale/internal/gamescanner"
	ebitenrender "gridvale/internal/render/ebiten"
	"gridvale/internal/ui/menu"
)

func main() {
	configPath := flag.String("config", "gridvale.yaml", "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	input := ebitenrender.NewInputSource()
	loader := ebitenrender.NewResourceLoader()
	engine := ebitenrender.NewEngine()

	// Scan the data directory for available worlds
	log.Printf("Scanning %s for world bundles...", cfg.DataDir)
	worlds, err := gamescanner.Scan(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to scan data directory: %v", err)
	}
	log.Printf("Found %d world bundle(s)", len(worlds))

	mainMenu := menu.NewMainMenu(worlds, renderer, cfg.Window.Width, cfg.Window.Height)

	manager := game.NewManager(renderer, input, loader, cfg.Window.Width, cfg.Window.Height)
	manager.SetMainMenu(mainMenu)
	manager.MoveDuration = cfg.MoveDuration
	manager.Events = func(ev game.Event) {
		log.Printf("event %s scene=%s entity=%s structure=%s", ev.Kind, ev.SceneID, ev.EntityID, ev.StructureID)
	}

	engine.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	engine.SetWindowTitle(cfg.Window.Title)
	engine.SetWindowResizable(true)

	log.Println("Starting game...")
	if err := engine.RunGame(manager); err != nil {
		log.Fatal(err)
	}
}
