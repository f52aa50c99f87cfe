package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	scenePath := flag.String("scene", "", "scene file (defaults to the embedded scene)")
	debug := flag.Bool("debug", false, "start with physics debug lines drawn")
	watch := flag.Bool("watch", false, "rebuild the scene when its file changes")
	releaseDT := flag.Bool("release-dt", false, "step with the raw frame delta instead of clamping it")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("spheredrop")

	game, err := NewGame(ctx, Config{
		ScenePath: *scenePath,
		Debug:     *debug,
		Watch:     *watch,
		Unclamped: *releaseDT,
	})
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Print(err)
	}
}
