// tourtool is a CLI utility for preparing room tour assets.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/gookit/color"

	"github.com/Faultbox/panotour/internal/assets"
	"github.com/Faultbox/panotour/internal/config"
	"github.com/Faultbox/panotour/internal/i18n"
	"github.com/Faultbox/panotour/internal/tour/hotspot"
	"github.com/Faultbox/panotour/internal/tour/rooms"
	"github.com/Faultbox/panotour/internal/tour/state"
	"github.com/Faultbox/panotour/internal/tour/theme"
)

var (
	styleHeader = color.Style{color.FgCyan, color.OpBold}
	styleOK     = color.Style{color.FgGreen}
	styleFail   = color.Style{color.FgRed, color.OpBold}
	styleSubtle = color.Style{color.FgGray}
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "rooms", "ls":
		cmdRooms(args)
	case "check":
		cmdCheck(args)
	case "icons":
		cmdIcons(args)
	case "init":
		cmdInit(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tourtool - 360° room tour asset utility

Usage:
  tourtool <command> [options]

Commands:
  rooms [-lang de]          List the configured rooms
  check [-assets dir]       Decode every panorama and report failures
  icons <output_dir>        Write hotspot icon art for both themes as PNG
  init [path]               Write the default config file

Examples:
  tourtool rooms -lang de
  tourtool check -assets ./assets
  tourtool icons ./icons
  tourtool init ./config.yaml`)
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		styleFail.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func loadRooms(cfg *config.Config) *rooms.Registry {
	reg, err := rooms.FromConfig(cfg.Tour.Rooms)
	if err != nil {
		styleFail.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	return reg
}

func cmdRooms(args []string) {
	fs := flag.NewFlagSet("rooms", flag.ExitOnError)
	lang := fs.String("lang", "", "Translate room names using locales/<lang>.po")
	fs.Parse(args)

	cfg := loadConfig()
	reg := loadRooms(cfg)

	var catalog *i18n.Catalog
	if *lang != "" {
		c, err := i18n.Load(cfg.Locale.Dir, *lang)
		if err != nil {
			styleFail.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		catalog = c
	}

	styleHeader.Printf("%-3s %-20s %-6s %-22s %s\n", "#", "Name", "Glyph", "Panorama", "Target")
	for _, r := range reg.All() {
		marker := " "
		if r.ID == cfg.Tour.HomeRoom {
			marker = "*"
		}
		fmt.Printf("%d%s  %-20s %-6s %-22s ", r.ID, marker, catalog.T(r.Name), r.Glyph, r.Panorama)
		styleSubtle.Printf("(%.2f, %.2f, %.2f)\n", r.CameraTarget.X, r.CameraTarget.Y, r.CameraTarget.Z)
	}
	fmt.Fprintf(os.Stderr, "\n(%d rooms, hotspot policy %q)\n", reg.Count(), cfg.Tour.HotspotPolicy)
}

func cmdCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	dir := fs.String("assets", "", "Asset directory (default from config)")
	fs.Parse(args)

	cfg := loadConfig()
	if *dir != "" {
		cfg.Assets.Dir = *dir
	}
	reg := loadRooms(cfg)

	m := assets.NewManager(cfg.Assets.MaxTextureSize)
	if err := m.AddDir(cfg.Assets.Dir); err != nil {
		styleFail.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer m.Close()

	failed := 0
	for _, r := range reg.All() {
		tex, err := m.Load(r.Panorama)
		if err != nil {
			failed++
			styleFail.Printf("FAIL ")
			fmt.Printf("%-20s %v\n", r.Name, err)
			continue
		}
		styleOK.Printf("OK   ")
		fmt.Printf("%-20s %s ", r.Name, r.Panorama)
		styleSubtle.Printf("%dx%d\n", tex.Width, tex.Height)
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "\n%d of %d panoramas failed to decode\n", failed, reg.Count())
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "\nall %d panoramas decoded\n", reg.Count())
}

func cmdIcons(args []string) {
	fs := flag.NewFlagSet("icons", flag.ExitOnError)
	size := fs.Int("size", hotspot.DefaultConfig().TextureSize, "Icon size in pixels")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: tourtool icons [-size N] <output_dir>")
		os.Exit(1)
	}
	outputDir := fs.Arg(0)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		styleFail.Printf("Error creating directory: %v\n", err)
		os.Exit(1)
	}

	reg := loadRooms(loadConfig())
	count := 0
	for _, r := range reg.All() {
		for _, th := range []state.Theme{state.Light, state.Dark} {
			img := hotspot.RenderIcon(r.Glyph, theme.Palette(th), *size)
			name := fmt.Sprintf("%s-%s.png", strings.ToLower(r.Glyph), th)
			outputPath := filepath.Join(outputDir, name)
			if err := imgio.Save(outputPath, img, imgio.PNGEncoder()); err != nil {
				styleFail.Printf("Error writing %s: %v\n", outputPath, err)
				os.Exit(1)
			}
			fmt.Println(outputPath)
			count++
		}
	}
	fmt.Fprintf(os.Stderr, "\n(%d icons written)\n", count)
}

func cmdInit(args []string) {
	path := "config.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		styleFail.Printf("Refusing to overwrite %s\n", path)
		os.Exit(1)
	}
	if err := config.Default().SaveTo(path); err != nil {
		styleFail.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	styleOK.Printf("wrote %s\n", path)
}
