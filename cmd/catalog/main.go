// Package main is the entry point for the interactive catalog client.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/altamash-faraz/itemcatalog/internal/catalog"
	"github.com/altamash-faraz/itemcatalog/internal/config"
	"github.com/altamash-faraz/itemcatalog/internal/fallback"
	"github.com/altamash-faraz/itemcatalog/internal/gateway"
	"github.com/altamash-faraz/itemcatalog/internal/model"
	"github.com/altamash-faraz/itemcatalog/internal/remote"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	localStore, err := fallback.NewFileStore(cfg.FallbackPath)
	if err != nil {
		logger.Error("failed to open fallback store", zap.Error(err))
		return 1
	}

	view := newTerminalView(os.Stdout)
	apiClient := remote.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)

	gw := gateway.New(apiClient, localStore, logger, func() {
		view.ShowWarning("Server unavailable - working offline. Changes are saved to local storage on this device.")
	})

	controller := catalog.NewController(gw, view, logger)

	session := &session{
		cfg:        cfg,
		controller: controller,
		gw:         gw,
		view:       view,
		in:         bufio.NewScanner(os.Stdin),
	}

	return session.loop()
}

// session drives the interactive command loop. It owns the form state
// (current search text and category selection) the way the browser form
// does, and translates each command into a typed intent.
type session struct {
	cfg        *config.Config
	controller *catalog.Controller
	gw         *gateway.Gateway
	view       *terminalView
	in         *bufio.Scanner

	search   string
	category string
}

// loop reads commands until quit or EOF.
func (s *session) loop() int {
	ctx := context.Background()

	fmt.Println("Item Catalog. Type 'help' for commands.")

	if err := s.controller.Handle(ctx, catalog.ReloadIntent{}); err != nil {
		s.view.ShowMessage(catalog.MessageError, "Error loading items: "+err.Error())
	}

	for {
		fmt.Print("> ")
		if !s.in.Scan() {
			return 0
		}

		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			continue
		}

		cmd, arg := splitCommand(line)
		if cmd == "quit" || cmd == "exit" {
			return 0
		}

		if err := s.dispatch(ctx, cmd, arg); err != nil {
			s.view.ShowMessage(catalog.MessageError, "Error: "+err.Error())
		}
	}
}

// dispatch executes a single command.
func (s *session) dispatch(ctx context.Context, cmd, arg string) error {
	switch cmd {
	case "help":
		s.printHelp()
		return nil

	case "list":
		s.view.RenderItems(s.controller.Filtered())
		return nil

	case "reload":
		return s.controller.Handle(ctx, catalog.ReloadIntent{})

	case "add":
		input, err := s.promptInput(model.ItemInput{})
		if err != nil {
			return err
		}
		return s.controller.Handle(ctx, catalog.CreateIntent{Input: input})

	case "edit":
		if arg == "" {
			return errors.New("usage: edit <id>")
		}
		item, err := s.controller.FetchItem(ctx, arg)
		if err != nil {
			return err
		}
		input, err := s.promptInput(model.ItemInput{
			Name:        item.Name,
			Description: item.Description,
			Category:    item.Category,
			Price:       fmt.Sprintf("%.2f", item.Price),
		})
		if err != nil {
			return err
		}
		return s.controller.Handle(ctx, catalog.EditIntent{ID: arg, Input: input})

	case "delete":
		if arg == "" {
			return errors.New("usage: delete <id>")
		}
		if !s.confirm("Are you sure you want to delete this item? [y/N] ") {
			return nil
		}
		return s.controller.Handle(ctx, catalog.DeleteIntent{ID: arg})

	case "search":
		s.search = arg
		return s.controller.Handle(ctx, catalog.FilterIntent{Search: s.search, Category: s.category})

	case "category":
		if arg != "" && !model.ValidCategory(arg) {
			return fmt.Errorf("unknown category %q, see 'categories'", arg)
		}
		s.category = arg
		return s.controller.Handle(ctx, catalog.FilterIntent{Search: s.search, Category: s.category})

	case "categories":
		for _, c := range model.Categories {
			fmt.Println("  " + c)
		}
		return nil

	case "clear":
		s.search = ""
		s.category = ""
		return s.controller.Handle(ctx, catalog.FilterIntent{})

	case "export":
		return s.export(ctx)

	case "mode":
		fmt.Println(s.gw.Mode().String())
		return nil

	default:
		return fmt.Errorf("unknown command %q, type 'help'", cmd)
	}
}

// export writes the working set to a dated CSV file in the current
// directory. No file is created when there is nothing to export.
func (s *session) export(ctx context.Context) error {
	name := catalog.ExportFileName(time.Now())

	var buf strings.Builder
	if err := s.controller.Handle(ctx, catalog.ExportIntent{Writer: &buf}); err != nil {
		return err
	}

	if err := os.WriteFile(name, []byte(buf.String()), 0o644); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}

	s.view.ShowMessage(catalog.MessageSuccess, "Exported to "+name)
	return nil
}

// promptInput collects the four editable fields, offering the given values
// as defaults kept on empty input.
func (s *session) promptInput(defaults model.ItemInput) (model.ItemInput, error) {
	input := model.ItemInput{
		Name:        s.prompt("Name", defaults.Name),
		Description: s.prompt("Description", defaults.Description),
		Category:    s.prompt("Category ("+strings.Join(model.Categories, ", ")+")", defaults.Category),
		Price:       s.prompt("Price", defaults.Price),
	}

	return input, nil
}

// prompt reads one line, returning def when the user enters nothing.
func (s *session) prompt(label, def string) string {
	if def != "" {
		fmt.Printf("%s [%s]: ", label, def)
	} else {
		fmt.Printf("%s: ", label)
	}

	if !s.in.Scan() {
		return def
	}

	text := strings.TrimSpace(s.in.Text())
	if text == "" {
		return def
	}

	return text
}

// confirm asks a yes/no question, defaulting to no.
func (s *session) confirm(question string) bool {
	fmt.Print(question)
	if !s.in.Scan() {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(s.in.Text()))
	return answer == "y" || answer == "yes"
}

func (s *session) printHelp() {
	fmt.Print(`Commands:
  list             show the current (filtered) item list
  reload           refresh the list from the store
  add              create a new item
  edit <id>        edit an existing item
  delete <id>      delete an item
  search <text>    filter by name/description substring
  category <name>  filter by exact category ('category' alone clears it)
  categories       list known categories
  clear            clear all filters
  export           export all items to a dated CSV file
  mode             show whether the session uses the server or local storage
  quit             exit
`)
}

// splitCommand separates the command word from its argument.
func splitCommand(line string) (string, string) {
	parts := strings.SplitN(line, " ", 2)
	cmd := strings.ToLower(parts[0])
	if len(parts) == 1 {
		return cmd, ""
	}
	return cmd, strings.TrimSpace(parts[1])
}

// initLogger builds a console logger on stderr so log lines never mix with
// the rendered catalog on stdout.
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.WarnLevel
	}

	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return zapConfig.Build()
}
