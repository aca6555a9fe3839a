package main

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/franckalain/frigozen/internal/app"
	"github.com/franckalain/frigozen/internal/server"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan <image>",
	Short: "Add the products of a receipt photo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		image, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read receipt: %w", err)
		}
		mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(args[0])))
		if mimeType == "" {
			mimeType = http.DetectContentType(image)
		}

		return withApp(func(ctx context.Context, a *app.App) error {
			items, err := a.Scan(ctx, image, mimeType)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d items\n", len(items))
			printItems(cmd.OutOrStdout(), items, time.Now())
			return nil
		})
	},
}

var recipesCmd = &cobra.Command{
	Use:   "recipes",
	Short: "Suggest anti-waste recipes from the active items",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			list, err := a.SuggestRecipes(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No recipe suggested")
				return nil
			}
			for i, recipe := range list {
				fmt.Fprintf(out, "%d. %s (%s, %s)\n", i+1, recipe.Title, recipe.PrepTime, recipe.Difficulty)
				if recipe.Description != "" {
					fmt.Fprintf(out, "   %s\n", recipe.Description)
				}
				fmt.Fprintf(out, "   Ingredients: %s\n", strings.Join(recipe.Ingredients, ", "))
				for n, step := range recipe.Instructions {
					fmt.Fprintf(out, "   %d) %s\n", n+1, step)
				}
				if !strings.HasPrefix(recipe.ImageURL, "data:") {
					fmt.Fprintf(out, "   Image: %s\n", recipe.ImageURL)
				}
			}
			return nil
		})
	},
}

var langCmd = &cobra.Command{
	Use:   "lang <fr|en|ar>",
	Short: "Switch the display language and translate item names",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			translating, err := a.SetLanguage(ctx, args[0])
			if err != nil {
				return err
			}
			if translating {
				fmt.Fprintln(cmd.OutOrStdout(), "Translating item names...")
				a.WaitTranslation()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Language set to %s\n", a.Language())
			return nil
		})
	},
}

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the WebSocket server for the front-end",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort != "" {
			cfg.Server.Port = servePort
		}
		rt, err := app.Open(context.Background(), cfg)
		if err != nil {
			return err
		}
		defer rt.Close()

		return server.New(rt.App, cfg.Server.Debug).Start(cfg.Server.Port, cfg.Server.StaticDir)
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on")
	rootCmd.AddCommand(scanCmd, recipesCmd, langCmd, serveCmd)
}
