package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mfigueiredo/ponto/internal/api"
	"github.com/mfigueiredo/ponto/internal/config"
	"github.com/mfigueiredo/ponto/internal/domain"
	"github.com/mfigueiredo/ponto/internal/entry"
	"github.com/mfigueiredo/ponto/internal/export"
	"github.com/mfigueiredo/ponto/internal/extract"
	"github.com/mfigueiredo/ponto/internal/ocr"
	"github.com/mfigueiredo/ponto/internal/photo"
	"github.com/mfigueiredo/ponto/internal/store"
	"github.com/spf13/cobra"
)

var dataDir string

func main() {
	// Default data location
	home, _ := os.UserHomeDir()
	defaultData := filepath.Join(home, ".ponto")

	rootCmd := &cobra.Command{
		Use:   "ponto",
		Short: "Time-clock card logger with photo text extraction",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", defaultData, "data directory")

	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(editCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(shareCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app is the composition root: config, one open store, and the workflow
// service built on top of it.
type app struct {
	cfg   *config.Config
	store *store.Store
	svc   *entry.Service
}

func getApp() (*app, error) {
	cfg, err := config.Load(dataDir)
	if err != nil {
		return nil, err
	}
	if err := photo.EnsureDir(cfg.DataDir); err != nil {
		return nil, err
	}
	st, err := store.New(cfg.DBPath())
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:   cfg,
		store: st,
		svc:   entry.New(st, cfg.PhotosPath(), cfg.CachePath()),
	}, nil
}

func (a *app) Close() {
	a.store.Close()
}

// recognizer builds the configured external OCR command.
func (a *app) recognizer() (ocr.Recognizer, error) {
	if len(a.cfg.OCRCommand) == 0 {
		return nil, fmt.Errorf("no ocr_command configured")
	}
	return ocr.Command{Name: a.cfg.OCRCommand[0], Args: a.cfg.OCRCommand[1:]}, nil
}

func addCmd() *cobra.Command {
	var date, hour, rawText string
	var noOCR bool

	cmd := &cobra.Command{
		Use:   "add [photo]",
		Short: "Save a time-clock photo as a new entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			photoPath := args[0]

			a, err := getApp()
			if err != nil {
				return err
			}
			defer a.Close()

			raw := rawText
			if raw == "" && !noOCR && (date == "" || hour == "") {
				rec, err := a.recognizer()
				if err != nil {
					fmt.Printf("(text recognition skipped: %v)\n", err)
				} else {
					blocks, err := rec.Recognize(cmd.Context(), photoPath)
					if err != nil {
						fmt.Printf("(text recognition failed: %v)\n", err)
					} else {
						raw = ocr.Flatten(blocks)
					}
				}
			}

			if date != "" {
				date = extract.FormatDateInput(date)
			} else if d, ok := extract.Date(raw); ok {
				date = d
				fmt.Printf("Extracted date: %s\n", d)
			}
			if hour != "" {
				hour = extract.FormatHourInput(hour)
			} else if h, ok := extract.Hour(raw); ok {
				hour = h
				fmt.Printf("Extracted hour: %s\n", h)
			}

			saved, err := a.svc.Save(entry.SaveRequest{Date: date, Hour: hour, PhotoPath: photoPath})
			if errors.Is(err, domain.ErrValidation) {
				return fmt.Errorf("%v\ncorrect it and retry with --date DD/MM/YYYY --hour HH:MM", err)
			}
			if err != nil {
				return err
			}

			fmt.Printf("Saved entry: %s\n", saved.ID[:8])
			fmt.Printf("Date: %s  Hour: %s\n", saved.Date, saved.Hour)
			fmt.Printf("Photo: %s\n", saved.FilePath)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "punched date (overrides extraction)")
	cmd.Flags().StringVar(&hour, "hour", "", "punched hour (overrides extraction)")
	cmd.Flags().StringVar(&rawText, "text", "", "recognized text to extract from (skips OCR)")
	cmd.Flags().BoolVar(&noOCR, "no-ocr", false, "skip text recognition")
	return cmd
}

func listCmd() *cobra.Command {
	var limit int
	var byDate bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp()
			if err != nil {
				return err
			}
			defer a.Close()

			entries := a.svc.List()
			if len(entries) == 0 {
				fmt.Println("No entries yet. Use 'ponto add' to create one.")
				return nil
			}

			if byDate {
				for _, g := range entry.GroupByDate(entries) {
					plural := "s"
					if len(g.Entries) == 1 {
						plural = ""
					}
					fmt.Printf("%s  (%d registro%s)\n", g.Date, len(g.Entries), plural)
					for _, e := range g.Entries {
						fmt.Printf("  %s  %s\n", e.ID[:8], e.Hour)
					}
				}
				return nil
			}

			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			for _, e := range entries {
				fmt.Printf("%s  %s %s  (saved %s)\n", e.ID[:8], e.Date, e.Hour, e.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	cmd.Flags().BoolVar(&byDate, "by-date", false, "group entries by date")
	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show entry details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp()
			if err != nil {
				return err
			}
			defer a.Close()

			e, err := a.svc.Get(resolveID(a, args[0]))
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("entry not found: %s", args[0])
			}
			if err != nil {
				return err
			}

			fmt.Printf("ID:      %s\n", e.ID)
			fmt.Printf("Date:    %s\n", e.Date)
			fmt.Printf("Hour:    %s\n", e.Hour)
			fmt.Printf("Saved:   %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Printf("Photo:   %s\n", e.FilePath)
			return nil
		},
	}
}

func editCmd() *cobra.Command {
	var date, hour string

	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Correct an entry's date or hour",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp()
			if err != nil {
				return err
			}
			defer a.Close()

			var dp, hp *string
			if cmd.Flags().Changed("date") {
				d := extract.FormatDateInput(date)
				dp = &d
			}
			if cmd.Flags().Changed("hour") {
				h := extract.FormatHourInput(hour)
				hp = &h
			}

			id := resolveID(a, args[0])
			if err := a.svc.UpdateFields(id, dp, hp); err != nil {
				return err
			}

			fmt.Printf("Updated entry: %s\n", id[:min(8, len(id))])
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "new date (DD/MM/YYYY)")
	cmd.Flags().StringVar(&hour, "hour", "", "new hour (HH:MM)")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete an entry and its photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.svc.Delete(resolveID(a, args[0])); err != nil {
				return err
			}

			fmt.Printf("Deleted entry: %s\n", args[0])
			return nil
		},
	}
}

func shareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "share [id]",
		Short: "Stage an entry's photo for sharing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp()
			if err != nil {
				return err
			}
			defer a.Close()

			info, err := a.svc.Share(resolveID(a, args[0]))
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("entry not found: %s", args[0])
			}
			if err != nil {
				return err
			}

			fmt.Printf("Share copy: %s\n", info.CachePath)
			fmt.Printf("Message: %s\n", info.Message)
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Append all entries to the spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp()
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := a.store.GetAll()
			if err != nil {
				return err
			}

			path := a.cfg.ExportPath()
			if out != "" {
				path = out
			}
			if err := export.AppendEntries(path, entries); err != nil {
				return err
			}

			fmt.Printf("Exported %d entries to %s\n", len(entries), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "workbook path (defaults to the configured export file)")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp()
			if err != nil {
				return err
			}
			// Note: don't defer a.Close() as server runs indefinitely

			server := api.New(a.svc, addr)
			return server.Run()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "server address")
	return cmd
}

// resolveID expands a unique id prefix to the full id. Unknown prefixes
// are returned unchanged so idempotent deletes still succeed.
func resolveID(a *app, prefix string) string {
	for _, e := range a.svc.List() {
		if strings.HasPrefix(e.ID, prefix) {
			return e.ID
		}
	}
	return prefix
}
