package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/trailkeeper/internal/client/config"
	"github.com/dmitrijs2005/trailkeeper/internal/client/models"
	"github.com/dmitrijs2005/trailkeeper/internal/client/services"
	"github.com/dmitrijs2005/trailkeeper/internal/filex"
)

// RootCmd builds the trailkeeper command tree. The App is constructed lazily
// in each leaf so that `--help` and argument errors never touch the database.
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trailkeeper",
		Short: "Offline-first heritage trail capture",
		Long: `TrailKeeper manages locally captured heritage trails: points of
interest with photos, GPS fixes and site details. Captures are stored in a
local SQLite database and synced to a remote store when one is configured.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(
		statusCmd(),
		profileCmd(),
		trailCmd(),
		syncCmd(),
		exportCmd(),
		importCmd(),
		archiveCmd(),
		resetTrailCmd(),
		wipeCmd(),
	)
	return cmd
}

// withApp builds the App for one command invocation and tears it down after.
func withApp(ctx context.Context, fn func(ctx context.Context, app *App) error) error {
	app, err := NewApp(ctx, config.LoadConfig())
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(ctx, app)
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show local trails and sync queue state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, app *App) error {
				prof, err := app.Profiles.Get(ctx)
				if err != nil {
					return err
				}
				if prof == nil {
					fmt.Println("No profile configured.")
				} else {
					fmt.Printf("Group: %s (%s)\n", prof.GroupName, prof.GroupCode)
				}

				trails, err := app.Trails.List(ctx)
				if err != nil {
					return err
				}
				for _, t := range trails {
					n, err := app.Repos.POIs.CountByTrailID(ctx, t.ID)
					if err != nil {
						return err
					}
					fmt.Printf("  %-10s %-30s %d POIs (next #%d)\n",
						t.TrailType, t.DisplayName, n, t.NextSequence)
				}

				stats, err := app.Stats.QueueStats(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("Sync queue: %d pending, %d synced (%d entities across %d trails)\n",
					stats.PendingItems, stats.SyncedItems, stats.DistinctEntities, stats.DistinctTrails)
				if stats.LastSyncedAt != nil {
					fmt.Printf("Last synced: %s\n", stats.LastSyncedAt.Local().Format("2006-01-02 15:04:05"))
				}
				return nil
			})
		},
	}
}

func profileCmd() *cobra.Command {
	var email, name, group, descriptor string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Set the device identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, app *App) error {
				p, err := app.Profiles.Save(ctx, email, name, group, descriptor)
				if err != nil {
					return err
				}
				fmt.Printf("Profile saved. Group code: %s\n", p.GroupCode)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Contact email")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&group, "group", "", "Community group name")
	cmd.Flags().StringVar(&descriptor, "descriptor", "", "Free-form group descriptor")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("group")
	return cmd
}

func trailCmd() *cobra.Command {
	var displayName string

	create := &cobra.Command{
		Use:   "create <graveyard|parish>",
		Short: "Create a trail for the device's group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, app *App) error {
				prof, err := app.Profiles.Get(ctx)
				if err != nil {
					return err
				}
				if prof == nil {
					return fmt.Errorf("set a profile first (trailkeeper profile)")
				}
				name := displayName
				if name == "" {
					name = prof.GroupName
				}
				t, err := app.Trails.Create(ctx, prof.GroupCode, models.TrailType(args[0]), name)
				if err != nil {
					return err
				}
				fmt.Printf("Created trail %s\n", t.ID)
				return nil
			})
		},
	}
	create.Flags().StringVar(&displayName, "name", "", "Display name (default: group name)")

	cmd := &cobra.Command{
		Use:   "trail",
		Short: "Manage trails",
	}
	cmd.AddCommand(create)
	return cmd
}

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Drain the outbound sync queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, app *App) error {
				res, err := app.Sync.Drain(ctx)
				if res != nil {
					fmt.Printf("Synced %d item(s), abandoned %d.\n", res.Synced, res.Abandoned)
				}
				return err
			})
		},
	}
}

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all trails to a ZIP archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, app *App) error {
				if output == "" {
					name, err := app.Exporter.ArchiveFilename(ctx)
					if err != nil {
						return err
					}
					dir, err := filex.EnsureSubdir("exports")
					if err != nil {
						return err
					}
					output = filepath.Join(dir, name)
				}

				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("error creating archive file: %w", err)
				}
				n, err := app.Exporter.Export(ctx, f)
				if cerr := f.Close(); err == nil {
					err = cerr
				}
				if err != nil {
					return err
				}
				fmt.Printf("Exported %d trail(s) to %s\n", n, output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Archive file path (default derived from trail name)")
	return cmd
}

func importCmd() *cobra.Command {
	var resolve string

	cmd := &cobra.Command{
		Use:   "import <archive.zip>",
		Short: "Import a trail from an exported archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, app *App) error {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("error opening archive: %w", err)
				}
				defer f.Close()
				fi, err := f.Stat()
				if err != nil {
					return err
				}

				var res *services.ImportResult
				if resolve != "" {
					res, err = app.Importer.ResolveConflict(ctx, f, fi.Size(), resolve)
				} else {
					res, err = app.Importer.ImportArchive(ctx, f, fi.Size())
				}
				if err != nil {
					return err
				}
				printImportResult(res)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&resolve, "resolve", "",
		"Resolve a reported conflict: 'keep' the local trail or 'overwrite' it")
	return cmd
}

func printImportResult(res *services.ImportResult) {
	switch res.Status {
	case services.StatusConflict:
		fmt.Printf("Trail %s already exists on this device.\n", res.TrailID)
		if res.ExistingModifiedAt != nil {
			fmt.Printf("  local copy last changed:   %s\n", res.ExistingModifiedAt.Local().Format("2006-01-02 15:04:05"))
		}
		if res.IncomingModifiedAt != nil {
			fmt.Printf("  archive copy last changed: %s\n", res.IncomingModifiedAt.Local().Format("2006-01-02 15:04:05"))
		}
		fmt.Println("Re-run with --resolve keep or --resolve overwrite.")
	case services.StatusKept:
		fmt.Printf("Kept the local copy of trail %s; nothing imported.\n", res.TrailID)
	default:
		fmt.Printf("Imported trail %s: %d POI(s)", res.TrailID, res.POIsImported)
		if res.POIsSkipped > 0 {
			fmt.Printf(", %d skipped", res.POIsSkipped)
		}
		if res.ImagesFailed > 0 {
			fmt.Printf(", %d photo(s) missing", res.ImagesFailed)
		}
		fmt.Println()
	}
	for _, w := range res.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
}

func archiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <trail-id>",
		Short: "Soft-delete a trail on the remote store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, app *App) error {
				if err := app.Trails.Archive(ctx, args[0]); err != nil {
					return err
				}
				fmt.Printf("Trail %s archived on the remote store.\n", args[0])
				return nil
			})
		},
	}
}

func resetTrailCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset-trail <trail-id>",
		Short: "Delete a trail's POIs locally and restart numbering at 1",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to reset %s without --yes", args[0])
			}
			return withApp(cmd.Context(), func(ctx context.Context, app *App) error {
				if err := app.Trails.Reset(ctx, args[0]); err != nil {
					return err
				}
				fmt.Printf("Trail %s reset.\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")
	return cmd
}

func wipeCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Factory-reset the local store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to wipe the local store without --yes")
			}
			return withApp(cmd.Context(), func(ctx context.Context, app *App) error {
				if err := app.Maintenance.FactoryReset(ctx); err != nil {
					return err
				}
				fmt.Println("Local store wiped.")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the wipe")
	return cmd
}
