package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/audio-extract-go/internal/app"
	"github.com/yourusername/audio-extract-go/internal/domain"
	"github.com/yourusername/audio-extract-go/pkg/logger"
)

var infoCmd = &cobra.Command{
	Use:   "info [url]",
	Short: "Show metadata for a URL without downloading",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		return withSession(func(ctx context.Context, s *session) error {
			info, err := s.service().Info(ctx, args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(info)
			}

			fmt.Printf("Title:     %s\n", info.Title)
			fmt.Printf("Uploader:  %s\n", info.Uploader)
			fmt.Printf("Duration:  %s\n", formatDuration(info.DurationSeconds))
			fmt.Printf("ID:        %s\n", info.ID)
			if info.ThumbnailURL != nil {
				fmt.Printf("Thumbnail: %s\n", *info.ThumbnailURL)
			}
			return nil
		})
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download [url]",
	Short: "Extract the audio track of a URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		quality, _ := cmd.Flags().GetString("quality")
		outputDir, _ := cmd.Flags().GetString("output")

		return withSession(func(ctx context.Context, s *session) error {
			if outputDir != "" {
				if err := s.service().SetOutputPath(outputDir); err != nil {
					return err
				}
			}

			fmt.Fprintf(os.Stderr, "Extracting audio from %s ...\n", args[0])
			result, err := s.service().Extract(ctx, domain.DownloadRequest{
				URL:     args[0],
				Format:  domain.AudioFormat(format),
				Quality: domain.QualityTier(quality),
			})
			if err != nil {
				return err
			}

			fmt.Printf("Saved:   %s\n", result.FilePath)
			fmt.Printf("Title:   %s\n", result.Title)
			fmt.Printf("Format:  %s (%s)\n", result.Format, result.Quality)
			if result.JobID != "" {
				fmt.Printf("Job ID:  %s\n", result.JobID)
			}
			return nil
		})
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that yt-dlp is installed and runnable",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(ctx context.Context, s *session) error {
			fmt.Printf("Tool:    %s\n", s.runtime.Extractor.ToolPath())
			fmt.Printf("Output:  %s\n", s.service().OutputPath())

			version, err := s.service().Version(ctx)
			if err != nil {
				fmt.Println("Status:  not available")
				return fmt.Errorf("yt-dlp is not available: %w", err)
			}
			fmt.Printf("Version: %s\n", version)
			fmt.Println("Status:  ok")
			return nil
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past extractions",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		showStats, _ := cmd.Flags().GetBool("stats")

		return withSession(func(ctx context.Context, s *session) error {
			if showStats {
				stats, err := s.service().GetStats()
				if err != nil {
					return err
				}
				fmt.Println("Extraction Statistics:")
				fmt.Printf("  Total:      %d\n", stats.Total)
				fmt.Printf("  Processing: %d\n", stats.Processing)
				fmt.Printf("  Completed:  %d\n", stats.Completed)
				fmt.Printf("  Failed:     %d\n", stats.Failed)
				return nil
			}

			jobs, err := s.service().ListJobs(domain.JobStatus(status))
			if err != nil {
				return err
			}
			printJobs(jobs)
			return nil
		})
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Remove an extraction from the history (the file is kept)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(ctx context.Context, s *session) error {
			if err := s.service().DeleteJob(args[0]); err != nil {
				return err
			}
			fmt.Println("Deleted")
			return nil
		})
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs [category]",
	Short: "Show today's logs (extract, error or ytdlp)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category := logger.CategoryExtract
		if len(args) == 1 {
			category = logger.LogCategory(args[0])
		}
		if !logger.ValidCategory(category) {
			return fmt.Errorf("unknown log category: %s", category)
		}
		limit, _ := cmd.Flags().GetInt("limit")
		query, _ := cmd.Flags().GetString("query")

		config, err := app.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if config.Extract.LogsDir == "" {
			return fmt.Errorf("extract.logs_dir is not configured")
		}

		entries, err := logger.NewLogReader(config.Extract.LogsDir).ReadLogs(category, time.Now(), query, limit)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.Timestamp != "" {
				fmt.Printf("%s %-5s %s", e.Timestamp, e.Level, e.Message)
			} else {
				fmt.Print(e.Message)
			}
			if len(e.Fields) > 0 {
				fields, _ := json.Marshal(e.Fields)
				fmt.Printf(" %s", fields)
			}
			fmt.Println()
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a config file with default values",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := defaultConfigPath()
		if len(args) == 1 {
			path = args[0]
		}
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		if err := app.SaveConfig(domain.DefaultConfig(), path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	infoCmd.Flags().BoolP("json", "j", false, "Output in JSON format")

	downloadCmd.Flags().StringP("format", "f", "", "Audio format (mp3, opus, m4a, aac, flac, wav, vorbis, alac, best)")
	downloadCmd.Flags().StringP("quality", "q", "", "Quality tier for lossy formats (128, 192, 256, 320)")
	downloadCmd.Flags().StringP("output", "o", "", "Output directory (created if missing)")

	historyCmd.Flags().StringP("status", "s", "", "Filter by status (processing, completed, failed)")
	historyCmd.Flags().Bool("stats", false, "Show counts per status")
	historyCmd.AddCommand(historyDeleteCmd)

	logsCmd.Flags().IntP("limit", "n", 50, "Number of entries to show (0 for all)")
	logsCmd.Flags().StringP("query", "q", "", "Only show entries whose message contains this text")

	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
}

func printJobs(jobs []*domain.ExtractionJob) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tFORMAT\tTITLE\tCREATED\tTOOK")
	for _, j := range jobs {
		title := j.Title
		if j.Status == domain.StatusFailed {
			title = "(" + string(j.ErrorKind) + ") " + j.URL
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			truncate(j.ID, 8),
			j.Status,
			j.Format+"/"+j.Quality,
			truncate(title, 50),
			j.CreatedAt.Format("2006-01-02 15:04"),
			jobTook(j))
	}
	w.Flush()
}

// jobTook renders the run time of a finished job, "-" while it is still processing
func jobTook(j *domain.ExtractionJob) string {
	if !j.IsTerminal() {
		return "-"
	}
	return j.Duration().Round(time.Millisecond).String()
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatDuration(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	if d <= 0 {
		return "unknown"
	}
	return d.String()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
