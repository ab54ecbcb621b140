package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"focus/internal/backup"
	"focus/internal/config"
	"focus/internal/guard"
	"focus/internal/hostsfile"
	"focus/internal/proc"
	"focus/internal/timer"
	"focus/internal/tui"
)

type options struct {
	backupDir   string
	times       []string
	neverEnding bool
	restore     string
	quiet       bool
	hostsPath   string
	guard       bool
	preset      string
}

func NewRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "focus [domains...]",
		Short: "Temporarily block distracting domains via the hosts file",
		Long: "Focus rewrites the hosts file to point the given domains at the loopback\n" +
			"address, backs up the previous contents by content hash, and restores them\n" +
			"when the timer runs out.",
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(opts.quiet)
			return run(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.backupDir, "backup-dir", "b", config.DefaultBackupDir, "directory where snapshots are stored")
	cmd.Flags().StringSliceVarP(&opts.times, "time", "t", nil, "how long to hold the block (e.g. 1h,30m; tokens are summed)")
	cmd.Flags().BoolVarP(&opts.neverEnding, "never-ending", "n", false, "hold the block until restored manually")
	cmd.Flags().StringVarP(&opts.restore, "restore", "r", "", "restore the hosts file from a backup hash prefix")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "no status output or countdown")
	cmd.Flags().StringVar(&opts.hostsPath, "hosts-file", hostsfile.DefaultPath, "target hosts file")
	cmd.Flags().BoolVar(&opts.guard, "guard", false, "re-apply the block if the hosts file is edited while it holds")
	cmd.Flags().StringVar(&opts.preset, "preset", "", "add a named domain list from the config file")
	cmd.MarkFlagsMutuallyExclusive("time", "never-ending")

	return cmd
}

func setupLogging(quiet bool) {
	w := io.Writer(os.Stderr)
	if quiet {
		w = io.Discard
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, nil)))
}

func run(cmd *cobra.Command, opts *options, domains []string) (err error) {
	// Durations are validated before anything is read or written, so a
	// malformed --time aborts with the hosts file unmodified.
	var seconds int64
	if opts.restore == "" && !opts.neverEnding {
		if len(opts.times) == 0 {
			return errors.New("no hold duration given (use --time or --never-ending)")
		}
		if seconds, err = timer.Sum(opts.times); err != nil {
			return err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	backupDir := opts.backupDir
	if !cmd.Flags().Changed("backup-dir") && cfg.BackupDir != "" {
		backupDir = cfg.BackupDir
	}

	if opts.preset != "" {
		preset, err := cfg.Preset(opts.preset)
		if err != nil {
			return err
		}
		domains = append(domains, preset...)
	}

	editor := hostsfile.New(opts.hostsPath, backup.NewStore(backupDir))
	if err := editor.Load(); err != nil {
		return err
	}
	if err := editor.Snapshot(); err != nil {
		return err
	}

	// Restore mode: the pre-restore state was just snapshotted too, so
	// a restore is itself reversible.
	if opts.restore != "" {
		return editor.Restore(opts.restore)
	}

	if err := editor.ApplyBlock(domains); err != nil {
		return err
	}
	if !opts.quiet {
		hintRunningBrowsers()
	}

	if opts.neverEnding {
		if !opts.quiet {
			fmt.Printf("Blocked until restored: focus -r %s\n", shortHash(editor.BackupHash()))
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	guardCtx, stopGuard := context.WithCancel(ctx)
	defer stopGuard()
	guardDone := make(chan struct{})
	if opts.guard {
		g := guard.New(editor, domains)
		go func() {
			defer close(guardDone)
			if gerr := g.Run(guardCtx); gerr != nil {
				slog.Warn("hosts guard stopped", "error", gerr)
			}
		}()
	} else {
		close(guardDone)
	}

	// The block is released on every exit path from here on, early
	// quits and signals included; never-ending mode opted out above.
	// The guard must be fully stopped first or it could re-apply the
	// section after the restore.
	defer func() {
		stopGuard()
		<-guardDone
		if rerr := editor.Restore(""); rerr != nil && err == nil {
			err = rerr
		}
	}()

	return wait(ctx, time.Duration(seconds)*time.Second, domains, opts.quiet)
}

func wait(ctx context.Context, d time.Duration, domains []string, quiet bool) error {
	if quiet {
		select {
		case <-ctx.Done():
		case <-time.After(d):
		}
		return nil
	}
	err := tui.RunCountdown(ctx, d, domains)
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || ctx.Err() != nil) {
		// Interrupted waits still restore via the deferred release.
		return nil
	}
	return err
}

func hintRunningBrowsers() {
	browsers, err := proc.RunningBrowsers()
	if err != nil || len(browsers) == 0 {
		return
	}
	fmt.Printf("Note: %s may keep cached lookups; restart to block immediately\n",
		strings.Join(browsers, ", "))
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
