package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/syssam/ease/compiler/gen"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	GenerateOptions
	Debounce time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{GenerateOptions: GenerateOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "watch [source]...",
		Short: "Regenerate the record clients when their sources change",
		Long: `Generate the record clients, then watch the sources and generate them
again on every change until interrupted. Generation errors are logged and
do not stop the watch.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := opts.sources(args)
			if err != nil {
				return err
			}
			cfg, err := opts.genConfig(cmd, sources)
			if err != nil {
				return err
			}
			return opts.watch(cmd.Context(), cfg, sources)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", 300*time.Millisecond, "delay between a change and the regeneration")
	return cmd
}

// watchSet holds the watched source files and directories.
type watchSet struct {
	files map[string]bool
	dirs  map[string]bool
}

// matches reports whether a change to path affects the sources.
func (s watchSet) matches(path string) bool {
	if s.files[path] {
		return true
	}
	return s.dirs[filepath.Dir(path)] && isSourceFile(filepath.Base(path))
}

// isSourceFile reports whether name may declare records. Generated and
// test files are excluded.
func isSourceFile(name string) bool {
	switch filepath.Ext(name) {
	case ".yaml", ".yml", ".json":
		return true
	case ".go":
		for _, suffix := range []string{"_test.go", "_ease.go", "_ease_sql.go"} {
			if strings.HasSuffix(name, suffix) {
				return false
			}
		}
		return !strings.HasPrefix(name, "ease_")
	}
	return false
}

func (o *WatchOptions) watch(ctx context.Context, cfg *gen.Config, sources []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return GeneralError("creating watcher", err)
	}
	defer w.Close()

	set := watchSet{files: make(map[string]bool), dirs: make(map[string]bool)}
	for _, s := range sources {
		abs, err := filepath.Abs(s)
		if err != nil {
			return ConfigError("invalid source "+s, err)
		}
		fi, err := os.Stat(abs)
		if err != nil {
			return ConfigError("invalid source "+s, err)
		}
		dir := abs
		if fi.IsDir() {
			set.dirs[abs] = true
		} else {
			set.files[abs] = true
			dir = filepath.Dir(abs)
		}
		// Editors replace files on save, so the directory is watched.
		if err := w.Add(dir); err != nil {
			return GeneralError("watching "+dir, err)
		}
	}

	o.regenerate(ctx, cfg, sources)
	o.Logger.Info("watching sources", "sources", len(sources))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			path, _ := filepath.Abs(event.Name)
			if !set.matches(path) {
				continue
			}
			o.Logger.Debug("source changed", "path", path, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(o.Debounce)
			} else {
				timer.Reset(o.Debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			o.regenerate(ctx, cfg, sources)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			o.Logger.Warn("watcher error", "error", err)
		}
	}
}

func (o *WatchOptions) regenerate(ctx context.Context, cfg *gen.Config, sources []string) {
	if err := o.generate(ctx, cfg, sources); err != nil {
		o.Logger.Error("generation failed", "error", err)
	}
}
