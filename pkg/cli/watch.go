package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dryflow/dryflow/pkg/console"
	"github.com/dryflow/dryflow/pkg/constants"
	"github.com/dryflow/dryflow/pkg/logger"
	"github.com/dryflow/dryflow/pkg/stringutil"
)

var watchLog = logger.New("cli:watch")

// watchDebounce coalesces the bursts of events editors emit per save.
const watchDebounce = 200 * time.Millisecond

// WatchAndCompile compiles once, then recompiles whichever source
// changes until interrupted. Lock files and unrelated paths are
// ignored; editor save bursts are debounced.
func WatchAndCompile(args []string, opts CompileOptions) error {
	opts.Watch = false
	if err := CompileFiles(args, opts); err != nil {
		// Keep watching: the author is about to fix it.
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	dirs, explicit := watchTargets(args)
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		watchLog.Printf("Watching %s", dir)
	}
	fmt.Fprintln(os.Stderr, console.FormatInfoMessage("Watching for changes (ctrl-c to stop)"))

	var (
		pending = make(map[string]bool)
		timer   *time.Timer
		timerC  <-chan time.Time
	)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !isWorkflowSource(event.Name) {
				continue
			}
			if len(explicit) > 0 && !explicit[filepath.Clean(event.Name)] {
				continue
			}
			pending[event.Name] = true
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			console.ClearScreen()
			for path := range pending {
				watchLog.Printf("Recompiling %s", path)
				fmt.Fprintln(os.Stderr, console.FormatProgressMessage("Recompiling "+console.ToRelativePath(path)))
				if err := CompileFiles([]string{path}, opts); err != nil {
					fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
				}
			}
			pending = make(map[string]bool)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, console.FormatWarningMessage("watch error: "+err.Error()))
		}
	}
}

// watchTargets returns the directories to watch and, when explicit
// sources were given, the set of paths recompiles are limited to.
func watchTargets(args []string) (dirs map[string]bool, explicit map[string]bool) {
	dirs = make(map[string]bool)
	explicit = make(map[string]bool)
	if len(args) == 0 {
		dirs[constants.SourceDir] = true
		return dirs, nil
	}
	for _, path := range args {
		dirs[filepath.Dir(path)] = true
		explicit[filepath.Clean(path)] = true
	}
	return dirs, explicit
}

func isWorkflowSource(path string) bool {
	if stringutil.IsLockFile(path) {
		return false
	}
	return strings.HasSuffix(path, ".yml") || strings.HasSuffix(path, ".yaml")
}
