package sapling

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce drops repeated events for the same file within this window;
// editors often write a file several times when saving.
const reloadDebounce = 100 * time.Millisecond

// LayoutWatcher reports changes to YAML layout files in a set of directories.
type LayoutWatcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// NewLayoutWatcher watches dirs for created, written, renamed or removed
// .yaml/.yml files.
func NewLayoutWatcher(dirs ...string) (*LayoutWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	lw := &LayoutWatcher{
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go lw.run()
	return lw, nil
}

// Close stops the watcher and closes Events and Errors.
func (w *LayoutWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

// Changed drains pending change events without blocking and returns the
// cleaned paths, each at most once.
func (w *LayoutWatcher) Changed() []string {
	var out []string
	for {
		select {
		case name, ok := <-w.Events:
			if !ok {
				return out
			}
			name = filepath.Clean(name)
			dup := false
			for _, o := range out {
				if o == name {
					dup = true
					break
				}
			}
			if !dup {
				out = append(out, name)
			}
		default:
			return out
		}
	}
}

func (w *LayoutWatcher) run() {
	defer close(w.Events)
	defer close(w.Errors)
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !isLayoutFile(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < reloadDebounce {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- event.Name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func isLayoutFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// UIReloader rebuilds a UI subtree whenever its layout file changes.
type UIReloader struct {
	Path string
	// Bind is passed to ViewSpec.Build for every rebuilt view.
	Bind func(v *View)

	watcher *LayoutWatcher
}

// NewUIReloader watches the directory containing path.
func NewUIReloader(path string, bind func(v *View)) (*UIReloader, error) {
	path = filepath.Clean(path)
	w, err := NewLayoutWatcher(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	return &UIReloader{Path: path, Bind: bind, watcher: w}, nil
}

// Poll checks for changes without blocking. When the layout file changed it
// is reloaded and swapped in for root; the new root is returned with true.
// A load error leaves the current tree in place.
func (r *UIReloader) Poll(ui *UI, root ViewID) (ViewID, bool, error) {
	changed := false
	for _, name := range r.watcher.Changed() {
		if name == r.Path {
			changed = true
		}
	}
	if !changed {
		return root, false, nil
	}
	spec, err := LoadUI(r.Path)
	if err != nil {
		return root, false, err
	}
	id, err := ui.ReplaceTree(root, spec, r.Bind)
	if err != nil {
		return root, false, err
	}
	return id, true, nil
}

// Close stops watching.
func (r *UIReloader) Close() error {
	return r.watcher.Close()
}
