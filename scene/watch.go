package scene

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a path must stay quiet before it is reported.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports scene and script files once their writes settle. A burst
// of writes to one path yields a single event after the last write.
type Watcher struct {
	Events chan string
	Errors chan error

	fs       *fsnotify.Watcher
	debounce time.Duration
	settled  chan settledPath
	closeCh  chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewWatcher watches dirs with DefaultDebounce.
func NewWatcher(dirs ...string) (*Watcher, error) {
	return NewWatcherDebounce(DefaultDebounce, dirs...)
}

// NewWatcherDebounce watches dirs, reporting a path after it has seen no
// writes for debounce.
func NewWatcherDebounce(debounce time.Duration, dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		Events:   make(chan string, 16),
		Errors:   make(chan error, 1),
		fs:       fw,
		debounce: debounce,
		settled:  make(chan settledPath),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher and closes Events and Errors. It is safe to call
// more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.fs.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

type settledPath struct {
	name string
	seq  uint64
}

type pendingPath struct {
	timer *time.Timer
	seq   uint64
}

func (w *Watcher) run() {
	defer close(w.done)
	pending := make(map[string]pendingPath)
	defer func() {
		for _, p := range pending {
			p.timer.Stop()
		}
	}()

	var seq uint64
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			// restart the quiet period; only the newest timer may report
			if p, ok := pending[event.Name]; ok {
				p.timer.Stop()
			}
			seq++
			settled := settledPath{name: event.Name, seq: seq}
			pending[event.Name] = pendingPath{seq: seq, timer: time.AfterFunc(w.debounce, func() {
				select {
				case w.settled <- settled:
				case <-w.closeCh:
				}
			})}
		case s := <-w.settled:
			if p, ok := pending[s.name]; !ok || p.seq != s.seq {
				continue
			}
			delete(pending, s.name)
			select {
			case w.Events <- s.name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.fs.Errors:
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

func relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	return isSceneFile(event.Name) || isScriptFile(event.Name)
}

func isSceneFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}
