package services

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"github.com/guardianlock/guardian_api/shared"
)

// ChangeBusService fans a zero-payload change signal out to local observers.
// Three delivery paths feed it: Notify() called synchronously after every
// local write, an fsnotify watch on the store file for writes landed by the
// other surface's process, and a ~1s polling backstop comparing lastSync.
// Observers must tolerate redundant signals; a refresh is idempotent.
type ChangeBusService struct {
	context.DefaultService

	sqlSvc   *SqliteService
	stateSvc *StateService

	mu          sync.Mutex
	subscribers map[int]chan struct{}
	nextID      int
	lastSeen    int64

	watcher *fsnotify.Watcher
	done    chan struct{}
	once    sync.Once
}

const CHANGE_BUS_SVC = "change_bus_svc"

func (svc ChangeBusService) Id() string {
	return CHANGE_BUS_SVC
}

func (svc *ChangeBusService) Configure(ctx *context.Context) error {
	svc.subscribers = map[int]chan struct{}{}
	svc.done = make(chan struct{})
	return svc.DefaultService.Configure(ctx)
}

func (svc *ChangeBusService) Start() error {
	svc.sqlSvc = svc.Service(SQLITE_SVC).(*SqliteService)
	svc.stateSvc = svc.Service(STATE_SVC).(*StateService)
	svc.lastSeen = svc.stateSvc.LastSync()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	svc.watcher = watcher

	// SQLite appends to -wal/-shm siblings, so watch the directory and
	// filter on the store file's basename.
	dir := filepath.Dir(svc.sqlSvc.DatabasePath())
	if err := watcher.Add(dir); err != nil {
		return err
	}

	go svc.run()
	return nil
}

func (svc *ChangeBusService) Shutdown() {
	svc.once.Do(func() {
		close(svc.done)
		if svc.watcher != nil {
			_ = svc.watcher.Close()
		}
	})
}

// Subscribe registers an observer. The returned channel receives a signal on
// every broadcast; the cancel func must be called when the observer goes away.
func (svc *ChangeBusService) Subscribe() (<-chan struct{}, func()) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	id := svc.nextID
	svc.nextID++
	ch := make(chan struct{}, 1)
	svc.subscribers[id] = ch

	cancel := func() {
		svc.mu.Lock()
		defer svc.mu.Unlock()
		delete(svc.subscribers, id)
	}
	return ch, cancel
}

// Notify broadcasts a change signal to every subscriber. Delivery is
// non-blocking; a subscriber that already has a pending signal is skipped.
func (svc *ChangeBusService) Notify() {
	changeNotificationsTotal.Inc()

	svc.mu.Lock()
	svc.lastSeen = svc.stateSvc.LastSync()
	for _, ch := range svc.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	svc.mu.Unlock()
}

func (svc *ChangeBusService) run() {
	ticker := time.NewTicker(shared.PollIntervalMs * time.Millisecond)
	defer ticker.Stop()

	base := filepath.Base(svc.sqlSvc.DatabasePath())

	for {
		select {
		case <-svc.done:
			return
		case event, ok := <-svc.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasPrefix(filepath.Base(event.Name), base) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				svc.checkForExternalChange()
			}
		case err, ok := <-svc.watcher.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warn("Store watcher error")
		case <-ticker.C:
			svc.checkForExternalChange()
		}
	}
}

// checkForExternalChange re-reads the sync marker and broadcasts when a write
// from another surface has landed. Local writes were already announced by
// Notify, which keeps lastSeen current, so they are not re-broadcast here.
func (svc *ChangeBusService) checkForExternalChange() {
	current := svc.stateSvc.LastSync()

	svc.mu.Lock()
	changed := current != svc.lastSeen
	svc.mu.Unlock()

	if changed {
		svc.Notify()
	}
}
