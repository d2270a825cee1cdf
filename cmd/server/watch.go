package main

import (
	"context"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chatlens/insights/consts"
	"github.com/chatlens/insights/store"
	"github.com/fsnotify/fsnotify"
)

// debouncer runs fn once per key after the key has been quiet for delay.
type debouncer struct {
	delay  time.Duration
	fn     func(key string)
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func newDebouncer(delay time.Duration, fn func(string)) *debouncer {
	return &debouncer{delay: delay, fn: fn, timers: make(map[string]*time.Timer)}
}

func (d *debouncer) trigger(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[key]; ok {
		t.Reset(d.delay)
		return
	}
	d.timers[key] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.timers, key)
		d.mu.Unlock()
		d.fn(key)
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}

// watchContacts calls export for a contact whenever its fragment files
// change, at most once per delay. It blocks until ctx is done.
func watchContacts(ctx context.Context, delay time.Duration, export func(contactID string)) error {
	root := store.ContactsRoot()
	if err := os.MkdirAll(root, consts.DirPermissions); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if _, err := addTree(watcher, root); err != nil {
		return err
	}
	log.Printf("Watching %s for fragment changes", root)

	pending := newDebouncer(delay, export)
	defer pending.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					files, err := addTree(watcher, event.Name)
					if err != nil {
						log.Printf("Error watching %s: %v", event.Name, err)
					}
					// Files written before the directory was watched
					for _, f := range files {
						if id, ok := contactOf(root, f); ok {
							pending.trigger(id)
						}
					}
				}
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if id, ok := contactOf(root, event.Name); ok {
				pending.trigger(id)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

// addTree watches dir and every directory below it, and returns the files
// already present.
func addTree(watcher *fsnotify.Watcher, dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

// contactOf returns the contact a fragment file belongs to. Only paths of
// the form <root>/<contact>/<kind>/<name>.json count.
func contactOf(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) != 3 || !strings.HasSuffix(parts[2], ".json") {
		return "", false
	}
	if !store.ValidID(parts[0]) || !store.ValidKind(parts[1]) {
		return "", false
	}
	return parts[0], true
}
