package main

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

type reloadMsg struct {
	path string
}

type watchErrMsg struct {
	err error
}

// watchDeclFile watches the declaration file's directory and sends a
// reloadMsg whenever the file is rewritten. Watching the directory rather
// than the file survives editors that replace the file on save.
func watchDeclFile(path string, send func(tea.Msg)) (func() error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					send(reloadMsg{path: abs})
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				send(watchErrMsg{err: err})
			}
		}
	}()
	return watcher.Close, nil
}
