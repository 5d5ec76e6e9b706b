package main

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// debounceInterval suppresses the burst of events most writers
// generate while a file is still being copied in.
const debounceInterval = 500 * time.Millisecond

func newWatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch DIR",
		Short: "Extract tags from files as they appear in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.watch(cmd, args[0])
		},
	}
}

func (a *app) watch(cmd *cobra.Command, dir string) error {
	sess, err := a.newSession()
	if err != nil {
		return err
	}
	defer a.closeSession(sess)

	fsW, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher; %w", err)
	}
	defer fsW.Close()
	if err := fsW.Add(dir); err != nil {
		return fmt.Errorf("watching %s; %w", dir, err)
	}
	a.logger.Info("watching", "dir", dir, "tags", a.cfg.WatchTags)

	lastSeen := map[string]time.Time{}
	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case ev, ok := <-fsW.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if t, seen := lastSeen[ev.Name]; seen && time.Since(t) < debounceInterval {
				continue
			}
			lastSeen[ev.Name] = time.Now()
			res, err := sess.Tags(nil, a.cfg.WatchTags, []string{ev.Name})
			if err != nil {
				// The session is unrecoverable after any call error.
				return err
			}
			a.logger.Info("metadata extracted", "file", ev.Name)
			fmt.Fprintln(cmd.OutOrStdout(), res.Raw)
		case err, ok := <-fsW.Errors:
			if !ok {
				return nil
			}
			a.logger.Error("watch error", "err", err)
		}
	}
}
