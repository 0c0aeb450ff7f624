// Package watcher turns fsnotify events on one directory into core.Notification
// values delivered on a channel.
package watcher
