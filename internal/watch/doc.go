// SPDX-License-Identifier: MPL-2.0

// Package watch reports edits to a decomposed project.
//
// A Watcher registers every directory below the project root with fsnotify,
// collects changed paths until the project has been quiet for the debounce
// period and then hands them to a callback in one batch. Editor droppings and
// VCS metadata never trigger a callback.
package watch
