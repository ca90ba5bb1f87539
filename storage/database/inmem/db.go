// Package inmemdb implements the repositories in memory. Data is lost on exit.
package inmemdb

import (
	"sync"

	"github.com/academia/scipoints/core/activity"
	"github.com/academia/scipoints/core/researcher"
)

type DB struct {
	mutex       sync.RWMutex
	researchers map[string]*researcher.Researcher
	activities  map[string]*activity.Activity
}

func Open() *DB {
	return &DB{
		researchers: make(map[string]*researcher.Researcher),
		activities:  make(map[string]*activity.Activity),
	}
}

// Reset empties every table.
func (db *DB) Reset() {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.researchers = make(map[string]*researcher.Researcher)
	db.activities = make(map[string]*activity.Activity)
}
