// Package inmemdb is an in-memory store used by tests and local tooling.
package inmemdb

import (
	"sync"

	"github.com/gradeboard/gradeboard/core/account"
	"github.com/gradeboard/gradeboard/core/student"
	"github.com/gradeboard/gradeboard/core/teacher"
)

type DB struct {
	mutex sync.RWMutex

	students []student.Student
	teachers []teacher.Teacher
	accounts map[string]*account.Account // keyed by ID
}

func Open() (*DB, error) {
	return &DB{
		accounts: make(map[string]*account.Account),
	}, nil
}
