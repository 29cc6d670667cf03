package events

import "github.com/vk/vesselbatch/internal/session"

type multi []session.Sink

// Multi fans every event out to sinks, in order. Nil sinks are skipped.
func Multi(sinks ...session.Sink) session.Sink {
	var m multi
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}

func (m multi) Lock(locked bool) {
	for _, s := range m {
		s.Lock(locked)
	}
}

func (m multi) Select(row int) {
	for _, s := range m {
		s.Select(row)
	}
}

func (m multi) Status(ev session.StatusEvent) {
	for _, s := range m {
		s.Status(ev)
	}
}

func (m multi) DiskSpace(requiredGB float64) {
	for _, s := range m {
		s.DiskSpace(requiredGB)
	}
}

func (m multi) State(id string, st session.State) {
	for _, s := range m {
		s.State(id, st)
	}
}
